package clover

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"

	"github.com/truckparts/backend/internal/domain"
	"github.com/truckparts/backend/internal/usecase"
)

// maxResponseSize caps how much of a Clover response body is read (10MB).
const maxResponseSize = 10 * 1024 * 1024

// pageSize is how many items one merchant items request returns at most.
const pageSize = 1000

// defaultTokenTTL is used when the token response carries no expires_in.
// Clover access tokens are long lived; the refresh skew in the credential
// store still forces a periodic rotation.
const defaultTokenTTL = 12 * time.Hour

// TokenSource provides valid access tokens for merchant accounts.
type TokenSource interface {
	AccessToken(ctx context.Context, provider domain.Provider, accountID string) (string, error)
	ForceRefresh(ctx context.Context, provider domain.Provider, accountID, staleToken string) (string, error)
}

// Config holds Clover API settings.
type Config struct {
	BaseURL   string
	AppID     string
	AppSecret string
	Timeout   time.Duration
}

// Client implements usecase.CatalogSource against the Clover merchant API.
// A 401 forces one token refresh through the credential store before the
// request is retried; transient failures are retried with backoff.
type Client struct {
	config     Config
	httpClient *http.Client
	tokens     TokenSource
}

// NewClient creates a new Clover API client.
func NewClient(config Config, tokens TokenSource) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
	}
}

type itemPayload struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	SKU     string `json:"sku"`
	Price   int64  `json:"price"`
	Hidden  bool   `json:"hidden"`
	Deleted bool   `json:"deleted"`
}

type itemPage struct {
	Elements []itemPayload `json:"elements"`
}

// Items lists all items of a merchant, paging through the catalog.
func (c *Client) Items(ctx context.Context, merchantID string) ([]usecase.CatalogItem, error) {
	token, err := c.tokens.AccessToken(ctx, domain.ProviderClover, merchantID)
	if err != nil {
		return nil, err
	}

	var items []usecase.CatalogItem

	for offset := 0; ; offset += pageSize {
		page, err := c.itemsPage(ctx, merchantID, &token, offset)
		if err != nil {
			return nil, err
		}

		for _, item := range page {
			items = append(items, usecase.CatalogItem{
				ExternalID: item.ID,
				Name:       item.Name,
				SKU:        item.SKU,
				Price:      decimal.NewFromInt(item.Price).Shift(-2),
				Hidden:     item.Hidden,
				Deleted:    item.Deleted,
			})
		}

		if len(page) < pageSize {
			return items, nil
		}
	}
}

// itemsPage fetches one page. token is passed by pointer so a refresh
// triggered by a 401 carries over to the following pages.
func (c *Client) itemsPage(ctx context.Context, merchantID string, token *string, offset int) ([]itemPayload, error) {
	reqURL := fmt.Sprintf("%s/v3/merchants/%s/items?limit=%d&offset=%d",
		c.config.BaseURL, url.PathEscape(merchantID), pageSize, offset)

	var page itemPage
	refreshed := false

	operation := func() error {
		status, body, err := c.get(ctx, reqURL, *token)
		if err != nil {
			return err
		}

		switch {
		case status == http.StatusUnauthorized:
			if refreshed {
				return backoff.Permanent(fmt.Errorf("clover: unauthorized for merchant %s", merchantID))
			}
			refreshed = true

			fresh, err := c.tokens.ForceRefresh(ctx, domain.ProviderClover, merchantID, *token)
			if err != nil {
				return backoff.Permanent(err)
			}
			*token = fresh

			return fmt.Errorf("clover: token refreshed, retrying")
		case status >= 500:
			return fmt.Errorf("clover: server error %d", status)
		case status != http.StatusOK:
			return backoff.Permanent(fmt.Errorf("clover: unexpected status %d: %s", status, strings.TrimSpace(string(body))))
		}

		if err := json.Unmarshal(body, &page); err != nil {
			return backoff.Permanent(fmt.Errorf("clover: decode items: %w", err))
		}

		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, b); err != nil {
		return nil, err
	}

	return page.Elements, nil
}

func (c *Client) get(ctx context.Context, reqURL, token string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return 0, nil, err
	}

	return resp.StatusCode, body, nil
}

// Refresher implements usecase.TokenRefresher for Clover OAuth tokens.
type Refresher struct {
	config     Config
	httpClient *http.Client
}

// NewRefresher creates a new Clover token refresher.
func NewRefresher(config Config) *Refresher {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Refresher{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Refresh exchanges the refresh token for a new access token.
func (r *Refresher) Refresh(ctx context.Context, credential *domain.Credential) (string, string, time.Time, error) {
	form := url.Values{
		"client_id":     {r.config.AppID},
		"client_secret": {r.config.AppSecret},
		"refresh_token": {credential.RefreshToken},
		"grant_type":    {"refresh_token"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		r.config.BaseURL+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", "", time.Time{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", "", time.Time{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", "", time.Time{}, err
	}

	if resp.StatusCode != http.StatusOK {
		return "", "", time.Time{}, fmt.Errorf("clover: token refresh failed with status %d", resp.StatusCode)
	}

	var tokens tokenResponse
	if err := json.Unmarshal(body, &tokens); err != nil {
		return "", "", time.Time{}, fmt.Errorf("clover: decode token response: %w", err)
	}
	if tokens.AccessToken == "" {
		return "", "", time.Time{}, fmt.Errorf("clover: token response has no access token")
	}

	ttl := defaultTokenTTL
	if tokens.ExpiresIn > 0 {
		ttl = time.Duration(tokens.ExpiresIn) * time.Second
	}

	return tokens.AccessToken, tokens.RefreshToken, time.Now().UTC().Add(ttl), nil
}

package quickbooks

import (
	"bytes"
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
)

// maxResponseSize caps how much of a QuickBooks response body is read (10MB).
const maxResponseSize = 10 * 1024 * 1024

// oauthTokenURL is Intuit's OAuth token endpoint, shared by sandbox and
// production companies.
const oauthTokenURL = "https://oauth.platform.intuit.com/oauth2/v1/tokens/bearer"

// TokenSource provides valid access tokens for QuickBooks companies.
type TokenSource interface {
	AccessToken(ctx context.Context, provider domain.Provider, accountID string) (string, error)
	ForceRefresh(ctx context.Context, provider domain.Provider, accountID, staleToken string) (string, error)
}

// Config holds QuickBooks API settings.
type Config struct {
	BaseURL      string
	RealmID      string
	ClientID     string
	ClientSecret string
	// CustomerRef and ItemRef identify the generic walk-in customer and
	// sales item the company uses for web orders.
	CustomerRef string
	ItemRef     string
	// TokenURL overrides Intuit's OAuth endpoint, for tests.
	TokenURL string
	Timeout  time.Duration
}

// Client implements usecase.AccountingGateway against the QuickBooks
// Online API. Documents are created under the configured realm; tokens
// come from the credential store keyed by that realm.
type Client struct {
	config     Config
	httpClient *http.Client
	tokens     TokenSource
}

// NewClient creates a new QuickBooks API client.
func NewClient(config Config, tokens TokenSource) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if config.CustomerRef == "" {
		config.CustomerRef = "1"
	}
	if config.ItemRef == "" {
		config.ItemRef = "1"
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
	}
}

type salesLineDetail struct {
	ItemRef   ref             `json:"ItemRef"`
	Qty       int64           `json:"Qty"`
	UnitPrice decimal.Decimal `json:"UnitPrice"`
}

type ref struct {
	Value string `json:"value"`
}

type salesLine struct {
	DetailType          string          `json:"DetailType"`
	Amount              decimal.Decimal `json:"Amount"`
	Description         string          `json:"Description,omitempty"`
	SalesItemLineDetail salesLineDetail `json:"SalesItemLineDetail"`
}

type salesDocument struct {
	Line        []salesLine `json:"Line"`
	CustomerRef ref         `json:"CustomerRef"`
}

// CreateInvoice creates an invoice for the order and returns its QuickBooks ID.
func (c *Client) CreateInvoice(ctx context.Context, order *domain.Order) (string, error) {
	return c.createDocument(ctx, "invoice", "Invoice", order)
}

// CreateSalesReceipt creates a sales receipt for the order and returns its
// QuickBooks ID.
func (c *Client) CreateSalesReceipt(ctx context.Context, order *domain.Order) (string, error) {
	return c.createDocument(ctx, "salesreceipt", "SalesReceipt", order)
}

func (c *Client) createDocument(ctx context.Context, endpoint, responseKey string, order *domain.Order) (string, error) {
	payload := salesDocument{
		Line:        make([]salesLine, 0, len(order.Items)),
		CustomerRef: ref{Value: c.config.CustomerRef},
	}

	for _, item := range order.Items {
		payload.Line = append(payload.Line, salesLine{
			DetailType:  "SalesItemLineDetail",
			Amount:      item.Subtotal(),
			Description: item.ProductName,
			SalesItemLineDetail: salesLineDetail{
				ItemRef:   ref{Value: c.config.ItemRef},
				Qty:       item.Quantity,
				UnitPrice: item.UnitPrice,
			},
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	reqURL := fmt.Sprintf("%s/v3/company/%s/%s", c.config.BaseURL, url.PathEscape(c.config.RealmID), endpoint)

	responseBody, err := c.do(ctx, http.MethodPost, reqURL, body)
	if err != nil {
		return "", err
	}

	var parsed map[string]struct {
		ID string `json:"Id"`
	}
	if err := json.Unmarshal(responseBody, &parsed); err != nil {
		return "", fmt.Errorf("quickbooks: decode %s response: %w", endpoint, err)
	}

	doc, ok := parsed[responseKey]
	if !ok || doc.ID == "" {
		return "", fmt.Errorf("quickbooks: %s response has no document id", endpoint)
	}

	return doc.ID, nil
}

// ItemQuantity returns the quantity on hand QuickBooks reports for an item.
func (c *Client) ItemQuantity(ctx context.Context, qbItemID string) (int64, error) {
	reqURL := fmt.Sprintf("%s/v3/company/%s/item/%s",
		c.config.BaseURL, url.PathEscape(c.config.RealmID), url.PathEscape(qbItemID))

	body, err := c.do(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, err
	}

	var parsed struct {
		Item struct {
			QtyOnHand float64 `json:"QtyOnHand"`
		} `json:"Item"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("quickbooks: decode item response: %w", err)
	}

	return int64(parsed.Item.QtyOnHand), nil
}

// do performs one authenticated request with backoff on transient failures
// and a single forced token refresh on 401.
func (c *Client) do(ctx context.Context, method, reqURL string, body []byte) ([]byte, error) {
	token, err := c.tokens.AccessToken(ctx, domain.ProviderQuickBooks, c.config.RealmID)
	if err != nil {
		return nil, err
	}

	var responseBody []byte
	refreshed := false

	operation := func() error {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		if err != nil {
			return err
		}

		switch {
		case resp.StatusCode == http.StatusUnauthorized:
			if refreshed {
				return backoff.Permanent(fmt.Errorf("quickbooks: unauthorized for realm %s", c.config.RealmID))
			}
			refreshed = true

			fresh, err := c.tokens.ForceRefresh(ctx, domain.ProviderQuickBooks, c.config.RealmID, token)
			if err != nil {
				return backoff.Permanent(err)
			}
			token = fresh

			return fmt.Errorf("quickbooks: token refreshed, retrying")
		case resp.StatusCode >= 500:
			return fmt.Errorf("quickbooks: server error %d", resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			return backoff.Permanent(fmt.Errorf("quickbooks: unexpected status %d: %s",
				resp.StatusCode, strings.TrimSpace(string(data))))
		}

		responseBody = data
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, b); err != nil {
		return nil, err
	}

	return responseBody, nil
}

// Refresher implements usecase.TokenRefresher for QuickBooks OAuth tokens.
// Intuit rotates the refresh token on every exchange.
type Refresher struct {
	config     Config
	httpClient *http.Client
}

// NewRefresher creates a new QuickBooks token refresher.
func NewRefresher(config Config) *Refresher {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if config.TokenURL == "" {
		config.TokenURL = oauthTokenURL
	}

	return &Refresher{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Refresh exchanges the refresh token for a new access token.
func (r *Refresher) Refresh(ctx context.Context, credential *domain.Credential) (string, string, time.Time, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {credential.RefreshToken},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.config.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", "", time.Time{}, err
	}
	req.SetBasicAuth(r.config.ClientID, r.config.ClientSecret)
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
		return "", "", time.Time{}, fmt.Errorf("quickbooks: token refresh failed with status %d", resp.StatusCode)
	}

	var tokens struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &tokens); err != nil {
		return "", "", time.Time{}, fmt.Errorf("quickbooks: decode token response: %w", err)
	}
	if tokens.AccessToken == "" {
		return "", "", time.Time{}, fmt.Errorf("quickbooks: token response has no access token")
	}

	expiresAt := time.Now().UTC().Add(time.Duration(tokens.ExpiresIn) * time.Second)

	return tokens.AccessToken, tokens.RefreshToken, expiresAt, nil
}

package domain

import "time"

// Provider identifies an external commerce platform.
type Provider string

const (
	ProviderClover     Provider = "clover"
	ProviderQuickBooks Provider = "quickbooks"
)

// Credential is one OAuth token set for one external account. Credentials
// are keyed by (provider, account): a Clover merchant ID or a QuickBooks
// realm ID. Refresh happens under a row lock so two concurrent callers
// cannot both refresh and race to persist.
type Credential struct {
	ID           string
	Provider     Provider
	AccountID    string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Expired reports whether the access token is past (or within skew of)
// its expiry at the given instant.
func (c *Credential) Expired(now time.Time, skew time.Duration) bool {
	return !now.Add(skew).Before(c.ExpiresAt)
}

// ValidProvider reports whether p is a supported provider.
func ValidProvider(p Provider) bool {
	return p == ProviderClover || p == ProviderQuickBooks
}

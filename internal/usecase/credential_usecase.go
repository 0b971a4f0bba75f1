package usecase

import (
	"context"
	"time"

	"github.com/truckparts/backend/internal/domain"
)

// CredentialUseCase manages OAuth credentials for external platforms,
// keyed by (provider, account): a Clover merchant or a QuickBooks realm.
// Expired tokens are refreshed under a row lock, so when two callers see
// an expired token at once only the first performs the refresh; the
// second re-reads the fresh token after the lock is released.
type CredentialUseCase struct {
	txManager      TransactionManager
	credentialRepo CredentialRepository
	refreshers     map[domain.Provider]TokenRefresher
	idGen          IDGenerator
	refreshSkew    time.Duration
}

// NewCredentialUseCase creates a new CredentialUseCase.
func NewCredentialUseCase(
	txManager TransactionManager,
	credentialRepo CredentialRepository,
	refreshers map[domain.Provider]TokenRefresher,
	idGen IDGenerator,
) *CredentialUseCase {
	return &CredentialUseCase{
		txManager:      txManager,
		credentialRepo: credentialRepo,
		refreshers:     refreshers,
		idGen:          idGen,
		refreshSkew:    TokenRefreshSkew,
	}
}

// ConnectInput represents a token set obtained out of band (the OAuth
// authorization flow happens outside this service).
type ConnectInput struct {
	Provider     domain.Provider
	AccountID    string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Connect stores or replaces the credential for an external account.
func (uc *CredentialUseCase) Connect(ctx context.Context, input ConnectInput) (*domain.Credential, error) {
	if !domain.ValidProvider(input.Provider) {
		return nil, domain.ErrCredentialNotFound
	}

	now := time.Now().UTC()
	credential := &domain.Credential{
		ID:           uc.idGen.Generate(),
		Provider:     input.Provider,
		AccountID:    input.AccountID,
		AccessToken:  input.AccessToken,
		RefreshToken: input.RefreshToken,
		ExpiresAt:    input.ExpiresAt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.credentialRepo.Upsert(ctx, credential); err != nil {
		return nil, err
	}

	return credential, nil
}

// AccessToken returns a valid access token for the account, refreshing it
// first if it is expired or about to expire.
func (uc *CredentialUseCase) AccessToken(ctx context.Context, provider domain.Provider, accountID string) (string, error) {
	credential, err := uc.credentialRepo.Get(ctx, provider, accountID)
	if err != nil {
		return "", err
	}

	if !credential.Expired(time.Now().UTC(), uc.refreshSkew) {
		return credential.AccessToken, nil
	}

	refreshed, err := uc.refresh(ctx, provider, accountID)
	if err != nil {
		return "", err
	}

	return refreshed.AccessToken, nil
}

// ForceRefresh refreshes the token even when it is not expired, for callers
// whose request came back 401 with a token the provider no longer accepts.
// staleToken is the rejected token; if another caller already replaced it
// the replacement is returned without a second refresh.
func (uc *CredentialUseCase) ForceRefresh(ctx context.Context, provider domain.Provider, accountID, staleToken string) (string, error) {
	refreshed, err := uc.refreshIf(ctx, provider, accountID, func(c *domain.Credential, _ time.Time) bool {
		return c.AccessToken == staleToken
	})
	if err != nil {
		return "", err
	}

	return refreshed.AccessToken, nil
}

func (uc *CredentialUseCase) refresh(ctx context.Context, provider domain.Provider, accountID string) (*domain.Credential, error) {
	return uc.refreshIf(ctx, provider, accountID, func(c *domain.Credential, now time.Time) bool {
		return c.Expired(now, uc.refreshSkew)
	})
}

// refreshIf refreshes the credential under a row lock. stale is re-evaluated
// after the lock is acquired, so a refresh finished by a concurrent caller
// while we waited is detected and reused instead of repeated.
func (uc *CredentialUseCase) refreshIf(ctx context.Context, provider domain.Provider, accountID string, stale func(*domain.Credential, time.Time) bool) (*domain.Credential, error) {
	refresher := uc.refreshers[provider]
	if refresher == nil {
		return nil, domain.ErrRefreshUnavailable
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	credential, err := uc.credentialRepo.GetForUpdate(txCtx, tx, provider, accountID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if !stale(credential, now) {
		if err := tx.Commit(txCtx); err != nil {
			return nil, err
		}

		return credential, nil
	}

	if credential.RefreshToken == "" {
		return nil, domain.ErrRefreshUnavailable
	}

	accessToken, refreshToken, expiresAt, err := refresher.Refresh(txCtx, credential)
	if err != nil {
		return nil, err
	}

	// Some providers do not rotate refresh tokens
	if refreshToken == "" {
		refreshToken = credential.RefreshToken
	}

	if err := uc.credentialRepo.UpdateTokens(txCtx, tx, credential.ID, accessToken, refreshToken, expiresAt, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	credential.AccessToken = accessToken
	credential.RefreshToken = refreshToken
	credential.ExpiresAt = expiresAt
	credential.UpdatedAt = now

	return credential, nil
}

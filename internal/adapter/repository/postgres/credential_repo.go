package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/truckparts/backend/internal/domain"
	"github.com/truckparts/backend/internal/usecase"
)

const credentialColumns = `id, provider, account_id, access_token, refresh_token, expires_at, created_at, updated_at`

// CredentialRepository implements usecase.CredentialRepository.
type CredentialRepository struct {
	pool *pgxpool.Pool
}

// NewCredentialRepository creates a new CredentialRepository.
func NewCredentialRepository(pool *pgxpool.Pool) *CredentialRepository {
	return &CredentialRepository{pool: pool}
}

// Upsert inserts or replaces the credential for a (provider, account) pair.
func (r *CredentialRepository) Upsert(ctx context.Context, credential *domain.Credential) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO credentials (id, provider, account_id, access_token, refresh_token, expires_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (provider, account_id) DO UPDATE
		 SET access_token = EXCLUDED.access_token,
		     refresh_token = EXCLUDED.refresh_token,
		     expires_at = EXCLUDED.expires_at,
		     updated_at = EXCLUDED.updated_at`,
		credential.ID, string(credential.Provider), credential.AccountID,
		credential.AccessToken, credential.RefreshToken,
		timeToPgTimestamptz(credential.ExpiresAt),
		timeToPgTimestamptz(credential.CreatedAt),
		timeToPgTimestamptz(credential.UpdatedAt),
	)

	return err
}

// Get retrieves a credential without locking.
func (r *CredentialRepository) Get(ctx context.Context, provider domain.Provider, accountID string) (*domain.Credential, error) {
	return scanCredential(r.pool.QueryRow(ctx,
		`SELECT `+credentialColumns+` FROM credentials WHERE provider = $1 AND account_id = $2`,
		string(provider), accountID,
	))
}

// GetForUpdate retrieves a credential with a FOR UPDATE lock, serializing
// concurrent token refreshes for the same account.
func (r *CredentialRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, provider domain.Provider, accountID string) (*domain.Credential, error) {
	return scanCredential(txQuerier(tx).QueryRow(ctx,
		`SELECT `+credentialColumns+` FROM credentials WHERE provider = $1 AND account_id = $2 FOR UPDATE`,
		string(provider), accountID,
	))
}

// UpdateTokens persists a refreshed token set.
func (r *CredentialRepository) UpdateTokens(ctx context.Context, tx usecase.Transaction, id, accessToken, refreshToken string, expiresAt, updatedAt time.Time) error {
	tag, err := txQuerier(tx).Exec(ctx,
		`UPDATE credentials
		 SET access_token = $2, refresh_token = $3, expires_at = $4, updated_at = $5
		 WHERE id = $1`,
		id, accessToken, refreshToken,
		timeToPgTimestamptz(expiresAt), timeToPgTimestamptz(updatedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrCredentialNotFound
	}

	return nil
}

// ListByProvider returns all credentials for a provider.
func (r *CredentialRepository) ListByProvider(ctx context.Context, provider domain.Provider) ([]*domain.Credential, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+credentialColumns+` FROM credentials WHERE provider = $1 ORDER BY account_id`,
		string(provider),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var credentials []*domain.Credential
	for rows.Next() {
		credential, err := scanCredentialFrom(rows)
		if err != nil {
			return nil, err
		}
		credentials = append(credentials, credential)
	}

	return credentials, rows.Err()
}

func scanCredential(row pgx.Row) (*domain.Credential, error) {
	credential, err := scanCredentialFrom(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCredentialNotFound
		}

		return nil, err
	}

	return credential, nil
}

func scanCredentialFrom(row pgx.Row) (*domain.Credential, error) {
	var (
		c        domain.Credential
		provider string
	)

	err := row.Scan(&c.ID, &provider, &c.AccountID, &c.AccessToken, &c.RefreshToken,
		&c.ExpiresAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	c.Provider = domain.Provider(provider)

	return &c, nil
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MikeHapkidoIn/martial-arts-project/pkg/database"
)

// newTokenID generates the primary key for a ledger row.
var newTokenID = func() string { return uuid.New().String() }

// RefreshTokenRepository implements repository.RefreshTokenRepository using
// PostgreSQL. Each row is one ledger entry; tokens are stored by digest.
type RefreshTokenRepository struct {
	db database.DBTX
}

// NewRefreshTokenRepository creates a new PostgreSQL-backed refresh token repository.
func NewRefreshTokenRepository(db database.DBTX) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

// Add records a newly issued token and trims the ledger in the same
// statement: entries past the passive-expiry window and entries beyond the
// four most recent are removed before the insert, so the ledger never holds
// more than five live tokens. Doing both in one statement keeps concurrent
// issues from overshooting the bound.
func (r *RefreshTokenRepository) Add(ctx context.Context, userID, tokenHash string, issuedAt time.Time) error {
	query := `
		WITH pruned AS (
			DELETE FROM refresh_tokens
			WHERE user_id = $2
			  AND (issued_at <= $4::timestamptz - interval '30 days'
			       OR id NOT IN (
					SELECT id FROM refresh_tokens
					WHERE user_id = $2
					ORDER BY issued_at DESC
					LIMIT 4
			       ))
		)
		INSERT INTO refresh_tokens (id, user_id, token_hash, issued_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query, newTokenID(), userID, tokenHash, issuedAt)
	if err != nil {
		return fmt.Errorf("add refresh token: %w", err)
	}

	return nil
}

// Revoke removes one matching ledger entry. Revoking an absent token is
// not an error.
func (r *RefreshTokenRepository) Revoke(ctx context.Context, userID, tokenHash string) error {
	query := `DELETE FROM refresh_tokens WHERE user_id = $1 AND token_hash = $2`

	if _, err := r.db.Exec(ctx, query, userID, tokenHash); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}

	return nil
}

// RevokeAll clears the ledger for the given user.
func (r *RefreshTokenRepository) RevokeAll(ctx context.Context, userID string) error {
	query := `DELETE FROM refresh_tokens WHERE user_id = $1`

	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("revoke all refresh tokens: %w", err)
	}

	return nil
}

// IsValid reports whether a token digest is present in the ledger and was
// issued within the passive-expiry window. Physically present but expired
// entries count as absent.
func (r *RefreshTokenRepository) IsValid(ctx context.Context, userID, tokenHash string, now time.Time) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM refresh_tokens
			WHERE user_id = $1 AND token_hash = $2
			  AND issued_at > $3::timestamptz - interval '30 days'
		)`

	var valid bool
	if err := r.db.QueryRow(ctx, query, userID, tokenHash, now).Scan(&valid); err != nil {
		return false, fmt.Errorf("check refresh token validity: %w", err)
	}

	return valid, nil
}

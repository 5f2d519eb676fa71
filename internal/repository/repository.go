package repository

import (
	"context"
	"time"

	"github.com/MikeHapkidoIn/martial-arts-project/internal/domain"
)

// UserRepository defines the interface for account persistence operations.
//
// The lockout and single-use token mutations are deliberately expressed as
// single store-level operations rather than get/modify/save sequences:
// concurrent requests against the same account must not lose an increment
// or consume a token twice.
type UserRepository interface {
	// Create inserts a new user into the store.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by their email address (case-insensitive).
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update modifies an existing user's profile fields in the store.
	Update(ctx context.Context, user *domain.User) error

	// List returns a page of users, optionally filtered by a search term
	// (matched against name and email) and role, plus the total count.
	List(ctx context.Context, search, role string, limit, offset int) ([]domain.User, int, error)

	// RecordFailedLogin applies one failed-login transition atomically:
	// an expired lock resets the window, otherwise the counter increments
	// and a lock is set when the threshold is reached. Returns the
	// resulting lock expiry, nil if the account is not locked.
	RecordFailedLogin(ctx context.Context, id string, now time.Time) (*time.Time, error)

	// RecordSuccessfulLogin clears the lockout state unconditionally and
	// stamps last_login.
	RecordSuccessfulLogin(ctx context.Context, id string, now time.Time) error

	// UpdatePassword replaces the stored password digest.
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// SetResetToken stores the password-reset token digest and expiry,
	// overwriting any outstanding one.
	SetResetToken(ctx context.Context, id, digest string, expiresAt time.Time) error

	// ClearResetToken removes the outstanding password-reset token, if any.
	ClearResetToken(ctx context.Context, id string) error

	// ConsumeResetToken atomically consumes an unexpired reset token
	// matching the digest, replacing the password and clearing the token
	// fields. Returns the affected user, or ErrNotFound if no matching
	// live token exists.
	ConsumeResetToken(ctx context.Context, digest, passwordHash string, now time.Time) (*domain.User, error)

	// SetVerifyToken stores the email-verification token digest and
	// expiry, overwriting any outstanding one.
	SetVerifyToken(ctx context.Context, id, digest string, expiresAt time.Time) error

	// ConsumeVerifyToken atomically consumes an unexpired verification
	// token matching the digest, marking the email verified and clearing
	// the token fields. Returns the affected user, or ErrNotFound if no
	// matching live token exists.
	ConsumeVerifyToken(ctx context.Context, digest string, now time.Time) (*domain.User, error)

	// UpdateRole changes a user's role.
	UpdateRole(ctx context.Context, id, role string) error

	// SetActive toggles the account's active flag.
	SetActive(ctx context.Context, id string, active bool) error

	// AdminExists reports whether at least one admin account exists.
	AdminExists(ctx context.Context) (bool, error)

	// Stats returns aggregate account counts: total, active, verified,
	// and a per-role breakdown.
	Stats(ctx context.Context) (*domain.AccountStats, error)
}

// RefreshTokenRepository defines the per-account refresh-token ledger.
// Tokens are stored by SHA-256 digest; an entry is live when it was issued
// within the passive-expiry window and has not been revoked.
type RefreshTokenRepository interface {
	// Add records a newly issued token and trims the ledger so at most
	// the five most recently issued entries remain. Entries past the
	// passive-expiry window are pruned opportunistically in the same
	// statement.
	Add(ctx context.Context, userID, tokenHash string, issuedAt time.Time) error

	// Revoke removes one matching entry. It is idempotent: revoking an
	// absent token is not an error.
	Revoke(ctx context.Context, userID, tokenHash string) error

	// RevokeAll clears the ledger for the given user.
	RevokeAll(ctx context.Context, userID string) error

	// IsValid reports whether a token digest is present in the ledger and
	// within the passive-expiry window.
	IsValid(ctx context.Context, userID, tokenHash string, now time.Time) (bool, error)
}

// MartialArtRepository defines the interface for catalog persistence operations.
type MartialArtRepository interface {
	// Create inserts a new martial art into the store.
	Create(ctx context.Context, art *domain.MartialArt) error

	// GetByID retrieves a martial art by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.MartialArt, error)

	// GetBySlug retrieves a martial art by its URL slug.
	GetBySlug(ctx context.Context, slug string) (*domain.MartialArt, error)

	// List returns a page of martial arts, optionally filtered by a
	// search term and type, plus the total count.
	List(ctx context.Context, search, artType string, limit, offset int) ([]domain.MartialArt, int, error)

	// ListByIDs returns the martial arts matching the given identifiers.
	// Unknown identifiers are simply absent from the result.
	ListByIDs(ctx context.Context, ids []string) ([]domain.MartialArt, error)

	// Update modifies an existing martial art in the store.
	Update(ctx context.Context, art *domain.MartialArt) error

	// Delete removes a martial art from the store by its identifier.
	Delete(ctx context.Context, id string) error
}

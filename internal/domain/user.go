package domain

import (
	"time"
)

// User represents a registered account in the system.
//
// Lockout, single-use token, and credential fields are never serialized
// outward; they only travel between the service and the store.
type User struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	PasswordHash  string `json:"-"`
	Name          string `json:"name"`
	Role          string `json:"role"`
	IsActive      bool   `json:"is_active"`
	EmailVerified bool   `json:"email_verified"`

	// Lockout state. FailedAttempts counts consecutive failed logins;
	// LockedUntil is set once the threshold is reached.
	FailedAttempts int        `json:"-"`
	LockedUntil    *time.Time `json:"-"`

	// Single-use token state. One outstanding token per purpose; issuing a
	// new one overwrites the previous digest and expiry.
	ResetTokenDigest  string     `json:"-"`
	ResetExpiresAt    *time.Time `json:"-"`
	VerifyTokenDigest string     `json:"-"`
	VerifyExpiresAt   *time.Time `json:"-"`

	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Locked reports whether the account lockout is active at the given instant.
// Pure read; it performs no mutation.
func (u *User) Locked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}

// RefreshToken represents one entry in an account's refresh-token ledger.
// Only the SHA-256 digest of the token is stored, never the token itself.
type RefreshToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"-"`
	IssuedAt  time.Time `json:"issued_at"`
}

// AccountStats holds aggregate account counts as read from the store.
type AccountStats struct {
	Total    int            `json:"total"`
	Active   int            `json:"active"`
	Verified int            `json:"verified"`
	ByRole   map[string]int `json:"by_role"`
}

// TokenPair holds an access and refresh token pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

const (
	// LockoutThreshold is the number of consecutive failed logins that
	// triggers a lock.
	LockoutThreshold = 5

	// LockoutDuration is how long an account stays locked.
	LockoutDuration = 2 * time.Hour

	// MaxRefreshTokens bounds the per-account ledger; issuing beyond the
	// bound drops the oldest entry.
	MaxRefreshTokens = 5

	// RefreshTokenMaxAge is the passive expiry applied to ledger entries
	// regardless of list membership.
	RefreshTokenMaxAge = 30 * 24 * time.Hour
)

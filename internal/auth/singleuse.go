package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Single-use token lifetimes. Reset tokens are deliberately short-lived;
// verification links arrive by email and get a full day.
const (
	ResetTokenTTL  = 10 * time.Minute
	VerifyTokenTTL = 24 * time.Hour
)

// singleUseTokenBytes is the entropy of a single-use secret (160 bits).
const singleUseTokenBytes = 20

// IssueSingleUse generates a random single-use secret. The plaintext secret
// is returned exactly once for embedding in an email link; only its SHA-256
// digest and the expiry are meant to be persisted.
func IssueSingleUse(ttl time.Duration) (secret, digest string, expiresAt time.Time, err error) {
	buf := make([]byte, singleUseTokenBytes)
	if _, err = rand.Read(buf); err != nil {
		return "", "", time.Time{}, fmt.Errorf("generate single-use token: %w", err)
	}

	secret = hex.EncodeToString(buf)
	digest = HashToken(secret)
	expiresAt = time.Now().UTC().Add(ttl)
	return secret, digest, expiresAt, nil
}

// HashToken returns the SHA256 hex digest of the given token string.
// Consumption happens store-side: the repositories match this digest and
// clear the stored fields in one conditional update.
func HashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

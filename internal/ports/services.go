package ports

import (
	"context"
	"time"
)

// TokenClaims carries the identity embedded in an access token.
type TokenClaims struct {
	UserID         string
	OrganizationID string
}

// TokenService defines the interface for access and refresh token handling
type TokenService interface {
	// GenerateAccessToken signs a short-lived access token for the claims
	GenerateAccessToken(claims TokenClaims) (string, error)

	// GenerateRefreshToken produces a cryptographically random opaque token
	GenerateRefreshToken() (string, error)

	// ValidateAccessToken parses and verifies an access token
	ValidateAccessToken(token string) (*TokenClaims, error)
}

// PasswordService defines the interface for password hashing
type PasswordService interface {
	// HashPassword hashes a plaintext password
	HashPassword(password string) (string, error)

	// ComparePassword compares a hash against a plaintext password,
	// returning an error on mismatch
	ComparePassword(hashedPassword, password string) error
}

// DealLocker serializes stage-history writes per deal. The "find last entry,
// compute duration, insert" sequence is not atomic on its own; two concurrent
// writers for the same deal would both read the same last entry and produce
// inconsistent durations. Lock blocks until the deal's lock is acquired or
// the context is done, and returns the release function.
type DealLocker interface {
	Lock(ctx context.Context, dealID string) (func(), error)
}

// TxManager runs a function within a single storage transaction. Repository
// calls made with the context passed to fn join that transaction, so a deal
// update and its history entry commit together or not at all.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// RateLimiter defines the interface for request rate limiting
type RateLimiter interface {
	// Allow reports whether another attempt is permitted for key within the
	// window, incrementing the attempt counter
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

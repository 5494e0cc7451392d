package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account that can authenticate against the API.
type User struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organizationId"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NewUser creates a new user with an already-hashed password
func NewUser(organizationID, name, email, passwordHash string) *User {
	return &User{
		ID:             uuid.NewString(),
		OrganizationID: organizationID,
		Name:           name,
		Email:          email,
		PasswordHash:   passwordHash,
		CreatedAt:      time.Now(),
	}
}

// RefreshToken is a long-lived opaque token exchanged for new access tokens.
type RefreshToken struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	Revoked   bool       `json:"revoked"`
	Device    *string    `json:"device,omitempty"`
	IPAddress *string    `json:"ipAddress,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// NewRefreshToken creates a refresh token record for a user
func NewRefreshToken(userID, token string, expiresAt time.Time) *RefreshToken {
	return &RefreshToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
}

// Expired reports whether the token is past its expiry.
func (t *RefreshToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

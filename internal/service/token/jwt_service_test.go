package token

import (
	"testing"
	"time"

	"github.com/salesdeck/salesdeck/internal/ports"
)

func TestJWTService(t *testing.T) {
	service, err := NewJWTService("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("Failed to create JWT service: %v", err)
	}

	t.Run("GenerateAccessToken", func(t *testing.T) {
		token, err := service.GenerateAccessToken(ports.TokenClaims{UserID: "user-123", OrganizationID: "org-456"})
		if err != nil {
			t.Errorf("Failed to generate access token: %v", err)
		}
		if token == "" {
			t.Error("Access token should not be empty")
		}
	})

	t.Run("GenerateRefreshToken", func(t *testing.T) {
		token, err := service.GenerateRefreshToken()
		if err != nil {
			t.Errorf("Failed to generate refresh token: %v", err)
		}
		if token == "" {
			t.Error("Refresh token should not be empty")
		}

		other, err := service.GenerateRefreshToken()
		if err != nil {
			t.Errorf("Failed to generate second refresh token: %v", err)
		}
		if token == other {
			t.Error("Refresh tokens should be unique")
		}
	})

	t.Run("ValidateAccessToken", func(t *testing.T) {
		tokenString, err := service.GenerateAccessToken(ports.TokenClaims{UserID: "user-123", OrganizationID: "org-456"})
		if err != nil {
			t.Fatalf("Failed to generate token: %v", err)
		}

		claims, err := service.ValidateAccessToken(tokenString)
		if err != nil {
			t.Fatalf("Failed to validate token: %v", err)
		}
		if claims.UserID != "user-123" {
			t.Errorf("Expected user ID 'user-123', got '%s'", claims.UserID)
		}
		if claims.OrganizationID != "org-456" {
			t.Errorf("Expected organization ID 'org-456', got '%s'", claims.OrganizationID)
		}
	})

	t.Run("ValidateInvalidToken", func(t *testing.T) {
		if _, err := service.ValidateAccessToken("not-a-token"); err != ErrInvalidToken {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("ValidateWrongSecret", func(t *testing.T) {
		other, err := NewJWTService("other-secret", time.Hour)
		if err != nil {
			t.Fatalf("Failed to create JWT service: %v", err)
		}
		tokenString, err := other.GenerateAccessToken(ports.TokenClaims{UserID: "user-123"})
		if err != nil {
			t.Fatalf("Failed to generate token: %v", err)
		}

		if _, err := service.ValidateAccessToken(tokenString); err != ErrInvalidToken {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("ValidateExpiredToken", func(t *testing.T) {
		expired, err := NewJWTService("test-secret", -time.Minute)
		if err != nil {
			t.Fatalf("Failed to create JWT service: %v", err)
		}
		tokenString, err := expired.GenerateAccessToken(ports.TokenClaims{UserID: "user-123"})
		if err != nil {
			t.Fatalf("Failed to generate token: %v", err)
		}

		if _, err := service.ValidateAccessToken(tokenString); err != ErrTokenExpired {
			t.Errorf("Expected ErrTokenExpired, got %v", err)
		}
	})
}

func TestNewJWTService_RequiresSecret(t *testing.T) {
	if _, err := NewJWTService("", time.Hour); err == nil {
		t.Error("Should fail without a secret")
	}
}

package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/salesdeck/salesdeck/internal/ports"
	"github.com/salesdeck/salesdeck/pkg/apperror"
)

type claimsKey struct{}

// AuthMiddleware validates bearer tokens and injects the caller's identity
// into the request context.
type AuthMiddleware struct {
	tokens ports.TokenService
	logger *logrus.Logger
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(tokens ports.TokenService, logger *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, logger: logger}
}

// Handler wraps next with bearer token authentication
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			writeError(w, m.logger, apperror.NewUnauthorized("Missing bearer token"))
			return
		}

		claims, err := m.tokens.ValidateAccessToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			writeError(w, m.logger, apperror.NewUnauthorized("Invalid or expired token"))
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// claimsFrom extracts the authenticated identity from the request context.
// It only returns nil on routes that bypassed the auth middleware.
func claimsFrom(r *http.Request) *ports.TokenClaims {
	claims, _ := r.Context().Value(claimsKey{}).(*ports.TokenClaims)
	return claims
}

package http

import (
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/salesdeck/salesdeck/internal/ports"
	"github.com/salesdeck/salesdeck/internal/usecase"
	"github.com/salesdeck/salesdeck/pkg/apperror"
)

// AuthHandler handles HTTP requests for authentication
type AuthHandler struct {
	authUseCase *usecase.AuthUseCase
	limiter     ports.RateLimiter
	loginLimit  int
	loginWindow time.Duration
	logger      *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUseCase *usecase.AuthUseCase, limiter ports.RateLimiter, loginLimit int, loginWindow time.Duration, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
		limiter:     limiter,
		loginLimit:  loginLimit,
		loginWindow: loginWindow,
		logger:      logger,
	}
}

// RegisterRoutes registers the public auth routes
func (h *AuthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/auth/register", h.Register).Methods("POST")
	router.HandleFunc("/api/v1/auth/login", h.Login).Methods("POST")
	router.HandleFunc("/api/v1/auth/refresh", h.Refresh).Methods("POST")
	router.HandleFunc("/api/v1/auth/logout", h.Logout).Methods("POST")
}

// RegisterProtectedRoutes registers routes that require authentication
func (h *AuthHandler) RegisterProtectedRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/users/me", h.Me).Methods("GET")
}

// Register handles account registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in usecase.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	resp, err := h.authUseCase.Register(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Login handles authentication, rate limited per client address
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	allowed, err := h.limiter.Allow(r.Context(), "login:"+clientIP(r), h.loginLimit, h.loginWindow)
	if err != nil {
		h.logger.WithError(err).Warn("Rate limiter unavailable, allowing request")
	} else if !allowed {
		writeError(w, h.logger, apperror.ErrTooManyRequest)
		return
	}

	var in usecase.LoginInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	resp, err := h.authUseCase.Login(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Refresh handles refresh token rotation
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var in struct {
		RefreshToken string `json:"refreshToken" validate:"required"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	resp, err := h.authUseCase.Refresh(r.Context(), in.RefreshToken)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Logout handles refresh token revocation
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var in struct {
		RefreshToken string `json:"refreshToken" validate:"required"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.authUseCase.Logout(r.Context(), in.RefreshToken); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	user, err := h.authUseCase.Me(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

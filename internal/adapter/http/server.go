package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Server represents the HTTP server
type Server struct {
	addr   string
	server *http.Server
	logger *logrus.Logger
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	CORSOrigins  []string
}

// Handlers groups everything the router exposes
type Handlers struct {
	Auth         *AuthHandler
	Deal         *DealHandler
	History      *HistoryHandler
	Contact      *ContactHandler
	Workflow     *WorkflowHandler
	Organization *OrganizationHandler
}

// NewServer creates a new HTTP server
func NewServer(config ServerConfig, handlers Handlers, authMW *AuthMiddleware, logger *logrus.Logger) *Server {
	router := mux.NewRouter()

	router.Use(loggingMiddleware(logger))
	router.Use(corsMiddleware(config.CORSOrigins))
	router.Use(recoveryMiddleware(logger))

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Public routes
	handlers.Auth.RegisterRoutes(router)

	// Protected routes
	protected := router.NewRoute().Subrouter()
	protected.Use(authMW.Handler)
	handlers.Auth.RegisterProtectedRoutes(protected)
	handlers.Deal.RegisterRoutes(protected)
	handlers.History.RegisterRoutes(protected)
	handlers.Contact.RegisterRoutes(protected)
	handlers.Workflow.RegisterRoutes(protected)
	handlers.Organization.RegisterRoutes(protected)

	return &Server{
		addr:   ":" + config.Port,
		logger: logger,
		server: &http.Server{
			Addr:         ":" + config.Port,
			Handler:      router,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
		},
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.WithField("addr", s.addr).Info("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Middleware

func loggingMiddleware(logger *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"remote":   r.RemoteAddr,
				"duration": time.Since(start).String(),
			}).Info("Request handled")
		})
	}
}

func corsMiddleware(origins []string) mux.MiddlewareFunc {
	allowed := "*"
	if len(origins) > 0 {
		allowed = strings.Join(origins, ", ")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowed)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func recoveryMiddleware(logger *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.WithField("panic", err).Error("Panic recovered")
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

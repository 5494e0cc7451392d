package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	httpadapter "github.com/salesdeck/salesdeck/internal/adapter/http"
	"github.com/salesdeck/salesdeck/internal/adapter/lock"
	"github.com/salesdeck/salesdeck/internal/adapter/persistence"
	"github.com/salesdeck/salesdeck/internal/config"
	"github.com/salesdeck/salesdeck/internal/ports"
	"github.com/salesdeck/salesdeck/internal/service/password"
	"github.com/salesdeck/salesdeck/internal/service/ratelimit"
	"github.com/salesdeck/salesdeck/internal/service/token"
	"github.com/salesdeck/salesdeck/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := newLogger(cfg)
	logger.WithField("environment", cfg.Server.Environment).Info("Starting SalesDeck CRM")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := persistence.Open(ctx, persistence.Config{
		Host:           cfg.Database.Host,
		Port:           cfg.Database.Port,
		User:           cfg.Database.User,
		Password:       cfg.Database.Password,
		DBName:         cfg.Database.DBName,
		SSLMode:        cfg.Database.SSLMode,
		MaxConnections: cfg.Database.MaxConnections,
		MaxIdleTime:    cfg.Database.MaxIdleTime,
		ConnectTimeout: cfg.Database.ConnectTimeout,
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Redis backs the distributed deal lock and login rate limiting. Without
	// it the server falls back to in-process equivalents, which are only
	// correct for a single instance.
	var (
		locker  ports.DealLocker
		limiter ports.RateLimiter
	)
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		pingCtx, pingCancel := context.WithTimeout(ctx, cfg.Redis.Timeout)
		if err := client.Ping(pingCtx).Err(); err != nil {
			pingCancel()
			logger.WithError(err).Fatal("Failed to connect to Redis")
		}
		pingCancel()
		defer client.Close()

		locker = lock.NewRedisDealLocker(client, logger)
		limiter = ratelimit.NewRedisRateLimiter(client, logger)
		logger.Info("Redis connection established")
	} else {
		locker = lock.NewMemoryDealLocker()
		limiter = ratelimit.NewNoopRateLimiter()
		logger.Warn("Redis disabled, using in-process deal locks")
	}

	// Repositories
	orgRepo := persistence.NewPostgresOrganizationRepository(db)
	userRepo := persistence.NewPostgresUserRepository(db)
	refreshRepo := persistence.NewPostgresRefreshTokenRepository(db)
	contactRepo := persistence.NewPostgresContactRepository(db)
	workflowRepo := persistence.NewPostgresWorkflowRepository(db)
	dealRepo := persistence.NewPostgresDealRepository(db)
	historyRepo := persistence.NewPostgresStageHistoryRepository(db)
	txManager := persistence.NewTxManager(db)

	// Services
	tokenService, err := token.NewJWTService(cfg.Security.JWTSecret, cfg.Security.AccessTokenTTL)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize token service")
	}
	passwordService := password.NewBcryptService(cfg.Security.BcryptCost)

	// Use cases
	historyUC := usecase.NewStageHistoryUseCase(historyRepo, locker, logger)
	analyticsUC := usecase.NewAnalyticsUseCase(dealRepo, historyRepo)
	dealUC := usecase.NewDealUseCase(dealRepo, historyUC, locker, txManager, logger)
	authUC := usecase.NewAuthUseCase(userRepo, orgRepo, workflowRepo, refreshRepo, tokenService, passwordService, txManager, logger)
	contactUC := usecase.NewContactUseCase(contactRepo)
	workflowUC := usecase.NewWorkflowUseCase(workflowRepo)
	orgUC := usecase.NewOrganizationUseCase(orgRepo, userRepo)

	loginLimit := cfg.RateLimit.Requests
	if !cfg.RateLimit.Enabled {
		limiter = ratelimit.NewNoopRateLimiter()
	}

	handlers := httpadapter.Handlers{
		Auth:         httpadapter.NewAuthHandler(authUC, limiter, loginLimit, cfg.RateLimit.Window, logger),
		Deal:         httpadapter.NewDealHandler(dealUC, logger),
		History:      httpadapter.NewHistoryHandler(dealUC, historyUC, analyticsUC, logger),
		Contact:      httpadapter.NewContactHandler(contactUC, logger),
		Workflow:     httpadapter.NewWorkflowHandler(workflowUC, logger),
		Organization: httpadapter.NewOrganizationHandler(orgUC, logger),
	}
	authMW := httpadapter.NewAuthMiddleware(tokenService, logger)

	server := httpadapter.NewServer(httpadapter.ServerConfig{
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		CORSOrigins:  cfg.Server.CORSOrigins,
	}, handlers, authMW, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.WithError(err).Fatal("HTTP server failed")
	case sig := <-sigCh:
		logger.WithField("signal", sig.String()).Info("Shutdown signal received")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Graceful shutdown failed")
	}
}

func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(strings.ToLower(cfg.Logging.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger
}

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-blog-api/internal/config"
	"go-blog-api/internal/database"
	"go-blog-api/internal/handler"
	"go-blog-api/internal/logger"
	"go-blog-api/internal/metrics"
	"go-blog-api/internal/middleware"
	"go-blog-api/internal/repository"
	"go-blog-api/internal/router"
	"go-blog-api/internal/service"
)

type App struct {
	server       *http.Server
	log          *slog.Logger
	cleanupFuncs []func()
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(os.Stdout, cfg.LogFormat, logger.ParseLevel(cfg.LogLevel))
	slog.SetDefault(log)

	log.Info("connecting to PostgreSQL")
	db, err := database.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	userRepo := repository.NewUserRepository(db.Pool)
	tokenRepo := repository.NewTokenRepository(db.Pool)
	log.Info("database ready")

	hasher := service.NewPasswordHasher(cfg.BcryptCost)
	authService, err := service.NewAuthService(
		service.TokenConfig{
			AccessSecret:  cfg.JWTAccessSecret,
			RefreshSecret: cfg.JWTRefreshSecret,
			AccessTTL:     cfg.JWTAccessTTL.Std(),
			RefreshTTL:    cfg.JWTRefreshTTL.Std(),
		},
		userRepo,
		hasher,
		service.NewTokenSigner(),
		service.NewRefreshTokenStore(tokenRepo, hasher, cfg.RefreshDigestKey),
		service.NewCredentialVerifier(userRepo, hasher),
	)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
		m.WatchPool(db)
		authService.SetRecorder(m)
	}

	appRouter := router.New(cfg, log, middleware.NewAuthMiddleware(authService), router.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		Health: handler.NewHealthHandler(db),
	}, m)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout.Std(),
		WriteTimeout:      cfg.ServerWriteTimeout.Std(),
		IdleTimeout:       cfg.ServerIdleTimeout.Std(),
	}

	return &App{
		server: server,
		log:    log,
		cleanupFuncs: []func(){
			db.Close,
		},
	}, nil
}

// Run serves until SIGINT/SIGTERM and then drains in-flight requests
// before closing the database pool.
func (a *App) Run() error {
	serveErr := make(chan error, 1)
	go func() {
		a.log.Info("server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-serveErr:
		a.cleanup()
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-stop:
		a.log.Info("shutdown requested", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	shutdownErr := a.server.Shutdown(ctx)
	a.cleanup()
	if shutdownErr != nil {
		return fmt.Errorf("graceful shutdown failed: %w", shutdownErr)
	}

	a.log.Info("server stopped")
	return nil
}

func (a *App) cleanup() {
	for _, fn := range a.cleanupFuncs {
		fn()
	}
}

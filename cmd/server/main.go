package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/garnizeh/devconnect/api"
	dbfs "github.com/garnizeh/devconnect/db"
	"github.com/garnizeh/devconnect/internal/config"
	"github.com/garnizeh/devconnect/internal/db"
	"github.com/garnizeh/devconnect/internal/repository/postgres"
	"github.com/garnizeh/devconnect/internal/repository/sqlite"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to config YAML file")
		envFile    = flag.String("env", ".env", "Path to an optional .env file")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("service", "devconnect"))
	slog.SetDefault(logger)
	api.SetLogger(logger)

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("failed to load env file", slog.String("path", *envFile), slog.Any("err", err))
	}

	if err := run(*configPath, logger); err != nil {
		logger.Error("server stopped", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(configPath string, logger *slog.Logger) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger.Info("starting devconnect server", slog.String("version", version), slog.String("build_time", buildTime))

	ctx := context.Background()

	// Open database connection
	dbCtx, dbCancel := context.WithTimeout(ctx, cfg.APITimeout)
	defer dbCancel()

	conn, err := db.New(dbCtx, cfg.Database.Driver, cfg.DSN(), logger)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Error("error closing db", slog.Any("err", err))
		}
	}()

	if cfg.MigrateOnStart {
		if err := db.Migrate(dbCtx, conn, dbfs.Migrations); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	store, err := openStore(conn, logger)
	if err != nil {
		return err
	}

	limiter := openLimiter(cfg.RateLimit, logger)
	defer limiter.Close()

	handler := api.SetupRoutes(cfg, version, buildTime, store, limiter)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}
	logger.Info("shutting down server")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	logger.Info("server exited")
	return nil
}

func openStore(conn *db.DB, logger *slog.Logger) (api.Store, error) {
	if conn.Driver() == db.DriverPostgres {
		return postgres.New(conn.Pool(), logger)
	}
	return sqlite.New(conn, logger), nil
}

// openLimiter prefers the shared Redis limiter and falls back to process memory when
// Redis is not configured or not reachable.
func openLimiter(cfg config.RateLimitConfig, logger *slog.Logger) api.RateLimiter {
	if cfg.RedisAddr != "" {
		rl, err := api.NewRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.Requests, cfg.Window, logger)
		if err == nil {
			logger.Info("rate limiter: redis", slog.String("addr", cfg.RedisAddr))
			return rl
		}
		logger.Warn("redis unavailable, using in-memory rate limiter", slog.Any("err", err))
	}
	return api.NewMemoryRateLimiter(cfg.Requests, cfg.Window, cfg.Burst)
}

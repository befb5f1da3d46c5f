// Package main is the entry point for the pilgrimage API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

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

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pkordes/pilgrimages/backend/internal/config"
	"github.com/pkordes/pilgrimages/backend/internal/handler"
	"github.com/pkordes/pilgrimages/backend/internal/middleware"
	"github.com/pkordes/pilgrimages/backend/internal/repo"
	"github.com/pkordes/pilgrimages/backend/internal/service"
	"github.com/pkordes/pilgrimages/backend/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	// A missing .env file is fine; real deployments set the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Storage ----------------------------------------------------------
	store, closeStore, err := openStore(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open storage", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	pilgrimages := service.NewPilgrimageService(store)

	// --- Router -----------------------------------------------------------
	// Order: RequestID → RealIP → Logger → Metrics → Recoverer → CORS →
	// RateLimit → MaxBodySize. RealIP runs before the rate limiter so that
	// clients behind a proxy get their own bucket.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(middleware.NewMetricsHandler())
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/", handler.NewServer(pilgrimages, logger).Handler())

	// --- HTTP Server ------------------------------------------------------
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openStore builds the PilgrimageRepo selected by cfg.StorageDriver. The
// returned func releases whatever the store holds open.
func openStore(ctx context.Context, cfg config.Config) (repo.PilgrimageRepo, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		slog.Warn("using in-memory storage; data is lost on restart")
		return repo.NewMemoryPilgrimageRepo(), func() {}, nil

	case config.StoragePostgres:
		// New() does not open connections immediately; the first query does.
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("create pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping database: %w", err)
		}
		slog.Info("database connection established")

		if cfg.AutoMigrate {
			sqlDB := stdlib.OpenDBFromPool(pool)
			err := migrations.Up(ctx, sqlDB)
			_ = sqlDB.Close()
			if err != nil {
				pool.Close()
				return nil, nil, fmt.Errorf("apply migrations: %w", err)
			}
			slog.Info("database migrations applied")
		}
		return repo.NewPilgrimageRepo(pool), pool.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

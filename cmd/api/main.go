// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the catalogue HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis when configured.
//  5. Run database migrations (idempotent).
//  6. Build rate limiters, metrics and the token verifier.
//  7. Wire domain services and HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/tunreplay/internal/api"
	"github.com/taibuivan/tunreplay/internal/core/address"
	"github.com/taibuivan/tunreplay/internal/core/episode"
	"github.com/taibuivan/tunreplay/internal/core/facet"
	"github.com/taibuivan/tunreplay/internal/core/schedule"
	"github.com/taibuivan/tunreplay/internal/core/series"
	"github.com/taibuivan/tunreplay/internal/platform/config"
	"github.com/taibuivan/tunreplay/internal/platform/constants"
	"github.com/taibuivan/tunreplay/internal/platform/metrics"
	"github.com/taibuivan/tunreplay/internal/platform/middleware"
	"github.com/taibuivan/tunreplay/internal/platform/migration"
	pgstore "github.com/taibuivan/tunreplay/internal/platform/postgres"
	"github.com/taibuivan/tunreplay/internal/platform/ratelimit"
	redisstore "github.com/taibuivan/tunreplay/internal/platform/redis"
	"github.com/taibuivan/tunreplay/internal/platform/sec"
)

// searchScope is the throttle scope of the public series search.
const searchScope = "search"

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("rate_limit_backend", cfg.RateLimitBackend),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Background janitors stop with this context.
	runCtx, stopJanitors := context.WithCancel(context.Background())
	defer stopJanitors()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	var rdb *goredis.Client
	if cfg.RedisURL != "" {
		rdb, err = redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()
	}

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Limiters, metrics, verifier ────────────────────────────────────
	registry := metrics.New()

	searchLimiter := newWindow(runCtx, cfg, rdb, cfg.SearchRateLimitMax, cfg.SearchRateLimitWindow)
	slugLimiter := newWindow(runCtx, cfg, rdb, cfg.SlugFallbackRateLimitMax, cfg.SlugFallbackRateLimitWindow)

	floodGuard := ratelimit.NewTokenBucket(cfg.GlobalRateLimitRPS, cfg.GlobalRateLimitBurst, constants.RateLimitClientTTL, nil)
	go floodGuard.Run(runCtx, constants.RateLimitCleanupInterval)

	var verifier middleware.TokenVerifier
	if cfg.JWTPubKeyPath != "" {
		tokenVerifier, err := sec.NewTokenVerifier(cfg.JWTPubKeyPath, constants.AuthIssuer)
		must(log, err, "initialize token verifier")
		verifier = tokenVerifier
	} else {
		log.Warn("admin_api_disabled", slog.String("reason", "JWT_PUBLIC_KEY_PATH is empty"))
	}

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	healthDeps := api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
	}
	if rdb != nil {
		healthDeps.CheckCache = func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		}
	}
	liveness, readiness := api.NewHealthHandlers(healthDeps, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	addressService := address.NewService(address.NewPostgresStore(pool), slugLimiter, registry, cfg.SlugMaxProbes, log)

	seriesRepository := series.NewPostgresRepository(pool)
	seriesService := series.NewService(seriesRepository, addressService, log)
	searchGuard := middleware.Throttle(searchScope, searchLimiter, registry)

	episodeService := episode.NewService(episode.NewPostgresRepository(pool), addressService, log)
	facetService := facet.NewService(facet.NewPostgresRepository(pool), addressService, seriesRepository, log)
	scheduleService := schedule.NewService(schedule.NewPostgresRepository(pool), log)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Address:   address.NewHandler(addressService),
		Series:    series.NewHandler(seriesService, searchGuard),
		Episode:   episode.NewHandler(episodeService),
		Facet:     facet.NewHandler(facetService),
		Schedule:  schedule.NewHandler(scheduleService),
	}

	server := api.NewServer(cfg, log, api.Dependencies{
		Verifier:   verifier,
		FloodGuard: floodGuard,
		Metrics:    registry,
	}, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// newWindow builds a sliding-window limiter on the configured backend. The
// in-process variant gets a janitor bound to ctx. Callers prefix keys with
// their scope, so limiters can share one Redis key prefix.
func newWindow(ctx context.Context, cfg *config.Config, rdb *goredis.Client, max int, window time.Duration) ratelimit.Limiter {
	if cfg.RateLimitBackend == config.BackendRedis {
		return ratelimit.NewRedisSlidingWindow(rdb, constants.RedisPrefixRateLimit, max, window, nil)
	}

	limiter := ratelimit.NewSlidingWindow(max, window, nil)
	go limiter.Run(ctx, constants.RateLimitCleanupInterval)
	return limiter
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}

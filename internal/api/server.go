// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/tunreplay/internal/core/address"
	"github.com/taibuivan/tunreplay/internal/core/episode"
	"github.com/taibuivan/tunreplay/internal/core/facet"
	"github.com/taibuivan/tunreplay/internal/core/schedule"
	"github.com/taibuivan/tunreplay/internal/core/series"
	"github.com/taibuivan/tunreplay/internal/platform/config"
	"github.com/taibuivan/tunreplay/internal/platform/constants"
	"github.com/taibuivan/tunreplay/internal/platform/metrics"
	"github.com/taibuivan/tunreplay/internal/platform/middleware"
	"github.com/taibuivan/tunreplay/internal/platform/ratelimit"
	"github.com/taibuivan/tunreplay/internal/platform/sec"
)

// GlobalScope is the throttle scope of the per-IP flood guard.
const GlobalScope = "global"

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler. It answers 200 while the process runs.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. It answers 200 when every dependency is healthy.
	Readiness http.HandlerFunc

	Address  *address.Handler
	Series   *series.Handler
	Episode  *episode.Handler
	Facet    *facet.Handler
	Schedule *schedule.Handler
}

// Dependencies are the cross-cutting collaborators of the router.
type Dependencies struct {
	// Verifier checks admin tokens. Nil disables the admin API.
	Verifier middleware.TokenVerifier

	// FloodGuard throttles every request per client IP. Nil admits everything.
	FloodGuard ratelimit.Limiter

	Metrics *metrics.Registry
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(cfg *config.Config, log *slog.Logger, deps Dependencies, h Handlers) *Server {
	router := NewRouter(cfg, log, deps, h)

	return &Server{
		router: router,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           router,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// NewRouter builds the routing tree on its own so tests can drive it without
// a listener.
func NewRouter(cfg *config.Config, log *slog.Logger, deps Dependencies, h Handlers) *chi.Mux {
	floodGuard := deps.FloodGuard
	if floodGuard == nil {
		floodGuard = ratelimit.Unlimited
	}

	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.ClientIP())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(deps.Metrics.Middleware)
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unthrottled probes for container orchestration and scraping.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Throttle(GlobalScope, floodGuard, deps.Metrics))

		h.Series.RegisterRoutes(api)
		h.Episode.RegisterRoutes(api)
		h.Facet.RegisterRoutes(api)
		h.Schedule.RegisterRoutes(api)

		api.Route("/admin", func(admin chi.Router) {
			if deps.Verifier == nil {
				admin.Use(middleware.DenyAll)
			} else {
				admin.Use(middleware.Authenticate(deps.Verifier))
				admin.Use(middleware.RequireRole(sec.RoleEditor))
			}

			h.Address.RegisterAdminRoutes(admin)
			h.Series.RegisterAdminRoutes(admin)
			h.Episode.RegisterAdminRoutes(admin)
			h.Facet.RegisterAdminRoutes(admin)
			h.Schedule.RegisterAdminRoutes(admin)
		})
	})

	return r
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}

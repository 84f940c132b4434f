// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package metrics provides the Prometheus instrumentation of the catalogue API.
//
// # Series
//
//	tunreplay_slug_resolutions_total     counter: collection, tier, outcome
//	tunreplay_rate_limit_denials_total   counter: scope
//	tunreplay_http_requests_total        counter: method, route, status
//	tunreplay_http_request_duration_seconds histogram: method, route
//
// A [Registry] owns its own prometheus registry so tests can build isolated
// instances. Every method is safe on a nil *Registry, which records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tunreplay"

// Registry groups the application collectors.
type Registry struct {
	registry *prometheus.Registry

	SlugResolutions  *prometheus.CounterVec
	RateLimitDenials *prometheus.CounterVec
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
}

// New registers the application collectors plus the Go runtime and process
// collectors on a fresh registry.
func New() *Registry {
	registry := prometheus.NewRegistry()

	metrics := &Registry{
		registry: registry,

		SlugResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slug_resolutions_total",
			Help:      "Slug resolutions by collection, deciding tier and outcome.",
		}, []string{"collection", "tier", "outcome"}),

		RateLimitDenials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_denials_total",
			Help:      "Attempts rejected by a rate limiter, by scope.",
		}, []string{"scope"}),

		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests handled, by route pattern.",
		}, []string{"method", "route", "status"}),

		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		metrics.SlugResolutions,
		metrics.RateLimitDenials,
		metrics.HTTPRequests,
		metrics.HTTPDuration,
	)

	return metrics
}

// Handler returns the scrape endpoint for this registry.
func (metrics *Registry) Handler() http.Handler {
	if metrics == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(metrics.registry, promhttp.HandlerOpts{Registry: metrics.registry})
}

// ObserveSlug counts one slug resolution.
func (metrics *Registry) ObserveSlug(collection, tier, outcome string) {
	if metrics == nil {
		return
	}
	metrics.SlugResolutions.WithLabelValues(collection, tier, outcome).Inc()
}

// ObserveDenial counts one rejected attempt.
func (metrics *Registry) ObserveDenial(scope string) {
	if metrics == nil {
		return
	}
	metrics.RateLimitDenials.WithLabelValues(scope).Inc()
}

// Middleware records request counts and latency labelled by chi route pattern,
// so /series/{slug} is one series regardless of the slug.
func (metrics *Registry) Middleware(next http.Handler) http.Handler {
	if metrics == nil {
		return next
	}
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		start := time.Now()
		recorder := &statusWriter{ResponseWriter: writer, status: http.StatusOK}

		next.ServeHTTP(recorder, request)

		route := "unmatched"
		if routeCtx := chi.RouteContext(request.Context()); routeCtx != nil {
			if pattern := routeCtx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		metrics.HTTPRequests.WithLabelValues(request.Method, route, strconv.Itoa(recorder.status)).Inc()
		metrics.HTTPDuration.WithLabelValues(request.Method, route).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (writer *statusWriter) WriteHeader(code int) {
	writer.status = code
	writer.ResponseWriter.WriteHeader(code)
}

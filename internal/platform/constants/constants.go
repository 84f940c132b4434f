// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the catalogue API.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Page Sizes: Fixed page sizes of the public listings.
  - Rate Limiting: Janitor timing of the in-process limiters.
  - Security: JWT issuer.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "tunreplay-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	DefaultReadTimeout       = 5 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultIdleTimeout       = 120 * time.Second
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long in-flight requests may run during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Page Sizes

const (
	// EpisodesPageSize is the number of episodes per page of a series.
	EpisodesPageSize = 40

	// FacetSeriesPageSize is the number of series per page of a type, genre, nation, status or year.
	FacetSeriesPageSize = 20

	// SearchPageSize is the number of search hits per page.
	SearchPageSize = 12

	// LatestEpisodesLimit is the size of the "latest episodes" strip.
	LatestEpisodesLimit = 16

	// LatestSeriesLimit is the size of every home page series strip.
	LatestSeriesLimit = 12
)

// # Rate Limiting

const (
	// RateLimitCleanupInterval is how often idle limiter keys are evicted.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a key must be idle before eviction.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the expected 'iss' claim of admin tokens.
	AuthIssuer = "tunreplay.app"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Redis Prefixes

const (
	// RedisPrefixRateLimit namespaces the shared sliding-window sets.
	RedisPrefixRateLimit = "ratelimit:"
)

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ratelimit decides whether a caller may perform an expensive
// operation now.
//
// # Implementations
//
//   - [SlidingWindow]: in-process sliding log, one per instance.
//   - [RedisSlidingWindow]: the same contract shared by every instance through Redis.
//   - [TokenBucket]: per-key x/time/rate buckets for the global flood guard.
//
// Limiters are built once by the composition root and injected; the package
// holds no global state.
package ratelimit

import (
	"context"
	"math"
	"time"
)

// Limiter is the capability consumed by the HTTP throttle and the slug resolver.
type Limiter interface {
	// Check records an attempt for key and reports whether it is admitted.
	// A denied attempt is not recorded.
	Check(ctx context.Context, key string) (Decision, error)
}

// Decision is the outcome of one [Limiter.Check].
type Decision struct {
	Allowed bool

	// RetryAfter is how long until the next attempt would be admitted.
	// Zero when Allowed.
	RetryAfter time.Duration
}

// RetryAfterSeconds rounds RetryAfter up to whole seconds, at least 1 when denied.
func (d Decision) RetryAfterSeconds() int {
	if d.Allowed {
		return 0
	}
	seconds := int(math.Ceil(d.RetryAfter.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	return seconds
}

// Clock returns the current time. Tests inject a fake one.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// LimiterFunc adapts a function to [Limiter].
type LimiterFunc func(ctx context.Context, key string) (Decision, error)

// Check implements [Limiter].
func (f LimiterFunc) Check(ctx context.Context, key string) (Decision, error) {
	return f(ctx, key)
}

// Unlimited admits every attempt.
var Unlimited Limiter = LimiterFunc(func(context.Context, string) (Decision, error) {
	return Decision{Allowed: true}, nil
})

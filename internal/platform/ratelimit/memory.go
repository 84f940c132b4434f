// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ratelimit

import (
	"context"
	"sync"
	"time"
)

// SlidingWindow admits at most Max attempts per key within any trailing Window.
//
// # Algorithm
//
// Each key keeps the timestamps of its admitted attempts. Timestamps at or
// before now-Window are dropped on every check. When Max remain, the attempt
// is denied and RetryAfter is the time until the oldest one leaves the window.
//
// # Concurrency
//
// One mutex guards the whole map, so concurrent checks on one key never admit
// more than Max.
type SlidingWindow struct {
	max    int
	window time.Duration
	clock  Clock

	mu      sync.Mutex
	entries map[string][]time.Time
}

// NewSlidingWindow builds an in-memory limiter. A nil clock means [time.Now].
func NewSlidingWindow(max int, window time.Duration, clock Clock) *SlidingWindow {
	return &SlidingWindow{
		max:     max,
		window:  window,
		clock:   clock,
		entries: make(map[string][]time.Time),
	}
}

// Check implements [Limiter]. It never fails.
func (limiter *SlidingWindow) Check(_ context.Context, key string) (Decision, error) {
	now := limiter.clock.now()

	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	recent := limiter.prune(limiter.entries[key], now)

	if len(recent) >= limiter.max {
		limiter.entries[key] = recent
		retry := limiter.window - now.Sub(recent[0])
		return Decision{Allowed: false, RetryAfter: retry}, nil
	}

	limiter.entries[key] = append(recent, now)
	return Decision{Allowed: true}, nil
}

// Sweep evicts keys with no attempt inside the window and returns how many
// were removed.
func (limiter *SlidingWindow) Sweep() int {
	now := limiter.clock.now()

	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	removed := 0
	for key, stamps := range limiter.entries {
		recent := limiter.prune(stamps, now)
		if len(recent) == 0 {
			delete(limiter.entries, key)
			removed++
			continue
		}
		limiter.entries[key] = recent
	}
	return removed
}

// Len returns the number of tracked keys.
func (limiter *SlidingWindow) Len() int {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	return len(limiter.entries)
}

// Run sweeps every interval until ctx is done.
func (limiter *SlidingWindow) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Sweep()
		}
	}
}

// prune drops timestamps that left the window. stamps is sorted ascending.
func (limiter *SlidingWindow) prune(stamps []time.Time, now time.Time) []time.Time {
	cutoff := now.Add(-limiter.window)

	first := 0
	for first < len(stamps) && !stamps[first].After(cutoff) {
		first++
	}
	if first == 0 {
		return stamps
	}

	// Copy so the backing array does not grow without bound.
	return append([]time.Time(nil), stamps[first:]...)
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// TokenBucket keeps one [rate.Limiter] per key for the coarse flood guard that
// sits in front of every route.
type TokenBucket struct {
	limit rate.Limit
	burst int
	ttl   time.Duration
	clock Clock

	mu      sync.Mutex
	clients map[string]*bucketClient
}

type bucketClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewTokenBucket builds a per-key bucket refilled at rps up to burst. Keys idle
// for longer than ttl are dropped by [TokenBucket.Sweep].
func NewTokenBucket(rps float64, burst int, ttl time.Duration, clock Clock) *TokenBucket {
	return &TokenBucket{
		limit:   rate.Limit(rps),
		burst:   burst,
		ttl:     ttl,
		clock:   clock,
		clients: make(map[string]*bucketClient),
	}
}

// Check implements [Limiter]. It never fails.
func (bucket *TokenBucket) Check(_ context.Context, key string) (Decision, error) {
	now := bucket.clock.now()

	bucket.mu.Lock()
	client, ok := bucket.clients[key]
	if !ok {
		client = &bucketClient{limiter: rate.NewLimiter(bucket.limit, bucket.burst)}
		bucket.clients[key] = client
	}
	client.lastSeen = now
	bucket.mu.Unlock()

	reservation := client.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return Decision{Allowed: false, RetryAfter: time.Second}, nil
	}

	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return Decision{Allowed: false, RetryAfter: delay}, nil
	}

	return Decision{Allowed: true}, nil
}

// Sweep drops keys idle for longer than the TTL.
func (bucket *TokenBucket) Sweep() int {
	now := bucket.clock.now()

	bucket.mu.Lock()
	defer bucket.mu.Unlock()

	removed := 0
	for key, client := range bucket.clients {
		if now.Sub(client.lastSeen) > bucket.ttl {
			delete(bucket.clients, key)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (bucket *TokenBucket) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			bucket.Sweep()
		}
	}
}

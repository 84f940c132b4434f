// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/tunreplay/pkg/uuidv7"
)

// slidingWindowScript trims, counts and conditionally records in one round trip.
//
// KEYS[1] window set. ARGV: now (ms), window (ms), max, member.
// Returns {allowed, retry_after_ms}.
var slidingWindowScript = redis.NewScript(`
local key    = KEYS[1]
local now    = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit  = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)

local count = redis.call('ZCARD', key)
if count < limit then
	redis.call('ZADD', key, now, ARGV[4])
	redis.call('PEXPIRE', key, window)
	return {1, 0}
end

local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
return {0, window - (now - tonumber(oldest[2]))}
`)

// RedisSlidingWindow is [SlidingWindow] backed by a Redis sorted set per key,
// so every API instance draws from the same window.
type RedisSlidingWindow struct {
	client redis.Scripter
	prefix string
	max    int
	window time.Duration
	clock  Clock

	// instance prefixes every member so replicas sharing a key never collide.
	instance string
	sequence atomic.Uint64
}

// NewRedisSlidingWindow builds a distributed limiter. keys are stored under prefix.
func NewRedisSlidingWindow(client redis.Scripter, prefix string, max int, window time.Duration, clock Clock) *RedisSlidingWindow {
	return &RedisSlidingWindow{
		client: client,
		prefix: prefix,
		max:    max,
		window: window,
		clock:  clock,

		instance: uuidv7.New(),
	}
}

// Check implements [Limiter]. Redis failures are returned to the caller, which
// decides whether to fail open.
func (limiter *RedisSlidingWindow) Check(ctx context.Context, key string) (Decision, error) {
	nowMillis := limiter.clock.now().UnixMilli()

	// Members must be unique even when two attempts share a millisecond.
	member := limiter.instance + "-" + strconv.FormatInt(nowMillis, 10) + "-" + strconv.FormatUint(limiter.sequence.Add(1), 10)

	result, err := slidingWindowScript.Run(ctx, limiter.client,
		[]string{limiter.prefix + key},
		nowMillis, limiter.window.Milliseconds(), limiter.max, member,
	).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("ratelimit: redis check: %w", err)
	}
	if len(result) != 2 {
		return Decision{}, fmt.Errorf("ratelimit: unexpected script reply %v", result)
	}

	if result[0] == 1 {
		return Decision{Allowed: true}, nil
	}
	return Decision{Allowed: false, RetryAfter: time.Duration(result[1]) * time.Millisecond}, nil
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
)

// DefaultMaxProbes bounds the numeric suffix search ("-1" .. "-N") before the
// allocator falls back to random suffixes.
const DefaultMaxProbes = 1000

// randomAttempts is how many random suffixes are tried after the numeric run.
const randomAttempts = 8

// ErrExhausted is returned when neither the numeric nor the random suffixes
// produced a free slug.
var ErrExhausted = errors.New("slug: no free candidate found")

// ExistsFunc reports whether candidate is already taken in a collection.
//
// When excludeID is non-nil the row with that id is ignored, so an update does
// not collide with its own current slug.
type ExistsFunc func(ctx context.Context, candidate string, excludeID *int64) (bool, error)

// Allocator proposes slugs that are absent from a collection.
//
// The zero value is ready to use.
type Allocator struct {
	// MaxProbes caps the numeric suffix search. Zero means [DefaultMaxProbes].
	MaxProbes int

	// RandomSuffix overrides the random fallback generator (tests only).
	RandomSuffix func() (string, error)
}

// Allocate is [Allocator.Allocate] on the zero-value allocator.
func Allocate(ctx context.Context, label string, excludeID *int64, exists ExistsFunc) (string, error) {
	return Allocator{}.Allocate(ctx, label, excludeID, exists)
}

// Allocate derives a slug from label and returns the first candidate that
// exists reports as free.
//
// # Probe Order
//
//  1. base = Normalize(label). Empty base returns "" (callers reject blank titles).
//  2. base, base-1, base-2, ... up to base-MaxProbes.
//  3. base-<6 hex digits>, at most a handful of times.
//
// It only proposes; persisting the slug is the caller's job. Errors from exists
// are returned unchanged.
func (allocator Allocator) Allocate(ctx context.Context, label string, excludeID *int64, exists ExistsFunc) (string, error) {
	base := Normalize(label)
	if base == "" {
		return "", nil
	}

	maxProbes := allocator.MaxProbes
	if maxProbes <= 0 {
		maxProbes = DefaultMaxProbes
	}

	// 1. Deterministic numeric suffixes
	candidate := base
	for suffix := 0; suffix <= maxProbes; suffix++ {
		if suffix > 0 {
			candidate = base + "-" + strconv.Itoa(suffix)
		}

		taken, err := exists(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	// 2. Random fallback for pathological collision runs
	random := allocator.RandomSuffix
	if random == nil {
		random = randomHex
	}

	for attempt := 0; attempt < randomAttempts; attempt++ {
		suffix, err := random()
		if err != nil {
			return "", fmt.Errorf("slug: random suffix: %w", err)
		}

		candidate = base + "-" + suffix
		taken, err := exists(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", ErrExhausted
}

// randomHex returns 6 lowercase hex digits from crypto/rand.
func randomHex() (string, error) {
	buffer := make([]byte, 3)
	if _, err := rand.Read(buffer); err != nil {
		return "", err
	}
	return hex.EncodeToString(buffer), nil
}

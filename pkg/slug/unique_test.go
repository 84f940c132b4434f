// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tunreplay/pkg/pointer"
	"github.com/taibuivan/tunreplay/pkg/slug"
)

// existsIn builds an [slug.ExistsFunc] over a slug -> id map.
func existsIn(taken map[string]int64, calls *int) slug.ExistsFunc {
	return func(_ context.Context, candidate string, excludeID *int64) (bool, error) {
		if calls != nil {
			*calls++
		}
		id, ok := taken[candidate]
		if !ok {
			return false, nil
		}
		if excludeID != nil && *excludeID == id {
			return false, nil
		}
		return true, nil
	}
}

/*
TestAllocate_Suffixes verifies the numeric suffix scheme.
*/
func TestAllocate_Suffixes(t *testing.T) {
	tests := []struct {
		name  string
		label string
		taken map[string]int64
		want  string
	}{
		{"free_base", "Test Show!", map[string]int64{}, "test-show"},
		{"one_collision", "Test Show!", map[string]int64{"test-show": 1}, "test-show-1"},
		{"several_collisions", "Test Show!", map[string]int64{"test-show": 1, "test-show-1": 2, "test-show-2": 3}, "test-show-3"},
		{"arabic", "الحلقة 1", map[string]int64{"الحلقة-1": 7}, "الحلقة-1-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := slug.Allocate(context.Background(), tt.label, nil, existsIn(tt.taken, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			_, clash := tt.taken[got]
			assert.False(t, clash)
		})
	}
}

/*
TestAllocate_Deterministic verifies identical inputs give identical output.
*/
func TestAllocate_Deterministic(t *testing.T) {
	taken := map[string]int64{"lost": 1, "lost-1": 2}

	first, err := slug.Allocate(context.Background(), "Lost", nil, existsIn(taken, nil))
	require.NoError(t, err)

	second, err := slug.Allocate(context.Background(), "Lost", nil, existsIn(taken, nil))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "lost-2", first)
}

/*
TestAllocate_ExcludeID lets an update keep its own slug.
*/
func TestAllocate_ExcludeID(t *testing.T) {
	taken := map[string]int64{"test-show": 42}

	got, err := slug.Allocate(context.Background(), "Test Show", pointer.To[int64](42), existsIn(taken, nil))
	require.NoError(t, err)
	assert.Equal(t, "test-show", got)

	got, err = slug.Allocate(context.Background(), "Test Show", pointer.To[int64](7), existsIn(taken, nil))
	require.NoError(t, err)
	assert.Equal(t, "test-show-1", got)
}

/*
TestAllocate_EmptyLabel short-circuits without touching the store.
*/
func TestAllocate_EmptyLabel(t *testing.T) {
	calls := 0

	got, err := slug.Allocate(context.Background(), " !? ", nil, existsIn(nil, &calls))
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, calls)
}

/*
TestAllocate_StoreError propagates existence check failures unchanged.
*/
func TestAllocate_StoreError(t *testing.T) {
	storeDown := errors.New("store unavailable")
	failing := func(context.Context, string, *int64) (bool, error) { return false, storeDown }

	_, err := slug.Allocate(context.Background(), "Lost", nil, failing)
	assert.ErrorIs(t, err, storeDown)
}

/*
TestAllocator_RandomFallback switches to random suffixes past the probe cap.
*/
func TestAllocator_RandomFallback(t *testing.T) {
	taken := map[string]int64{"lost": 1, "lost-1": 2, "lost-2": 3}
	allocator := slug.Allocator{
		MaxProbes:    2,
		RandomSuffix: func() (string, error) { return "a1b2c3", nil },
	}

	got, err := allocator.Allocate(context.Background(), "Lost", nil, existsIn(taken, nil))
	require.NoError(t, err)
	assert.Equal(t, "lost-a1b2c3", got)
}

/*
TestAllocator_Exhausted reports failure when every candidate is taken.
*/
func TestAllocator_Exhausted(t *testing.T) {
	allTaken := func(context.Context, string, *int64) (bool, error) { return true, nil }
	allocator := slug.Allocator{
		MaxProbes:    3,
		RandomSuffix: func() (string, error) { return "ffffff", nil },
	}

	_, err := allocator.Allocate(context.Background(), "Lost", nil, allTaken)
	assert.ErrorIs(t, err, slug.ErrExhausted)
}

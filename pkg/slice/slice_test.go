// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slice_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/tunreplay/pkg/slice"
)

/*
TestUnique keeps first occurrences in order.
*/
func TestUnique(t *testing.T) {
	assert.Equal(t, []int64{3, 1, 2}, slice.Unique([]int64{3, 1, 3, 2, 1}))
	assert.Nil(t, slice.Unique[int64](nil))
}

/*
TestGroupBy buckets schedule-like rows by a key.
*/
func TestGroupBy(t *testing.T) {
	times := []string{"20:00:00", "18:30", "20:00", "18:30:00"}

	order, groups := slice.GroupBy(times, func(v string) string { return v[:5] })

	assert.Equal(t, []string{"20:00", "18:30"}, order)
	assert.Len(t, groups["20:00"], 2)
	assert.Len(t, groups["18:30"], 2)
}

/*
TestMap keeps order and maps nil to nil.
*/
func TestMap(t *testing.T) {
	upper := slice.Map([]string{"a", "b"}, strings.ToUpper)
	assert.Equal(t, []string{"A", "B"}, upper)

	assert.Nil(t, slice.Map[string, string](nil, strings.ToUpper))
}

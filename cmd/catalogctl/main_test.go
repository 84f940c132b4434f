// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tunreplay/internal/core/address"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

/*
TestSlugNormalize runs without a database.
*/
func TestSlugNormalize(t *testing.T) {
	out, err := run(t, "slug", "normalize", "  Serie Accident!  ")
	require.NoError(t, err)
	assert.Equal(t, "serie-accident\n", out)
}

/*
TestParseScope rejects bad collections and unscoped episodes before connecting.
*/
func TestParseScope(t *testing.T) {
	scope, err := parseScope("genres", 0)
	require.NoError(t, err)
	assert.Equal(t, address.In(address.CollectionGenres), scope)

	scope, err = parseScope("episodes", 4)
	require.NoError(t, err)
	assert.Equal(t, address.EpisodesOf(4), scope)

	_, err = parseScope("episodes", 0)
	assert.ErrorContains(t, err, "--parent-id")

	_, err = parseScope("comics", 0)
	assert.ErrorContains(t, err, "unknown collection")
}

/*
TestSlugResolve_UnknownCollection fails before loading any configuration.
*/
func TestSlugResolve_UnknownCollection(t *testing.T) {
	_, err := run(t, "slug", "resolve", "comics", "x")
	assert.ErrorContains(t, err, "unknown collection")
}

/*
TestMigrateDown_Steps validates --steps before loading any configuration.
*/
func TestMigrateDown_Steps(t *testing.T) {
	_, err := run(t, "migrate", "down", "--steps", "0")
	assert.ErrorContains(t, err, "--steps")
}

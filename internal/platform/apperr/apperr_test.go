// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tunreplay/internal/platform/apperr"
)

/*
TestConstructors checks codes and statuses of every constructor.
*/
func TestConstructors(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name   string
		err    *apperr.AppError
		code   string
		status int
	}{
		{"not_found", apperr.NotFound("Series"), "NOT_FOUND", http.StatusNotFound},
		{"conflict", apperr.Conflict("taken"), "CONFLICT", http.StatusConflict},
		{"validation", apperr.ValidationError("bad"), "VALIDATION_ERROR", http.StatusBadRequest},
		{"rate_limited", apperr.RateLimited(3), "RATE_LIMITED", http.StatusTooManyRequests},
		{"internal", apperr.Internal(cause), "INTERNAL_ERROR", http.StatusInternalServerError},
		{"store_unavailable", apperr.StoreUnavailable(cause), "STORE_UNAVAILABLE", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
		})
	}
}

/*
TestRateLimited_RetryAfter never advertises less than one second.
*/
func TestRateLimited_RetryAfter(t *testing.T) {
	assert.Equal(t, 12, apperr.RateLimited(12).RetryAfter)
	assert.Equal(t, 1, apperr.RateLimited(0).RetryAfter)
	assert.Contains(t, apperr.RateLimited(12).Message, "12s")
}

/*
TestAs walks wrapped chains.
*/
func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("resolve: %w", apperr.NotFound("Episode"))

	found := apperr.As(wrapped)
	require.NotNil(t, found)
	assert.Equal(t, "Episode not found", found.Message)
	assert.True(t, apperr.HasCode(wrapped, "NOT_FOUND"))
	assert.Nil(t, apperr.As(errors.New("plain")))
}

/*
TestWithCause keeps the template untouched.
*/
func TestWithCause(t *testing.T) {
	template := apperr.Conflict("slug taken")
	cause := errors.New("23505")

	withCause := template.WithCause(cause)

	assert.ErrorIs(t, withCause, cause)
	assert.Nil(t, template.Cause)
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tunreplay/internal/platform/apperr"
	"github.com/taibuivan/tunreplay/internal/platform/respond"
	"github.com/taibuivan/tunreplay/pkg/pagination"
)

/*
TestError renders the envelope and status for each error kind.
*/
func TestError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		status     int
		code       string
		retryAfter string
	}{
		{"not_found", apperr.NotFound("Series"), http.StatusNotFound, "NOT_FOUND", ""},
		{"rate_limited", apperr.RateLimited(42), http.StatusTooManyRequests, "RATE_LIMITED", "42"},
		{"store_unavailable", apperr.StoreUnavailable(errors.New("dial")), http.StatusServiceUnavailable, "STORE_UNAVAILABLE", ""},
		{"plain_error", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			respond.Error(recorder, httptest.NewRequest("GET", "/", nil), tt.err)

			assert.Equal(t, tt.status, recorder.Code)
			assert.Equal(t, tt.retryAfter, recorder.Header().Get("Retry-After"))

			var envelope respond.ErrorEnvelope
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
			assert.Equal(t, tt.code, envelope.Code)
			assert.NotContains(t, envelope.Error, "boom")
		})
	}
}

/*
TestPaginated writes data and meta blocks.
*/
func TestPaginated(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Paginated(recorder, []string{"a"}, pagination.NewMeta(1, 40, 0))

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Contains(t, body, "data")
	assert.Contains(t, body, "meta")
	assert.JSONEq(t, `{"page":1,"limit":40,"total":0,"total_pages":1}`, string(body["meta"]))
}

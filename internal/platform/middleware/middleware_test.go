// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tunreplay/internal/platform/ctxutil"
	"github.com/taibuivan/tunreplay/internal/platform/middleware"
	"github.com/taibuivan/tunreplay/internal/platform/ratelimit"
	"github.com/taibuivan/tunreplay/internal/platform/sec"
)

var okHandler = http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
	writer.WriteHeader(http.StatusOK)
})

type countingObserver struct{ denials map[string]int }

func (observer *countingObserver) ObserveDenial(scope string) {
	if observer.denials == nil {
		observer.denials = map[string]int{}
	}
	observer.denials[scope]++
}

/*
TestRealIP prefers the first forwarded hop.
*/
func TestRealIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded_for", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "10.0.0.2:5000", "203.0.113.7"},
		{"real_ip", map[string]string{"X-Real-IP": "198.51.100.4"}, "10.0.0.2:5000", "198.51.100.4"},
		{"remote_addr", nil, "192.0.2.9:1234", "192.0.2.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/", nil)
			request.RemoteAddr = tt.remote
			for key, value := range tt.headers {
				request.Header.Set(key, value)
			}
			assert.Equal(t, tt.want, middleware.RealIP(request))
		})
	}
}

/*
TestThrottle answers 429 with Retry-After once the window is full.
*/
func TestThrottle(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := ratelimit.NewSlidingWindow(2, time.Minute, func() time.Time { return now })
	observer := &countingObserver{}

	handler := middleware.ClientIP()(middleware.Throttle("search", limiter, observer)(okHandler))

	call := func(ip string) *httptest.ResponseRecorder {
		request := httptest.NewRequest("GET", "/search?q=lost", nil)
		request.Header.Set("X-Forwarded-For", ip)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		return recorder
	}

	assert.Equal(t, http.StatusOK, call("203.0.113.7").Code)
	assert.Equal(t, http.StatusOK, call("203.0.113.7").Code)

	denied := call("203.0.113.7")
	assert.Equal(t, http.StatusTooManyRequests, denied.Code)
	assert.Equal(t, "60", denied.Header().Get("Retry-After"))
	assert.Equal(t, 1, observer.denials["search"])

	assert.Equal(t, http.StatusOK, call("198.51.100.4").Code)
}

/*
TestThrottle_FailsOpen lets traffic through when the limiter breaks.
*/
func TestThrottle_FailsOpen(t *testing.T) {
	broken := ratelimit.LimiterFunc(func(context.Context, string) (ratelimit.Decision, error) {
		return ratelimit.Decision{}, errors.New("redis down")
	})

	recorder := httptest.NewRecorder()
	middleware.Throttle("search", broken, nil)(okHandler).ServeHTTP(recorder, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestRequestID echoes or generates the correlation id.
*/
func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	request := httptest.NewRequest("GET", "/", nil)
	request.Header.Set("X-Request-ID", "given")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, "given", seen)
	assert.Equal(t, "given", recorder.Header().Get("X-Request-ID"))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	assert.Len(t, seen, 36)
}

/*
TestPanicRecovery converts panics into 500s.
*/
func TestPanicRecovery(t *testing.T) {
	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })

	recorder := httptest.NewRecorder()
	middleware.PanicRecovery(nil)(panicking).ServeHTTP(recorder, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

type fakeConfig struct {
	dev   bool
	extra string
}

func (cfg fakeConfig) IsDevelopment() bool     { return cfg.dev }
func (cfg fakeConfig) GetExtraOrigins() string { return cfg.extra }

/*
TestCORS allows listed origins in production.
*/
func TestCORS(t *testing.T) {
	handler := middleware.CORS(fakeConfig{extra: "https://admin.example.com"})(okHandler)

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"https://admin.example.com", true},
		{"https://www.tunreplay.app", true},
		{"https://evil.example.net", false},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/", nil)
			request.Header.Set("Origin", tt.origin)
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			if tt.allowed {
				assert.Equal(t, tt.origin, recorder.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

type fakeVerifier struct {
	claims *sec.AuthClaims
	err    error
}

func (verifier fakeVerifier) VerifyToken(string) (*sec.AuthClaims, error) {
	return verifier.claims, verifier.err
}

/*
TestAuthorization chains Authenticate and RequireRole.
*/
func TestAuthorization(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		verifier fakeVerifier
		status   int
	}{
		{"anonymous", "", fakeVerifier{}, http.StatusUnauthorized},
		{"bad_format", "Token abc", fakeVerifier{}, http.StatusUnauthorized},
		{"bad_token", "Bearer abc", fakeVerifier{err: errors.New("expired")}, http.StatusUnauthorized},
		{"viewer", "Bearer abc", fakeVerifier{claims: &sec.AuthClaims{Role: "viewer"}}, http.StatusForbidden},
		{"editor", "Bearer abc", fakeVerifier{claims: &sec.AuthClaims{Role: "editor"}}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := middleware.Authenticate(tt.verifier)(middleware.RequireRole(sec.RoleEditor)(okHandler))

			request := httptest.NewRequest("POST", "/admin/series", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			require.Equal(t, tt.status, recorder.Code)
		})
	}
}

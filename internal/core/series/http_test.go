package series_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tunreplay/internal/core/series"
	"github.com/taibuivan/tunreplay/internal/platform/ctxutil"
	"github.com/taibuivan/tunreplay/internal/platform/sec"
)

// withRole injects claims the way the authentication middleware does.
func withRole(role sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := &sec.AuthClaims{Role: string(role)}
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithAuthUser(request.Context(), claims)))
		})
	}
}

func newRouter(service *series.Service, guard func(http.Handler) http.Handler, role sec.UserRole) chi.Router {
	handler := series.NewHandler(service, guard)

	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	router.Route("/admin", func(admin chi.Router) {
		admin.Use(withRole(role))
		handler.RegisterAdminRoutes(admin)
	})
	return router
}

func serve(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(method, target, strings.NewReader(body)))
	return recorder
}

/*
TestHandler_Public covers the public series routes.
*/
func TestHandler_Public(t *testing.T) {
	service, _ := newService(
		&series.Series{Title: "Lost", Slug: "lost"},
		&series.Series{Title: "Dark", Slug: "dark", Pinned: true},
	)
	router := newRouter(service, nil, sec.RoleEditor)

	tests := []struct {
		name       string
		target     string
		wantStatus int
	}{
		{"latest", "/series", http.StatusOK},
		{"pinned", "/series/pinned", http.StatusOK},
		{"search", "/series/search?q=lo", http.StatusOK},
		{"search_without_query", "/series/search", http.StatusBadRequest},
		{"detail", "/series/lost", http.StatusOK},
		{"unknown", "/series/missing", http.StatusNotFound},
		{"bad_type", "/series?typeId=abc", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, serve(router, http.MethodGet, tt.target, "").Code)
		})
	}
}

/*
TestHandler_SearchGuard runs the guard only on the search route.
*/
func TestHandler_SearchGuard(t *testing.T) {
	service, _ := newService(&series.Series{Title: "Lost", Slug: "lost"})
	blocked := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusTooManyRequests)
		})
	}
	router := newRouter(service, blocked, sec.RoleEditor)

	assert.Equal(t, http.StatusTooManyRequests, serve(router, http.MethodGet, "/series/search?q=lost", "").Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/series/lost", "").Code)
}

/*
TestHandler_Admin covers create, pin and role-gated delete.
*/
func TestHandler_Admin(t *testing.T) {
	service, repo := newService(&series.Series{Title: "Lost", Slug: "lost"})

	editor := newRouter(service, nil, sec.RoleEditor)

	recorder := serve(editor, http.MethodPost, "/admin/series", `{"title":"Breaking Bad","genre_ids":[1]}`)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var created struct {
		Data series.Series `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))
	assert.Equal(t, "breaking-bad", created.Data.Slug)

	assert.Equal(t, http.StatusBadRequest, serve(editor, http.MethodPost, "/admin/series", `{"title":"x","bogus":1}`).Code)
	assert.Equal(t, http.StatusNoContent, serve(editor, http.MethodPut, "/admin/series/1/pin", `{"pinned":true}`).Code)
	assert.True(t, repo.rows[1].Pinned)

	assert.Equal(t, http.StatusForbidden, serve(editor, http.MethodDelete, "/admin/series/1", "").Code)

	admin := newRouter(service, nil, sec.RoleAdmin)
	assert.Equal(t, http.StatusNoContent, serve(admin, http.MethodDelete, "/admin/series/1", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(admin, http.MethodGet, "/admin/series/1", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(admin, http.MethodGet, "/admin/series/abc", "").Code)
}

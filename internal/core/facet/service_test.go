package facet_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tunreplay/internal/core/address"
	"github.com/taibuivan/tunreplay/internal/core/facet"
	"github.com/taibuivan/tunreplay/internal/core/series"
	"github.com/taibuivan/tunreplay/internal/platform/apperr"
	"github.com/taibuivan/tunreplay/internal/platform/ctxutil"
	"github.com/taibuivan/tunreplay/internal/platform/sec"
)

// fakeRepo stores facet rows per kind.
type fakeRepo struct {
	rows   map[string][]*facet.Facet
	nextID int64
}

func (repo *fakeRepo) add(kind facet.Kind, name, slug string) *facet.Facet {
	repo.nextID++
	row := &facet.Facet{ID: repo.nextID, Name: name, Slug: slug}
	repo.rows[kind.Name] = append(repo.rows[kind.Name], row)
	return row
}

func (repo *fakeRepo) List(_ context.Context, kind facet.Kind) ([]*facet.Facet, error) {
	return repo.rows[kind.Name], nil
}

func (repo *fakeRepo) FindByID(_ context.Context, kind facet.Kind, id int64) (*facet.Facet, error) {
	for _, row := range repo.rows[kind.Name] {
		if row.ID == id {
			return row, nil
		}
	}
	return nil, apperr.NotFound(kind.Label)
}

func (repo *fakeRepo) FindByName(_ context.Context, kind facet.Kind, name string) (*facet.Facet, error) {
	for _, row := range repo.rows[kind.Name] {
		if row.Name == name {
			return row, nil
		}
	}
	return nil, apperr.NotFound(kind.Label)
}

func (repo *fakeRepo) Create(_ context.Context, kind facet.Kind, row *facet.Facet) error {
	repo.nextID++
	row.ID = repo.nextID
	repo.rows[kind.Name] = append(repo.rows[kind.Name], row)
	return nil
}

func (repo *fakeRepo) Update(ctx context.Context, kind facet.Kind, row *facet.Facet) error {
	current, err := repo.FindByID(ctx, kind, row.ID)
	if err != nil {
		return err
	}
	*current = *row
	return nil
}

func (repo *fakeRepo) Delete(_ context.Context, kind facet.Kind, id int64) error {
	for i, row := range repo.rows[kind.Name] {
		if row.ID == id {
			repo.rows[kind.Name] = append(repo.rows[kind.Name][:i], repo.rows[kind.Name][i+1:]...)
			return nil
		}
	}
	return apperr.NotFound(kind.Label)
}

// fakeSlugs resolves exact slugs among the repo rows of the scope's kind.
type fakeSlugs struct {
	repo *fakeRepo
}

func (slugs *fakeSlugs) ResolveSlug(_ context.Context, scope address.Scope, raw string) (int64, error) {
	raw = address.Decode(raw)
	for _, kind := range facet.Kinds {
		if kind.Collection != scope.Collection {
			continue
		}
		for _, row := range slugs.repo.rows[kind.Name] {
			if row.Slug == raw {
				return row.ID, nil
			}
		}
	}
	return 0, apperr.NotFound("Facet")
}

func (slugs *fakeSlugs) AssignSlug(_ context.Context, _ address.Scope, supplied, label string, _ *int64) (string, error) {
	if supplied != "" {
		return supplied, nil
	}
	return strings.ToLower(label), nil
}

// seriesRepo answers facet filters over a fixed genre and year assignment.
type seriesRepo struct {
	series.Repository
	rows []*series.Series
}

func (repo *seriesRepo) matching(filter series.Filter) []*series.Series {
	var list []*series.Series
	for i := len(repo.rows) - 1; i >= 0; i-- {
		row := repo.rows[i]
		if filter.GenreID != nil && (len(row.GenreIDs) == 0 || row.GenreIDs[0] != *filter.GenreID) {
			continue
		}
		if filter.YearID != nil && (row.YearID == nil || *row.YearID != *filter.YearID) {
			continue
		}
		list = append(list, row)
	}
	return list
}

func (repo *seriesRepo) Count(_ context.Context, filter series.Filter) (int, error) {
	return len(repo.matching(filter)), nil
}

func (repo *seriesRepo) List(_ context.Context, filter series.Filter, limit, offset int) ([]*series.Series, int, error) {
	all := repo.matching(filter)
	list := []*series.Series{}
	for i := offset; i < len(all) && i < offset+limit; i++ {
		list = append(list, all[i])
	}
	return list, len(all), nil
}

func newService() (*facet.Service, *fakeRepo, *seriesRepo) {
	repo := &fakeRepo{rows: make(map[string][]*facet.Facet)}
	shows := &seriesRepo{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return facet.NewService(repo, &fakeSlugs{repo: repo}, shows, logger), repo, shows
}

/*
TestService_Get addresses slugged kinds by slug and years by name.
*/
func TestService_Get(t *testing.T) {
	service, repo, _ := newService()
	drama := repo.add(facet.Genres, "دراما", "دراما")
	year := repo.add(facet.Years, "2024", "")

	got, err := service.Get(context.Background(), facet.Genres, url.PathEscape("دراما"))
	require.NoError(t, err)
	assert.Equal(t, drama.ID, got.ID)

	got, err = service.Get(context.Background(), facet.Years, "2024")
	require.NoError(t, err)
	assert.Equal(t, year.ID, got.ID)

	_, err = service.Get(context.Background(), facet.Nations, "korea")
	assert.True(t, apperr.HasCode(err, "NOT_FOUND"))
}

/*
TestService_SeriesPage pages 20 series per facet row, newest first.
*/
func TestService_SeriesPage(t *testing.T) {
	service, repo, shows := newService()
	drama := repo.add(facet.Genres, "Drama", "drama")
	for i := 1; i <= 30; i++ {
		row := &series.Series{ID: int64(i), Title: fmt.Sprint(i)}
		if i%3 != 0 {
			row.GenreIDs = []int64{drama.ID}
		}
		shows.rows = append(shows.rows, row)
	}

	result, err := service.SeriesPage(context.Background(), facet.Genres, "drama", 1)
	require.NoError(t, err)
	assert.Equal(t, drama, result.Facet)
	assert.Equal(t, 20, result.Page.TotalCount)
	assert.Equal(t, 1, result.Page.TotalPages)
	assert.Equal(t, int64(29), result.Page.Items[0].ID)

	result, err = service.SeriesPage(context.Background(), facet.Genres, "drama", 2)
	require.NoError(t, err)
	assert.Empty(t, result.Page.Items)

	_, err = service.SeriesPage(context.Background(), facet.Genres, "drama", 0)
	assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))
}

/*
TestService_Create validates names and slugs per kind.
*/
func TestService_Create(t *testing.T) {
	service, repo, _ := newService()

	genre := &facet.Facet{Name: " Action "}
	require.NoError(t, service.Create(context.Background(), facet.Genres, genre))
	assert.Equal(t, "Action", genre.Name)
	assert.Equal(t, "action", genre.Slug)

	year := &facet.Facet{Name: "2025"}
	require.NoError(t, service.Create(context.Background(), facet.Years, year))
	assert.Empty(t, year.Slug)

	err := service.Create(context.Background(), facet.Years, &facet.Facet{Name: "2026", Slug: "x"})
	assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))

	err = service.Create(context.Background(), facet.Types, &facet.Facet{Name: "  "})
	assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))

	assert.Len(t, repo.rows[facet.Genres.Name], 1)
}

/*
TestHandler_Routes exercises the per-kind routes.
*/
func TestHandler_Routes(t *testing.T) {
	service, repo, _ := newService()
	repo.add(facet.Types, "Anime", "anime")
	repo.add(facet.Years, "2024", "")

	handler := facet.NewHandler(service)
	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	router.Route("/admin", func(admin chi.Router) {
		admin.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				claims := &sec.AuthClaims{Role: string(sec.RoleEditor)}
				next.ServeHTTP(writer, request.WithContext(ctxutil.WithAuthUser(request.Context(), claims)))
			})
		})
		handler.RegisterAdminRoutes(admin)
	})

	tests := []struct {
		method     string
		target     string
		body       string
		wantStatus int
	}{
		{http.MethodGet, "/types", "", http.StatusOK},
		{http.MethodGet, "/types/anime", "", http.StatusOK},
		{http.MethodGet, "/types/anime/series?page=1", "", http.StatusOK},
		{http.MethodGet, "/years/2024/series", "", http.StatusOK},
		{http.MethodGet, "/genres/none", "", http.StatusNotFound},
		{http.MethodPost, "/admin/genres", `{"name":"Comedy"}`, http.StatusCreated},
		{http.MethodPut, "/admin/types/1", `{"name":"Anime","slug":"anime"}`, http.StatusOK},
		{http.MethodPut, "/admin/types/99", `{"name":"Ghost"}`, http.StatusNotFound},
		{http.MethodDelete, "/admin/types/1", "", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body)))
			assert.Equal(t, tt.wantStatus, recorder.Code, recorder.Body.String())
		})
	}
}

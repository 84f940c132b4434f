package series_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tunreplay/internal/core/address"
	"github.com/taibuivan/tunreplay/internal/core/series"
	"github.com/taibuivan/tunreplay/internal/platform/apperr"
	"github.com/taibuivan/tunreplay/pkg/pagination"
	"github.com/taibuivan/tunreplay/pkg/pointer"
)

// fakeRepo is an in-memory [series.Repository].
type fakeRepo struct {
	rows   map[int64]*series.Series
	nextID int64
}

func newFakeRepo(rows ...*series.Series) *fakeRepo {
	repo := &fakeRepo{rows: make(map[int64]*series.Series)}
	for _, row := range rows {
		repo.nextID++
		if row.ID == 0 {
			row.ID = repo.nextID
		}
		repo.rows[row.ID] = row
	}
	return repo
}

func (repo *fakeRepo) matching(filter series.Filter) []*series.Series {
	var list []*series.Series
	for _, row := range repo.rows {
		if filter.TypeID != nil && (row.TypeID == nil || *row.TypeID != *filter.TypeID) {
			continue
		}
		if filter.GenreID != nil && !hasGenre(row, *filter.GenreID) {
			continue
		}
		if filter.PinnedOnly && !row.Pinned {
			continue
		}
		if filter.Query != "" && !strings.Contains(strings.ToLower(row.Title), strings.ToLower(filter.Query)) {
			continue
		}
		list = append(list, row)
	}

	sort.Slice(list, func(i, j int) bool {
		if filter.Sort == series.SortAdmin && list[i].Pinned != list[j].Pinned {
			return list[i].Pinned
		}
		if filter.Sort == series.SortOldest {
			return list[i].ID < list[j].ID
		}
		return list[i].ID > list[j].ID
	})
	return list
}

func hasGenre(row *series.Series, genreID int64) bool {
	for _, id := range row.GenreIDs {
		if id == genreID {
			return true
		}
	}
	return false
}

func (repo *fakeRepo) List(_ context.Context, filter series.Filter, limit, offset int) ([]*series.Series, int, error) {
	all := repo.matching(filter)
	list := []*series.Series{}
	for i := offset; i < len(all) && i < offset+limit; i++ {
		list = append(list, all[i])
	}
	return list, len(all), nil
}

func (repo *fakeRepo) Count(_ context.Context, filter series.Filter) (int, error) {
	return len(repo.matching(filter)), nil
}

func (repo *fakeRepo) FindByID(_ context.Context, id int64) (*series.Series, error) {
	row, ok := repo.rows[id]
	if !ok {
		return nil, apperr.NotFound("Series")
	}
	return row, nil
}

func (repo *fakeRepo) Create(_ context.Context, row *series.Series) error {
	repo.nextID++
	row.ID = repo.nextID
	repo.rows[row.ID] = row
	return nil
}

func (repo *fakeRepo) Update(_ context.Context, row *series.Series) error {
	if _, ok := repo.rows[row.ID]; !ok {
		return apperr.NotFound("Series")
	}
	repo.rows[row.ID] = row
	return nil
}

func (repo *fakeRepo) SetPinned(_ context.Context, id int64, pinned bool) error {
	row, ok := repo.rows[id]
	if !ok {
		return apperr.NotFound("Series")
	}
	row.Pinned = pinned
	return nil
}

func (repo *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := repo.rows[id]; !ok {
		return apperr.NotFound("Series")
	}
	delete(repo.rows, id)
	return nil
}

// fakeSlugs resolves exact slugs against the repo and derives slugs from titles.
type fakeSlugs struct {
	repo     *fakeRepo
	assigned []string
}

func (slugs *fakeSlugs) ResolveSlug(_ context.Context, scope address.Scope, raw string) (int64, error) {
	for _, row := range slugs.repo.rows {
		if row.Slug == raw {
			return row.ID, nil
		}
	}
	return 0, apperr.NotFound("Series")
}

func (slugs *fakeSlugs) AssignSlug(_ context.Context, scope address.Scope, supplied, label string, excludeID *int64) (string, error) {
	if supplied == "taken" {
		return "", apperr.Conflict("taken")
	}
	assigned := supplied
	if assigned == "" {
		assigned = strings.ToLower(strings.ReplaceAll(label, " ", "-"))
	}
	slugs.assigned = append(slugs.assigned, assigned)
	return assigned, nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(rows ...*series.Series) (*series.Service, *fakeRepo) {
	repo := newFakeRepo(rows...)
	return series.NewService(repo, &fakeSlugs{repo: repo}, discard()), repo
}

/*
TestService_Reads covers the public listings.
*/
func TestService_Reads(t *testing.T) {
	anime := pointer.To[int64](2)
	service, _ := newService(
		&series.Series{Title: "Lost", Slug: "lost"},
		&series.Series{Title: "Naruto", Slug: "naruto", TypeID: anime, Pinned: true},
		&series.Series{Title: "One Piece", Slug: "one-piece", TypeID: anime},
		&series.Series{Title: "The Lost Room", Slug: "the-lost-room", Pinned: true},
	)
	ctx := context.Background()

	latest, total, err := service.ListLatest(ctx, nil, pagination.Params{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Equal(t, []int64{4, 3}, ids(latest))

	byType, total, err := service.ListLatest(ctx, anime, pagination.Params{Page: 1, Limit: 12})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, []int64{3, 2}, ids(byType))

	pinned, err := service.ListPinned(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 2}, ids(pinned))

	found, params, total, err := service.Search(ctx, "lost", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, 12, params.Limit)
	assert.Equal(t, []int64{4, 1}, ids(found))

	detail, err := service.GetBySlug(ctx, "one-piece")
	require.NoError(t, err)
	assert.Equal(t, "One Piece", detail.Title)

	_, err = service.GetBySlug(ctx, "missing")
	assert.True(t, apperr.HasCode(err, "NOT_FOUND"))
}

/*
TestService_Search rejects empty and oversized queries.
*/
func TestService_Search(t *testing.T) {
	service, _ := newService()

	_, _, _, err := service.Search(context.Background(), "  ", 1)
	assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))

	_, _, _, err = service.Search(context.Background(), strings.Repeat("x", 201), 1)
	assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))

	_, params, _, err := service.Search(context.Background(), "x", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, params.Page)
}

/*
TestService_AdminList puts pinned series first.
*/
func TestService_AdminList(t *testing.T) {
	service, _ := newService(
		&series.Series{Title: "A", Pinned: true},
		&series.Series{Title: "B"},
		&series.Series{Title: "C", Pinned: true},
		&series.Series{Title: "D"},
	)

	list, total, err := service.AdminList(context.Background(), "", pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Equal(t, []int64{3, 1, 4, 2}, ids(list))
}

/*
TestService_Create assigns slugs and validates input.
*/
func TestService_Create(t *testing.T) {
	tests := []struct {
		name     string
		input    series.Series
		wantSlug string
		wantCode string
	}{
		{"derived_slug", series.Series{Title: "Breaking Bad"}, "breaking-bad", ""},
		{"supplied_slug", series.Series{Title: "Breaking Bad", Slug: "bb"}, "bb", ""},
		{"missing_title", series.Series{}, "", "VALIDATION_ERROR"},
		{"bad_season", series.Series{Title: "x", Season: pointer.To(-1)}, "", "VALIDATION_ERROR"},
		{"bad_genre", series.Series{Title: "x", GenreIDs: []int64{0}}, "", "VALIDATION_ERROR"},
		{"bad_type", series.Series{Title: "x", TypeID: pointer.To[int64](-3)}, "", "VALIDATION_ERROR"},
		{"slug_taken", series.Series{Title: "x", Slug: "taken"}, "", "CONFLICT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo := newService()
			input := tt.input

			err := service.Create(context.Background(), &input)
			if tt.wantCode != "" {
				assert.True(t, apperr.HasCode(err, tt.wantCode), "got %v", err)
				assert.Empty(t, repo.rows)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantSlug, input.Slug)
			assert.Equal(t, int64(1), input.ID)
		})
	}
}

/*
TestService_Mutations covers update, pin and delete.
*/
func TestService_Mutations(t *testing.T) {
	service, repo := newService(&series.Series{Title: "Lost", Slug: "lost"})
	ctx := context.Background()

	require.NoError(t, service.Update(ctx, &series.Series{ID: 1, Title: "Lost Again"}))
	assert.Equal(t, "lost-again", repo.rows[1].Slug)

	err := service.Update(ctx, &series.Series{ID: 99, Title: "Ghost"})
	assert.True(t, apperr.HasCode(err, "NOT_FOUND"))

	require.NoError(t, service.SetPinned(ctx, 1, true))
	assert.True(t, repo.rows[1].Pinned)

	require.NoError(t, service.Delete(ctx, 1, "u1"))
	assert.Empty(t, repo.rows)
	assert.True(t, apperr.HasCode(service.Delete(ctx, 1, "u1"), "NOT_FOUND"))
}

/*
TestFacetSource pages the series of one genre through [pagination.Read].
*/
func TestFacetSource(t *testing.T) {
	var rows []*series.Series
	for i := 0; i < 45; i++ {
		row := &series.Series{Title: "show"}
		if i%2 == 0 {
			row.GenreIDs = []int64{7}
		}
		rows = append(rows, row)
	}
	repo := newFakeRepo(rows...)
	source := series.NewFacetSource(repo, series.ByGenre)

	page, err := pagination.Read[*series.Series](context.Background(), source, 7, 2, 20, pagination.Order{Key: "id", Desc: true})
	require.NoError(t, err)

	assert.Equal(t, 23, page.TotalCount)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 3)
	assert.Equal(t, int64(5), page.Items[0].ID)

	t.Run("ascending", func(t *testing.T) {
		page, err := pagination.Read[*series.Series](context.Background(), source, 7, 1, 20, pagination.Order{Key: "id"})
		require.NoError(t, err)

		require.Len(t, page.Items, 20)
		assert.Equal(t, int64(1), page.Items[0].ID)
		assert.Equal(t, int64(3), page.Items[1].ID)
	})
}

func ids(list []*series.Series) []int64 {
	out := make([]int64, len(list))
	for i, row := range list {
		out[i] = row.ID
	}
	return out
}

/*
TestService_Create_DuplicateGenres stores each genre once.
*/
func TestService_Create_DuplicateGenres(t *testing.T) {
	service, _ := newService()
	input := series.Series{Title: "Dark", GenreIDs: []int64{3, 3, 4, 3}}

	require.NoError(t, service.Create(context.Background(), &input))
	assert.Equal(t, []int64{3, 4}, input.GenreIDs)
}

/*
TestService_DeleteRecordsActor writes the deleting user into the audit line.
*/
func TestService_DeleteRecordsActor(t *testing.T) {
	var buffer bytes.Buffer
	repo := newFakeRepo(&series.Series{ID: 1, Title: "Lost"})
	service := series.NewService(repo, &fakeSlugs{repo: repo}, slog.New(slog.NewJSONHandler(&buffer, nil)))

	require.NoError(t, service.Delete(context.Background(), 1, "u1"))
	assert.Contains(t, buffer.String(), `"msg":"series_deleted"`)
	assert.Contains(t, buffer.String(), `"deleted_by":"u1"`)
}

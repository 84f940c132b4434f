package series

import (
	"context"
	"log/slog"

	"github.com/taibuivan/tunreplay/internal/core/address"
	"github.com/taibuivan/tunreplay/internal/platform/constants"
	"github.com/taibuivan/tunreplay/internal/platform/validate"
	"github.com/taibuivan/tunreplay/pkg/pagination"
	"github.com/taibuivan/tunreplay/pkg/pointer"
	"github.com/taibuivan/tunreplay/pkg/slice"
)

// Slugs is the address capability the series service needs.
type Slugs interface {
	ResolveSlug(ctx context.Context, scope address.Scope, raw string) (int64, error)
	AssignSlug(ctx context.Context, scope address.Scope, supplied, label string, excludeID *int64) (string, error)
}

type Service struct {
	repo   Repository
	slugs  Slugs
	logger *slog.Logger
}

func NewService(repo Repository, slugs Slugs, logger *slog.Logger) *Service {
	return &Service{repo: repo, slugs: slugs, logger: logger}
}

var scope = address.In(address.CollectionSeries)

// # Public Reads

// ListLatest returns the newest series, optionally narrowed to one type.
func (service *Service) ListLatest(context context.Context, typeID *int64, params pagination.Params) ([]*Series, int, error) {
	return service.repo.List(context, Filter{TypeID: typeID, Sort: SortLatest}, params.Limit, params.Offset())
}

// ListPinned returns the pinned series, newest first.
func (service *Service) ListPinned(context context.Context) ([]*Series, error) {
	list, _, err := service.repo.List(context, Filter{PinnedOnly: true, Sort: SortLatest}, pagination.MaxLimit, 0)
	return list, err
}

// Search matches titles containing query, [constants.SearchPageSize] per page.
func (service *Service) Search(context context.Context, query string, page int) ([]*Series, pagination.Params, int, error) {
	validator := &validate.Validator{}
	validator.Required(FieldQuery, query).MaxLen(FieldQuery, query, 200)
	if err := validator.Err(); err != nil {
		return nil, pagination.Params{}, 0, err
	}

	params := pagination.Params{Page: max(page, 1), Limit: constants.SearchPageSize}
	list, total, err := service.repo.List(context, Filter{Query: query, Sort: SortLatest}, params.Limit, params.Offset())
	return list, params, total, err
}

// GetBySlug resolves a URL segment to its series.
func (service *Service) GetBySlug(context context.Context, raw string) (*Series, error) {
	id, err := service.slugs.ResolveSlug(context, scope, raw)
	if err != nil {
		return nil, err
	}
	return service.repo.FindByID(context, id)
}

func (service *Service) GetByID(context context.Context, id int64) (*Series, error) {
	return service.repo.FindByID(context, id)
}

// # Administration

// AdminList orders pinned series first, then newest. query is optional.
func (service *Service) AdminList(context context.Context, query string, params pagination.Params) ([]*Series, int, error) {
	return service.repo.List(context, Filter{Query: query, Sort: SortAdmin}, params.Limit, params.Offset())
}

/*
Create validates and stores a new series.

The slug is taken from series.Slug when given (normalized, must be free) and
otherwise allocated from the title.
*/
func (service *Service) Create(context context.Context, series *Series) error {
	if err := validateSeries(series); err != nil {
		return err
	}

	assigned, err := service.slugs.AssignSlug(context, scope, series.Slug, series.Title, nil)
	if err != nil {
		return err
	}
	series.Slug = assigned

	if err := service.repo.Create(context, series); err != nil {
		return err
	}

	service.logger.InfoContext(context, "series_created",
		slog.Int64("series_id", series.ID),
		slog.String("slug", series.Slug),
	)
	return nil
}

// Update overwrites every field of the series with id series.ID.
func (service *Service) Update(context context.Context, series *Series) error {
	if err := validateSeries(series); err != nil {
		return err
	}

	assigned, err := service.slugs.AssignSlug(context, scope, series.Slug, series.Title, pointer.To(series.ID))
	if err != nil {
		return err
	}
	series.Slug = assigned

	if err := service.repo.Update(context, series); err != nil {
		return err
	}

	service.logger.InfoContext(context, "series_updated", slog.Int64("series_id", series.ID))
	return nil
}

func (service *Service) SetPinned(context context.Context, id int64, pinned bool) error {
	if err := service.repo.SetPinned(context, id, pinned); err != nil {
		return err
	}

	service.logger.InfoContext(context, "series_pinned", slog.Int64("series_id", id), slog.Bool("pinned", pinned))
	return nil
}

// Delete removes the series. actor is the user id recorded in the audit log line.
func (service *Service) Delete(context context.Context, id int64, actor string) error {
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.WarnContext(context, "series_deleted",
		slog.Int64("series_id", id),
		slog.String("deleted_by", actor),
	)
	return nil
}

// validateSeries checks series and drops repeated genre ids.
func validateSeries(series *Series) error {
	series.GenreIDs = slice.Unique(series.GenreIDs)

	validator := &validate.Validator{}
	validator.Required(FieldTitle, series.Title).MaxLen(FieldTitle, series.Title, 500)
	validator.MaxLen(FieldSlug, series.Slug, 500)

	if series.Season != nil {
		validator.Range(FieldSeason, *series.Season, 0, 1000)
	}
	if series.EpisodesNumber != nil {
		validator.Range(FieldEpisodesNumber, *series.EpisodesNumber, 0, 100000)
	}
	for _, genreID := range series.GenreIDs {
		validator.Positive(FieldGenreIDs, genreID)
	}
	facets := []struct {
		field string
		id    *int64
	}{
		{"type_id", series.TypeID},
		{"nation_id", series.NationID},
		{"year_id", series.YearID},
		{"status_id", series.StatusID},
	}
	for _, facet := range facets {
		if facet.id != nil {
			validator.Positive(facet.field, *facet.id)
		}
	}

	return validator.Err()
}

package facet

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/taibuivan/tunreplay/internal/core/address"
	"github.com/taibuivan/tunreplay/internal/core/series"
	"github.com/taibuivan/tunreplay/internal/platform/constants"
	"github.com/taibuivan/tunreplay/internal/platform/validate"
	"github.com/taibuivan/tunreplay/pkg/pagination"
	"github.com/taibuivan/tunreplay/pkg/pointer"
)

type Slugs interface {
	ResolveSlug(ctx context.Context, scope address.Scope, raw string) (int64, error)
	AssignSlug(ctx context.Context, scope address.Scope, supplied, label string, excludeID *int64) (string, error)
}

type Service struct {
	repo    Repository
	slugs   Slugs
	sources map[string]pagination.Source[*series.Series]
	logger  *slog.Logger
}

// NewService pages facet series through seriesRepo.
func NewService(repo Repository, slugs Slugs, seriesRepo series.Repository, logger *slog.Logger) *Service {
	sources := make(map[string]pagination.Source[*series.Series], len(Kinds))
	for _, kind := range Kinds {
		sources[kind.Name] = series.NewFacetSource(seriesRepo, kind.SeriesKey)
	}
	return &Service{repo: repo, slugs: slugs, sources: sources, logger: logger}
}

// newestFirst orders facet series by descending id.
var newestFirst = pagination.Order{Key: "id", Desc: true}

func (service *Service) List(context context.Context, kind Kind) ([]*Facet, error) {
	return service.repo.List(context, kind)
}

// Get resolves raw by slug, or by name for years.
func (service *Service) Get(context context.Context, kind Kind, raw string) (*Facet, error) {
	if !kind.Slugged() {
		return service.repo.FindByName(context, kind, strings.TrimSpace(address.Decode(raw)))
	}

	id, err := service.slugs.ResolveSlug(context, address.In(kind.Collection), raw)
	if err != nil {
		return nil, err
	}
	return service.repo.FindByID(context, kind, id)
}

// SeriesPage is one page of the series classified under a facet row.
type SeriesPage struct {
	Facet *Facet                          `json:"facet"`
	Page  pagination.Page[*series.Series] `json:"page"`
}

// SeriesPage returns the series of the row addressed by raw,
// [constants.FacetSeriesPageSize] per page, newest first.
func (service *Service) SeriesPage(context context.Context, kind Kind, raw string, pageNumber int) (*SeriesPage, error) {
	facet, err := service.Get(context, kind, raw)
	if err != nil {
		return nil, err
	}

	page, err := pagination.Read[*series.Series](context, service.sources[kind.Name], facet.ID, pageNumber, constants.FacetSeriesPageSize, newestFirst)
	if errors.Is(err, pagination.ErrInvalidPage) {
		return nil, validate.RequiredError(FieldPage, "Must be a positive page number")
	}
	if err != nil {
		return nil, err
	}
	return &SeriesPage{Facet: facet, Page: page}, nil
}

// # Administration

func (service *Service) Create(context context.Context, kind Kind, facet *Facet) error {
	if err := service.prepare(context, kind, facet, nil); err != nil {
		return err
	}
	if err := service.repo.Create(context, kind, facet); err != nil {
		return err
	}

	service.logger.InfoContext(context, "facet_created",
		slog.String("kind", kind.Name),
		slog.Int64("id", facet.ID),
		slog.String("slug", facet.Slug),
	)
	return nil
}

func (service *Service) Update(context context.Context, kind Kind, facet *Facet) error {
	if err := service.prepare(context, kind, facet, pointer.To(facet.ID)); err != nil {
		return err
	}
	if err := service.repo.Update(context, kind, facet); err != nil {
		return err
	}

	service.logger.InfoContext(context, "facet_updated", slog.String("kind", kind.Name), slog.Int64("id", facet.ID))
	return nil
}

func (service *Service) Delete(context context.Context, kind Kind, id int64) error {
	if err := service.repo.Delete(context, kind, id); err != nil {
		return err
	}

	service.logger.WarnContext(context, "facet_deleted", slog.String("kind", kind.Name), slog.Int64("id", id))
	return nil
}

// prepare validates facet and assigns its slug.
func (service *Service) prepare(context context.Context, kind Kind, facet *Facet, excludeID *int64) error {
	facet.Name = strings.TrimSpace(facet.Name)

	validator := &validate.Validator{}
	validator.Required(FieldName, facet.Name).MaxLen(FieldName, facet.Name, 200)
	if !kind.Slugged() {
		validator.Custom(FieldSlug, facet.Slug != "", "Years have no slug")
	}
	if err := validator.Err(); err != nil {
		return err
	}

	if !kind.Slugged() {
		return nil
	}

	assigned, err := service.slugs.AssignSlug(context, address.In(kind.Collection), facet.Slug, facet.Name, excludeID)
	if err != nil {
		return err
	}
	facet.Slug = assigned
	return nil
}

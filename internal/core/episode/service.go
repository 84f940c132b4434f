package episode

import (
	"context"
	"errors"
	"log/slog"

	"github.com/taibuivan/tunreplay/internal/core/address"
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
	repo   Repository
	slugs  Slugs
	logger *slog.Logger
}

func NewService(repo Repository, slugs Slugs, logger *slog.Logger) *Service {
	return &Service{repo: repo, slugs: slugs, logger: logger}
}

// episodeOrder lists a series in broadcast order.
var episodeOrder = pagination.Order{Key: OrderNumber}

// # Public Reads

/*
Page returns page pageNumber of the episodes of the series addressed by
seriesSlug, [constants.EpisodesPageSize] per page.

A page past the end is returned empty rather than as an error.
*/
func (service *Service) Page(context context.Context, seriesSlug string, pageNumber int) (pagination.Page[*Episode], error) {
	seriesID, err := service.slugs.ResolveSlug(context, address.In(address.CollectionSeries), seriesSlug)
	if err != nil {
		return pagination.Page[*Episode]{}, err
	}
	return service.PageOf(context, seriesID, pageNumber, constants.EpisodesPageSize)
}

// PageOf pages the episodes of seriesID.
func (service *Service) PageOf(context context.Context, seriesID int64, pageNumber, pageSize int) (pagination.Page[*Episode], error) {
	page, err := pagination.Read[*Episode](context, service.repo, seriesID, pageNumber, pageSize, episodeOrder)
	if errors.Is(err, pagination.ErrInvalidPage) {
		return page, validate.RequiredError(FieldPage, "Must be a positive page number")
	}
	return page, err
}

// Get resolves both slugs; the episode slug is looked up only within its series.
func (service *Service) Get(context context.Context, seriesSlug, episodeSlug string) (*Episode, error) {
	seriesID, err := service.slugs.ResolveSlug(context, address.In(address.CollectionSeries), seriesSlug)
	if err != nil {
		return nil, err
	}

	episodeID, err := service.slugs.ResolveSlug(context, address.EpisodesOf(seriesID), episodeSlug)
	if err != nil {
		return nil, err
	}
	return service.repo.FindByID(context, episodeID)
}

func (service *Service) Latest(context context.Context) ([]*Episode, error) {
	return service.repo.Latest(context, constants.LatestEpisodesLimit)
}

func (service *Service) GetByID(context context.Context, id int64) (*Episode, error) {
	return service.repo.FindByID(context, id)
}

// # Administration

// Create stores a new episode of episode.SeriesID. Number and season default to 1.
func (service *Service) Create(context context.Context, episode *Episode) error {
	applyDefaults(episode)

	validator := &validate.Validator{}
	validator.Positive(FieldSeriesID, episode.SeriesID)
	if err := validateEpisode(validator, episode); err != nil {
		return err
	}

	assigned, err := service.slugs.AssignSlug(context, address.EpisodesOf(episode.SeriesID), episode.Slug, episode.Title, nil)
	if err != nil {
		return err
	}
	episode.Slug = assigned

	if err := service.repo.Create(context, episode); err != nil {
		return err
	}

	service.logger.InfoContext(context, "episode_created",
		slog.Int64("episode_id", episode.ID),
		slog.Int64("series_id", episode.SeriesID),
		slog.String("slug", episode.Slug),
	)
	return nil
}

// Update rewrites episode.ID; the owning series is kept.
func (service *Service) Update(context context.Context, episode *Episode) error {
	applyDefaults(episode)
	if err := validateEpisode(&validate.Validator{}, episode); err != nil {
		return err
	}

	current, err := service.repo.FindByID(context, episode.ID)
	if err != nil {
		return err
	}

	assigned, err := service.slugs.AssignSlug(context, address.EpisodesOf(current.SeriesID), episode.Slug, episode.Title, pointer.To(episode.ID))
	if err != nil {
		return err
	}
	episode.Slug = assigned

	if err := service.repo.Update(context, episode); err != nil {
		return err
	}

	service.logger.InfoContext(context, "episode_updated", slog.Int64("episode_id", episode.ID))
	return nil
}

func (service *Service) Delete(context context.Context, id int64) error {
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.WarnContext(context, "episode_deleted", slog.Int64("episode_id", id))
	return nil
}

func applyDefaults(episode *Episode) {
	if episode.EpisodeNumber == 0 {
		episode.EpisodeNumber = 1
	}
	if episode.Season == 0 {
		episode.Season = 1
	}
}

func validateEpisode(validator *validate.Validator, episode *Episode) error {
	validator.Required(FieldTitle, episode.Title).MaxLen(FieldTitle, episode.Title, 500)
	validator.MaxLen(FieldSlug, episode.Slug, 500)
	validator.Range(FieldEpisodeNumber, episode.EpisodeNumber, 1, 100000)
	validator.Range(FieldSeason, episode.Season, 1, 1000)
	validator.MaxLen(FieldEmbedURL, episode.EmbedURL, 2000)
	return validator.Err()
}

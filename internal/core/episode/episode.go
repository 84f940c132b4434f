// Package episode manages the episodes of a series: the paged public list,
// detail pages addressed by series and episode slug, the latest feed and
// admin editing.
package episode

import "time"

// SeriesRef identifies the series an episode belongs to.
type SeriesRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

type Episode struct {
	ID            int64      `json:"id"`
	SeriesID      int64      `json:"series_id"`
	EpisodeNumber int        `json:"episode_number"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Image         string     `json:"image,omitempty"`
	EmbedURL      string     `json:"embed_url,omitempty"`
	Description   string     `json:"description,omitempty"`
	Season        int        `json:"season"`
	Series        *SeriesRef `json:"series,omitempty"` // Read-only
	CreatedAt     time.Time  `json:"created_at"`
}

// Order keys accepted by the paged list.
const (
	OrderNumber  = "number"
	OrderCreated = "created"
)

const (
	FieldTitle         = "title"
	FieldSlug          = "slug"
	FieldSeriesID      = "series_id"
	FieldEpisodeNumber = "episode_number"
	FieldSeason        = "season"
	FieldEmbedURL      = "embed_url"
	FieldPage          = "page"
)

/*
Package series manages the catalogue's series: the shows that episodes,
facets and schedule slots hang off.

A series is addressed publicly by slug (resolved through the address
service) and administratively by id.
*/
package series

import "time"

// Ref is a compact reference to a facet row.
type Ref struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Series is one show in the catalogue.
type Series struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Slug           string     `json:"slug"`
	Image          string     `json:"image,omitempty"`
	Description    string     `json:"description,omitempty"`
	Duration       string     `json:"duration,omitempty"`
	Source         string     `json:"source,omitempty"`
	EpisodesNumber *int       `json:"episodes_number,omitempty"` // Announced episode count
	Season         *int       `json:"season,omitempty"`
	TrailerEmbed   string     `json:"trailer_embed_vid,omitempty"`
	TypeID         *int64     `json:"type_id,omitempty"`
	NationID       *int64     `json:"nation_id,omitempty"`
	YearID         *int64     `json:"year_id,omitempty"`
	StatusID       *int64     `json:"status_id,omitempty"`
	ReleaseDate    *time.Time `json:"release_date,omitempty"`
	Pinned         bool       `json:"pinned"`
	Genres         []Ref      `json:"genres"`

	// GenreIDs replaces the genre links on create and update.
	GenreIDs []int64 `json:"genre_ids,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Sort selects the ordering of [Filter] results.
type Sort int

const (
	// SortLatest orders newest first.
	SortLatest Sort = iota
	// SortAdmin puts pinned series first, then newest.
	SortAdmin
	// SortOldest orders by ascending id.
	SortOldest
)

// Filter narrows a series listing.
//
// Facet ids combine with AND; nil leaves that facet unconstrained.
type Filter struct {
	TypeID     *int64
	NationID   *int64
	YearID     *int64
	StatusID   *int64
	GenreID    *int64
	PinnedOnly bool
	// Query matches titles case-insensitively as a substring.
	Query string
	Sort  Sort
}

// # Field Names

const (
	FieldTitle          = "title"
	FieldSlug           = "slug"
	FieldQuery          = "q"
	FieldSeason         = "season"
	FieldEpisodesNumber = "episodes_number"
	FieldGenreIDs       = "genre_ids"
)

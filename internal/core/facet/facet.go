/*
Package facet serves the lookup tables series are classified by: types,
nations, genres, statuses and release years.

The first four are addressed by slug. Years carry no slug and are addressed
by their name ("2024").
*/
package facet

import (
	"github.com/taibuivan/tunreplay/internal/core/address"
	"github.com/taibuivan/tunreplay/internal/core/series"
	"github.com/taibuivan/tunreplay/internal/platform/database/schema"
)

// Facet is one row of a lookup table. Slug is empty for years.
type Facet struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// Kind describes one lookup table.
type Kind struct {
	// Name is the URL segment ("genres").
	Name string
	// Collection is the slug namespace, or "" for years.
	Collection address.Collection
	SeriesKey  series.FacetKey
	// Label names a single row in messages ("Genre").
	Label string

	table, id, name, slug string
}

// Slugged reports whether rows of the kind are addressed by slug.
func (kind Kind) Slugged() bool {
	return kind.Collection != ""
}

func slugged(name, label string, collection address.Collection, key series.FacetKey, table schema.FacetTable) Kind {
	return Kind{
		Name: name, Label: label, Collection: collection, SeriesKey: key,
		table: table.Table, id: table.ID, name: table.Name, slug: table.Slug,
	}
}

var (
	Types    = slugged("types", "Type", address.CollectionTypes, series.ByType, schema.Type)
	Nations  = slugged("nations", "Nation", address.CollectionNations, series.ByNation, schema.Nation)
	Genres   = slugged("genres", "Genre", address.CollectionGenres, series.ByGenre, schema.Genre)
	Statuses = slugged("statuses", "Status", address.CollectionStatuses, series.ByStatus, schema.Status)
	Years    = Kind{
		Name: "years", Label: "Year", SeriesKey: series.ByYear,
		table: schema.Year.Table, id: schema.Year.ID, name: schema.Year.Name,
	}
)

// Kinds lists every lookup table in route order.
var Kinds = []Kind{Types, Nations, Genres, Statuses, Years}

const (
	FieldName = "name"
	FieldSlug = "slug"
	FieldPage = "page"
)

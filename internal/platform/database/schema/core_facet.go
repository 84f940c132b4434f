package schema

// FacetTable represents one of the slugged lookup tables
// ('core.types', 'core.nations', 'core.genres', 'core.statuses').
type FacetTable struct {
	Table string
	ID    string
	Name  string
	Slug  string

	// SeriesColumn is the core.series foreign key pointing at this table.
	// Empty for genres, which link through core.series_genres.
	SeriesColumn string
}

// Type is the schema definition for core.types
var Type = FacetTable{Table: "core.types", ID: "id", Name: "name", Slug: "slug", SeriesColumn: Series.TypeID}

// Nation is the schema definition for core.nations
var Nation = FacetTable{Table: "core.nations", ID: "id", Name: "name", Slug: "slug", SeriesColumn: Series.NationID}

// Genre is the schema definition for core.genres
var Genre = FacetTable{Table: "core.genres", ID: "id", Name: "name", Slug: "slug"}

// Status is the schema definition for core.statuses
var Status = FacetTable{Table: "core.statuses", ID: "id", Name: "name", Slug: "slug", SeriesColumn: Series.StatusID}

func (t FacetTable) Columns() []string {
	return []string{t.ID, t.Name, t.Slug}
}

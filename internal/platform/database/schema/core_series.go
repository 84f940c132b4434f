package schema

// SeriesTable represents the 'core.series' table
type SeriesTable struct {
	Table          string
	ID             string
	Title          string
	Slug           string
	Image          string
	Description    string
	Duration       string
	Source         string
	EpisodesNumber string
	Season         string
	TrailerEmbed   string
	TypeID         string
	NationID       string
	YearID         string
	StatusID       string
	ReleaseDate    string
	Pinned         string
	CreatedAt      string
	UpdatedAt      string
}

// Series is the schema definition for core.series
var Series = SeriesTable{
	Table:          "core.series",
	ID:             "id",
	Title:          "title",
	Slug:           "slug",
	Image:          "image",
	Description:    "description",
	Duration:       "duration",
	Source:         "source",
	EpisodesNumber: "episodes_number",
	Season:         "season",
	TrailerEmbed:   "trailer_embed_vid",
	TypeID:         "type_id",
	NationID:       "nation_id",
	YearID:         "year_id",
	StatusID:       "status_id",
	ReleaseDate:    "release_date",
	Pinned:         "pinned",
	CreatedAt:      "created_at",
	UpdatedAt:      "updated_at",
}

func (t SeriesTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Slug, t.Image, t.Description, t.Duration, t.Source,
		t.EpisodesNumber, t.Season, t.TrailerEmbed, t.TypeID, t.NationID,
		t.YearID, t.StatusID, t.ReleaseDate, t.Pinned, t.CreatedAt, t.UpdatedAt,
	}
}

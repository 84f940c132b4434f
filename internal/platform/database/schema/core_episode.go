package schema

// EpisodeTable represents the 'core.episodes' table
type EpisodeTable struct {
	Table         string
	ID            string
	SeriesID      string
	EpisodeNumber string
	Title         string
	Slug          string
	Image         string
	EmbedURL      string
	Description   string
	Season        string
	CreatedAt     string
}

// Episode is the schema definition for core.episodes
var Episode = EpisodeTable{
	Table:         "core.episodes",
	ID:            "id",
	SeriesID:      "series_id",
	EpisodeNumber: "episode_number",
	Title:         "title",
	Slug:          "slug",
	Image:         "image",
	EmbedURL:      "embed_url",
	Description:   "description",
	Season:        "season",
	CreatedAt:     "created_at",
}

func (t EpisodeTable) Columns() []string {
	return []string{
		t.ID, t.SeriesID, t.EpisodeNumber, t.Title, t.Slug, t.Image,
		t.EmbedURL, t.Description, t.Season, t.CreatedAt,
	}
}

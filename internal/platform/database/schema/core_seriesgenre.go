package schema

// SeriesGenreTable represents the 'core.series_genres' link table
type SeriesGenreTable struct {
	Table    string
	SeriesID string
	GenreID  string
}

// SeriesGenre is the schema definition for core.series_genres
var SeriesGenre = SeriesGenreTable{
	Table:    "core.series_genres",
	SeriesID: "series_id",
	GenreID:  "genre_id",
}

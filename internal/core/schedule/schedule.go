/*
Package schedule serves the weekly release schedule: which series air on
which weekday, and at what time.
*/
package schedule

import "time"

// SeriesRef is the series an entry announces.
type SeriesRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
	Image string `json:"image,omitempty"`
}

// Entry is one row of the schedule. Time is "H:MM", "HH:MM" or "HH:MM:SS".
type Entry struct {
	ID       int64      `json:"id"`
	Day      string     `json:"day"`
	Time     string     `json:"time"`
	SeriesID int64      `json:"series_id"`
	Series   *SeriesRef `json:"series,omitempty"`
}

// Slot groups the entries that share an HH:MM time on one day.
type Slot struct {
	Time    string   `json:"time"`
	Entries []*Entry `json:"entries"`
}

// Day is the public view of one weekday.
type Day struct {
	Day   string `json:"day"`
	Slots []Slot `json:"slots"`
}

// Days lists the weekday names in [time.Weekday] order.
var Days = func() []string {
	days := make([]string, 7)
	for weekday := time.Sunday; weekday <= time.Saturday; weekday++ {
		days[weekday] = weekday.String()
	}
	return days
}()

const (
	FieldDay      = "day"
	FieldTime     = "time"
	FieldSeriesID = "series_id"
)

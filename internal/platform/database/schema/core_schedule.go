package schema

// ScheduleTable represents the 'core.schedule' table
type ScheduleTable struct {
	Table    string
	ID       string
	Day      string
	Time     string
	SeriesID string
}

// Schedule is the schema definition for core.schedule
var Schedule = ScheduleTable{
	Table:    "core.schedule",
	ID:       "id",
	Day:      "day",
	Time:     "time",
	SeriesID: "series_id",
}

func (t ScheduleTable) Columns() []string {
	return []string{t.ID, t.Day, t.Time, t.SeriesID}
}

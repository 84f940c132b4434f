package schema

// YearTable represents the 'core.years' table. Years have no slug and are
// addressed by name.
type YearTable struct {
	Table string
	ID    string
	Name  string
}

// Year is the schema definition for core.years
var Year = YearTable{
	Table: "core.years",
	ID:    "id",
	Name:  "name",
}

func (t YearTable) Columns() []string {
	return []string{t.ID, t.Name}
}

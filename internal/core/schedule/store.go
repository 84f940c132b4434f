package schedule

import "context"

type Repository interface {
	// List returns the entries of day, or of every day when day is "".
	List(context context.Context, day string) ([]*Entry, error)
	Create(context context.Context, entry *Entry) error
	Delete(context context.Context, id int64) error
}

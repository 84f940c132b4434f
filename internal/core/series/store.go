package series

import "context"

type Repository interface {
	// List returns one window of series matching filter and the total count.
	List(context context.Context, filter Filter, limit, offset int) ([]*Series, int, error)
	// Count returns the number of series matching filter.
	Count(context context.Context, filter Filter) (int, error)
	FindByID(context context.Context, id int64) (*Series, error)

	// Create inserts series and its genre links, filling ID and timestamps.
	Create(context context.Context, series *Series) error
	// Update overwrites series and replaces its genre links.
	Update(context context.Context, series *Series) error

	SetPinned(context context.Context, id int64, pinned bool) error
	Delete(context context.Context, id int64) error
}

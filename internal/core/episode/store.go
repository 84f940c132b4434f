package episode

import (
	"context"

	"github.com/taibuivan/tunreplay/pkg/pagination"
)

type Repository interface {
	// Count and List page the episodes of the series given as parent.
	pagination.Source[*Episode]

	FindByID(context context.Context, id int64) (*Episode, error)
	// Latest returns the most recently added episodes across all series.
	Latest(context context.Context, limit int) ([]*Episode, error)

	Create(context context.Context, episode *Episode) error
	Update(context context.Context, episode *Episode) error
	Delete(context context.Context, id int64) error
}

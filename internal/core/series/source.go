package series

import (
	"context"

	"github.com/taibuivan/tunreplay/pkg/pagination"
)

// FacetKey names the facet a [FacetSource] groups series by.
type FacetKey string

const (
	ByType   FacetKey = "type"
	ByNation FacetKey = "nation"
	ByYear   FacetKey = "year"
	ByStatus FacetKey = "status"
	ByGenre  FacetKey = "genre"
)

// FacetSource exposes the series of one facet value as a paged collection,
// with the facet row id as parent.
type FacetSource struct {
	repo Repository
	key  FacetKey
}

var _ pagination.Source[*Series] = (*FacetSource)(nil)

func NewFacetSource(repo Repository, key FacetKey) *FacetSource {
	return &FacetSource{repo: repo, key: key}
}

func (source *FacetSource) Count(context context.Context, parentID int64) (int, error) {
	return source.repo.Count(context, source.filter(parentID, pagination.Order{}))
}

// List supports the order keys "id" and "pinned". Desc selects the id
// direction; "pinned" always lists pinned series first, newest first.
func (source *FacetSource) List(context context.Context, parentID int64, offset, limit int, order pagination.Order) ([]*Series, error) {
	list, _, err := source.repo.List(context, source.filter(parentID, order), limit, offset)
	return list, err
}

func (source *FacetSource) filter(parentID int64, order pagination.Order) Filter {
	filter := Filter{Sort: SortLatest}
	switch {
	case order.Key == "pinned":
		filter.Sort = SortAdmin
	case !order.Desc:
		filter.Sort = SortOldest
	}

	id := &parentID
	switch source.key {
	case ByType:
		filter.TypeID = id
	case ByNation:
		filter.NationID = id
	case ByYear:
		filter.YearID = id
	case ByStatus:
		filter.StatusID = id
	case ByGenre:
		filter.GenreID = id
	}
	return filter
}

package facet

import "context"

type Repository interface {
	List(context context.Context, kind Kind) ([]*Facet, error)
	FindByID(context context.Context, kind Kind, id int64) (*Facet, error)
	// FindByName looks a row up by exact name; used for years.
	FindByName(context context.Context, kind Kind, name string) (*Facet, error)

	Create(context context.Context, kind Kind, facet *Facet) error
	Update(context context.Context, kind Kind, facet *Facet) error
	Delete(context context.Context, kind Kind, id int64) error
}

package address

import "context"

// Store reads the slugs of one scope.
type Store interface {
	SuffixFinder

	// ListSlugs returns every {id, slug} pair of scope.
	ListSlugs(ctx context.Context, scope Scope) ([]Candidate, error)

	// SlugExists reports whether candidate is taken in scope by a row other
	// than excludeID.
	SlugExists(ctx context.Context, scope Scope, candidate string, excludeID *int64) (bool, error)
}

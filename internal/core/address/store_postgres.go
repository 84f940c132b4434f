package address

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taibuivan/tunreplay/internal/platform/database/schema"
	"github.com/taibuivan/tunreplay/internal/platform/dberr"
	"github.com/taibuivan/tunreplay/internal/platform/postgres"
)

// PostgresStore implements [Store] over the catalogue tables.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a new [PostgresStore].
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// table describes where a scope's slugs live.
type table struct {
	name, id, slug string
	// parent is the column filtered by Scope.ParentID, or "".
	parent string
}

func tableFor(scope Scope) (table, error) {
	switch scope.Collection {
	case CollectionSeries:
		return table{name: schema.Series.Table, id: schema.Series.ID, slug: schema.Series.Slug}, nil
	case CollectionEpisodes:
		return table{name: schema.Episode.Table, id: schema.Episode.ID, slug: schema.Episode.Slug, parent: schema.Episode.SeriesID}, nil
	case CollectionTypes:
		return facetTable(schema.Type), nil
	case CollectionNations:
		return facetTable(schema.Nation), nil
	case CollectionGenres:
		return facetTable(schema.Genre), nil
	case CollectionStatuses:
		return facetTable(schema.Status), nil
	}
	return table{}, fmt.Errorf("address: unknown collection %q", scope.Collection)
}

func facetTable(facet schema.FacetTable) table {
	return table{name: facet.Table, id: facet.ID, slug: facet.Slug}
}

// where returns the scope filter and its arguments, starting at placeholder $n.
func (t table) where(scope Scope, n int) (string, []any) {
	if t.parent == "" {
		return "TRUE", nil
	}
	return fmt.Sprintf("%s = $%d", t.parent, n), []any{scope.ParentID}
}

func (repository *PostgresStore) ListSlugs(context context.Context, scope Scope) ([]Candidate, error) {
	t, err := tableFor(scope)
	if err != nil {
		return nil, err
	}

	where, args := t.where(scope, 1)
	query := fmt.Sprintf(`SELECT %s, %s FROM %s WHERE %s`, t.id, t.slug, t.name, where)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list_slugs")
	}
	defer rows.Close()

	var candidates []Candidate
	for rows.Next() {
		var candidate Candidate
		if err := rows.Scan(&candidate.ID, &candidate.Slug); err != nil {
			return nil, dberr.Wrap(err, "scan_slug")
		}
		candidates = append(candidates, candidate)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_slugs")
	}
	return candidates, nil
}

func (repository *PostgresStore) SlugExists(context context.Context, scope Scope, candidate string, excludeID *int64) (bool, error) {
	t, err := tableFor(scope)
	if err != nil {
		return false, err
	}

	where, args := t.where(scope, 3)
	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s WHERE %s = $1 AND ($2::BIGINT IS NULL OR %s <> $2) AND %s
		)`, t.name, t.slug, t.id, where)

	var exists bool
	args = append([]any{candidate, excludeID}, args...)
	if err := repository.db.QueryRow(context, query, args...).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "slug_exists")
	}
	return exists, nil
}

// SlugsEndingWith uses the reverse(slug) indexes so the ends-with scan is a
// prefix range rather than a sequential scan.
func (repository *PostgresStore) SlugsEndingWith(context context.Context, scope Scope, suffix string, limit int) ([]Candidate, error) {
	t, err := tableFor(scope)
	if err != nil {
		return nil, err
	}

	where, args := t.where(scope, 3)
	query := fmt.Sprintf(`
		SELECT %s, %s FROM %s
		WHERE reverse(%s) LIKE $1 || '%%' AND %s
		ORDER BY %s
		LIMIT $2`, t.id, t.slug, t.name, t.slug, where, t.id)

	args = append([]any{reversedPattern(suffix), limit}, args...)
	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "slugs_ending_with")
	}
	defer rows.Close()

	var candidates []Candidate
	for rows.Next() {
		var candidate Candidate
		if err := rows.Scan(&candidate.ID, &candidate.Slug); err != nil {
			return nil, dberr.Wrap(err, "scan_slug")
		}
		candidates = append(candidates, candidate)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "slugs_ending_with")
	}
	return candidates, nil
}

// reversedPattern reverses suffix by code point, as reverse() does, and
// escapes LIKE metacharacters.
func reversedPattern(suffix string) string {
	runes := []rune(suffix)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return postgres.EscapeLike(string(runes))
}

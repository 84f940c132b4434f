package facet

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taibuivan/tunreplay/internal/platform/apperr"
	"github.com/taibuivan/tunreplay/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// columns selects id, name and slug ('' for years).
func (kind Kind) columns() string {
	slug := "''"
	if kind.slug != "" {
		slug = kind.slug
	}
	return fmt.Sprintf("%s, %s, %s", kind.id, kind.name, slug)
}

func (kind Kind) resource() string {
	return kind.Label
}

func (repository *PostgresRepository) List(context context.Context, kind Kind) ([]*Facet, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s`, kind.columns(), kind.table, kind.name)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, kind.resource())
	}
	defer rows.Close()

	list := []*Facet{}
	for rows.Next() {
		facet := &Facet{}
		if err := rows.Scan(&facet.ID, &facet.Name, &facet.Slug); err != nil {
			return nil, dberr.Wrap(err, kind.resource())
		}
		list = append(list, facet)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, kind.resource())
	}
	return list, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, kind Kind, id int64) (*Facet, error) {
	return repository.findBy(context, kind, kind.id, id)
}

func (repository *PostgresRepository) FindByName(context context.Context, kind Kind, name string) (*Facet, error) {
	return repository.findBy(context, kind, kind.name, name)
}

func (repository *PostgresRepository) findBy(context context.Context, kind Kind, column string, value any) (*Facet, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, kind.columns(), kind.table, column)

	facet := &Facet{}
	if err := repository.db.QueryRow(context, query, value).Scan(&facet.ID, &facet.Name, &facet.Slug); err != nil {
		return nil, dberr.Wrap(err, kind.resource())
	}
	return facet, nil
}

func (repository *PostgresRepository) Create(context context.Context, kind Kind, facet *Facet) error {
	var query string
	args := []any{facet.Name}
	if kind.Slugged() {
		query = fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s`, kind.table, kind.name, kind.slug, kind.id)
		args = append(args, facet.Slug)
	} else {
		query = fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1) RETURNING %s`, kind.table, kind.name, kind.id)
	}

	err := repository.db.QueryRow(context, query, args...).Scan(&facet.ID)
	return dberr.Wrap(err, kind.resource())
}

func (repository *PostgresRepository) Update(context context.Context, kind Kind, facet *Facet) error {
	var query string
	args := []any{facet.ID, facet.Name}
	if kind.Slugged() {
		query = fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`, kind.table, kind.name, kind.slug, kind.id)
		args = append(args, facet.Slug)
	} else {
		query = fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`, kind.table, kind.name, kind.id)
	}

	tag, err := repository.db.Exec(context, query, args...)
	if err != nil {
		return dberr.Wrap(err, kind.resource())
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(kind.resource())
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, kind Kind, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, kind.table, kind.id)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, kind.resource())
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(kind.resource())
	}
	return nil
}

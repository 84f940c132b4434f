package schedule

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taibuivan/tunreplay/internal/platform/apperr"
	"github.com/taibuivan/tunreplay/internal/platform/database/schema"
	"github.com/taibuivan/tunreplay/internal/platform/dberr"
)

const resource = "Schedule entry"

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) List(context context.Context, day string) ([]*Entry, error) {
	c, s := schema.Schedule, schema.Series
	query := fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, c.%s, s.%s, s.%s, COALESCE(s.%s, '')
		FROM %s c
		JOIN %s s ON s.%s = c.%s
		WHERE ($1 = '' OR c.%s = $1)
		ORDER BY c.%s, c.%s, c.%s`,
		c.ID, c.Day, c.Time, c.SeriesID, s.Title, s.Slug, s.Image,
		c.Table, s.Table, s.ID, c.SeriesID,
		c.Day,
		c.Day, c.Time, c.ID)

	rows, err := repository.db.Query(context, query, day)
	if err != nil {
		return nil, dberr.Wrap(err, resource)
	}
	defer rows.Close()

	list := []*Entry{}
	for rows.Next() {
		entry := &Entry{Series: &SeriesRef{}}
		if err := rows.Scan(&entry.ID, &entry.Day, &entry.Time, &entry.SeriesID,
			&entry.Series.Title, &entry.Series.Slug, &entry.Series.Image); err != nil {
			return nil, dberr.Wrap(err, resource)
		}
		entry.Series.ID = entry.SeriesID
		list = append(list, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, resource)
	}
	return list, nil
}

func (repository *PostgresRepository) Create(context context.Context, entry *Entry) error {
	c := schema.Schedule
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3) RETURNING %s`,
		c.Table, c.Day, c.Time, c.SeriesID, c.ID)

	err := repository.db.QueryRow(context, query, entry.Day, entry.Time, entry.SeriesID).Scan(&entry.ID)
	return dberr.Wrap(err, resource)
}

func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Schedule.Table, schema.Schedule.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, resource)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(resource)
	}
	return nil
}

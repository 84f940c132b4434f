package episode

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taibuivan/tunreplay/internal/platform/apperr"
	"github.com/taibuivan/tunreplay/internal/platform/database/schema"
	"github.com/taibuivan/tunreplay/internal/platform/dberr"
	"github.com/taibuivan/tunreplay/pkg/pagination"
)

const resource = "Episode"

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// selectFrom reads episodes with their series reference.
var selectFrom = func() string {
	e, s := schema.Episode, schema.Series
	return fmt.Sprintf(`
		SELECT e.%s, e.%s, e.%s, e.%s, e.%s, COALESCE(e.%s, ''), COALESCE(e.%s, ''),
		       COALESCE(e.%s, ''), e.%s, e.%s, s.%s, s.%s, s.%s
		FROM %s e
		JOIN %s s ON s.%s = e.%s`,
		e.ID, e.SeriesID, e.EpisodeNumber, e.Title, e.Slug, e.Image, e.EmbedURL,
		e.Description, e.Season, e.CreatedAt, s.ID, s.Title, s.Slug,
		e.Table, s.Table, s.ID, e.SeriesID)
}()

func scanEpisode(row pgx.Row) (*Episode, error) {
	episode := &Episode{Series: &SeriesRef{}}
	err := row.Scan(
		&episode.ID, &episode.SeriesID, &episode.EpisodeNumber, &episode.Title, &episode.Slug,
		&episode.Image, &episode.EmbedURL, &episode.Description, &episode.Season, &episode.CreatedAt,
		&episode.Series.ID, &episode.Series.Title, &episode.Series.Slug,
	)
	if err != nil {
		return nil, err
	}
	return episode, nil
}

func collect(rows pgx.Rows) ([]*Episode, error) {
	defer rows.Close()

	list := []*Episode{}
	for rows.Next() {
		episode, err := scanEpisode(rows)
		if err != nil {
			return nil, dberr.Wrap(err, resource)
		}
		list = append(list, episode)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, resource)
	}
	return list, nil
}

func (repository *PostgresRepository) Count(context context.Context, seriesID int64) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, schema.Episode.Table, schema.Episode.SeriesID)

	var total int
	if err := repository.db.QueryRow(context, query, seriesID).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, resource)
	}
	return total, nil
}

// orderColumns whitelists [pagination.Order] keys.
var orderColumns = map[string]string{
	OrderNumber:  schema.Episode.EpisodeNumber,
	OrderCreated: schema.Episode.CreatedAt,
}

func (repository *PostgresRepository) List(context context.Context, seriesID int64, offset, limit int, order pagination.Order) ([]*Episode, error) {
	column, ok := orderColumns[order.Key]
	if !ok {
		column = schema.Episode.EpisodeNumber
	}
	direction := "ASC"
	if order.Desc {
		direction = "DESC"
	}

	query := fmt.Sprintf(`%s WHERE e.%s = $1 ORDER BY e.%s %s, e.%s %s LIMIT $2 OFFSET $3`,
		selectFrom, schema.Episode.SeriesID, column, direction, schema.Episode.ID, direction)

	rows, err := repository.db.Query(context, query, seriesID, limit, offset)
	if err != nil {
		return nil, dberr.Wrap(err, resource)
	}
	return collect(rows)
}

func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Episode, error) {
	query := fmt.Sprintf(`%s WHERE e.%s = $1`, selectFrom, schema.Episode.ID)

	episode, err := scanEpisode(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resource)
	}
	return episode, nil
}

func (repository *PostgresRepository) Latest(context context.Context, limit int) ([]*Episode, error) {
	query := fmt.Sprintf(`%s ORDER BY e.%s DESC, e.%s DESC LIMIT $1`, selectFrom, schema.Episode.CreatedAt, schema.Episode.ID)

	rows, err := repository.db.Query(context, query, limit)
	if err != nil {
		return nil, dberr.Wrap(err, resource)
	}
	return collect(rows)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (repository *PostgresRepository) Create(context context.Context, episode *Episode) error {
	e := schema.Episode
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s, %s`,
		e.Table, e.SeriesID, e.EpisodeNumber, e.Title, e.Slug, e.Image, e.EmbedURL, e.Description, e.Season,
		e.ID, e.CreatedAt)

	err := repository.db.QueryRow(context, query,
		episode.SeriesID, episode.EpisodeNumber, episode.Title, episode.Slug,
		nullable(episode.Image), nullable(episode.EmbedURL), nullable(episode.Description), episode.Season,
	).Scan(&episode.ID, &episode.CreatedAt)
	return dberr.Wrap(err, resource)
}

// Update rewrites the editable fields. The owning series never changes.
func (repository *PostgresRepository) Update(context context.Context, episode *Episode) error {
	e := schema.Episode
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8
		WHERE %s = $1
		RETURNING %s, %s`,
		e.Table, e.EpisodeNumber, e.Title, e.Slug, e.Image, e.EmbedURL, e.Description, e.Season,
		e.ID, e.SeriesID, e.CreatedAt)

	err := repository.db.QueryRow(context, query,
		episode.ID, episode.EpisodeNumber, episode.Title, episode.Slug,
		nullable(episode.Image), nullable(episode.EmbedURL), nullable(episode.Description), episode.Season,
	).Scan(&episode.SeriesID, &episode.CreatedAt)
	return dberr.Wrap(err, resource)
}

func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Episode.Table, schema.Episode.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, resource)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(resource)
	}
	return nil
}

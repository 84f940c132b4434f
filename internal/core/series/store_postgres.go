package series

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taibuivan/tunreplay/internal/platform/apperr"
	"github.com/taibuivan/tunreplay/internal/platform/database/schema"
	"github.com/taibuivan/tunreplay/internal/platform/dberr"
	"github.com/taibuivan/tunreplay/internal/platform/postgres"
)

const resource = "Series"

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// selectColumns lists the series columns followed by the genre aggregate, in
// the order [scanSeries] expects. Nullable text columns read as "".
var selectColumns = func() string {
	s := schema.Series
	return fmt.Sprintf(`
		s.%s, s.%s, s.%s, COALESCE(s.%s, ''), COALESCE(s.%s, ''), COALESCE(s.%s, ''),
		COALESCE(s.%s, ''), s.%s, s.%s, COALESCE(s.%s, ''), s.%s, s.%s, s.%s, s.%s,
		s.%s, s.%s, s.%s, s.%s,
		COALESCE((
			SELECT json_agg(json_build_object('id', g.%s, 'name', g.%s, 'slug', g.%s) ORDER BY g.%s)
			FROM %s g
			JOIN %s sg ON sg.%s = g.%s
			WHERE sg.%s = s.%s
		), '[]')`,
		s.ID, s.Title, s.Slug, s.Image, s.Description, s.Duration,
		s.Source, s.EpisodesNumber, s.Season, s.TrailerEmbed, s.TypeID, s.NationID, s.YearID, s.StatusID,
		s.ReleaseDate, s.Pinned, s.CreatedAt, s.UpdatedAt,
		schema.Genre.ID, schema.Genre.Name, schema.Genre.Slug, schema.Genre.Name,
		schema.Genre.Table,
		schema.SeriesGenre.Table, schema.SeriesGenre.GenreID, schema.Genre.ID,
		schema.SeriesGenre.SeriesID, s.ID,
	)
}()

func scanSeries(row pgx.Row, extra ...any) (*Series, error) {
	series := &Series{}
	var genresJSON []byte

	dest := []any{
		&series.ID, &series.Title, &series.Slug, &series.Image, &series.Description, &series.Duration,
		&series.Source, &series.EpisodesNumber, &series.Season, &series.TrailerEmbed,
		&series.TypeID, &series.NationID, &series.YearID, &series.StatusID,
		&series.ReleaseDate, &series.Pinned, &series.CreatedAt, &series.UpdatedAt,
		&genresJSON,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(genresJSON, &series.Genres); err != nil {
		return nil, fmt.Errorf("series: decode genres: %w", err)
	}
	return series, nil
}

// where renders filter as a WHERE clause over alias s.
func where(filter Filter) (string, []any) {
	var conditions []string
	var args []any

	add := func(format string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(format, len(args)))
	}

	column := func(name string) string { return "s." + name + " = $%d" }

	if filter.TypeID != nil {
		add(column(schema.Series.TypeID), *filter.TypeID)
	}
	if filter.NationID != nil {
		add(column(schema.Series.NationID), *filter.NationID)
	}
	if filter.YearID != nil {
		add(column(schema.Series.YearID), *filter.YearID)
	}
	if filter.StatusID != nil {
		add(column(schema.Series.StatusID), *filter.StatusID)
	}
	if filter.GenreID != nil {
		add(fmt.Sprintf("EXISTS (SELECT 1 FROM %s sg WHERE sg.%s = s.%s AND sg.%s = $%%d)",
			schema.SeriesGenre.Table, schema.SeriesGenre.SeriesID, schema.Series.ID, schema.SeriesGenre.GenreID), *filter.GenreID)
	}
	if filter.PinnedOnly {
		conditions = append(conditions, "s."+schema.Series.Pinned)
	}
	if filter.Query != "" {
		add("s."+schema.Series.Title+" ILIKE $%d", postgres.Contains(filter.Query))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func orderBy(sort Sort) string {
	switch sort {
	case SortAdmin:
		return fmt.Sprintf(" ORDER BY s.%s DESC, s.%s DESC", schema.Series.Pinned, schema.Series.ID)
	case SortOldest:
		return fmt.Sprintf(" ORDER BY s.%s ASC", schema.Series.ID)
	}
	return fmt.Sprintf(" ORDER BY s.%s DESC", schema.Series.ID)
}

func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Series, int, error) {
	whereClause, args := where(filter)

	var queryBuilder strings.Builder
	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s, COUNT(*) OVER() FROM %s s`, selectColumns, schema.Series.Table))
	queryBuilder.WriteString(whereClause)
	queryBuilder.WriteString(orderBy(filter.Sort))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2))
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resource)
	}
	defer rows.Close()

	list := []*Series{}
	total := 0
	for rows.Next() {
		series, err := scanSeries(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, resource)
		}
		list = append(list, series)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, resource)
	}

	// COUNT(*) OVER() is absent when the window is empty.
	if len(list) == 0 && offset > 0 {
		total, err = repository.Count(context, filter)
		if err != nil {
			return nil, 0, err
		}
	}
	return list, total, nil
}

func (repository *PostgresRepository) Count(context context.Context, filter Filter) (int, error) {
	whereClause, args := where(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s s%s`, schema.Series.Table, whereClause)

	var total int
	if err := repository.db.QueryRow(context, query, args...).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, resource)
	}
	return total, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Series, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s s WHERE s.%s = $1`, selectColumns, schema.Series.Table, schema.Series.ID)

	series, err := scanSeries(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resource)
	}
	return series, nil
}

// writeColumns are the columns set by Create and Update, in argument order.
var writeColumns = []string{
	schema.Series.Title, schema.Series.Slug, schema.Series.Image, schema.Series.Description,
	schema.Series.Duration, schema.Series.Source, schema.Series.EpisodesNumber, schema.Series.Season,
	schema.Series.TrailerEmbed, schema.Series.TypeID, schema.Series.NationID, schema.Series.YearID,
	schema.Series.StatusID, schema.Series.ReleaseDate, schema.Series.Pinned,
}

func writeArgs(series *Series) []any {
	return []any{
		series.Title, series.Slug, nullable(series.Image), nullable(series.Description),
		nullable(series.Duration), nullable(series.Source), series.EpisodesNumber, series.Season,
		nullable(series.TrailerEmbed), series.TypeID, series.NationID, series.YearID,
		series.StatusID, series.ReleaseDate, series.Pinned,
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (repository *PostgresRepository) Create(context context.Context, series *Series) error {
	placeholders := make([]string, len(writeColumns))
	for i := range writeColumns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING %s, %s, %s`,
		schema.Series.Table, strings.Join(writeColumns, ", "), strings.Join(placeholders, ", "),
		schema.Series.ID, schema.Series.CreatedAt, schema.Series.UpdatedAt)

	err := postgres.InTx(context, repository.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(context, query, writeArgs(series)...).Scan(&series.ID, &series.CreatedAt, &series.UpdatedAt); err != nil {
			return err
		}
		return replaceGenres(context, tx, series.ID, series.GenreIDs)
	})
	return dberr.Wrap(err, resource)
}

func (repository *PostgresRepository) Update(context context.Context, series *Series) error {
	assignments := make([]string, len(writeColumns))
	for i, column := range writeColumns {
		assignments[i] = fmt.Sprintf("%s = $%d", column, i+1)
	}

	query := fmt.Sprintf(`UPDATE %s SET %s, %s = now() WHERE %s = $%d RETURNING %s, %s`,
		schema.Series.Table, strings.Join(assignments, ", "), schema.Series.UpdatedAt,
		schema.Series.ID, len(writeColumns)+1,
		schema.Series.CreatedAt, schema.Series.UpdatedAt)

	err := postgres.InTx(context, repository.db, func(tx pgx.Tx) error {
		args := append(writeArgs(series), series.ID)
		if err := tx.QueryRow(context, query, args...).Scan(&series.CreatedAt, &series.UpdatedAt); err != nil {
			return err
		}
		return replaceGenres(context, tx, series.ID, series.GenreIDs)
	})
	return dberr.Wrap(err, resource)
}

// replaceGenres swaps the genre links of seriesID for genreIDs.
func replaceGenres(context context.Context, tx pgx.Tx, seriesID int64, genreIDs []int64) error {
	link := schema.SeriesGenre

	if _, err := tx.Exec(context, fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, link.Table, link.SeriesID), seriesID); err != nil {
		return err
	}
	if len(genreIDs) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) SELECT $1::BIGINT, unnest($2::BIGINT[]) ON CONFLICT DO NOTHING`,
		link.Table, link.SeriesID, link.GenreID)
	_, err := tx.Exec(context, query, seriesID, genreIDs)
	return err
}

func (repository *PostgresRepository) SetPinned(context context.Context, id int64, pinned bool) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = now() WHERE %s = $1`,
		schema.Series.Table, schema.Series.Pinned, schema.Series.UpdatedAt, schema.Series.ID)

	tag, err := repository.db.Exec(context, query, id, pinned)
	if err != nil {
		return dberr.Wrap(err, resource)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(resource)
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Series.Table, schema.Series.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, resource)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(resource)
	}
	return nil
}

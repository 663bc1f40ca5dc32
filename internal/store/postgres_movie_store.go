package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"movie-catalog/internal/domain"
)

// uniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const uniqueViolation = "23505"

// PostgresMovieStore implements MovieStore on top of PostgreSQL.
type PostgresMovieStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewPostgresMovieStore(db *sqlx.DB, logger *slog.Logger) (*PostgresMovieStore, error) {
	if db == nil {
		return nil, errors.New("database connection (db) cannot be nil")
	}
	return &PostgresMovieStore{db: db, logger: logger}, nil
}

const movieColumns = `id, name, date, score, overview, status, budget, revenue, country_id`

// List returns one page of movies ordered by descending id plus the total
// catalog size. A page beyond the last one comes back empty, not as an error;
// range checking is the handler's concern.
func (s *PostgresMovieStore) List(ctx context.Context, params ListParams) ([]*domain.Movie, int, error) {
	var total int
	if err := s.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM movies`); err != nil {
		return nil, 0, fmt.Errorf("failed to count movies: %w", err)
	}
	if total == 0 {
		return []*domain.Movie{}, 0, nil
	}

	query := `SELECT ` + movieColumns + ` FROM movies ORDER BY id DESC LIMIT $1 OFFSET $2`
	movies := []*domain.Movie{}
	if err := s.db.SelectContext(ctx, &movies, query, params.PerPage, params.Offset()); err != nil {
		return nil, 0, fmt.Errorf("failed to list movies: %w", err)
	}
	return movies, total, nil
}

// Create inserts the movie and its association rows in one transaction. The
// country code and every genre/actor/language name go through a single-statement
// upsert, so two concurrent creates of the same new name converge on one row
// instead of racing a lookup against an insert.
func (s *PostgresMovieStore) Create(ctx context.Context, input *domain.MovieInput) (*domain.Movie, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existingID int64
	err = tx.GetContext(ctx, &existingID,
		`SELECT id FROM movies WHERE name = $1 AND date = $2`, input.Name, input.Date)
	if err == nil {
		return nil, ErrMovieAlreadyExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to check for duplicate movie: %w", err)
	}

	countryID, err := upsertCountry(ctx, tx, input.CountryCode)
	if err != nil {
		return nil, err
	}
	genreIDs, err := upsertNames(ctx, tx, "genres", input.Genres)
	if err != nil {
		return nil, err
	}
	actorIDs, err := upsertNames(ctx, tx, "actors", input.Actors)
	if err != nil {
		return nil, err
	}
	languageIDs, err := upsertNames(ctx, tx, "languages", input.Languages)
	if err != nil {
		return nil, err
	}

	var movieID int64
	err = tx.GetContext(ctx, &movieID,
		`INSERT INTO movies (name, date, score, overview, status, budget, revenue, country_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		input.Name, input.Date, input.Score, input.Overview,
		string(input.Status), input.Budget, input.Revenue, countryID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrMovieAlreadyExists
		}
		return nil, fmt.Errorf("failed to insert movie: %w", err)
	}

	if err := linkMovie(ctx, tx, "movie_genres", "genre_id", movieID, genreIDs); err != nil {
		return nil, err
	}
	if err := linkMovie(ctx, tx, "movie_actors", "actor_id", movieID, actorIDs); err != nil {
		return nil, err
	}
	if err := linkMovie(ctx, tx, "movie_languages", "language_id", movieID, languageIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit movie creation: %w", err)
	}

	s.logger.InfoContext(ctx, "movie created", slog.Int64("movie_id", movieID), slog.String("name", input.Name))
	return s.GetByID(ctx, movieID)
}

// GetByID loads the movie row, its country and the three association sets.
func (s *PostgresMovieStore) GetByID(ctx context.Context, id int64) (*domain.Movie, error) {
	var movie domain.Movie
	err := s.db.GetContext(ctx, &movie,
		`SELECT `+movieColumns+` FROM movies WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, fmt.Errorf("failed to get movie by id: %w", err)
	}

	var country domain.Country
	if err := s.db.GetContext(ctx, &country,
		`SELECT id, code, name FROM countries WHERE id = $1`, movie.CountryID); err != nil {
		return nil, fmt.Errorf("failed to load movie country: %w", err)
	}
	movie.Country = &country

	movie.Genres = []domain.Genre{}
	if err := s.db.SelectContext(ctx, &movie.Genres,
		`SELECT g.id, g.name FROM genres g
		 JOIN movie_genres mg ON mg.genre_id = g.id
		 WHERE mg.movie_id = $1 ORDER BY g.id`, id); err != nil {
		return nil, fmt.Errorf("failed to load movie genres: %w", err)
	}
	movie.Actors = []domain.Actor{}
	if err := s.db.SelectContext(ctx, &movie.Actors,
		`SELECT a.id, a.name FROM actors a
		 JOIN movie_actors ma ON ma.actor_id = a.id
		 WHERE ma.movie_id = $1 ORDER BY a.id`, id); err != nil {
		return nil, fmt.Errorf("failed to load movie actors: %w", err)
	}
	movie.Languages = []domain.Language{}
	if err := s.db.SelectContext(ctx, &movie.Languages,
		`SELECT l.id, l.name FROM languages l
		 JOIN movie_languages ml ON ml.language_id = l.id
		 WHERE ml.movie_id = $1 ORDER BY l.id`, id); err != nil {
		return nil, fmt.Errorf("failed to load movie languages: %w", err)
	}

	return &movie, nil
}

// Update applies the non-nil fields of upd in a single UPDATE statement.
func (s *PostgresMovieStore) Update(ctx context.Context, id int64, upd *domain.MovieUpdate) error {
	sets := []string{}
	args := []interface{}{}
	argID := 1
	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}

	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Date != nil {
		add("date", *upd.Date)
	}
	if upd.Score != nil {
		add("score", *upd.Score)
	}
	if upd.Overview != nil {
		add("overview", *upd.Overview)
	}
	if upd.Status != nil {
		add("status", string(*upd.Status))
	}
	if upd.Budget != nil {
		add("budget", *upd.Budget)
	}
	if upd.Revenue != nil {
		add("revenue", *upd.Revenue)
	}

	if len(sets) == 0 {
		// Nothing to change; still report absence.
		var existingID int64
		err := s.db.GetContext(ctx, &existingID, `SELECT id FROM movies WHERE id = $1`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMovieNotFound
		}
		return err
	}

	query := fmt.Sprintf(`UPDATE movies SET %s WHERE id = $%d`, strings.Join(sets, ", "), argID)
	args = append(args, id)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrMovieAlreadyExists
		}
		return fmt.Errorf("failed to update movie: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if rowsAffected == 0 {
		return ErrMovieNotFound
	}

	s.logger.InfoContext(ctx, "movie updated", slog.Int64("movie_id", id), slog.Int("fields", len(sets)))
	return nil
}

// Delete removes the movie row; the association tables cascade. Genre, actor,
// language and country rows are never deleted here.
func (s *PostgresMovieStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete movie: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if rowsAffected == 0 {
		return ErrMovieNotFound
	}

	s.logger.InfoContext(ctx, "movie deleted", slog.Int64("movie_id", id))
	return nil
}

// upsertCountry resolves a country code to its row id, inserting the row
// (name left NULL) when the code is new.
func upsertCountry(ctx context.Context, tx *sqlx.Tx, code string) (int64, error) {
	var id int64
	err := tx.GetContext(ctx, &id,
		`INSERT INTO countries (code) VALUES ($1)
		 ON CONFLICT (code) DO UPDATE SET code = EXCLUDED.code
		 RETURNING id`, code)
	if err != nil {
		return 0, fmt.Errorf("failed to get or create country %q: %w", code, err)
	}
	return id, nil
}

// upsertNames resolves each name in a reference table to its row id,
// inserting missing rows. The table name is one of the fixed reference
// tables, never caller input.
func upsertNames(ctx context.Context, tx *sqlx.Tx, table string, names []string) ([]int64, error) {
	query := fmt.Sprintf(
		`INSERT INTO %s (name) VALUES ($1)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id`, table)
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		var id int64
		if err := tx.GetContext(ctx, &id, query, name); err != nil {
			return nil, fmt.Errorf("failed to get or create %s row %q: %w", table, name, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// linkMovie inserts the association rows for one reference kind. Duplicate
// names in the request map to the same id, so conflicts are ignored.
func linkMovie(ctx context.Context, tx *sqlx.Tx, table, column string, movieID int64, ids []int64) error {
	query := fmt.Sprintf(
		`INSERT INTO %s (movie_id, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`, table, column)
	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, query, movieID, id); err != nil {
			return fmt.Errorf("failed to link movie to %s: %w", table, err)
		}
	}
	return nil
}

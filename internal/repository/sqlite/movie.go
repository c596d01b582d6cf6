package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sakif/movieweb/internal/apperror"
	"github.com/sakif/movieweb/internal/model"
	"github.com/sakif/movieweb/internal/repository"
	"github.com/sakif/movieweb/internal/validate"
)

// Compile-time check that *DB implements repository.MovieRepository.
var _ repository.MovieRepository = (*DB)(nil)

const movieColumns = `id, name, director, year, rating, user_id, created_at, updated_at`

// GetUserMovies returns a user's movies, newest first. An unknown user
// simply has no movies — that is an empty slice, not an error.
func (db *DB) GetUserMovies(ctx context.Context, userID int64) ([]model.Movie, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing movies for user %d: %w", userID, err)
	}
	defer rows.Close()

	movies := make([]model.Movie, 0)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning movie row: %w", err)
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating movies: %w", err)
	}

	return movies, nil
}

// GetMovieByID retrieves a single movie.
func (db *DB) GetMovieByID(ctx context.Context, id int64) (*model.Movie, error) {
	if id < 1 {
		return nil, apperror.InvalidInput("id", "Movie id is required.")
	}

	row := db.conn.QueryRowContext(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE id = ?`, id)
	m, err := scanMovie(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("Movie")
		}
		return nil, fmt.Errorf("sqlite: getting movie %d: %w", id, err)
	}

	return &m, nil
}

// CreateMovie inserts a movie and fills in the generated ID. The owning
// user is checked before the write so a dangling user id fails with
// NotFound rather than a foreign-key error, and the unique
// (user_id, name, director) index turns racing duplicates into Conflict.
func (db *DB) CreateMovie(ctx context.Context, movie *model.Movie) error {
	if movie == nil || movie.Name == "" || movie.Director == "" {
		return apperror.InvalidInput("name", "Movie name and director are required.")
	}
	if movie.UserID < 1 {
		return apperror.InvalidInput("user_id", "Movie must belong to a user.")
	}

	var exists int
	err := db.conn.QueryRowContext(ctx,
		`SELECT 1 FROM users WHERE id = ?`, movie.UserID).Scan(&exists)
	if err != nil {
		if err == sql.ErrNoRows {
			return apperror.NotFound("User")
		}
		return fmt.Errorf("sqlite: checking user %d: %w", movie.UserID, err)
	}

	now := time.Now()
	movie.CreatedAt = now
	movie.UpdatedAt = now

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO movies (name, director, year, rating, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		movie.Name,
		movie.Director,
		nullableInt(movie.Year),
		nullableInt(movie.Rating),
		movie.UserID,
		movie.CreatedAt,
		movie.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("This movie already exists in your collection.")
		}
		return fmt.Errorf("sqlite: creating movie %q: %w", movie.Name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading generated movie id: %w", err)
	}
	movie.ID = id

	return nil
}

// UpdateMovie overwrites name, director, year, and rating. The field
// constraints are re-checked here even though the service validates
// first: this layer is the last gate before the row is written, and it
// must hold regardless of which caller got here.
func (db *DB) UpdateMovie(ctx context.Context, movie *model.Movie) error {
	if movie == nil || movie.ID < 1 {
		return apperror.InvalidInput("id", "Movie id is required.")
	}
	if movie.Name == "" || movie.Director == "" {
		return apperror.InvalidInput("name", "Movie name and director are required.")
	}
	if movie.Year != nil && (*movie.Year < validate.MinYear || *movie.Year > validate.MaxYear) {
		return apperror.InvalidInput("year",
			fmt.Sprintf("Year must be between %d and %d.", validate.MinYear, validate.MaxYear))
	}
	if movie.Rating != nil && (*movie.Rating < validate.MinRating || *movie.Rating > validate.MaxRating) {
		return apperror.InvalidInput("rating",
			fmt.Sprintf("Rating must be between %d and %d.", validate.MinRating, validate.MaxRating))
	}

	movie.UpdatedAt = time.Now()
	res, err := db.conn.ExecContext(ctx,
		`UPDATE movies SET name = ?, director = ?, year = ?, rating = ?, updated_at = ?
		 WHERE id = ?`,
		movie.Name,
		movie.Director,
		nullableInt(movie.Year),
		nullableInt(movie.Rating),
		movie.UpdatedAt,
		movie.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("This movie already exists in your collection.")
		}
		return fmt.Errorf("sqlite: updating movie %d: %w", movie.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("Movie")
	}

	return nil
}

// DeleteMovie removes a movie. A missing row reports (false, nil):
// deleting something already gone is not a failure.
func (db *DB) DeleteMovie(ctx context.Context, id int64) (bool, error) {
	if id < 1 {
		return false, apperror.InvalidInput("id", "Movie id is required.")
	}

	res, err := db.conn.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("sqlite: deleting movie %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}

	return affected > 0, nil
}

// scanMovie reads one movie row. It works for both sql.Row and sql.Rows
// via the shared Scan signature; the NULLable year and rating columns
// go through sql.NullInt64 on their way to *int.
func scanMovie(row interface{ Scan(...any) error }) (model.Movie, error) {
	var (
		m            model.Movie
		year, rating sql.NullInt64
	)
	err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Director,
		&year,
		&rating,
		&m.UserID,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return model.Movie{}, err
	}
	m.Year = intPtr(year)
	m.Rating = intPtr(rating)
	return m, nil
}

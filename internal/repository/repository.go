// Package repository declares the persistence interfaces the service
// layer programs against. The sqlite subpackage provides the concrete
// implementation; tests substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/sakif/movieweb/internal/model"
)

// UserRepository owns persistence for users.
type UserRepository interface {
	// GetAllUsers returns every user. An empty database yields an empty
	// slice, never an error.
	GetAllUsers(ctx context.Context) ([]model.User, error)

	// GetUserByID returns the user with the given id, or ErrNotFound.
	// Ids below 1 fail with ErrInvalidInput.
	GetUserByID(ctx context.Context, id int64) (*model.User, error)

	// CreateUser persists a new user and assigns its generated ID.
	// Fails with ErrInvalidInput on a blank name and ErrConflict when a
	// user with that name (case-insensitive) already exists.
	CreateUser(ctx context.Context, user *model.User) error

	// DeleteUser removes a user. Declared for completeness; the cascade
	// policy for a user's movies is undecided, so the sqlite
	// implementation currently refuses with ErrNotImplemented.
	DeleteUser(ctx context.Context, id int64) error
}

// MovieRepository owns persistence for movies.
type MovieRepository interface {
	// GetUserMovies returns the movies owned by userID, newest first.
	// An unknown user yields an empty slice, not an error.
	GetUserMovies(ctx context.Context, userID int64) ([]model.Movie, error)

	// GetMovieByID returns the movie with the given id, or ErrNotFound.
	GetMovieByID(ctx context.Context, id int64) (*model.Movie, error)

	// CreateMovie persists a new movie and assigns its generated ID.
	// Fails with ErrInvalidInput on blank name/director or missing
	// user id, ErrNotFound when the owning user does not exist, and
	// ErrConflict when the (name, director) pair already exists for
	// that user.
	CreateMovie(ctx context.Context, movie *model.Movie) error

	// UpdateMovie overwrites name, director, year, and rating. Fails
	// with ErrNotFound when the row is absent. Re-checks field
	// constraints as a second line of defense behind validation.
	UpdateMovie(ctx context.Context, movie *model.Movie) error

	// DeleteMovie removes a movie. Deleting a nonexistent id is not an
	// error: it returns (false, nil). Returns (true, nil) on success.
	DeleteMovie(ctx context.Context, id int64) (bool, error)
}

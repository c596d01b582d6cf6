package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/movieweb/internal/apperror"
	"github.com/sakif/movieweb/internal/model"
	"github.com/sakif/movieweb/internal/repository"
	"github.com/sakif/movieweb/internal/validate"
)

// isExpected reports whether err is part of the application's error
// taxonomy, i.e. carries a message safe to show the user.
func isExpected(err error) bool {
	var appErr *apperror.AppError
	return errors.As(err, &appErr)
}

// MovieService handles business operations on a user's movie collection.
type MovieService struct {
	movies repository.MovieRepository
	logger *slog.Logger
}

// NewMovieService wires a MovieService.
func NewMovieService(movies repository.MovieRepository, logger *slog.Logger) *MovieService {
	return &MovieService{
		movies: movies,
		logger: logger,
	}
}

// GetUserMovies returns a user's collection.
func (s *MovieService) GetUserMovies(ctx context.Context, userID int64) ([]model.Movie, error) {
	movies, err := s.movies.GetUserMovies(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list movies",
			slog.Int64("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing movies: %w", err)
	}
	return movies, nil
}

// GetByID returns one movie, or ErrNotFound.
func (s *MovieService) GetByID(ctx context.Context, id int64) (*model.Movie, error) {
	return s.movies.GetMovieByID(ctx, id)
}

// Create validates the form against the user's existing collection
// (duplicate titles by the same director are rejected up front) and
// persists a new movie owned by userID. The repository re-checks that
// the user exists before writing anything.
func (s *MovieService) Create(ctx context.Context, userID int64, form validate.MovieForm) (*model.Movie, error) {
	existing, err := s.movies.GetUserMovies(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load movies for validation",
			slog.Int64("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("loading existing movies: %w", err)
	}

	fields, err := validate.Movie(form, existing)
	if err != nil {
		return nil, err
	}

	movie := &model.Movie{
		Name:     fields.Name,
		Director: fields.Director,
		Year:     fields.Year,
		Rating:   fields.Rating,
		UserID:   userID,
	}
	if err := s.movies.CreateMovie(ctx, movie); err != nil {
		if isExpected(err) {
			return nil, err
		}
		s.logger.Error("failed to create movie",
			slog.Int64("userID", userID),
			slog.String("name", fields.Name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating movie: %w", err)
	}

	s.logger.Info("movie created",
		slog.Int64("id", movie.ID),
		slog.Int64("userID", userID),
		slog.String("name", movie.Name),
	)

	return movie, nil
}

// Update overwrites a movie's name, director, year, and rating with the
// validated form values. The duplicate check is intentionally skipped:
// re-saving a movie whose name and director are unchanged must succeed.
// The database's unique index still catches an update that collides
// with a different movie in the same collection.
func (s *MovieService) Update(ctx context.Context, movieID int64, form validate.MovieForm) (*model.Movie, error) {
	movie, err := s.movies.GetMovieByID(ctx, movieID)
	if err != nil {
		return nil, err
	}

	fields, err := validate.Movie(form, nil)
	if err != nil {
		return nil, err
	}

	movie.Name = fields.Name
	movie.Director = fields.Director
	movie.Year = fields.Year
	movie.Rating = fields.Rating

	if err := s.movies.UpdateMovie(ctx, movie); err != nil {
		if isExpected(err) {
			return nil, err
		}
		s.logger.Error("failed to update movie",
			slog.Int64("id", movieID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating movie: %w", err)
	}

	s.logger.Info("movie updated",
		slog.Int64("id", movie.ID),
		slog.String("name", movie.Name),
	)

	return movie, nil
}

// Delete removes a movie. The lookup happens first so the caller gets a
// proper "Movie not found." when the id is stale; if the delete then
// reports nothing removed, someone else won the race and the caller
// gets a deletion conflict rather than a silent success.
func (s *MovieService) Delete(ctx context.Context, movieID int64) error {
	movie, err := s.movies.GetMovieByID(ctx, movieID)
	if err != nil {
		return err
	}

	deleted, err := s.movies.DeleteMovie(ctx, movieID)
	if err != nil {
		if isExpected(err) {
			return err
		}
		s.logger.Error("failed to delete movie",
			slog.Int64("id", movieID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("deleting movie: %w", err)
	}
	if !deleted {
		return apperror.Conflict("Error deleting movie.")
	}

	s.logger.Info("movie deleted",
		slog.Int64("id", movieID),
		slog.String("name", movie.Name),
	)

	return nil
}

// AuthorizeOwner is the ownership guard: it fetches the movie and
// verifies it belongs to userID. Every mutating operation reached from
// a request path carrying both a user id and a movie id must call this
// first, so one user cannot touch another's movies by editing the URL.
func (s *MovieService) AuthorizeOwner(ctx context.Context, movieID, userID int64) (*model.Movie, error) {
	movie, err := s.movies.GetMovieByID(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if movie.UserID != userID {
		return nil, apperror.AccessDenied("Access denied.")
	}
	return movie, nil
}

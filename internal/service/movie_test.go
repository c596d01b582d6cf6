package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sakif/movieweb/internal/apperror"
	"github.com/sakif/movieweb/internal/model"
	"github.com/sakif/movieweb/internal/repository"
	"github.com/sakif/movieweb/internal/validate"
)

// mockMovieRepo mirrors the sqlite implementation's contracts in memory:
// create rejects unknown owners and per-user duplicates, delete of a
// missing row reports false rather than an error.
type mockMovieRepo struct {
	movies   map[int64]*model.Movie
	userIDs  map[int64]bool
	nextID   int64
	failWith error
}

var _ repository.MovieRepository = (*mockMovieRepo)(nil)

func newMockMovieRepo(userIDs ...int64) *mockMovieRepo {
	known := make(map[int64]bool, len(userIDs))
	for _, id := range userIDs {
		known[id] = true
	}
	return &mockMovieRepo{
		movies:  make(map[int64]*model.Movie),
		userIDs: known,
	}
}

func (m *mockMovieRepo) GetUserMovies(_ context.Context, userID int64) ([]model.Movie, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	result := make([]model.Movie, 0)
	for _, movie := range m.movies {
		if movie.UserID == userID {
			result = append(result, *movie)
		}
	}
	return result, nil
}

func (m *mockMovieRepo) GetMovieByID(_ context.Context, id int64) (*model.Movie, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	movie, ok := m.movies[id]
	if !ok {
		return nil, apperror.NotFound("Movie")
	}
	result := *movie
	return &result, nil
}

func (m *mockMovieRepo) CreateMovie(_ context.Context, movie *model.Movie) error {
	if m.failWith != nil {
		return m.failWith
	}
	if !m.userIDs[movie.UserID] {
		return apperror.NotFound("User")
	}
	for _, other := range m.movies {
		if other.UserID == movie.UserID &&
			strings.EqualFold(other.Name, movie.Name) &&
			strings.EqualFold(other.Director, movie.Director) {
			return apperror.Conflict("This movie already exists in your collection.")
		}
	}
	m.nextID++
	movie.ID = m.nextID
	stored := *movie
	m.movies[movie.ID] = &stored
	return nil
}

func (m *mockMovieRepo) UpdateMovie(_ context.Context, movie *model.Movie) error {
	if m.failWith != nil {
		return m.failWith
	}
	if _, ok := m.movies[movie.ID]; !ok {
		return apperror.NotFound("Movie")
	}
	stored := *movie
	m.movies[movie.ID] = &stored
	return nil
}

func (m *mockMovieRepo) DeleteMovie(_ context.Context, id int64) (bool, error) {
	if m.failWith != nil {
		return false, m.failWith
	}
	if _, ok := m.movies[id]; !ok {
		return false, nil
	}
	delete(m.movies, id)
	return true, nil
}

func newTestMovieService(userIDs ...int64) (*MovieService, *mockMovieRepo) {
	repo := newMockMovieRepo(userIDs...)
	return NewMovieService(repo, testLogger()), repo
}

func TestMovieCreate(t *testing.T) {
	svc, _ := newTestMovieService(1)

	movie, err := svc.Create(context.Background(), 1, validate.MovieForm{
		Name:     "Inception",
		Director: "Nolan",
		Year:     "2010",
		Rating:   "9",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if movie.ID == 0 || movie.UserID != 1 {
		t.Errorf("movie = %+v, want generated id and owner 1", movie)
	}
	if movie.Year == nil || *movie.Year != 2010 {
		t.Errorf("Year = %v, want 2010", movie.Year)
	}
}

func TestMovieCreate_DuplicateInCollection(t *testing.T) {
	svc, _ := newTestMovieService(1)
	mustCreate(t, svc, 1, "Inception", "Nolan")

	_, err := svc.Create(context.Background(), 1, validate.MovieForm{Name: "inception", Director: "NOLAN"})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("error = %v, want conflict", err)
	}
}

func TestMovieCreate_InvalidYearShortCircuits(t *testing.T) {
	svc, repo := newTestMovieService(1)

	_, err := svc.Create(context.Background(), 1, validate.MovieForm{
		Name: "Inception", Director: "Nolan", Year: "2026",
	})
	if !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("error = %v, want invalid input", err)
	}
	if len(repo.movies) != 0 {
		t.Error("nothing should be persisted when validation fails")
	}
}

func TestMovieCreate_UnknownUser(t *testing.T) {
	svc, _ := newTestMovieService(1)

	_, err := svc.Create(context.Background(), 42, validate.MovieForm{Name: "Heat", Director: "Mann"})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want not found for unknown owner", err)
	}
}

// Updating without changing name and director must succeed: the
// duplicate check is skipped on update so a movie doesn't collide with
// itself.
func TestMovieUpdate_KeepingUnchangedValues(t *testing.T) {
	svc, _ := newTestMovieService(1)
	created := mustCreate(t, svc, 1, "Inception", "Nolan")

	updated, err := svc.Update(context.Background(), created.ID, validate.MovieForm{
		Name:     "Inception",
		Director: "Nolan",
		Rating:   "10",
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Rating == nil || *updated.Rating != 10 {
		t.Errorf("Rating = %v, want 10", updated.Rating)
	}
}

func TestMovieUpdate_NotFound(t *testing.T) {
	svc, _ := newTestMovieService(1)

	_, err := svc.Update(context.Background(), 999, validate.MovieForm{Name: "Heat", Director: "Mann"})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("error = %v, want not found", err)
	}
	if err.Error() != "Movie not found." {
		t.Errorf("message = %q, want %q", err.Error(), "Movie not found.")
	}
}

func TestMovieUpdate_InvalidInputLeavesRowUnchanged(t *testing.T) {
	svc, repo := newTestMovieService(1)
	created := mustCreate(t, svc, 1, "Inception", "Nolan")

	_, err := svc.Update(context.Background(), created.ID, validate.MovieForm{
		Name: "Inception", Director: "Nolan", Year: "2026",
	})
	if !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("error = %v, want invalid input", err)
	}
	if stored := repo.movies[created.ID]; stored.Year != nil {
		t.Errorf("stored Year = %v, want untouched nil", stored.Year)
	}
}

func TestMovieDelete(t *testing.T) {
	svc, repo := newTestMovieService(1)
	created := mustCreate(t, svc, 1, "Inception", "Nolan")

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(repo.movies) != 0 {
		t.Error("movie should be removed")
	}
}

func TestMovieDelete_NotFound(t *testing.T) {
	svc, _ := newTestMovieService(1)

	err := svc.Delete(context.Background(), 999)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want not found", err)
	}
}

func TestAuthorizeOwner(t *testing.T) {
	svc, _ := newTestMovieService(1, 2)
	created := mustCreate(t, svc, 1, "Inception", "Nolan")

	t.Run("owner passes", func(t *testing.T) {
		movie, err := svc.AuthorizeOwner(context.Background(), created.ID, 1)
		if err != nil {
			t.Fatalf("AuthorizeOwner() error = %v", err)
		}
		if movie.ID != created.ID {
			t.Errorf("movie.ID = %d, want %d", movie.ID, created.ID)
		}
	})

	t.Run("other user denied", func(t *testing.T) {
		_, err := svc.AuthorizeOwner(context.Background(), created.ID, 2)
		if !errors.Is(err, apperror.ErrAccessDenied) {
			t.Fatalf("error = %v, want access denied", err)
		}
		if err.Error() != "Access denied." {
			t.Errorf("message = %q, want %q", err.Error(), "Access denied.")
		}
	})

	t.Run("missing movie", func(t *testing.T) {
		_, err := svc.AuthorizeOwner(context.Background(), 999, 1)
		if !errors.Is(err, apperror.ErrNotFound) {
			t.Errorf("error = %v, want not found", err)
		}
	})
}

func TestMovieUpdate_UnexpectedErrorIsNotExposed(t *testing.T) {
	svc, repo := newTestMovieService(1)
	created := mustCreate(t, svc, 1, "Inception", "Nolan")

	repo.failWith = errors.New("database is locked")
	_, err := svc.Update(context.Background(), created.ID, validate.MovieForm{
		Name: "Inception", Director: "Nolan",
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		t.Errorf("unexpected failure leaked as a typed AppError: %v", appErr)
	}
}

func mustCreate(t *testing.T, svc *MovieService, userID int64, name, director string) *model.Movie {
	t.Helper()
	movie, err := svc.Create(context.Background(), userID, validate.MovieForm{Name: name, Director: director})
	if err != nil {
		t.Fatalf("failed to create movie %q: %v", name, err)
	}
	return movie
}

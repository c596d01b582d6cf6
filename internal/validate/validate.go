// Package validate turns raw form input into typed, constrained values.
//
// Everything here is pure: no I/O, no database, no logging. Each check
// either returns the validated value or an *apperror.AppError with a
// message that can be shown to the user verbatim. The bundle checks
// (Movie, User) run their field checks in a fixed order and stop at the
// first failure — the user fixes one problem at a time.
//
// Duplicate checks only run when the caller supplies the existing record
// set. Update flows deliberately pass nil so that re-saving a movie with
// an unchanged name and director does not trip over itself; the database
// unique index remains as the safety net.
package validate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sakif/movieweb/internal/apperror"
	"github.com/sakif/movieweb/internal/model"
)

// Field limits and ranges. These match the database schema — the columns
// were sized for these limits, so changing one side means changing both.
const (
	MaxUserNameLength  = 30
	MaxMovieNameLength = 60
	MaxDirectorLength  = 60
	MinYear            = 1900
	MaxYear            = 2025
	MinRating          = 1
	MaxRating          = 10
)

// MovieForm is the raw, untrimmed form input for a movie. Year and
// Rating stay strings here — parsing them is validation's job.
type MovieForm struct {
	Name     string
	Director string
	Year     string
	Rating   string
}

// UserForm is the raw form input for a user.
type UserForm struct {
	Name string
}

// MovieFields is a fully validated movie value bundle.
type MovieFields struct {
	Name     string
	Director string
	Year     *int
	Rating   *int
}

// UserFields is a fully validated user value bundle.
type UserFields struct {
	Name string
}

// UserName checks a user name: required, at most 30 characters, and —
// when existing is supplied — unique among all users ignoring case.
func UserName(name string, existing []model.User) error {
	if name == "" {
		return apperror.InvalidInput("name", "User name is required.")
	}
	if len(name) > MaxUserNameLength {
		return apperror.InvalidInput("name",
			fmt.Sprintf("User name must be %d characters or less.", MaxUserNameLength))
	}
	for _, u := range existing {
		if strings.EqualFold(u.Name, name) {
			return apperror.Conflict("A user with this name already exists.")
		}
	}
	return nil
}

// MovieName checks a movie name: required, at most 60 characters.
func MovieName(name string) error {
	if name == "" {
		return apperror.InvalidInput("name", "Movie name is required.")
	}
	if len(name) > MaxMovieNameLength {
		return apperror.InvalidInput("name",
			fmt.Sprintf("Movie name must be %d characters or less.", MaxMovieNameLength))
	}
	return nil
}

// DirectorName checks a director name: required, at most 60 characters.
func DirectorName(director string) error {
	if director == "" {
		return apperror.InvalidInput("director", "Director name is required.")
	}
	if len(director) > MaxDirectorLength {
		return apperror.InvalidInput("director",
			fmt.Sprintf("Director name must be %d characters or less.", MaxDirectorLength))
	}
	return nil
}

// Year parses and range-checks an optional year. An empty string is
// valid and yields nil — the field is optional.
func Year(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	year, err := strconv.Atoi(s)
	if err != nil {
		return nil, apperror.InvalidInput("year", "Please enter a valid year.")
	}
	if year < MinYear || year > MaxYear {
		return nil, apperror.InvalidInput("year",
			fmt.Sprintf("Year must be between %d and %d.", MinYear, MaxYear))
	}
	return &year, nil
}

// Rating parses and range-checks an optional rating, same pattern as Year.
func Rating(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	rating, err := strconv.Atoi(s)
	if err != nil {
		return nil, apperror.InvalidInput("rating", "Please enter a valid rating.")
	}
	if rating < MinRating || rating > MaxRating {
		return nil, apperror.InvalidInput("rating",
			fmt.Sprintf("Rating must be between %d and %d.", MinRating, MaxRating))
	}
	return &rating, nil
}

// MovieDuplicate fails if any existing movie matches both name and
// director, ignoring case.
func MovieDuplicate(name, director string, existing []model.Movie) error {
	for _, m := range existing {
		if strings.EqualFold(m.Name, name) && strings.EqualFold(m.Director, director) {
			return apperror.Conflict("This movie already exists in your collection.")
		}
	}
	return nil
}

// Movie validates a whole movie form. Checks run in a fixed order —
// name, director, year, rating, then the duplicate check against
// existing — and the first failure wins. Pass existing as nil to skip
// the duplicate check (update flows do this).
func Movie(form MovieForm, existing []model.Movie) (MovieFields, error) {
	name := strings.TrimSpace(form.Name)
	director := strings.TrimSpace(form.Director)

	if err := MovieName(name); err != nil {
		return MovieFields{}, err
	}
	if err := DirectorName(director); err != nil {
		return MovieFields{}, err
	}
	year, err := Year(strings.TrimSpace(form.Year))
	if err != nil {
		return MovieFields{}, err
	}
	rating, err := Rating(strings.TrimSpace(form.Rating))
	if err != nil {
		return MovieFields{}, err
	}
	if existing != nil {
		if err := MovieDuplicate(name, director, existing); err != nil {
			return MovieFields{}, err
		}
	}

	return MovieFields{
		Name:     name,
		Director: director,
		Year:     year,
		Rating:   rating,
	}, nil
}

// User validates a whole user form. Pass existing as nil to skip the
// duplicate-name check.
func User(form UserForm, existing []model.User) (UserFields, error) {
	name := strings.TrimSpace(form.Name)
	if err := UserName(name, existing); err != nil {
		return UserFields{}, err
	}
	return UserFields{Name: name}, nil
}

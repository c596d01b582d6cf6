package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/movieweb/internal/apperror"
	"github.com/sakif/movieweb/internal/model"
	"github.com/sakif/movieweb/internal/service"
	"github.com/sakif/movieweb/internal/validate"
)

// MovieHandler serves the add, update, and delete movie flows. Every
// route here carries a user id in the path; update and delete also
// carry a movie id and therefore run the ownership guard before doing
// anything else.
type MovieHandler struct {
	users  *service.UserService
	movies *service.MovieService
	render *Renderer
	logger *slog.Logger
}

// NewMovieHandler wires a MovieHandler.
func NewMovieHandler(users *service.UserService, movies *service.MovieService, render *Renderer, logger *slog.Logger) *MovieHandler {
	return &MovieHandler{
		users:  users,
		movies: movies,
		render: render,
		logger: logger,
	}
}

// movieFormFromRequest pulls the raw movie fields out of a submitted
// form. Parsing and trimming are the validation layer's job.
func movieFormFromRequest(r *http.Request) validate.MovieForm {
	return validate.MovieForm{
		Name:     r.PostFormValue("name"),
		Director: r.PostFormValue("director"),
		Year:     r.PostFormValue("year"),
		Rating:   r.PostFormValue("rating"),
	}
}

// movieFormFromModel prefills the form with a stored movie's values for
// the update page.
func movieFormFromModel(m *model.Movie) validate.MovieForm {
	form := validate.MovieForm{
		Name:     m.Name,
		Director: m.Director,
	}
	if m.Year != nil {
		form.Year = strconv.Itoa(*m.Year)
	}
	if m.Rating != nil {
		form.Rating = strconv.Itoa(*m.Rating)
	}
	return form
}

// loadUser resolves the userID path parameter to a user. On any
// not-found condition it redirects to the user list and reports false.
func (h *MovieHandler) loadUser(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	userID, ok := pathID(r, "userID")
	if !ok {
		redirectWithMessage(w, r, "/users", "User not found.")
		return nil, false
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) || errors.Is(err, apperror.ErrInvalidInput) {
			redirectWithMessage(w, r, "/users", "User not found.")
			return nil, false
		}
		h.logger.Error("failed to load user", slog.String("error", err.Error()))
		h.render.ServerError(w)
		return nil, false
	}

	return user, true
}

// guardOwner resolves the movieID path parameter and verifies the movie
// belongs to user. Not-found and access-denied both redirect to the
// user list with the guard's message and report false.
func (h *MovieHandler) guardOwner(w http.ResponseWriter, r *http.Request, user *model.User) (*model.Movie, bool) {
	movieID, ok := pathID(r, "movieID")
	if !ok {
		redirectWithMessage(w, r, "/users", "Movie not found.")
		return nil, false
	}

	movie, err := h.movies.AuthorizeOwner(r.Context(), movieID, user.ID)
	if err != nil {
		if appErr, ok := asAppError(err); ok {
			redirectWithMessage(w, r, "/users", appErr.Message)
			return nil, false
		}
		h.render.ServerError(w)
		return nil, false
	}

	return movie, true
}

// renderMovieForm shows the shared add/update movie form. movieID is 0
// for the add flow; the template uses it to pick the action URL.
func (h *MovieHandler) renderMovieForm(w http.ResponseWriter, status int, title string, user *model.User, movieID int64, form validate.MovieForm, errMsg string) {
	h.render.Render(w, status, "movie_form.html", map[string]any{
		"Title":   title,
		"User":    user,
		"MovieID": movieID,
		"Form":    form,
		"Error":   errMsg,
	})
}

// HandleAddForm shows the empty add-movie form for a user.
//
// GET /users/{userID}/add_movie
func (h *MovieHandler) HandleAddForm(w http.ResponseWriter, r *http.Request) {
	user, ok := h.loadUser(w, r)
	if !ok {
		return
	}
	h.renderMovieForm(w, http.StatusOK, "Add Movie", user, 0, validate.MovieForm{}, "")
}

// HandleAdd creates a movie for a user. Validation and duplicate
// failures re-render the form with the message and the submitted values
// preserved; success redirects to the user's movie page.
//
// POST /users/{userID}/add_movie
func (h *MovieHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	user, ok := h.loadUser(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderMovieForm(w, http.StatusBadRequest, "Add Movie", user, 0,
			validate.MovieForm{}, "Invalid form submission.")
		return
	}
	form := movieFormFromRequest(r)

	if _, err := h.movies.Create(r.Context(), user.ID, form); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			// The user disappeared between the lookup and the write.
			redirectWithMessage(w, r, "/users", "User not found.")
			return
		}
		if appErr, ok := asAppError(err); ok {
			h.renderMovieForm(w, formStatus(err), "Add Movie", user, 0, form, appErr.Message)
			return
		}
		h.render.ServerError(w)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/users/%d", user.ID), http.StatusSeeOther)
}

// HandleUpdateForm shows the update form prefilled with the movie's
// stored values. Ownership is enforced before anything renders.
//
// GET /users/{userID}/update_movie/{movieID}
func (h *MovieHandler) HandleUpdateForm(w http.ResponseWriter, r *http.Request) {
	user, ok := h.loadUser(w, r)
	if !ok {
		return
	}
	movie, ok := h.guardOwner(w, r, user)
	if !ok {
		return
	}

	h.renderMovieForm(w, http.StatusOK, "Update Movie", user, movie.ID,
		movieFormFromModel(movie), "")
}

// HandleUpdate overwrites a movie with the submitted form values.
// Ownership is enforced first; validation failures re-render the form
// with the submitted values so the user can correct them, leaving the
// stored row untouched.
//
// POST /users/{userID}/update_movie/{movieID}
func (h *MovieHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := h.loadUser(w, r)
	if !ok {
		return
	}
	movie, ok := h.guardOwner(w, r, user)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderMovieForm(w, http.StatusBadRequest, "Update Movie", user, movie.ID,
			movieFormFromModel(movie), "Invalid form submission.")
		return
	}
	form := movieFormFromRequest(r)

	if _, err := h.movies.Update(r.Context(), movie.ID, form); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			redirectWithMessage(w, r, "/users", "Movie not found.")
			return
		}
		if appErr, ok := asAppError(err); ok {
			h.renderMovieForm(w, formStatus(err), "Update Movie", user, movie.ID, form, appErr.Message)
			return
		}
		h.render.ServerError(w)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/users/%d", user.ID), http.StatusSeeOther)
}

// HandleDelete removes a movie after the ownership guard passes and
// returns to the user's movie page.
//
// POST /users/{userID}/delete_movie/{movieID}
func (h *MovieHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := h.loadUser(w, r)
	if !ok {
		return
	}
	movie, ok := h.guardOwner(w, r, user)
	if !ok {
		return
	}

	if err := h.movies.Delete(r.Context(), movie.ID); err != nil {
		if appErr, ok := asAppError(err); ok {
			redirectWithMessage(w, r, fmt.Sprintf("/users/%d", user.ID), appErr.Message)
			return
		}
		h.render.ServerError(w)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/users/%d", user.ID), http.StatusSeeOther)
}

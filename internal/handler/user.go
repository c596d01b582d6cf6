package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/movieweb/internal/apperror"
	"github.com/sakif/movieweb/internal/service"
	"github.com/sakif/movieweb/internal/validate"
)

// UserHandler serves the landing page, the user list, a user's movie
// page, and the add-user form.
type UserHandler struct {
	users  *service.UserService
	movies *service.MovieService
	render *Renderer
	logger *slog.Logger
}

// NewUserHandler wires a UserHandler.
func NewUserHandler(users *service.UserService, movies *service.MovieService, render *Renderer, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		movies: movies,
		render: render,
		logger: logger,
	}
}

// HandleHome serves the landing page.
//
// GET /
func (h *UserHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, http.StatusOK, "home.html", map[string]any{
		"Title": "MovieWeb",
	})
}

// HandleList shows all users. A message arriving in the error query
// parameter (set by redirects from detail pages) is displayed at the
// top of the list.
//
// GET /users
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.GetAll(r.Context())
	if err != nil {
		h.render.ServerError(w)
		return
	}

	h.render.Render(w, http.StatusOK, "users.html", map[string]any{
		"Title": "Users",
		"Users": users,
		"Error": r.URL.Query().Get("error"),
	})
}

// HandleDetail shows one user's movie collection. An unknown or
// malformed user id redirects back to the user list with a message
// rather than rendering a 404.
//
// GET /users/{userID}
func (h *UserHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "userID")
	if !ok {
		redirectWithMessage(w, r, "/users", "User not found.")
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) || errors.Is(err, apperror.ErrInvalidInput) {
			redirectWithMessage(w, r, "/users", "User not found.")
			return
		}
		h.logger.Error("failed to load user", slog.Int64("id", userID), slog.String("error", err.Error()))
		h.render.ServerError(w)
		return
	}

	movies, err := h.movies.GetUserMovies(r.Context(), userID)
	if err != nil {
		h.render.ServerError(w)
		return
	}

	h.render.Render(w, http.StatusOK, "user_movies.html", map[string]any{
		"Title":  user.Name + "'s Movies",
		"User":   user,
		"Movies": movies,
		"Error":  r.URL.Query().Get("error"),
	})
}

// HandleAddUserForm shows the empty add-user form.
//
// GET /add_user
func (h *UserHandler) HandleAddUserForm(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, http.StatusOK, "user_form.html", map[string]any{
		"Title": "Add User",
		"Name":  "",
	})
}

// HandleAddUser creates a user from the submitted form. Validation and
// duplicate failures re-render the form with the message and the
// submitted name preserved; success redirects to the user list.
//
// POST /add_user
func (h *UserHandler) HandleAddUser(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render.Render(w, http.StatusBadRequest, "user_form.html", map[string]any{
			"Title": "Add User",
			"Name":  "",
			"Error": "Invalid form submission.",
		})
		return
	}

	form := validate.UserForm{Name: r.PostFormValue("name")}

	if _, err := h.users.Create(r.Context(), form); err != nil {
		if appErr, ok := asAppError(err); ok {
			h.render.Render(w, formStatus(err), "user_form.html", map[string]any{
				"Title": "Add User",
				"Name":  form.Name,
				"Error": appErr.Message,
			})
			return
		}
		h.render.ServerError(w)
		return
	}

	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

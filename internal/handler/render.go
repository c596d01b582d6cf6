// Package handler contains the HTTP request handlers: they parse the
// request, call the services, and render HTML pages. All business rules
// live below them — a handler's only decisions are which template to
// show, which status code to send, and where to redirect.
package handler

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/movieweb/internal/apperror"
)

// pageFiles lists every page template. Each is parsed together with
// base.html at startup so requests reuse the compiled templates.
var pageFiles = []string{
	"home.html",
	"users.html",
	"user_movies.html",
	"user_form.html",
	"movie_form.html",
	"error.html",
}

// Renderer holds the parsed template sets, one per page. Pages are
// composed the usual way: base.html defines the layout and invokes
// {{template "content" .}}, each page file defines "content".
type Renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// NewRenderer parses all page templates from templateDir. Parsing
// happens once here; a broken template fails startup instead of a
// request.
func NewRenderer(templateDir string, logger *slog.Logger) (*Renderer, error) {
	base := filepath.Join(templateDir, "base.html")

	pages := make(map[string]*template.Template, len(pageFiles))
	for _, page := range pageFiles {
		tmpl, err := template.ParseFiles(base, filepath.Join(templateDir, page))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}
		pages[page] = tmpl
	}

	return &Renderer{
		pages:  pages,
		logger: logger,
	}, nil
}

// Render writes the given page with the given status. Headers must be
// set before the body, so the content type and status go out first.
func (rn *Renderer) Render(w http.ResponseWriter, status int, page string, data map[string]any) {
	tmpl, ok := rn.pages[page]
	if !ok {
		rn.logger.Error("unknown template requested", slog.String("page", page))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		// Headers are already sent; all we can do is log.
		rn.logger.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
	}
}

// ServerError renders the generic 500 page. The real cause has already
// been logged by the layer that produced it; nothing internal reaches
// the response.
func (rn *Renderer) ServerError(w http.ResponseWriter) {
	rn.Render(w, http.StatusInternalServerError, "error.html", map[string]any{
		"Title":   "Something went wrong",
		"Message": "An unexpected error occurred. Please try again.",
	})
}

// pathID parses a positive integer path parameter. A non-numeric or
// non-positive id reports false — callers treat that the same as a
// record that does not exist, never as a server error.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// redirectWithMessage sends the browser to target carrying a user-safe
// message in the error query parameter. The listing pages pick it up
// and display it; no session state is involved.
func redirectWithMessage(w http.ResponseWriter, r *http.Request, target, message string) {
	if message != "" {
		target = target + "?error=" + url.QueryEscape(message)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// asAppError extracts the typed application error, if err carries one.
func asAppError(err error) (*apperror.AppError, bool) {
	var appErr *apperror.AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}

// formStatus maps an expected error to the status used when
// re-rendering the originating form.
func formStatus(err error) int {
	switch {
	case errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Package server wires the application together: it owns the database
// connection, builds the repository → service → handler chain, mounts
// the routes, and runs the HTTP server with graceful shutdown.
//
// This is the composition root — the only place that knows both the
// concrete sqlite implementation and the handlers that ultimately sit
// on top of it. Everything in between receives its dependencies
// explicitly; there are no package-level singletons.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/movieweb/internal/handler"
	"github.com/sakif/movieweb/internal/middleware"
	sqliteRepo "github.com/sakif/movieweb/internal/repository/sqlite"
	"github.com/sakif/movieweb/internal/service"
)

// Config holds server configuration.
type Config struct {
	Port        int
	TemplateDir string
	StaticDir   string
	DBPath      string
}

// Server is the HTTP server and its owned resources. The database
// connection belongs to the server and is closed during shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New opens the database and assembles the full dependency chain:
//
//	sqlite.DB → UserService/MovieService → UserHandler/MovieHandler
//
// The services receive the repository interfaces (which *sqlite.DB
// implements), the handlers receive the services, and nothing below the
// handlers ever sees HTTP.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes mounts middleware, static files, and every page route.
//
//	GET       /                                        landing page
//	GET       /users                                   user list
//	GET       /users/{userID}                          a user's movies
//	GET, POST /add_user                                create user
//	GET, POST /users/{userID}/add_movie                create movie
//	GET, POST /users/{userID}/update_movie/{movieID}   update movie (owner only)
//	POST      /users/{userID}/delete_movie/{movieID}   delete movie (owner only)
func (s *Server) setupRoutes() error {
	// Middleware order: request id first so the logger can report it,
	// Recoverer last-but-one so panics become logged 500s.
	s.router.Use(middleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	render, err := handler.NewRenderer(s.config.TemplateDir, s.logger)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}

	userService := service.NewUserService(s.db, s.logger)
	movieService := service.NewMovieService(s.db, s.logger)

	userHandler := handler.NewUserHandler(userService, movieService, render, s.logger)
	movieHandler := handler.NewMovieHandler(userService, movieService, render, s.logger)

	s.router.Get("/", userHandler.HandleHome)
	s.router.Get("/users", userHandler.HandleList)
	s.router.Get("/users/{userID}", userHandler.HandleDetail)
	s.router.Get("/add_user", userHandler.HandleAddUserForm)
	s.router.Post("/add_user", userHandler.HandleAddUser)

	s.router.Get("/users/{userID}/add_movie", movieHandler.HandleAddForm)
	s.router.Post("/users/{userID}/add_movie", movieHandler.HandleAdd)
	s.router.Get("/users/{userID}/update_movie/{movieID}", movieHandler.HandleUpdateForm)
	s.router.Post("/users/{userID}/update_movie/{movieID}", movieHandler.HandleUpdate)
	s.router.Post("/users/{userID}/delete_movie/{movieID}", movieHandler.HandleDelete)

	return nil
}

// Start runs the server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds, and close the database so the WAL is flushed.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

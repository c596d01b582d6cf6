// Package service contains the business logic layer: it composes
// validation and persistence into single operations and returns typed
// outcomes the handlers can branch on.
//
// Services accept the repository interfaces, not the sqlite types, so
// tests inject in-memory mocks and the handlers never touch SQL. The
// outcome of every operation is a plain (value, error) pair where the
// error — when it is expected — carries the apperror taxonomy; a
// message can therefore never be mistaken for a domain value.
//
// Expected failures (invalid input, not found, conflict, access denied)
// pass through untouched with their user-safe messages. Anything else
// is logged here in full and propagates as a wrapped internal error;
// the handlers render those as a generic error page and never show the
// detail to the user.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/movieweb/internal/model"
	"github.com/sakif/movieweb/internal/repository"
	"github.com/sakif/movieweb/internal/validate"
)

// UserService handles business operations on users.
type UserService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// NewUserService wires a UserService. The repository is injected so the
// composition root decides which implementation backs it.
func NewUserService(users repository.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger,
	}
}

// GetAll returns every registered user.
func (s *UserService) GetAll(ctx context.Context) ([]model.User, error) {
	users, err := s.users.GetAllUsers(ctx)
	if err != nil {
		s.logger.Error("failed to list users", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// GetByID returns one user, or ErrNotFound.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.users.GetUserByID(ctx, id)
}

// Create validates the form — including the case-insensitive duplicate
// check against all existing users — and persists a new user. Any
// validation failure short-circuits before storage is touched.
func (s *UserService) Create(ctx context.Context, form validate.UserForm) (*model.User, error) {
	existing, err := s.users.GetAllUsers(ctx)
	if err != nil {
		s.logger.Error("failed to load users for validation", slog.String("error", err.Error()))
		return nil, fmt.Errorf("loading existing users: %w", err)
	}

	fields, err := validate.User(form, existing)
	if err != nil {
		return nil, err
	}

	user := &model.User{Name: fields.Name}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if isExpected(err) {
			return nil, err
		}
		s.logger.Error("failed to create user",
			slog.String("name", fields.Name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user created",
		slog.Int64("id", user.ID),
		slog.String("name", user.Name),
	)

	return user, nil
}

package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/sakif/movieweb/internal/apperror"
	"github.com/sakif/movieweb/internal/model"
	"github.com/sakif/movieweb/internal/repository"
	"github.com/sakif/movieweb/internal/validate"
)

// mockUserRepo is a hand-written in-memory repository.UserRepository.
// The failWith field lets tests simulate storage failures that would be
// hard to trigger against a real database.
type mockUserRepo struct {
	users    map[int64]*model.User
	nextID   int64
	failWith error
}

var _ repository.UserRepository = (*mockUserRepo)(nil)

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*model.User)}
}

func (m *mockUserRepo) GetAllUsers(_ context.Context) ([]model.User, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	result := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		result = append(result, *u)
	}
	return result, nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("User")
	}
	result := *u
	return &result, nil
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *model.User) error {
	if m.failWith != nil {
		return m.failWith
	}
	for _, u := range m.users {
		if strings.EqualFold(u.Name, user.Name) {
			return apperror.Conflict("A user with this name already exists.")
		}
	}
	m.nextID++
	user.ID = m.nextID
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) DeleteUser(_ context.Context, id int64) error {
	return apperror.NotImplemented("User deletion is not supported yet.")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestUserService() (*UserService, *mockUserRepo) {
	repo := newMockUserRepo()
	return NewUserService(repo, testLogger()), repo
}

func TestUserCreate(t *testing.T) {
	svc, _ := newTestUserService()

	user, err := svc.Create(context.Background(), validate.UserForm{Name: "Bob"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if user.ID == 0 {
		t.Error("expected a generated id")
	}
	if user.Name != "Bob" {
		t.Errorf("Name = %q, want %q", user.Name, "Bob")
	}
}

func TestUserCreate_ValidationShortCircuitsBeforeStorage(t *testing.T) {
	svc, repo := newTestUserService()

	_, err := svc.Create(context.Background(), validate.UserForm{Name: ""})
	if !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("error = %v, want invalid input", err)
	}
	if len(repo.users) != 0 {
		t.Error("nothing should be persisted when validation fails")
	}
}

func TestUserCreate_DuplicateNameCaseInsensitive(t *testing.T) {
	svc, _ := newTestUserService()

	if _, err := svc.Create(context.Background(), validate.UserForm{Name: "Alice"}); err != nil {
		t.Fatalf("first Create() error = %v", err)
	}

	_, err := svc.Create(context.Background(), validate.UserForm{Name: "alice"})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("error = %v, want conflict", err)
	}
	if err.Error() != "A user with this name already exists." {
		t.Errorf("message = %q, want the duplicate-user message", err.Error())
	}
}

func TestUserCreate_NameTooLong(t *testing.T) {
	svc, _ := newTestUserService()

	_, err := svc.Create(context.Background(), validate.UserForm{Name: strings.Repeat("x", 31)})
	if !errors.Is(err, apperror.ErrInvalidInput) {
		t.Errorf("error = %v, want invalid input", err)
	}
}

// Unexpected storage failures must not surface as user-visible typed
// errors: the service logs the detail and returns a plain wrapped
// error, which the handlers render as a generic page.
func TestUserCreate_UnexpectedErrorIsNotExposed(t *testing.T) {
	svc, repo := newTestUserService()
	repo.failWith = errors.New("disk I/O error on sector 42")

	_, err := svc.Create(context.Background(), validate.UserForm{Name: "Bob"})
	if err == nil {
		t.Fatal("expected an error")
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		t.Errorf("unexpected failure leaked as a typed AppError: %v", appErr)
	}
}

func TestUserGetAll(t *testing.T) {
	svc, _ := newTestUserService()
	if _, err := svc.Create(context.Background(), validate.UserForm{Name: "Alice"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(context.Background(), validate.UserForm{Name: "Bob"}); err != nil {
		t.Fatal(err)
	}

	users, err := svc.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(users) != 2 {
		t.Errorf("len(users) = %d, want 2", len(users))
	}
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sakif/movieweb/internal/apperror"
	"github.com/sakif/movieweb/internal/model"
	"github.com/sakif/movieweb/internal/repository"
)

// Compile-time check that *DB implements repository.UserRepository.
var _ repository.UserRepository = (*DB)(nil)

// GetAllUsers returns every user ordered by name. No rows is a normal
// result: the caller gets an empty slice.
func (db *DB) GetAllUsers(ctx context.Context) ([]model.User, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, created_at FROM users ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}

	return users, nil
}

// GetUserByID retrieves a single user.
func (db *DB) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	if id < 1 {
		return nil, apperror.InvalidInput("id", "User id is required.")
	}

	var u model.User
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Name, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("User")
		}
		return nil, fmt.Errorf("sqlite: getting user %d: %w", id, err)
	}

	return &u, nil
}

// CreateUser inserts a user and fills in the generated ID. The unique
// NOCASE index on users.name turns a concurrent duplicate into a
// Conflict here even when the pre-validation check raced and missed it.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	if user == nil || user.Name == "" {
		return apperror.InvalidInput("name", "User name is required.")
	}

	user.CreatedAt = time.Now()
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (name, created_at) VALUES (?, ?)`,
		user.Name, user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("A user with this name already exists.")
		}
		return fmt.Errorf("sqlite: creating user %q: %w", user.Name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading generated user id: %w", err)
	}
	user.ID = id

	return nil
}

// DeleteUser is declared by the repository contract but has no behaviour
// yet: whether a user's movies should be deleted with them or block the
// deletion is an open product decision, and guessing either way here
// would silently destroy or strand data.
func (db *DB) DeleteUser(ctx context.Context, id int64) error {
	return apperror.NotImplemented("User deletion is not supported yet.")
}

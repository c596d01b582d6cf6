// Package sqlite implements the repository interfaces on SQLite.
//
// SQLite is embedded — a single file, no server to run — which fits a
// single-binary web app. We use modernc.org/sqlite, a pure Go port of
// the SQLite engine, so the project builds without CGo and
// cross-compiles anywhere Go does.
//
// Every write in this package is a single INSERT/UPDATE/DELETE
// statement. SQLite wraps each statement in its own implicit
// transaction, so a failed write never leaves partial state behind:
// commit-or-rollback atomicity comes from the engine, not from
// application code. The integrity rules (unique user names, unique
// movie per user, movies must reference an existing user) live in the
// schema, and this package's job is to translate the engine's
// constraint failures into the apperror vocabulary.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and provides the repository methods.
// A single *DB implements both repository.UserRepository and
// repository.MovieRepository.
type DB struct {
	conn *sql.DB
}

// New opens the database at dbPath (":memory:" for tests), verifies the
// connection, applies the PRAGMAs we depend on, and runs migrations.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// An in-memory database exists per connection: with a pool, the
	// second connection would see an empty schema. Cap the pool at one
	// connection so ":memory:" behaves like a single database (tests
	// rely on this).
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	// sql.Open only configures the pool; Ping forces a real connection
	// so a bad path surfaces here rather than on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed while a write is in flight — important for
	// a web server, where list pages and form posts overlap.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are off by default in SQLite. We rely on
	// movies.user_id → users.id being enforced by the engine.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Callers should defer this right
// after New so the WAL is flushed and the file lock released on exit.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE ... IF NOT EXISTS keeps it safe to
// run on every startup.
//
// COLLATE NOCASE on the text columns makes both equality comparisons
// and the unique indexes case-insensitive, which is exactly the
// duplicate rule the validation layer checks up front: "Alice" and
// "alice" are the same user, and two copies of the same film by the
// same director cannot coexist in one collection.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT NOT NULL COLLATE NOCASE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_users_name ON users(name);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS movies (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT NOT NULL COLLATE NOCASE,
			director   TEXT NOT NULL COLLATE NOCASE,
			year       INTEGER,
			rating     INTEGER,
			user_id    INTEGER NOT NULL REFERENCES users(id),
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_movies_owner_title
			ON movies(user_id, name, director);
		CREATE INDEX IF NOT EXISTS idx_movies_user_id ON movies(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating movies table: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
// modernc.org/sqlite surfaces constraint errors with the engine's
// canonical "UNIQUE constraint failed: table.column" text, so matching
// on it is the stable way to tell a duplicate apart from other failures
// (same translation move the pq-based stores make with error code 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// nullableInt converts an optional int to a driver value: nil → NULL.
func nullableInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

// intPtr converts a scanned NULLable column back to an optional int.
func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

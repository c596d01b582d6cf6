// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents an account owning a personal collection of movies.
//
// The ID is a database-generated integer (SQLite rowid autoincrement) and
// is immutable once assigned. Names are unique case-insensitively — the
// database enforces this with a NOCASE unique index, and the validation
// layer checks it up front so the user gets a friendly message instead of
// a constraint error.
type User struct {
	ID        int64     `json:"id"        db:"id"`
	Name      string    `json:"name"      db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

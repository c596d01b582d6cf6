package model

import "time"

// Movie is a record of a film in one user's collection. A movie always
// belongs to exactly one user (UserID is a foreign key to users.id).
//
// Year and Rating are *int because both are optional: nil means the user
// left the field blank, which is distinct from zero. They map to NULLable
// INTEGER columns.
type Movie struct {
	ID        int64     `json:"id"        db:"id"`
	Name      string    `json:"name"      db:"name"`
	Director  string    `json:"director"  db:"director"`
	Year      *int      `json:"year"      db:"year"`
	Rating    *int      `json:"rating"    db:"rating"`
	UserID    int64     `json:"userId"    db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Package model holds the persisted record schemas.
package model

import "time"

// SchemaVersion marks the on-disk record layout. Bump it together with
// a migration when a field changes meaning.
const SchemaVersion = 1

// User is a registered account. Records are append-only: never mutated
// or deleted after signup. The password is stored and compared as a
// plain string.
type User struct {
	ID       int64  `json:"id"` // signup time in milliseconds
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Item is a single todo entry owned by one user's list.
// IDs are creation timestamps in milliseconds; two items created in
// the same millisecond can collide. Known weakness, kept as is.
type Item struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// NewID returns a fresh timestamp id.
func NewID() int64 { return time.Now().UnixMilli() }

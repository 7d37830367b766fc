// Package store defines the record store contract: JSON values under
// string keys in a persistent local database.
package store

import "errors"

// ErrUnavailable wraps any failure of the underlying database. The
// caller treats it as fatal for the action that triggered it; there is
// no retry.
var ErrUnavailable = errors.New("storage unavailable")

// Store is a generic persistent key-value interface. A missing key is
// not an error: Get reports it with ok=false and leaves v untouched.
type Store interface {
	// Get decodes the value under key into v. ok is false when the key
	// is absent.
	Get(key string, v any) (ok bool, err error)
	// Set encodes v and durably writes it under key, replacing any
	// previous value.
	Set(key string, v any) error
	// Remove deletes key. Removing an absent key is a no-op.
	Remove(key string) error
}

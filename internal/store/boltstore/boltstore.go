// Package boltstore implements the record store on a bbolt database.
// Single file, one bucket, JSON values.
package boltstore

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/idilsaglam/tudu/internal/store"
)

const bucketRecords = "records"

// Store is a bbolt-backed store.Store.
type Store struct {
	db *bbolt.DB
}

var _ store.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path. Bolt holds an
// exclusive file lock; the 1s timeout makes a second process fail fast
// instead of blocking forever.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", store.ErrUnavailable, path, err)
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketRecords))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: init bucket: %v", store.ErrUnavailable, err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(key string, v any) (bool, error) {
	var raw []byte

	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketRecords)).Get([]byte(key))
		if b == nil {
			return nil
		}
		// copy: bolt memory is only valid inside the transaction
		raw = append([]byte(nil), b...)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("%w: get %s: %v", store.ErrUnavailable, key, err)
	}
	if raw == nil {
		return false, nil
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("%w: decode %s: %v", store.ErrUnavailable, key, err)
	}
	return true, nil
}

func (s *Store) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", store.ErrUnavailable, key, err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketRecords)).Put([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("%w: set %s: %v", store.ErrUnavailable, key, err)
	}
	return nil
}

func (s *Store) Remove(key string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketRecords)).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("%w: remove %s: %v", store.ErrUnavailable, key, err)
	}
	return nil
}

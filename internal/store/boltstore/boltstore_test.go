package boltstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tudu/internal/store"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "tudu.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSetGetRoundtrip(t *testing.T) {
	s := openTestStore(t)

	type rec struct {
		Name string `json:"name"`
		N    int    `json:"n"`
	}

	require.NoError(t, s.Set("k", rec{Name: "ann", N: 7}))

	var got rec
	ok, err := s.Get("k", &got)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, rec{Name: "ann", N: 7}, got)
}

func TestGetMissingKey(t *testing.T) {
	s := openTestStore(t)

	var got []string
	ok, err := s.Get("nope", &got)
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, got)
}

func TestSetOverwrites(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Set("k", []int{1, 2}))
	require.NoError(t, s.Set("k", []int{3}))

	var got []int
	ok, err := s.Get("k", &got)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []int{3}, got)
}

func TestRemove(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Set("k", "v"))
	require.NoError(t, s.Remove("k"))

	var got string
	ok, err := s.Get("k", &got)
	require.NoError(t, err)
	require.False(t, ok)

	// removing an absent key is a no-op
	require.NoError(t, s.Remove("k"))
}

func TestOpenBadPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "no", "such", "dir", "tudu.db"))
	require.ErrorIs(t, err, store.ErrUnavailable)
}

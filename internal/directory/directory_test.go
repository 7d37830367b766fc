package directory

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tudu/internal/store/boltstore"
)

func testDirectory(t *testing.T) *Directory {
	t.Helper()
	s, err := boltstore.Open(filepath.Join(t.TempDir(), "tudu.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return New(s)
}

func TestRegisterAndList(t *testing.T) {
	d := testDirectory(t)

	u, err := d.Register("Ann", "a@x.com", "p1")
	require.NoError(t, err)
	require.Equal(t, "Ann", u.Name)
	require.Equal(t, "a@x.com", u.Email)
	require.NotZero(t, u.ID)

	_, err = d.Register("Bob", "b@x.com", "p2")
	require.NoError(t, err)

	users, err := d.Users()
	require.NoError(t, err)
	require.Len(t, users, 2)
	// insertion order
	require.Equal(t, "a@x.com", users[0].Email)
	require.Equal(t, "b@x.com", users[1].Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	d := testDirectory(t)

	_, err := d.Register("Ann", "a@x.com", "p1")
	require.NoError(t, err)

	_, err = d.Register("Other Ann", "a@x.com", "p2")
	require.ErrorIs(t, err, ErrDuplicateEmail)

	users, err := d.Users()
	require.NoError(t, err)
	require.Len(t, users, 1)
}

func TestAuthenticate(t *testing.T) {
	d := testDirectory(t)

	want, err := d.Register("Ann", "a@x.com", "p1")
	require.NoError(t, err)

	got, err := d.Authenticate("a@x.com", "p1")
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestAuthenticateMismatch(t *testing.T) {
	d := testDirectory(t)

	_, err := d.Register("Ann", "a@x.com", "p1")
	require.NoError(t, err)

	cases := []struct {
		name            string
		email, password string
	}{
		{"wrong password", "a@x.com", "p2"},
		{"unknown email", "b@x.com", "p1"},
		{"case-different email", "A@X.com", "p1"},
		{"padded email", " a@x.com", "p1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := d.Authenticate(tc.email, tc.password)
			require.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestUsersEmptyDirectory(t *testing.T) {
	d := testDirectory(t)

	users, err := d.Users()
	require.NoError(t, err)
	require.Empty(t, users)
}

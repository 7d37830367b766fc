// Package directory is the registered-user list and its lookups.
package directory

import (
	"errors"
	"fmt"

	"github.com/idilsaglam/tudu/internal/model"
	"github.com/idilsaglam/tudu/internal/store"
)

// Users live as one JSON array under a single key, rewritten whole on
// every signup.
const usersKey = "todoUsers"

var (
	// ErrDuplicateEmail is returned when signing up with an email that
	// is already registered. Comparison is an exact string match.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials is returned for any login mismatch. One
	// message for unknown email and wrong password alike.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Directory looks up and registers users against a record store.
type Directory struct {
	s store.Store
}

func New(s store.Store) *Directory {
	return &Directory{s: s}
}

// Users returns all registered users in signup order.
func (d *Directory) Users() ([]model.User, error) {
	users := []model.User{}
	if _, err := d.s.Get(usersKey, &users); err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	return users, nil
}

// Register appends a new user and persists the full list. Fails with
// ErrDuplicateEmail when the email is already taken; the list is left
// unchanged in that case.
func (d *Directory) Register(name, email, password string) (model.User, error) {
	users, err := d.Users()
	if err != nil {
		return model.User{}, err
	}

	for _, u := range users {
		if u.Email == email {
			return model.User{}, ErrDuplicateEmail
		}
	}

	u := model.User{
		ID:       model.NewID(),
		Name:     name,
		Email:    email,
		Password: password,
	}
	users = append(users, u)

	if err := d.s.Set(usersKey, users); err != nil {
		return model.User{}, fmt.Errorf("save users: %w", err)
	}
	return u, nil
}

// Authenticate scans for the first user whose email and password both
// match exactly. No trimming, no case folding.
func (d *Directory) Authenticate(email, password string) (model.User, error) {
	users, err := d.Users()
	if err != nil {
		return model.User{}, err
	}

	for _, u := range users {
		if u.Email == email && u.Password == password {
			return u, nil
		}
	}
	return model.User{}, ErrInvalidCredentials
}

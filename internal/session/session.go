// Package session tracks the single currently-authenticated user.
// "Logged in" means exactly: a user record is present under the
// session key. No token, no expiry.
package session

import (
	"fmt"

	"github.com/idilsaglam/tudu/internal/model"
	"github.com/idilsaglam/tudu/internal/store"
)

const currentUserKey = "currentUser"

// Holder persists the active user so it survives a restart.
type Holder struct {
	s store.Store
}

func New(s store.Store) *Holder {
	return &Holder{s: s}
}

// Current returns the active user, or nil when nobody is logged in.
func (h *Holder) Current() (*model.User, error) {
	var u model.User
	ok, err := h.s.Get(currentUserKey, &u)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// SetCurrent persists u as the active user, replacing any previous
// session.
func (h *Holder) SetCurrent(u model.User) error {
	if err := h.s.Set(currentUserKey, u); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear removes the session. Clearing when logged out is a no-op.
func (h *Holder) Clear() error {
	if err := h.s.Remove(currentUserKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Package ledger is the per-user persisted todo list and its
// mutations. Every mutation rewrites the full list immediately; there
// is no deferred flush, so the stored list is always the result of the
// last completed operation.
package ledger

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/idilsaglam/tudu/internal/model"
	"github.com/idilsaglam/tudu/internal/store"
)

const keyPrefix = "todos_"

var (
	// ErrEmptyText rejects adds/edits whose text trims to nothing.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrNotFound means no item with that id exists in the list.
	ErrNotFound = errors.New("no such item")
)

func key(userID int64) string {
	return keyPrefix + strconv.FormatInt(userID, 10)
}

// Load returns the persisted list for userID, empty if none yet.
func Load(s store.Store, userID int64) ([]model.Item, error) {
	items := []model.Item{}
	if _, err := s.Get(key(userID), &items); err != nil {
		return nil, fmt.Errorf("load todos: %w", err)
	}
	return items, nil
}

// Save overwrites the persisted list for userID.
func Save(s store.Store, userID int64, items []model.Item) error {
	if err := s.Set(key(userID), items); err != nil {
		return fmt.Errorf("save todos: %w", err)
	}
	return nil
}

// Ledger binds a store to one user's list. Mutations identify items by
// id, so a filtered or re-sorted view always edits the logical item
// the user picked, never whatever happens to sit at that row now.
type Ledger struct {
	s      store.Store
	userID int64
	items  []model.Item
}

// Open loads userID's list and returns a ledger over it.
func Open(s store.Store, userID int64) (*Ledger, error) {
	items, err := Load(s, userID)
	if err != nil {
		return nil, err
	}
	return &Ledger{s: s, userID: userID, items: items}, nil
}

// Items returns a copy of the current list in append order.
func (l *Ledger) Items() []model.Item {
	out := make([]model.Item, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the current item count.
func (l *Ledger) Len() int { return len(l.items) }

// IDAt maps a 0-based list position to an item id.
func (l *Ledger) IDAt(index int) (int64, bool) {
	if index < 0 || index >= len(l.items) {
		return 0, false
	}
	return l.items[index].ID, true
}

// Add appends a new pending item and persists. Whitespace-only text
// fails with ErrEmptyText and the list stays untouched.
func (l *Ledger) Add(text string) (model.Item, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Item{}, ErrEmptyText
	}

	it := model.Item{ID: model.NewID(), Text: text}
	next := append(l.Items(), it)
	if err := Save(l.s, l.userID, next); err != nil {
		return model.Item{}, err
	}
	l.items = next
	return it, nil
}

// Edit replaces the text of the item with the given id, leaving its
// completed flag alone, and persists.
func (l *Ledger) Edit(id int64, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyText
	}

	idx := l.indexOf(id)
	if idx < 0 {
		return ErrNotFound
	}

	next := l.Items()
	next[idx].Text = text
	if err := Save(l.s, l.userID, next); err != nil {
		return err
	}
	l.items = next
	return nil
}

// Toggle flips the completed flag of one item and persists. The
// updated item is returned for display.
func (l *Ledger) Toggle(id int64) (model.Item, error) {
	idx := l.indexOf(id)
	if idx < 0 {
		return model.Item{}, ErrNotFound
	}

	next := l.Items()
	next[idx].Completed = !next[idx].Completed
	if err := Save(l.s, l.userID, next); err != nil {
		return model.Item{}, err
	}
	l.items = next
	return next[idx], nil
}

// Delete removes the item with the given id and persists.
func (l *Ledger) Delete(id int64) error {
	idx := l.indexOf(id)
	if idx < 0 {
		return ErrNotFound
	}

	next := l.Items()
	next = append(next[:idx], next[idx+1:]...)
	if err := Save(l.s, l.userID, next); err != nil {
		return err
	}
	l.items = next
	return nil
}

func (l *Ledger) indexOf(id int64) int {
	for i, it := range l.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

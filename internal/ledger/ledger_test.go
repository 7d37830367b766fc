package ledger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tudu/internal/model"
	"github.com/idilsaglam/tudu/internal/store"
	"github.com/idilsaglam/tudu/internal/store/boltstore"
)

func testStore(t *testing.T) store.Store {
	t.Helper()
	s, err := boltstore.Open(filepath.Join(t.TempDir(), "tudu.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLoadEmpty(t *testing.T) {
	s := testStore(t)

	items, err := Load(s, 42)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestAddPersistsImmediately(t *testing.T) {
	s := testStore(t)

	led, err := Open(s, 42)
	require.NoError(t, err)

	it, err := led.Add("buy milk")
	require.NoError(t, err)
	require.Equal(t, "buy milk", it.Text)
	require.False(t, it.Completed)
	require.NotZero(t, it.ID)

	// visible through a fresh load, not just in memory
	items, err := Load(s, 42)
	require.NoError(t, err)
	require.Equal(t, []model.Item{it}, items)
}

func TestAddTrimsText(t *testing.T) {
	s := testStore(t)

	led, err := Open(s, 1)
	require.NoError(t, err)

	it, err := led.Add("  buy milk \n")
	require.NoError(t, err)
	require.Equal(t, "buy milk", it.Text)
}

func TestAddEmptyTextIsRejected(t *testing.T) {
	s := testStore(t)

	led, err := Open(s, 1)
	require.NoError(t, err)

	for _, text := range []string{"", "   ", "\t\n"} {
		_, err := led.Add(text)
		require.ErrorIs(t, err, ErrEmptyText)
	}
	require.Zero(t, led.Len())

	items, err := Load(s, 1)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestEditKeepsIDAndFlag(t *testing.T) {
	s := testStore(t)

	led, err := Open(s, 1)
	require.NoError(t, err)

	it, err := led.Add("buy milk")
	require.NoError(t, err)
	_, err = led.Toggle(it.ID)
	require.NoError(t, err)

	require.NoError(t, led.Edit(it.ID, "buy oat milk"))

	items := led.Items()
	require.Len(t, items, 1)
	require.Equal(t, it.ID, items[0].ID)
	require.Equal(t, "buy oat milk", items[0].Text)
	require.True(t, items[0].Completed)
}

func TestEditEmptyOrMissing(t *testing.T) {
	s := testStore(t)

	led, err := Open(s, 1)
	require.NoError(t, err)

	it, err := led.Add("buy milk")
	require.NoError(t, err)

	require.ErrorIs(t, led.Edit(it.ID, "  "), ErrEmptyText)
	require.ErrorIs(t, led.Edit(it.ID+1, "x"), ErrNotFound)
	require.Equal(t, "buy milk", led.Items()[0].Text)
}

func TestToggleFlips(t *testing.T) {
	s := testStore(t)

	led, err := Open(s, 1)
	require.NoError(t, err)

	it, err := led.Add("buy milk")
	require.NoError(t, err)

	got, err := led.Toggle(it.ID)
	require.NoError(t, err)
	require.True(t, got.Completed)

	got, err = led.Toggle(it.ID)
	require.NoError(t, err)
	require.False(t, got.Completed)
}

func TestDelete(t *testing.T) {
	s := testStore(t)

	led, err := Open(s, 1)
	require.NoError(t, err)

	a, err := led.Add("one")
	require.NoError(t, err)
	b, err := led.Add("two")
	require.NoError(t, err)

	require.NoError(t, led.Delete(a.ID))
	require.ErrorIs(t, led.Delete(a.ID), ErrNotFound)

	items, err := Load(s, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, b.ID, items[0].ID)
}

// The full scenario from the original app: add, toggle, edit, delete.
func TestLifecycleScenario(t *testing.T) {
	s := testStore(t)

	led, err := Open(s, 1)
	require.NoError(t, err)

	it, err := led.Add("buy milk")
	require.NoError(t, err)
	require.Equal(t, []model.Item{{ID: it.ID, Text: "buy milk", Completed: false}}, led.Items())

	got, err := led.Toggle(it.ID)
	require.NoError(t, err)
	require.True(t, got.Completed)

	require.NoError(t, led.Edit(it.ID, "buy oat milk"))
	items := led.Items()
	require.Equal(t, "buy oat milk", items[0].Text)
	require.True(t, items[0].Completed)

	require.NoError(t, led.Delete(it.ID))
	require.Empty(t, led.Items())

	items, err = Load(s, 1)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestSequencePreservesOrderAndIDs(t *testing.T) {
	s := testStore(t)

	led, err := Open(s, 1)
	require.NoError(t, err)

	var ids []int64
	for _, text := range []string{"one", "two", "three", "four"} {
		it, err := led.Add(text)
		require.NoError(t, err)
		ids = append(ids, it.ID)
	}

	_, err = led.Toggle(ids[1])
	require.NoError(t, err)
	require.NoError(t, led.Edit(ids[2], "tres"))
	require.NoError(t, led.Delete(ids[0]))

	items, err := Load(s, 1)
	require.NoError(t, err)
	require.Equal(t, []model.Item{
		{ID: ids[1], Text: "two", Completed: true},
		{ID: ids[2], Text: "tres", Completed: false},
		{ID: ids[3], Text: "four", Completed: false},
	}, items)
}

func TestLedgersAreIsolatedPerUser(t *testing.T) {
	s := testStore(t)

	ledA, err := Open(s, 100)
	require.NoError(t, err)
	ledB, err := Open(s, 200)
	require.NoError(t, err)

	_, err = ledA.Add("a's task")
	require.NoError(t, err)
	_, err = ledB.Add("b's task")
	require.NoError(t, err)

	itemsA, err := Load(s, 100)
	require.NoError(t, err)
	itemsB, err := Load(s, 200)
	require.NoError(t, err)

	require.Len(t, itemsA, 1)
	require.Len(t, itemsB, 1)
	require.Equal(t, "a's task", itemsA[0].Text)
	require.Equal(t, "b's task", itemsB[0].Text)
}

func TestIDAt(t *testing.T) {
	s := testStore(t)

	led, err := Open(s, 1)
	require.NoError(t, err)

	it, err := led.Add("one")
	require.NoError(t, err)

	id, ok := led.IDAt(0)
	require.True(t, ok)
	require.Equal(t, it.ID, id)

	_, ok = led.IDAt(1)
	require.False(t, ok)
	_, ok = led.IDAt(-1)
	require.False(t, ok)
}

func TestItemsReturnsCopy(t *testing.T) {
	s := testStore(t)

	led, err := Open(s, 1)
	require.NoError(t, err)

	_, err = led.Add("one")
	require.NoError(t, err)

	items := led.Items()
	items[0].Text = "mutated"
	require.Equal(t, "one", led.Items()[0].Text)
}

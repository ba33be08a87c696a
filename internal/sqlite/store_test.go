package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stageloft/offbook/pkg/types"
)

// setupStore opens a fresh store in a temp directory.
func setupStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "library.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func insertProject(t *testing.T, s *Store, name string) *types.Project {
	t.Helper()
	p := &types.Project{Name: name, ContentPath: "/tmp/" + name + ".pdf"}
	require.NoError(t, s.Insert(p))
	return p
}

func TestInsertAssignsIDAndTimestamps(t *testing.T) {
	s := setupStore(t)

	p := insertProject(t, s, "Hamlet")
	assert.Positive(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)

	got, err := s.GetByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hamlet", got.Name)
	assert.Equal(t, "/tmp/Hamlet.pdf", got.ContentPath)
	assert.Equal(t, "", got.ChosenCharacter)
	assert.WithinDuration(t, p.CreatedAt, got.CreatedAt, time.Millisecond)
}

func TestInsertDuplicateNameConflicts(t *testing.T) {
	s := setupStore(t)

	insertProject(t, s, "Hamlet")
	err := s.Insert(&types.Project{Name: "Hamlet", ContentPath: "/tmp/other.pdf"})
	require.ErrorIs(t, err, types.ErrNameConflict)

	// Exactly one record survives.
	all, err := s.ListAll()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGetByNameAndMissing(t *testing.T) {
	s := setupStore(t)
	insertProject(t, s, "Macbeth")

	got, err := s.GetByName("Macbeth")
	require.NoError(t, err)
	assert.Equal(t, "Macbeth", got.Name)

	_, err = s.GetByName("Othello")
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = s.GetByID(9999)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestListAllOrdering(t *testing.T) {
	s := setupStore(t)

	a := insertProject(t, s, "Alpha")
	insertProject(t, s, "Beta")

	// Touch Alpha so it surfaces first.
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, s.UpdateFields(a.ID, map[string]any{"content_path": "/tmp/alpha2.pdf"}))

	all, err := s.ListAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Alpha", all[0].Name)
	assert.Equal(t, "Beta", all[1].Name)
}

func TestUpdateFields(t *testing.T) {
	s := setupStore(t)
	p := insertProject(t, s, "Hamlet")

	t.Run("restamps updated_at", func(t *testing.T) {
		before, err := s.GetByID(p.ID)
		require.NoError(t, err)

		time.Sleep(5 * time.Millisecond)
		require.NoError(t, s.UpdateFields(p.ID, map[string]any{"chosen_character": "Ophelia"}))

		after, err := s.GetByID(p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ophelia", after.ChosenCharacter)
		assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
	})

	t.Run("rename conflict", func(t *testing.T) {
		insertProject(t, s, "Macbeth")
		err := s.UpdateFields(p.ID, map[string]any{"name": "Macbeth"})
		assert.ErrorIs(t, err, types.ErrNameConflict)
	})

	t.Run("unknown column rejected", func(t *testing.T) {
		err := s.UpdateFields(p.ID, map[string]any{"id": 42})
		assert.Error(t, err)
	})

	t.Run("missing id", func(t *testing.T) {
		err := s.UpdateFields(9999, map[string]any{"name": "Ghost"})
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("meta round trip", func(t *testing.T) {
		var m types.Meta
		m.Set("reading_position", 12)
		m.Set(types.MetaKeyPlaceholder, true)
		require.NoError(t, s.UpdateFields(p.ID, map[string]any{"meta": m}))

		got, err := s.GetByID(p.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"reading_position", types.MetaKeyPlaceholder}, got.Meta.Keys())
		assert.True(t, got.IsPlaceholder())
	})
}

func TestRefreshMetaDoesNotRestamp(t *testing.T) {
	s := setupStore(t)
	p := insertProject(t, s, "Hamlet")

	before, err := s.GetByID(p.ID)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	var m types.Meta
	m.Set(types.MetaKeyFolder, "/tmp/lib/content/Hamlet")
	require.NoError(t, s.RefreshMeta(p.ID, m))

	after, err := s.GetByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/lib/content/Hamlet", after.Meta.String(types.MetaKeyFolder))
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt)

	assert.ErrorIs(t, s.RefreshMeta(9999, m), types.ErrNotFound)
}

func TestDeleteByID(t *testing.T) {
	s := setupStore(t)
	p := insertProject(t, s, "Hamlet")

	require.NoError(t, s.DeleteByID(p.ID))
	_, err := s.GetByID(p.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)

	// Second delete reports the miss without side effects.
	assert.ErrorIs(t, s.DeleteByID(p.ID), types.ErrNotFound)
}

func TestStoresAreIndependent(t *testing.T) {
	a := setupStore(t)
	b := setupStore(t)

	insertProject(t, a, "OnlyInA")
	all, err := b.ListAll()
	require.NoError(t, err)
	assert.Empty(t, all)
}

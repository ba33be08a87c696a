package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stageloft/offbook/internal/settings"
	"github.com/stageloft/offbook/pkg/types"
)

func setupManager(t *testing.T) *Manager {
	t.Helper()
	s, err := settings.Load(t.TempDir(), nil)
	require.NoError(t, err)
	m := NewManager(s, nil)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestManagerRequiresBoundLibrary(t *testing.T) {
	m := setupManager(t)

	_, err := m.Library()
	assert.ErrorIs(t, err, types.ErrNoLibrary)

	_, err = m.List()
	assert.ErrorIs(t, err, types.ErrNoLibrary)

	_, err = m.Create("Hamlet", "/tmp/x.pdf", false, "", types.Meta{})
	assert.ErrorIs(t, err, types.ErrNoLibrary)
}

func TestManagerSetLibraryResolvesAndPersists(t *testing.T) {
	dir := t.TempDir()
	s, err := settings.Load(dir, nil)
	require.NoError(t, err)
	m := NewManager(s, nil)
	defer m.Close()

	root := t.TempDir()
	// Binding from inside the content tree still lands on the root.
	inside := filepath.Join(root, ContentDirName, "Hamlet")
	require.NoError(t, os.MkdirAll(inside, 0o755))

	require.NoError(t, m.SetLibrary(inside))

	lib, err := m.Library()
	require.NoError(t, err)
	assert.Equal(t, root, lib.Root())
	assert.Equal(t, root, s.LibraryPath())
}

func TestManagerRebindsRememberedLibrary(t *testing.T) {
	confDir := t.TempDir()
	root := t.TempDir()

	s, err := settings.Load(confDir, nil)
	require.NoError(t, err)
	m := NewManager(s, nil)
	require.NoError(t, m.SetLibrary(root))

	p, err := m.Create("Hamlet", writeFile(t, filepath.Join(t.TempDir(), "h.pdf")), true, "", types.Meta{})
	require.NoError(t, err)
	require.NoError(t, m.Close())

	// A fresh session with the same config dir comes up already bound.
	s2, err := settings.Load(confDir, nil)
	require.NoError(t, err)
	m2 := NewManager(s2, nil)
	defer m2.Close()

	got, err := m2.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hamlet", got.Name)
}

func TestManagerStaleRememberedPathIsNonFatal(t *testing.T) {
	confDir := t.TempDir()
	s, err := settings.Load(confDir, nil)
	require.NoError(t, err)
	require.NoError(t, s.SetLibraryPath(filepath.Join(t.TempDir(), "vanished")))

	m := NewManager(s, nil)
	defer m.Close()

	_, err = m.Library()
	assert.ErrorIs(t, err, types.ErrNoLibrary)
}

func TestManagerSetLibrarySwapsCleanly(t *testing.T) {
	m := setupManager(t)
	first := t.TempDir()
	second := t.TempDir()

	require.NoError(t, m.SetLibrary(first))
	_, err := m.Create("OnlyInFirst", writeFile(t, filepath.Join(t.TempDir(), "f.pdf")), true, "", types.Meta{})
	require.NoError(t, err)

	require.NoError(t, m.SetLibrary(second))

	all, err := m.List()
	require.NoError(t, err)
	assert.Empty(t, all)

	lib, err := m.Library()
	require.NoError(t, err)
	assert.Equal(t, second, lib.Root())
}

func TestManagerClearLibrary(t *testing.T) {
	m := setupManager(t)
	require.NoError(t, m.SetLibrary(t.TempDir()))

	m.ClearLibrary()

	_, err := m.Library()
	assert.ErrorIs(t, err, types.ErrNoLibrary)
}

func TestManagerSetLibraryFailureKeepsCurrentBinding(t *testing.T) {
	m := setupManager(t)
	root := t.TempDir()
	require.NoError(t, m.SetLibrary(root))

	// A root that cannot be created as a directory must not unbind.
	bad := writeFile(t, filepath.Join(t.TempDir(), "not-a-dir"))
	err := m.SetLibrary(bad)
	require.Error(t, err)

	lib, err := m.Library()
	require.NoError(t, err)
	assert.Equal(t, root, lib.Root())
}

package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRoot(t *testing.T) {
	t.Run("root with engine marker resolves to itself", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, EngineDirName), 0o755))

		assert.Equal(t, root, ResolveRoot(root))
	})

	t.Run("selection inside content dir walks up to marked root", func(t *testing.T) {
		root := t.TempDir()
		project := filepath.Join(root, ContentDirName, "Hamlet")
		require.NoError(t, os.MkdirAll(project, 0o755))
		require.NoError(t, os.MkdirAll(filepath.Join(root, EngineDirName), 0o755))

		assert.Equal(t, root, ResolveRoot(project))
	})

	t.Run("selection named content steps to its parent", func(t *testing.T) {
		root := t.TempDir()
		content := filepath.Join(root, ContentDirName)
		require.NoError(t, os.MkdirAll(content, 0o755))

		assert.Equal(t, root, ResolveRoot(content))
	})

	t.Run("ancestor containing a content dir wins", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, ContentDirName), 0o755))
		other := filepath.Join(root, "somewhere")
		require.NoError(t, os.MkdirAll(other, 0o755))

		assert.Equal(t, root, ResolveRoot(other))
	})

	t.Run("empty new folder resolves to itself", func(t *testing.T) {
		empty := t.TempDir()
		assert.Equal(t, empty, ResolveRoot(empty))
	})

	t.Run("deterministic", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, EngineDirName), 0o755))
		first := ResolveRoot(root)
		assert.Equal(t, first, ResolveRoot(root))
	})
}

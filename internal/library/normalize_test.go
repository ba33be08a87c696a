package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stageloft/offbook/pkg/types"
)

// insertDrifted plants a record with an arbitrary stored path, bypassing the
// facade, so a later Open has something to reconcile.
func insertDrifted(t *testing.T, lib *Library, name, contentPath string, meta types.Meta) *types.Project {
	t.Helper()
	p := &types.Project{Name: name, ContentPath: contentPath, Meta: meta}
	require.NoError(t, lib.store.Insert(p))
	return p
}

func reopen(t *testing.T, lib *Library) *Library {
	t.Helper()
	root := lib.Root()
	require.NoError(t, lib.Close())
	again, err := Open(root)
	require.NoError(t, err)
	t.Cleanup(func() { again.Close() })
	return again
}

func TestNormalizeMergesLegacyRootFolder(t *testing.T) {
	lib := setupLibrary(t)
	legacy := filepath.Join(lib.Root(), "Hamlet")
	script := writeFile(t, filepath.Join(legacy, "script.pdf"))
	writeFile(t, filepath.Join(legacy, "notes.txt"))
	insertDrifted(t, lib, "Hamlet", script, types.Meta{})

	lib = reopen(t, lib)

	p, err := lib.GetByName("Hamlet")
	require.NoError(t, err)
	canonical := lib.layout.ProjectDir("Hamlet")
	assert.Equal(t, filepath.Join(canonical, "script.pdf"), p.ContentPath)
	assert.True(t, fileExists(p.ContentPath))
	assert.True(t, fileExists(filepath.Join(canonical, "notes.txt")))
	assert.Equal(t, canonical, p.Meta.String(types.MetaKeyFolder))
	assert.False(t, dirExists(legacy), "legacy folder should be gone once emptied")
}

func TestNormalizeMovesStrayFile(t *testing.T) {
	lib := setupLibrary(t)
	stray := writeFile(t, filepath.Join(lib.Root(), "misc", "draft.pdf"))
	insertDrifted(t, lib, "Draft", stray, types.Meta{})

	lib = reopen(t, lib)

	p, err := lib.GetByName("Draft")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(lib.layout.ProjectDir("Draft"), "draft.pdf"), p.ContentPath)
	assert.True(t, fileExists(p.ContentPath))
	assert.False(t, fileExists(stray))
}

func TestNormalizeRepointsMissingFileWithoutTouchingDisk(t *testing.T) {
	lib := setupLibrary(t)
	gone := filepath.Join(lib.Root(), "elsewhere", "lost.pdf")
	insertDrifted(t, lib, "Lost", gone, types.Meta{})

	lib = reopen(t, lib)

	p, err := lib.GetByName("Lost")
	require.NoError(t, err)
	canonical := lib.layout.ProjectDir("Lost")
	assert.Equal(t, filepath.Join(canonical, "lost.pdf"), p.ContentPath)
	assert.False(t, dirExists(canonical), "repointing must not create directories")
	assert.False(t, fileExists(p.ContentPath))
}

func TestNormalizeEmptyPathGetsPlaceholderLocation(t *testing.T) {
	lib := setupLibrary(t)
	insertDrifted(t, lib, "Blank", "", types.Meta{})

	lib = reopen(t, lib)

	p, err := lib.GetByName("Blank")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(lib.layout.ProjectDir("Blank"), PlaceholderFileName), p.ContentPath)
}

func TestNormalizeLeavesReferencedProjectsAlone(t *testing.T) {
	lib := setupLibrary(t)
	external := writeFile(t, filepath.Join(t.TempDir(), "external.pdf"))
	var meta types.Meta
	meta.Set(types.MetaKeyReferenced, true)
	insertDrifted(t, lib, "External", external, meta)

	lib = reopen(t, lib)

	p, err := lib.GetByName("External")
	require.NoError(t, err)
	assert.Equal(t, external, p.ContentPath)
	assert.True(t, fileExists(external))
	_, hasFolderHint := p.Meta.Get(types.MetaKeyFolder)
	assert.False(t, hasFolderHint)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	lib := setupLibrary(t)
	script := writeFile(t, filepath.Join(lib.Root(), "Hamlet", "script.pdf"))
	insertDrifted(t, lib, "Hamlet", script, types.Meta{})

	lib = reopen(t, lib)
	first, err := lib.GetByName("Hamlet")
	require.NoError(t, err)

	// The second pass runs against converged state and must not restamp.
	lib = reopen(t, lib)
	second, err := lib.GetByName("Hamlet")
	require.NoError(t, err)

	assert.Equal(t, first.ContentPath, second.ContentPath)
	assert.True(t, first.Meta.Equal(second.Meta))
	assert.Equal(t, first.UpdatedAt, second.UpdatedAt)
}

func TestNormalizeSkipsAlreadyManagedContent(t *testing.T) {
	lib := setupLibrary(t)
	p, err := lib.Create("Managed", writeFile(t, filepath.Join(t.TempDir(), "m.pdf")), true, "", types.Meta{})
	require.NoError(t, err)
	before := p.ContentPath

	lib = reopen(t, lib)

	after, err := lib.GetByName("Managed")
	require.NoError(t, err)
	assert.Equal(t, before, after.ContentPath)
	// Only the cached folder hint is added, nothing moves.
	assert.Equal(t, lib.layout.ProjectDir("Managed"), after.Meta.String(types.MetaKeyFolder))
	assert.True(t, fileExists(before))
}

// Planting a collision inside the canonical folder must not clobber it.
func TestNormalizeMergeSkipsCollisions(t *testing.T) {
	lib := setupLibrary(t)
	keep := filepath.Join(lib.layout.ProjectDir("Hamlet"), "notes.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(keep), 0o755))
	require.NoError(t, os.WriteFile(keep, []byte("canonical"), 0o644))

	legacy := filepath.Join(lib.Root(), "Hamlet")
	require.NoError(t, os.MkdirAll(legacy, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(legacy, "notes.txt"), []byte("legacy"), 0o644))
	script := writeFile(t, filepath.Join(legacy, "script.pdf"))
	insertDrifted(t, lib, "Hamlet", script, types.Meta{})

	lib = reopen(t, lib)

	data, err := os.ReadFile(keep)
	require.NoError(t, err)
	assert.Equal(t, "canonical", string(data))
	// The colliding legacy file stays behind, so the folder survives too.
	assert.True(t, fileExists(filepath.Join(legacy, "notes.txt")))
}

package library

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/stageloft/offbook/pkg/types"
)

// normalize reconciles the record table with the directory tree, once per
// open. Stored paths that drifted outside the content directory (legacy
// layouts, user moves) are brought back under it and the cached folder hint
// in meta is refreshed. The pass is idempotent: against converged state it
// performs zero moves and zero writes. It never fails the open; a record it
// cannot repair is logged and left degraded.
func (l *Library) normalize() {
	all, err := l.store.ListAll()
	if err != nil {
		l.log.Warn("normalize: list records", zap.Error(err))
		return
	}
	for _, p := range all {
		if p.IsReferenced() {
			// External content is never pulled into the library.
			continue
		}
		l.normalizeRecord(p)
	}
}

func (l *Library) normalizeRecord(p *types.Project) {
	canonicalDir := l.layout.ProjectDir(p.Name)
	meta := p.Meta.Clone()
	meta.Set(types.MetaKeyFolder, canonicalDir)

	// Already managed: only the cached folder hint may need refreshing.
	if p.ContentPath != "" && isWithin(l.layout.ContentDir(), p.ContentPath) {
		if !meta.Equal(p.Meta) {
			if err := l.store.RefreshMeta(p.ID, meta); err != nil {
				l.log.Warn("normalize: refresh meta", zap.Int64("project_id", p.ID), zap.Error(err))
			}
		}
		return
	}

	newPath, err := l.relocate(p, canonicalDir)
	if err != nil {
		// Degraded but open: keep the record as-is.
		l.log.Warn("normalize: relocate", zap.Int64("project_id", p.ID),
			zap.String("content_path", p.ContentPath), zap.Error(err))
		return
	}

	if newPath != p.ContentPath {
		err = l.store.UpdateFields(p.ID, map[string]any{"content_path": newPath, "meta": meta})
	} else if !meta.Equal(p.Meta) {
		err = l.store.RefreshMeta(p.ID, meta)
	}
	if err != nil {
		l.log.Warn("normalize: update record", zap.Int64("project_id", p.ID), zap.Error(err))
	}
}

// relocate moves a misplaced record's content under canonicalDir and returns
// the corrected content path. Three cases, mirroring how libraries drift:
// a whole project folder sitting directly under the root, a stray file
// elsewhere, or a file that is simply gone.
func (l *Library) relocate(p *types.Project, canonicalDir string) (string, error) {
	if p.ContentPath == "" {
		return filepath.Join(canonicalDir, PlaceholderFileName), nil
	}

	parent := filepath.Dir(p.ContentPath)
	switch {
	case dirExists(parent) && filepath.Base(parent) == p.Name && filepath.Dir(parent) == l.root:
		// The whole project folder sits beside the content directory.
		// Merge its contents into place and drop the emptied folder.
		if err := os.MkdirAll(canonicalDir, 0o755); err != nil {
			return "", err
		}
		l.mergeFolder(parent, canonicalDir)
		return filepath.Join(canonicalDir, filepath.Base(p.ContentPath)), nil

	case fileExists(p.ContentPath):
		if err := os.MkdirAll(canonicalDir, 0o755); err != nil {
			return "", err
		}
		dest := avoidCollision(filepath.Join(canonicalDir, filepath.Base(p.ContentPath)), p.ContentPath)
		if err := os.Rename(p.ContentPath, dest); err != nil {
			return "", fmt.Errorf("move %s: %w", p.ContentPath, err)
		}
		return dest, nil

	default:
		// File missing entirely: repoint without touching disk.
		name := filepath.Base(p.ContentPath)
		if name == "" || name == "." || name == string(filepath.Separator) {
			name = PlaceholderFileName
		}
		return filepath.Join(canonicalDir, name), nil
	}
}

// mergeFolder moves src's children into dest, skipping (never overwriting)
// entries that already exist, then removes src if emptied. Individual move
// failures are logged and skipped.
func (l *Library) mergeFolder(src, dest string) {
	entries, err := os.ReadDir(src)
	if err != nil {
		l.log.Warn("normalize: read folder", zap.String("dir", src), zap.Error(err))
		return
	}
	for _, e := range entries {
		target := filepath.Join(dest, e.Name())
		if _, err := os.Stat(target); err == nil {
			// Collision: skip rather than overwrite.
			continue
		}
		if err := os.Rename(filepath.Join(src, e.Name()), target); err != nil {
			l.log.Warn("normalize: move entry", zap.String("entry", e.Name()), zap.Error(err))
		}
	}
	// Only removable once empty.
	_ = os.Remove(src)
}

package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/stageloft/offbook/pkg/types"
)

// scanExtensions are the content file types the scanner recognizes, in
// priority order.
var scanExtensions = []string{".pdf", ".txt", ".doc", ".docx", ".rtf", ".fountain", ".fdx"}

// excludedNames is the case-insensitive denylist of reserved and
// system-generated names that never become (or stay) projects.
var excludedNames = map[string]bool{
	"icon":        true,
	".ds_store":   true,
	"thumbs.db":   true,
	"desktop.ini": true,
	".gitignore":  true,
	".gitkeep":    true,

	strings.ToLower(CustomizationsDirName): true,
	strings.ToLower(EngineDirName):         true,
}

// ScanAndRegister adopts externally dropped content. It first prunes records
// whose name is on the denylist or whose managed on-disk presence is gone,
// then registers every untracked folder directly under the content
// directory. Referenced and external projects are exempt from pruning.
// Returns the newly registered projects.
func (l *Library) ScanAndRegister() ([]*types.Project, error) {
	contentDir := l.layout.ContentDir()
	entries, err := os.ReadDir(contentDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: scan %s: %w", types.ErrIO, contentDir, err)
	}

	folders := make(map[string]bool)
	for _, e := range entries {
		if !e.IsDir() || skipName(e.Name()) {
			continue
		}
		folders[e.Name()] = true
	}

	l.pruneRecords(folders)

	var added []*types.Project
	for _, e := range entries {
		if !e.IsDir() || skipName(e.Name()) {
			continue
		}
		name := e.Name()
		if _, err := l.store.GetByName(name); err == nil {
			continue // already registered
		} else if !errors.Is(err, types.ErrNotFound) {
			return added, err
		}

		folder := filepath.Join(contentDir, name)
		var meta types.Meta
		meta.Set(types.MetaKeyImportedViaScan, true)
		meta.Set(types.MetaKeyFolder, folder)

		source := findContentFile(folder, name)
		if source != "" {
			meta.Set(types.MetaKeyFile, source)
		} else {
			source = filepath.Join(folder, PlaceholderFileName)
			meta.Set(types.MetaKeyPlaceholder, true)
		}

		p, err := l.Create(name, source, false, "", meta)
		if err != nil {
			// A bad folder must not abort the rest of the scan.
			l.log.Warn("scan: register folder", zap.String("name", name), zap.Error(err))
			continue
		}
		added = append(added, p)
	}
	return added, nil
}

// pruneRecords drops records that no longer correspond to anything on disk,
// and denylisted names regardless. Content is never removed here.
func (l *Library) pruneRecords(folders map[string]bool) {
	all, err := l.store.ListAll()
	if err != nil {
		l.log.Warn("scan: list records", zap.Error(err))
		return
	}
	for _, p := range all {
		drop := false
		switch {
		case excludedNames[strings.ToLower(p.Name)]:
			drop = true
		case !isWithin(l.layout.ContentDir(), p.ContentPath):
			// Referenced or external placeholder: not ours to prune.
		case folders[p.Name] || fileExists(p.ContentPath):
			// Still present as a folder or a managed file.
		default:
			drop = true
		}
		if !drop {
			continue
		}
		if err := l.store.DeleteByID(p.ID); err != nil {
			l.log.Warn("scan: prune record", zap.Int64("project_id", p.ID), zap.Error(err))
		}
	}
}

// skipName reports whether a directory entry is hidden or denylisted.
func skipName(name string) bool {
	return strings.HasPrefix(name, ".") || excludedNames[strings.ToLower(name)]
}

// findContentFile locates the project's content file inside folder:
// conventional basenames first, then the first entry with a recognized
// extension. Returns "" when nothing qualifies.
func findContentFile(folder, projectName string) string {
	for _, base := range []string{"script", "main", strings.ToLower(projectName)} {
		for _, ext := range scanExtensions {
			candidate := filepath.Join(folder, base+ext)
			if fileExists(candidate) {
				return candidate
			}
		}
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		if e.IsDir() || skipName(e.Name()) {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		for _, known := range scanExtensions {
			if ext == known {
				return filepath.Join(folder, e.Name())
			}
		}
	}
	return ""
}

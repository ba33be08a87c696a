package library

import (
	"path/filepath"
)

// ResolveRoot maps an arbitrary user-selected directory to the library root
// it belongs to. The selection may be the root itself, something inside the
// content directory, or an ancestor that already contains one. Deterministic,
// no side effects.
//
// Preference order over the selection and its ancestors:
//  1. nearest directory containing the hidden engine directory;
//  2. a selection named like the content directory steps to its parent;
//  3. nearest directory already containing a content directory;
//  4. the selection itself, which allows creating a brand-new library in an
//     empty folder.
func ResolveRoot(selected string) string {
	path, err := filepath.Abs(selected)
	if err != nil {
		return selected
	}

	candidates := ancestorChain(path)

	for _, c := range candidates {
		if dirExists(filepath.Join(c, EngineDirName)) {
			return c
		}
	}

	for _, c := range candidates {
		if filepath.Base(c) == ContentDirName && dirExists(filepath.Dir(c)) {
			return filepath.Dir(c)
		}
	}

	for _, c := range candidates {
		if dirExists(filepath.Join(c, ContentDirName)) {
			return c
		}
	}

	return path
}

// ancestorChain returns path followed by each of its parents up to the
// filesystem root.
func ancestorChain(path string) []string {
	var chain []string
	for {
		chain = append(chain, path)
		parent := filepath.Dir(path)
		if parent == path {
			return chain
		}
		path = parent
	}
}

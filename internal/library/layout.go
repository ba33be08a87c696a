// Package library manages a user-chosen directory as a durable library of
// named projects. It composes the record store with the canonical on-disk
// layout, reconciles the two at open time, and exposes the CRUD facade and
// the session-level manager on top.
package library

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Canonical names under a library root. EngineDirName doubles as the marker
// the root resolver looks for.
const (
	ContentDirName        = "content"
	CustomizationsDirName = "customizations"
	VoicePresetsDirName   = "voice_presets"
	ModelsDirName         = "models"
	ResourcesDirName      = "resources"
	EngineDirName         = ".offbook"
	DBFileName            = "library.db"
	AttachmentsDirName    = "attachments"

	// PlaceholderFileName is the conventional content filename a project
	// is pointed at when no real file exists yet.
	PlaceholderFileName = "script.pdf"
)

// Layout computes the canonical subpaths of one library root.
type Layout struct {
	Root string
}

func (l Layout) ContentDir() string {
	return filepath.Join(l.Root, ContentDirName)
}

func (l Layout) CustomizationsDir() string {
	return filepath.Join(l.Root, CustomizationsDirName)
}

func (l Layout) VoicePresetsDir() string {
	return filepath.Join(l.CustomizationsDir(), VoicePresetsDirName)
}

func (l Layout) ModelsDir() string {
	return filepath.Join(l.CustomizationsDir(), ModelsDirName)
}

func (l Layout) ResourcesDir() string {
	return filepath.Join(l.CustomizationsDir(), ResourcesDirName)
}

func (l Layout) EngineDir() string {
	return filepath.Join(l.Root, EngineDirName)
}

func (l Layout) DBPath() string {
	return filepath.Join(l.EngineDir(), DBFileName)
}

func (l Layout) AttachmentsDir() string {
	return filepath.Join(l.EngineDir(), AttachmentsDirName)
}

// ProjectDir returns the canonical per-project directory for a name.
func (l Layout) ProjectDir(name string) string {
	return filepath.Join(l.ContentDir(), name)
}

// EnsureDirs creates every canonical directory that does not exist yet.
func (l Layout) EnsureDirs() error {
	for _, dir := range []string{
		l.ContentDir(),
		l.VoicePresetsDir(),
		l.ModelsDir(),
		l.ResourcesDir(),
		l.EngineDir(),
		l.AttachmentsDir(),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// isWithin reports whether child lies under parent (strictly; a path is not
// within itself). Both paths must already be absolute and clean.
func isWithin(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

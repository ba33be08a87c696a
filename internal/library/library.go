package library

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/stageloft/offbook/internal/sqlite"
	"github.com/stageloft/offbook/pkg/types"
)

// Library is one open project library: a record store plus the canonical
// directory layout under a single root. Open it with Open, close it with
// Close. Instances share no state; tests routinely hold several at once.
type Library struct {
	root   string
	layout Layout
	store  *sqlite.Store
	log    *zap.Logger
}

// Option configures a Library during Open.
type Option func(*Library)

// WithLogger attaches a logger for warnings from best-effort paths. The
// default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Library) {
		if logger != nil {
			l.log = logger
		}
	}
}

// Open binds a Library to root, creating the canonical layout and the
// record store as needed, then runs the directory-normalization pass. The
// root itself must already exist; everything beneath it is created.
// Normalization is best-effort and never fails the open.
func Open(root string, opts ...Option) (*Library, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve library root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: library folder %s", types.ErrInvalidPath, abs)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", types.ErrInvalidPath, abs)
	}

	l := &Library{
		root:   abs,
		layout: Layout{Root: abs},
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}

	if err := l.layout.EnsureDirs(); err != nil {
		return nil, err
	}

	store, err := sqlite.Open(l.layout.DBPath())
	if err != nil {
		return nil, err
	}
	l.store = store

	l.normalize()
	return l, nil
}

// Root returns the absolute library root.
func (l *Library) Root() string {
	return l.root
}

// Close releases the record store. Safe to call more than once.
func (l *Library) Close() error {
	return l.store.Close()
}

// VoicePresetsDir returns the shared preset directory. Its contents are
// opaque to the engine.
func (l *Library) VoicePresetsDir() string {
	return l.layout.VoicePresetsDir()
}

// ModelsDir returns the shared voice-model directory, opaque to the engine.
func (l *Library) ModelsDir() string {
	return l.layout.ModelsDir()
}

// ResourcesDir returns the shared resources directory, opaque to the engine.
func (l *Library) ResourcesDir() string {
	return l.layout.ResourcesDir()
}

// AttachmentPath returns the namespaced location for an auxiliary file tied
// to a project: <engine dir>/attachments/<id>_<filename>.
func (l *Library) AttachmentPath(p *types.Project, filename string) string {
	return filepath.Join(l.layout.AttachmentsDir(), fmt.Sprintf("%d_%s", p.ID, filename))
}

// Create registers a new project. With copyIntoLibrary the source file is
// copied to <content dir>/<name><ext> (numeric suffix on collision) and must
// exist; without it the source path is stored verbatim and the record is
// tagged referenced or placeholder in meta depending on whether the file
// exists. meta is cloned, never retained.
func (l *Library) Create(name, source string, copyIntoLibrary bool, initialCharacter string, meta types.Meta) (*types.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, types.ErrInvalidName
	}
	src, err := filepath.Abs(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrInvalidPath, source)
	}

	contentPath := src
	if copyIntoLibrary {
		if !fileExists(src) {
			return nil, fmt.Errorf("%w: %s", types.ErrInvalidPath, src)
		}
		dest, err := l.copyIn(src, name)
		if err != nil {
			return nil, err
		}
		contentPath = dest
	}

	m := meta.Clone()
	l.tagContentFlags(&m, contentPath, copyIntoLibrary)

	p := &types.Project{
		Name:            name,
		ContentPath:     contentPath,
		ChosenCharacter: initialCharacter,
		Meta:            m,
	}
	if err := l.store.Insert(p); err != nil {
		return nil, err
	}
	return p, nil
}

// List returns all projects, most recently touched first.
func (l *Library) List() ([]*types.Project, error) {
	return l.store.ListAll()
}

// Get returns the project with the given id.
func (l *Library) Get(id int64) (*types.Project, error) {
	return l.store.GetByID(id)
}

// GetByName returns the project with the given name.
func (l *Library) GetByName(name string) (*types.Project, error) {
	return l.store.GetByName(name)
}

// Rename changes only the name column. The on-disk folder is deliberately
// left alone: renaming a large directory tree is slow and failure-prone and
// must not be coupled to a fast metadata write. Callers that move the folder
// themselves follow up with ReplaceContent.
func (l *Library) Rename(id int64, newName string) (*types.Project, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, types.ErrInvalidName
	}
	if err := l.store.UpdateFields(id, map[string]any{"name": newName}); err != nil {
		return nil, err
	}
	return l.store.GetByID(id)
}

// SetCharacter records the caller-chosen character. The value is opaque to
// the engine; empty clears it.
func (l *Library) SetCharacter(id int64, character string) (*types.Project, error) {
	if err := l.store.UpdateFields(id, map[string]any{"chosen_character": character}); err != nil {
		return nil, err
	}
	return l.store.GetByID(id)
}

// ReplaceContent repoints a project at a new content file, with the same
// copy semantics as Create, and re-derives the referenced/placeholder tags.
func (l *Library) ReplaceContent(id int64, newPath string, copyIntoLibrary bool) (*types.Project, error) {
	p, err := l.store.GetByID(id)
	if err != nil {
		return nil, err
	}
	src, err := filepath.Abs(newPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrInvalidPath, newPath)
	}

	contentPath := src
	if copyIntoLibrary {
		if !fileExists(src) {
			return nil, fmt.Errorf("%w: %s", types.ErrInvalidPath, src)
		}
		dest, err := l.copyIn(src, p.Name)
		if err != nil {
			return nil, err
		}
		contentPath = dest
	}

	m := p.Meta.Clone()
	l.tagContentFlags(&m, contentPath, copyIntoLibrary)

	err = l.store.UpdateFields(id, map[string]any{"content_path": contentPath, "meta": m})
	if err != nil {
		return nil, err
	}
	return l.store.GetByID(id)
}

// UpdateMeta applies a pure updater to the project's current meta and
// persists the result. Independent subsystems store their own keys this way
// without a shared schema; there is no optimistic-concurrency check.
func (l *Library) UpdateMeta(id int64, update func(types.Meta) types.Meta) (*types.Project, error) {
	p, err := l.store.GetByID(id)
	if err != nil {
		return nil, err
	}
	next := update(p.Meta.Clone())
	if err := l.store.UpdateFields(id, map[string]any{"meta": next}); err != nil {
		return nil, err
	}
	return l.store.GetByID(id)
}

// Delete removes the record unconditionally first. With removeContent the
// canonical project storage and any <id>_ attachments are removed
// best-effort afterwards; I/O failures there come back as warnings, never as
// an error, because forgetting a project must not get stuck on a filesystem
// problem. Referenced projects never cascade.
func (l *Library) Delete(id int64, removeContent bool) ([]error, error) {
	p, err := l.store.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := l.store.DeleteByID(id); err != nil {
		return nil, err
	}

	if !removeContent || p.IsReferenced() {
		return nil, nil
	}

	var cleanup error
	cleanup = multierr.Append(cleanup, l.removeProjectStorage(p))
	cleanup = multierr.Append(cleanup, l.removeAttachments(p.ID))

	warnings := multierr.Errors(cleanup)
	for _, w := range warnings {
		l.log.Warn("delete cleanup incomplete",
			zap.Int64("project_id", p.ID), zap.Error(w))
	}
	return warnings, nil
}

// copyIn copies src into the content directory as <name><ext>, avoiding
// collisions with a numeric suffix. Copying a file onto itself is a no-op.
func (l *Library) copyIn(src, name string) (string, error) {
	ext := filepath.Ext(src)
	if ext == "" {
		ext = ".pdf"
	}
	dest := avoidCollision(filepath.Join(l.layout.ContentDir(), name+ext), src)
	if dest == src {
		return dest, nil
	}
	if err := copyFile(src, dest); err != nil {
		return "", fmt.Errorf("%w: copy %s: %w", types.ErrIO, src, err)
	}
	return dest, nil
}

// tagContentFlags maintains the engine-owned referenced/placeholder meta
// flags for a (possibly external) content path.
func (l *Library) tagContentFlags(m *types.Meta, contentPath string, copied bool) {
	if copied {
		m.Delete(types.MetaKeyReferenced)
		m.Delete(types.MetaKeyPlaceholder)
		return
	}
	if fileExists(contentPath) {
		m.Delete(types.MetaKeyPlaceholder)
		if !isWithin(l.root, contentPath) {
			m.Set(types.MetaKeyReferenced, true)
		} else {
			m.Delete(types.MetaKeyReferenced)
		}
		return
	}
	m.Set(types.MetaKeyPlaceholder, true)
}

// removeProjectStorage removes the project's managed on-disk presence: its
// content file when it lives under the content directory, the canonical
// per-project folder, and the folder cached in meta. Only paths inside the
// content directory are ever touched.
func (l *Library) removeProjectStorage(p *types.Project) error {
	contentDir := l.layout.ContentDir()
	var errs error

	if isWithin(contentDir, p.ContentPath) && fileExists(p.ContentPath) {
		if err := os.Remove(p.ContentPath); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%w: remove %s: %w", types.ErrIO, p.ContentPath, err))
		}
	}

	dirs := map[string]struct{}{
		l.layout.ProjectDir(p.Name): {},
	}
	if hint := p.Meta.String(types.MetaKeyFolder); hint != "" {
		dirs[filepath.Clean(hint)] = struct{}{}
	}
	if parent := filepath.Dir(p.ContentPath); isWithin(contentDir, parent) {
		dirs[parent] = struct{}{}
	}

	for dir := range dirs {
		if !isWithin(contentDir, dir) || !dirExists(dir) {
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%w: remove %s: %w", types.ErrIO, dir, err))
		}
	}
	return errs
}

// removeAttachments removes every attachment namespaced by the project id.
func (l *Library) removeAttachments(id int64) error {
	entries, err := os.ReadDir(l.layout.AttachmentsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%w: read attachments: %w", types.ErrIO, err)
	}

	prefix := fmt.Sprintf("%d_", id)
	var errs error
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		path := filepath.Join(l.layout.AttachmentsDir(), e.Name())
		if err := os.RemoveAll(path); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%w: remove %s: %w", types.ErrIO, path, err))
		}
	}
	return errs
}

// avoidCollision returns dest unchanged when it is free or already src,
// otherwise the first <stem>_<N><ext> that does not exist.
func avoidCollision(dest, src string) string {
	if dest == src {
		return dest
	}
	if _, err := os.Stat(dest); os.IsNotExist(err) {
		return dest
	}
	dir := filepath.Dir(dest)
	ext := filepath.Ext(dest)
	stem := strings.TrimSuffix(filepath.Base(dest), ext)
	for i := 1; ; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, i, ext))
		if candidate == src {
			return candidate
		}
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

// copyFile copies a regular file, preserving its permission bits.
func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

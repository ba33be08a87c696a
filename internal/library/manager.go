package library

import (
	"go.uber.org/zap"

	"github.com/stageloft/offbook/internal/settings"
	"github.com/stageloft/offbook/pkg/types"
)

// Manager is the top-level session facade: it binds the persistent settings
// to at most one live Library and proxies operations to it. Every proxy
// returns ErrNoLibrary until SetLibrary succeeds.
type Manager struct {
	settings *settings.Settings
	lib      *Library
	log      *zap.Logger
}

// NewManager creates a Manager and rebinds the remembered library root when
// one is set. A stale or unreadable remembered root is logged and ignored;
// startup must never fail on a preference.
func NewManager(s *settings.Settings, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{settings: s, log: logger}

	if remembered := s.LibraryPath(); remembered != "" {
		if err := m.SetLibrary(remembered); err != nil {
			logger.Warn("remembered library unavailable",
				zap.String("path", remembered), zap.Error(err))
		}
	}
	return m
}

// SetLibrary resolves path to its library root, opens (or creates) the
// library there, swaps out any previously bound one, and persists the new
// root. A settings save failure keeps the binding and is only logged.
func (m *Manager) SetLibrary(path string) error {
	root := ResolveRoot(path)
	lib, err := Open(root, WithLogger(m.log))
	if err != nil {
		return err
	}

	if m.lib != nil {
		_ = m.lib.Close()
	}
	m.lib = lib

	if err := m.settings.SetLibraryPath(lib.Root()); err != nil {
		m.log.Warn("persist library path", zap.Error(err))
	}
	return nil
}

// ClearLibrary closes and forgets the bound library.
func (m *Manager) ClearLibrary() {
	if m.lib != nil {
		_ = m.lib.Close()
		m.lib = nil
	}
	if err := m.settings.ClearLibraryPath(); err != nil {
		m.log.Warn("clear library path", zap.Error(err))
	}
}

// Library returns the bound library, or ErrNoLibrary.
func (m *Manager) Library() (*Library, error) {
	if m.lib == nil {
		return nil, types.ErrNoLibrary
	}
	return m.lib, nil
}

// Close releases the bound library, if any.
func (m *Manager) Close() error {
	if m.lib == nil {
		return nil
	}
	err := m.lib.Close()
	m.lib = nil
	return err
}

// Convenience proxies.

func (m *Manager) Create(name, source string, copyIntoLibrary bool, initialCharacter string, meta types.Meta) (*types.Project, error) {
	lib, err := m.Library()
	if err != nil {
		return nil, err
	}
	return lib.Create(name, source, copyIntoLibrary, initialCharacter, meta)
}

func (m *Manager) List() ([]*types.Project, error) {
	lib, err := m.Library()
	if err != nil {
		return nil, err
	}
	return lib.List()
}

func (m *Manager) Get(id int64) (*types.Project, error) {
	lib, err := m.Library()
	if err != nil {
		return nil, err
	}
	return lib.Get(id)
}

func (m *Manager) GetByName(name string) (*types.Project, error) {
	lib, err := m.Library()
	if err != nil {
		return nil, err
	}
	return lib.GetByName(name)
}

func (m *Manager) Rename(id int64, newName string) (*types.Project, error) {
	lib, err := m.Library()
	if err != nil {
		return nil, err
	}
	return lib.Rename(id, newName)
}

func (m *Manager) SetCharacter(id int64, character string) (*types.Project, error) {
	lib, err := m.Library()
	if err != nil {
		return nil, err
	}
	return lib.SetCharacter(id, character)
}

func (m *Manager) ReplaceContent(id int64, newPath string, copyIntoLibrary bool) (*types.Project, error) {
	lib, err := m.Library()
	if err != nil {
		return nil, err
	}
	return lib.ReplaceContent(id, newPath, copyIntoLibrary)
}

func (m *Manager) UpdateMeta(id int64, update func(types.Meta) types.Meta) (*types.Project, error) {
	lib, err := m.Library()
	if err != nil {
		return nil, err
	}
	return lib.UpdateMeta(id, update)
}

func (m *Manager) Delete(id int64, removeContent bool) ([]error, error) {
	lib, err := m.Library()
	if err != nil {
		return nil, err
	}
	return lib.Delete(id, removeContent)
}

func (m *Manager) ScanAndRegister() ([]*types.Project, error) {
	lib, err := m.Library()
	if err != nil {
		return nil, err
	}
	return lib.ScanAndRegister()
}

// Package settings implements the process-wide persistent configuration:
// one JSON object in the application-support directory, remembering at
// minimum the last-bound library root. Values are loaded lazily on startup
// and every mutation is persisted immediately with an atomic
// write-temp-then-rename, so a crash mid-save never leaves a torn file.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// FileName is the settings file created inside the app-support directory.
const FileName = "config.json"

// KeyLibraryPath remembers the last-bound library root.
const KeyLibraryPath = "library_path"

// Settings is the process-wide settings store. It is not safe for
// concurrent use; the engine assumes a single logical thread of control.
type Settings struct {
	path string
	v    *viper.Viper
	log  *zap.Logger
}

// Load reads the settings file from dir, creating dir if needed. A missing
// or unreadable file yields empty settings rather than an error; corrupt
// preferences must never block startup.
func Load(dir string, logger *zap.Logger) (*Settings, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create settings dir: %w", err)
	}

	path := filepath.Join(dir, FileName)
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("settings file unreadable, starting empty",
				zap.String("path", path), zap.Error(err))
		}
		v = viper.New()
		v.SetConfigType("json")
	}

	return &Settings{path: path, v: v, log: logger}, nil
}

// Path returns the settings file location.
func (s *Settings) Path() string {
	return s.path
}

// GetString returns the string stored under key, or "" when unset.
func (s *Settings) GetString(key string) string {
	return s.v.GetString(key)
}

// Set stores value under key and persists immediately.
func (s *Settings) Set(key string, value any) error {
	s.v.Set(key, value)
	return s.save()
}

// Delete removes key and persists immediately.
func (s *Settings) Delete(key string) error {
	s.v.Set(key, nil)
	return s.save()
}

// LibraryPath returns the remembered library root, or "" when none is set.
func (s *Settings) LibraryPath() string {
	return s.v.GetString(KeyLibraryPath)
}

// SetLibraryPath remembers path as the last-bound library root.
func (s *Settings) SetLibraryPath(path string) error {
	return s.Set(KeyLibraryPath, path)
}

// ClearLibraryPath forgets the remembered library root.
func (s *Settings) ClearLibraryPath() error {
	return s.Delete(KeyLibraryPath)
}

// save writes all settings as one JSON object. The write goes to a uniquely
// named temp file in the same directory followed by a rename, so readers
// only ever observe a complete file. Keys holding nil are treated as
// deleted and omitted.
func (s *Settings) save() error {
	out := make(map[string]any)
	for k, v := range s.v.AllSettings() {
		if v == nil {
			continue
		}
		out[k] = v
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	data = append(data, '\n')

	tmp := fmt.Sprintf("%s.%s.tmp", s.path, uuid.NewString()[:8])
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}

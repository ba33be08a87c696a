// Package paths resolves the platform-appropriate application-support
// directory where offbook keeps its process-wide settings, independent of
// any single library.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppDirName is the directory created under the platform support location.
const AppDirName = "offbook"

// EnvConfigDir overrides the application-support directory when set.
const EnvConfigDir = "OFFBOOK_CONFIG_DIR"

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultAppSupportDir returns the platform-specific settings directory.
//
// Linux:   $XDG_CONFIG_HOME/offbook (fallback ~/.config/offbook)
// macOS:   ~/Library/Application Support/offbook
// Windows: %APPDATA%/offbook
func DefaultAppSupportDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, AppDirName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", AppDirName), nil
	default:
		// macOS and Windows use os.UserConfigDir which returns
		// ~/Library/Application Support on macOS and %APPDATA% on Windows.
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppDirName), nil
	}
}

// ResolveAppSupportDir returns the settings directory following the
// precedence chain: flag > OFFBOOK_CONFIG_DIR env > DefaultAppSupportDir().
func ResolveAppSupportDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultAppSupportDir()
}

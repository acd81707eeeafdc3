// Package filex resolves filesystem locations for vsnap's persisted state
// and provides small file helpers shared by the store and the legacy
// migrator.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/akarpov87/vsnap/internal/common"
)

// DataDir returns the platform-specific per-user application data
// directory:
//
//	Windows:  %APPDATA%\vsnap
//	macOS:    ~/Library/Application Support/vsnap
//	other:    ~/.vsnap
//
// The directory is not created; use EnsureDir for that.
func DataDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		base := os.Getenv("APPDATA")
		if base == "" {
			return "", fmt.Errorf("APPDATA is not set")
		}
		return filepath.Join(base, common.AppName), nil
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("home dir: %w", err)
		}
		return filepath.Join(home, "Library", "Application Support", common.AppName), nil
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("home dir: %w", err)
		}
		return filepath.Join(home, "."+common.AppName), nil
	}
}

// EnsureDir creates dir (and parents) if it does not exist yet.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Package paths resolves where satchel keeps its configuration and its
// notebook data. Configuration follows the platform convention; data
// defaults to a directory inside the current working tree so every
// checkout is a self-contained notebook.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// appDirName is the directory name under the platform config/data roots.
const appDirName = "satchel"

// DefaultDataDirName is the CWD-relative data directory used when no
// override is active.
const DefaultDataDirName = ".satchel-db"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "SATCHEL_CONFIG_DIR"
	EnvDataDir   = "SATCHEL_DATA_DIR"
)

// DefaultConfigDir returns the platform default configuration directory:
// $XDG_CONFIG_HOME/satchel (or ~/.config/satchel) on Linux,
// ~/Library/Application Support/satchel on macOS, %APPDATA%/satchel on
// Windows. os.UserConfigDir implements the per-platform lookup.
func DefaultConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appDirName), nil
}

// DefaultDataDir returns the platform default data directory. Linux keeps
// data separate from config ($XDG_DATA_HOME/satchel, falling back to
// ~/.local/share/satchel); macOS and Windows have no such split and reuse
// the config root.
func DefaultDataDir() (string, error) {
	if runtime.GOOS != "linux" {
		return DefaultConfigDir()
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appDirName), nil
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > SATCHEL_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > config.yaml data_dir > SATCHEL_DATA_DIR env > $(CWD)/.satchel-db.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configYAMLValue != "" {
		return filepath.Abs(configYAMLValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

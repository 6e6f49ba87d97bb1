// Package paths resolves the directories damngood reads and writes.
//
// The tool keeps two separate locations:
//   - its own config/state live under the user config and state roots
//     (XDG-style with OS-specific fallbacks)
//   - the server and client registries live in the data directory,
//     ~/.damngood by default
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "damngood"

// DataDirName is the default data directory under the user's home.
const DataDirName = ".damngood"

func rootWithFallback(xdgEnv string, osFn func() (string, error), fallbackDir string) (string, error) {
	// Priority 1: Explicit XDG env var (cross-platform).
	if xdg := os.Getenv(xdgEnv); xdg != "" && filepath.IsAbs(xdg) {
		return filepath.Join(xdg, appName), nil
	}

	// Priority 2: OS-specific default (macOS ~/Library/..., Windows %AppData%, Linux ~/.config).
	root, err := osFn()
	if err == nil && root != "" {
		return filepath.Join(root, appName), nil
	}

	// Priority 3: Home-dir fallback.
	home, homeErr := os.UserHomeDir()
	if homeErr == nil && home != "" {
		return filepath.Join(home, fallbackDir, appName), nil
	}

	if err != nil {
		return "", err
	}

	return "", fmt.Errorf("resolve user home directory")
}

// ConfigRoot returns the user config root directory for damngood.
func ConfigRoot() (string, error) {
	return rootWithFallback("XDG_CONFIG_HOME", os.UserConfigDir, ".config")
}

// StateRoot returns the user state root directory for damngood.
func StateRoot() (string, error) {
	noOSDefault := func() (string, error) {
		return "", fmt.Errorf("no OS state directory function")
	}

	return rootWithFallback("XDG_STATE_HOME", noOSDefault, filepath.Join(".local", "state"))
}

// LogsDir returns the default log directory.
func LogsDir() (string, error) {
	root, err := StateRoot()
	if err != nil {
		return "", err
	}

	return filepath.Join(root, "logs"), nil
}

// DefaultLogFile returns the default structured log file path.
func DefaultLogFile() (string, error) {
	logsDir, err := LogsDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(logsDir, "damngood.log"), nil
}

// UpdateStateFile returns the update check state file path.
func UpdateStateFile() (string, error) {
	root, err := StateRoot()
	if err != nil {
		return "", err
	}

	return filepath.Join(root, "update-check.json"), nil
}

// DefaultDataDir returns the default registry data directory (~/.damngood).
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home directory: %w", err)
	}

	return filepath.Join(home, DataDirName), nil
}

// RegistryFile returns the central server registry path inside dataDir.
func RegistryFile(dataDir string) string {
	return filepath.Join(dataDir, "registry.json")
}

// ClientsFile returns the client registry path inside dataDir.
func ClientsFile(dataDir string) string {
	return filepath.Join(dataDir, "clients.json")
}

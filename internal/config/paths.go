// ABOUTME: Standard filesystem paths for cli-saver configuration and data
// ABOUTME: Resolves ~/.cli-saver/ with a CLI_SAVER_DIR override for tests

package config

import (
	"os"
	"path/filepath"
)

const dirName = ".cli-saver"

// Dir returns the cli-saver data directory. CLI_SAVER_DIR overrides the
// default ~/.cli-saver/ so tests and scripts can redirect all state.
func Dir() string {
	if dir := os.Getenv("CLI_SAVER_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", dirName)
	}
	return filepath.Join(home, dirName)
}

// SettingsFile returns the path to the API key settings file.
func SettingsFile(dir string) string {
	return filepath.Join(dir, "config.json")
}

// SeenFile returns the path to the seen-package tracking file.
func SeenFile(dir string) string {
	return filepath.Join(dir, "installed.json")
}

// DealsDBFile returns the path to the deals database.
func DealsDBFile(dir string) string {
	return filepath.Join(dir, "deals.db")
}

// CatalogFile returns the path to the optional product catalog override.
func CatalogFile(dir string) string {
	return filepath.Join(dir, "catalog.yaml")
}

// EnsureDir creates the directory and parents with owner-only permissions.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o700)
}

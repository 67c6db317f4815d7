// ABOUTME: Tracks which package deals were already shown, per manager
// ABOUTME: JSON file mapping manager name to package list, written atomically

package seen

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mauromedda/cli-saver/internal/manager"
)

// Tracker is a persistent set of (manager, package) pairs for which a deal
// has been surfaced. Each mutation is persisted immediately.
type Tracker struct {
	path string
}

// New returns a tracker backed by the JSON file at path. The file is created
// on first MarkSeen.
func New(path string) *Tracker {
	return &Tracker{path: path}
}

// IsSeen reports whether a deal was already shown for the package.
func (t *Tracker) IsSeen(m manager.Manager, packageName string) (bool, error) {
	entries, err := t.load()
	if err != nil {
		return false, err
	}
	for _, name := range entries[m.String()] {
		if name == packageName {
			return true, nil
		}
	}
	return false, nil
}

// MarkSeen records that a deal was shown for the package. Idempotent: a
// package already present is left unchanged and nothing is written.
func (t *Tracker) MarkSeen(m manager.Manager, packageName string) error {
	entries, err := t.load()
	if err != nil {
		return err
	}

	key := m.String()
	for _, name := range entries[key] {
		if name == packageName {
			return nil
		}
	}
	entries[key] = append(entries[key], packageName)

	return t.save(entries)
}

// load reads the tracking file. A missing file behaves as empty sets for
// every supported manager.
func (t *Tracker) load() (map[string][]string, error) {
	data, err := os.ReadFile(t.path)
	if os.IsNotExist(err) {
		return emptyEntries(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading seen file: %w", err)
	}

	var entries map[string][]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing seen file: %w", err)
	}
	if entries == nil {
		entries = emptyEntries()
	}
	return entries, nil
}

// save writes the tracking file atomically via a temp file and rename.
func (t *Tracker) save(entries map[string][]string) error {
	if err := os.MkdirAll(filepath.Dir(t.path), 0o700); err != nil {
		return fmt.Errorf("creating seen directory: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling seen entries: %w", err)
	}

	tmpPath := t.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("writing temp seen file: %w", err)
	}
	if err := os.Rename(tmpPath, t.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp seen file: %w", err)
	}
	return nil
}

func emptyEntries() map[string][]string {
	entries := make(map[string][]string, len(manager.All()))
	for _, m := range manager.All() {
		entries[m.String()] = []string{}
	}
	return entries
}

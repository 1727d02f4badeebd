package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/serverless/compose/pkg/logging"
)

// Store keeps payloads on disk until they are sent.
//
// Files are created with 0600 permissions in a directory created with 0700
// permissions.
type Store struct {
	dir string
}

// Entry is a stored payload.
type Entry struct {
	Path string
	Data json.RawMessage
}

// NewStore returns a store writing to dir. The directory is created on the
// first Save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the storage directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes p to <dir>/<id>.json.
func (s *Store) Save(p Payload) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create telemetry directory: %w", err)
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal telemetry payload: %w", err)
	}

	// Write to a temporary name first so Pending never sees a partial file.
	path := filepath.Join(s.dir, p.ID+".json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write telemetry payload: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to store telemetry payload: %w", err)
	}

	logging.Debug("Telemetry", "Stored payload %s", p.ID)
	return nil
}

// Pending returns the stored payloads ordered by file name. Unreadable or
// corrupt files are removed.
func (s *Store) Pending() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list telemetry directory: %w", err)
	}

	var names []string
	for _, e := range dirEntries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		path := filepath.Join(s.dir, name)
		// #nosec G304 -- path is built from a directory listing of the store
		data, err := os.ReadFile(path)
		if err != nil || !json.Valid(data) {
			logging.Debug("Telemetry", "Dropping unreadable payload %s", name)
			_ = os.Remove(path)
			continue
		}
		entries = append(entries, Entry{Path: path, Data: data})
	}
	return entries, nil
}

// Remove deletes sent entries.
func (s *Store) Remove(entries []Entry) {
	for _, e := range entries {
		if err := os.Remove(e.Path); err != nil && !os.IsNotExist(err) {
			logging.Debug("Telemetry", "Failed to remove %s: %v", e.Path, err)
		}
	}
}

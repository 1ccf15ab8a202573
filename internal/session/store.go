package session

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileStore persists the session record on disk so a restart preserves the
// session, the way the original kept it in browser local storage.
type FileStore struct {
	path string
}

// NewFileStore creates a store writing to the given path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save writes the session record, replacing any previous one
func (s *FileStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}

	// Write-then-rename so a crash never leaves a truncated record
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(token), 0o600); err != nil {
		return fmt.Errorf("failed to write session record: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to store session record: %w", err)
	}
	return nil
}

// Load reads the persisted session record. A missing file returns "" with
// no error.
func (s *FileStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session record: %w", err)
	}
	return string(data), nil
}

// Clear removes the persisted session record
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear session record: %w", err)
	}
	return nil
}

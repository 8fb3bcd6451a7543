// internal/storage/storage.go
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrRecordNotFound is returned when a named record does not exist.
var ErrRecordNotFound = errors.New("record not found")

// Store persists named records on the client machine. It is the durable
// storage behind the session store and the bearer-token record.
type Store interface {
	Read(name string) ([]byte, error)
	Write(name string, data []byte) error
	Delete(name string) error
}

// FileStore keeps one file per record under a state directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the state directory if needed and returns a store
// rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the state directory backing the store.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) Read(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read record %q: %w", name, err)
	}
	return data, nil
}

// Write replaces the record atomically. A crash mid-write leaves either the
// old record or the new one, never a torn file.
func (s *FileStore) Write(name string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("write record %q: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("write record %q: %w", name, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write record %q: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write record %q: %w", name, err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("write record %q: %w", name, err)
	}
	return nil
}

// Delete removes the record. Deleting an absent record is not an error.
func (s *FileStore) Delete(name string) error {
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete record %q: %w", name, err)
	}
	return nil
}

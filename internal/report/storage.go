package report

import (
	"fmt"
	"os"
	"path/filepath"
)

// Storage archives the source documents of processed reports
type Storage interface {
	// Save writes data under name and returns the stored name
	Save(name string, data []byte) (string, error)

	// Get reads a stored document
	Get(name string) ([]byte, error)

	// Delete removes a stored document
	Delete(name string) error
}

// LocalStorage keeps documents in a directory on the local filesystem
type LocalStorage struct {
	dir string
}

// NewLocalStorage creates dir if needed
func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	return &LocalStorage{dir: dir}, nil
}

// path confines name to the storage directory
func (l *LocalStorage) path(name string) string {
	return filepath.Join(l.dir, filepath.Base(name))
}

// Save writes a document
func (l *LocalStorage) Save(name string, data []byte) (string, error) {
	if err := os.WriteFile(l.path(name), data, 0644); err != nil {
		return "", fmt.Errorf("writing document: %w", err)
	}
	return filepath.Base(name), nil
}

// Get reads a document
func (l *LocalStorage) Get(name string) ([]byte, error) {
	data, err := os.ReadFile(l.path(name))
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return data, nil
}

// Delete removes a document
func (l *LocalStorage) Delete(name string) error {
	if err := os.Remove(l.path(name)); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

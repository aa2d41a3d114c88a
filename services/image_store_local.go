package services

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
)

// LocalImageStore keeps image files in a directory on disk. This is the
// default backend; the whole deployment is a single process with a data
// volume.
type LocalImageStore struct {
	dir string
}

// NewLocalImageStore creates the backing directory if needed.
func NewLocalImageStore(dir string) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create images directory: %w", err)
	}
	return &LocalImageStore{dir: dir}, nil
}

func (s *LocalImageStore) path(filename string) string {
	return filepath.Join(s.dir, filepath.Base(filename))
}

// Save writes content to the images directory, overwriting any existing file.
func (s *LocalImageStore) Save(filename string, content []byte, contentType string) error {
	if err := os.WriteFile(s.path(filename), content, 0644); err != nil {
		return fmt.Errorf("failed to write image file: %w", err)
	}
	return nil
}

// Open reads a stored file; the content type is derived from the extension.
func (s *LocalImageStore) Open(filename string) ([]byte, string, error) {
	content, err := os.ReadFile(s.path(filename))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image file: %w", err)
	}
	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return content, contentType, nil
}

// Delete removes a stored file.
func (s *LocalImageStore) Delete(filename string) error {
	if err := os.Remove(s.path(filename)); err != nil {
		return fmt.Errorf("failed to delete image file: %w", err)
	}
	return nil
}

// Exists reports whether the file is present on disk.
func (s *LocalImageStore) Exists(filename string) bool {
	_, err := os.Stat(s.path(filename))
	return err == nil
}

package services

import (
	"fmt"
	"sync"
)

// MockImageStore is an in-memory ImageStore for testing
type MockImageStore struct {
	files map[string][]byte
	types map[string]string
	mu    sync.RWMutex
}

// NewMockImageStore creates a new mock image store
func NewMockImageStore() *MockImageStore {
	return &MockImageStore{
		files: make(map[string][]byte),
		types: make(map[string]string),
	}
}

// SetAsMockForTesting installs this mock as the global image store instance
func (m *MockImageStore) SetAsMockForTesting() {
	SetImageStore(m)
}

// Save stores the content in memory
func (m *MockImageStore) Save(filename string, content []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[filename] = content
	m.types[filename] = contentType
	return nil
}

// Open returns the stored content
func (m *MockImageStore) Open(filename string) ([]byte, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	content, ok := m.files[filename]
	if !ok {
		return nil, "", fmt.Errorf("file not found in mock store: %s", filename)
	}
	return content, m.types[filename], nil
}

// Delete removes the stored content
func (m *MockImageStore) Delete(filename string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[filename]; !ok {
		return fmt.Errorf("file not found in mock store: %s", filename)
	}
	delete(m.files, filename)
	delete(m.types, filename)
	return nil
}

// Exists checks whether the file is stored
func (m *MockImageStore) Exists(filename string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[filename]
	return ok
}

// Files returns the stored filenames (for testing assertions)
func (m *MockImageStore) Files() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	return names
}

// Clear removes all stored files
func (m *MockImageStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files = make(map[string][]byte)
	m.types = make(map[string]string)
}

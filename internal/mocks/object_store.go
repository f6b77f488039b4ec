package mocks

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// MockObjectStore is an in-memory storage.ObjectStore
type MockObjectStore struct {
	mu      sync.Mutex
	Objects map[string][]byte
	BaseURL string
	// PutErr and RemoveErr, when set, are returned by the matching call.
	PutErr    error
	RemoveErr error
	Removed   []string
}

func NewMockObjectStore() *MockObjectStore {
	return &MockObjectStore{
		Objects: make(map[string][]byte),
		BaseURL: "http://media.test",
	}
}

func (m *MockObjectStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if m.PutErr != nil {
		return "", m.PutErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read object: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[key] = data
	return m.BaseURL + "/" + key, nil
}

func (m *MockObjectStore) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Removed = append(m.Removed, key)
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	delete(m.Objects, key)
	return nil
}

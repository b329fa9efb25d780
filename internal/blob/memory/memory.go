package memory

import (
	"context"
	"os"
	"path/filepath"
	"sync"
)

// Store keeps blobs in process memory.
type Store struct {
	mu    sync.Mutex
	items map[string]string
}

func New() *Store {
	return &Store{items: make(map[string]string)}
}

// NewFromFiles seeds the store with the contents of <base>/<key>.json for
// every given key that exists on disk.
func NewFromFiles(base string, keys ...string) *Store {
	s := New()
	for _, key := range keys {
		data, err := os.ReadFile(filepath.Join(base, key+".json"))
		if err != nil {
			continue
		}
		s.items[key] = string(data)
	}
	return s
}

// Get returns the blob stored under key.
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	return v, ok, nil
}

// Set overwrites the blob stored under key.
func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}

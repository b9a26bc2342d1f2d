// Package localstorage provides a small key/value store with the shape of the
// browser Web Storage API. It backs the local storage contact adapter.
package localstorage

import (
	"strings"
	"sync"
)

// MemoryPath selects an in-process store instead of a file
const MemoryPath = ":memory:"

// Storage mirrors the getItem/setItem/removeItem surface of window.localStorage
type Storage interface {
	// GetItem returns the stored value and whether the key exists
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
	RemoveItem(key string) error
}

// Open returns a file backed store for path, or a memory store for MemoryPath
func Open(path string) (Storage, error) {
	if strings.TrimSpace(path) == MemoryPath {
		return NewMemoryStorage(), nil
	}
	return NewFileStorage(path)
}

// MemoryStorage keeps items in a map for the life of the process
type MemoryStorage struct {
	mu    sync.RWMutex
	items map[string]string
}

var _ Storage = (*MemoryStorage)(nil)

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string]string)}
}

func (s *MemoryStorage) GetItem(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.items[key]
	return value, ok, nil
}

func (s *MemoryStorage) SetItem(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}

func (s *MemoryStorage) RemoveItem(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

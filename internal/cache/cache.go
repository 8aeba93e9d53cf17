package cache

import (
	"errors"
	"sync"
)

var ErrKeyNotFound = errors.New("key not found")

// Store is a key-presence store. Values never expire.
type Store interface {
	Has(key string) bool
	Get(key string) (string, error)
	Set(key, value string) error
}

type memoryStore struct {
	store map[string]string
	mu    sync.RWMutex
}

func NewMemoryStore() Store {
	return &memoryStore{
		store: make(map[string]string),
	}
}

func (s *memoryStore) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.store[key]
	return ok
}

func (s *memoryStore) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if value, ok := s.store[key]; ok {
		return value, nil
	}
	return "", ErrKeyNotFound
}

func (s *memoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store[key] = value
	return nil
}

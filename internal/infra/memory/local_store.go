package memory

import (
	"context"
	"sync"

	"uap-profile-service/internal/app"
)

// LocalStore is a map-backed app.LocalStore. Contents vanish with the process.
type LocalStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewLocalStore() *LocalStore {
	return &LocalStore{data: make(map[string]string)}
}

func (s *LocalStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *LocalStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *LocalStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

// Len reports the number of stored keys.
func (s *LocalStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// LocalStores hands out one LocalStore per scope.
type LocalStores struct {
	mu     sync.Mutex
	stores map[string]*LocalStore
}

func NewLocalStores() *LocalStores {
	return &LocalStores{stores: make(map[string]*LocalStore)}
}

func (f *LocalStores) ForScope(scope string) app.LocalStore {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.stores[scope]
	if !ok {
		s = NewLocalStore()
		f.stores[scope] = s
	}
	return s
}

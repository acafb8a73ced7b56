// Package memory implements an in-process storage.Store, used by tests and
// ephemeral runs.
package memory

import (
	"context"
	"sync"

	"financehub/internal/storage"
)

var _ storage.Store = (*Store)(nil)

type Store struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func New() *Store { return &Store{slots: make(map[string][]byte)} }

func (s *Store) LoadRaw(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.slots[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *Store) SaveRaw(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[key] = append([]byte(nil), value...)
	return nil
}

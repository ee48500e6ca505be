package memory

import (
	"sync"

	"github.com/khalid0211/FileRAG/internal/core/domain"
	"github.com/khalid0211/FileRAG/internal/core/ports/driven"
)

// Ensure StateStore implements the interface.
var _ driven.StateStore = (*StateStore)(nil)

// StateStore is an in-memory implementation of driven.StateStore.
// SaveErr and ClearErr, when set, are returned by the next calls.
type StateStore struct {
	mu       sync.RWMutex
	record   *domain.StoreRecord
	SaveErr  error
	ClearErr error
}

// NewStateStore creates a new in-memory state store.
func NewStateStore() *StateStore {
	return &StateStore{}
}

// Load returns a copy of the stored record.
func (s *StateStore) Load() (*domain.StoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.record == nil {
		return nil, domain.ErrNotFound
	}
	r := *s.record
	return &r, nil
}

// Save replaces the stored record.
func (s *StateStore) Save(record *domain.StoreRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	r := *record
	s.record = &r
	return nil
}

// Clear removes the stored record.
func (s *StateStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ClearErr != nil {
		return s.ClearErr
	}
	s.record = nil
	return nil
}

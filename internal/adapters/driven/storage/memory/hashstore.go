package memory

import (
	"sync"

	"github.com/custodia-labs/ytengage/internal/core/domain"
	"github.com/custodia-labs/ytengage/internal/core/ports/driven"
)

// Ensure HashStore implements the interface.
var _ driven.HashStore = (*HashStore)(nil)

// HashStore is an in-memory implementation of driven.HashStore.
type HashStore struct {
	mu   sync.RWMutex
	hash string
	set  bool
}

// NewHashStore creates a new in-memory hash store.
func NewHashStore() *HashStore {
	return &HashStore{}
}

// Get returns the stored hash.
func (s *HashStore) Get() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		return "", domain.ErrNotFound
	}
	return s.hash, nil
}

// Save overwrites the stored hash.
func (s *HashStore) Save(hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hash = hash
	s.set = true
	return nil
}

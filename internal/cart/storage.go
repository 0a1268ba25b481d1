package cart

import (
	"context"
	"sync"
)

// Storage is the durable backing for session carts. Load returns nil lines
// for a session with no stored cart.
type Storage interface {
	Save(ctx context.Context, sessionID string, lines []Line) error
	Load(ctx context.Context, sessionID string) ([]Line, error)
	Delete(ctx context.Context, sessionID string) error
}

// MemoryStorage is an in-process Storage used in tests and local development.
type MemoryStorage struct {
	mu    sync.RWMutex
	carts map[string][]Line
}

// NewMemoryStorage creates an empty in-memory cart storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{carts: make(map[string][]Line)}
}

func (s *MemoryStorage) Save(ctx context.Context, sessionID string, lines []Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]Line, len(lines))
	copy(copied, lines)
	s.carts[sessionID] = copied
	return nil
}

func (s *MemoryStorage) Load(ctx context.Context, sessionID string) ([]Line, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lines, ok := s.carts[sessionID]
	if !ok {
		return nil, nil
	}
	copied := make([]Line, len(lines))
	copy(copied, lines)
	return copied, nil
}

func (s *MemoryStorage) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}

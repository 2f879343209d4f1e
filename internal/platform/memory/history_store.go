package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/phrazzld/casebook/internal/domain"
	"github.com/phrazzld/casebook/internal/store"
)

// HistoryStore is an in-memory, append-only store.HistoryStore.
type HistoryStore struct {
	mu     sync.RWMutex
	events []domain.AuditEvent
}

var _ store.HistoryStore = (*HistoryStore)(nil)

// NewHistoryStore creates an empty HistoryStore.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{}
}

// Append implements store.HistoryStore.
func (s *HistoryStore) Append(_ context.Context, event *domain.AuditEvent) error {
	if event == nil {
		return store.ErrInvalidEntity
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, *event)
	return nil
}

// ListForEntity implements store.HistoryStore.
func (s *HistoryStore) ListForEntity(_ context.Context, entity string, entityID uuid.UUID) ([]*domain.AuditEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.AuditEvent
	for _, e := range s.events {
		if e.Entity == entity && e.EntityID == entityID {
			e := e
			out = append(out, &e)
		}
	}
	return out, nil
}

// Len returns the number of recorded events.
func (s *HistoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

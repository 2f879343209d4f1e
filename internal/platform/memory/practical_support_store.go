package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/phrazzld/casebook/internal/domain"
	"github.com/phrazzld/casebook/internal/store"
)

// PracticalSupportStore is an in-memory store.PracticalSupportStore.
type PracticalSupportStore struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]domain.PracticalSupport
}

var _ store.PracticalSupportStore = (*PracticalSupportStore)(nil)

// NewPracticalSupportStore creates an empty PracticalSupportStore.
func NewPracticalSupportStore() *PracticalSupportStore {
	return &PracticalSupportStore{entries: make(map[uuid.UUID]domain.PracticalSupport)}
}

// Create implements store.PracticalSupportStore.
func (s *PracticalSupportStore) Create(_ context.Context, ps *domain.PracticalSupport) error {
	if err := ps.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[ps.ID]; exists {
		return store.NewStoreError("practical_support", "create", "duplicate id", store.ErrDuplicate)
	}
	s.entries[ps.ID] = *ps
	return nil
}

// GetByID implements store.PracticalSupportStore.
func (s *PracticalSupportStore) GetByID(_ context.Context, id uuid.UUID) (*domain.PracticalSupport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ps, ok := s.entries[id]
	if !ok {
		return nil, store.ErrPracticalSupportNotFound
	}
	return &ps, nil
}

// Update implements store.PracticalSupportStore.
func (s *PracticalSupportStore) Update(_ context.Context, ps *domain.PracticalSupport) error {
	if err := ps.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.entries[ps.ID]
	if !ok {
		return store.ErrPracticalSupportNotFound
	}
	existing.SupportType = ps.SupportType
	existing.Source = ps.Source
	existing.Confirmed = ps.Confirmed
	existing.UpdatedBy = ps.UpdatedBy
	existing.UpdatedAt = ps.UpdatedAt
	s.entries[ps.ID] = existing
	return nil
}

// Delete implements store.PracticalSupportStore.
func (s *PracticalSupportStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return store.ErrPracticalSupportNotFound
	}
	delete(s.entries, id)
	return nil
}

// ListByPatient implements store.PracticalSupportStore.
func (s *PracticalSupportStore) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*domain.PracticalSupport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.PracticalSupport
	for _, ps := range s.entries {
		if ps.PatientID == patientID {
			ps := ps
			out = append(out, &ps)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/phrazzld/casebook/internal/domain"
	"github.com/phrazzld/casebook/internal/store"
)

// ConfigStore is an in-memory store.ConfigStore.
type ConfigStore struct {
	mu      sync.RWMutex
	entries map[string]domain.ConfigEntry
}

var _ store.ConfigStore = (*ConfigStore)(nil)

// NewConfigStore creates an empty ConfigStore.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{entries: make(map[string]domain.ConfigEntry)}
}

// FindByKey implements store.ConfigStore.
func (s *ConfigStore) FindByKey(_ context.Context, key string) (*domain.ConfigEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, store.ErrConfigNotFound
	}
	return cloneEntry(entry), nil
}

// Create implements store.ConfigStore.
func (s *ConfigStore) Create(_ context.Context, entry *domain.ConfigEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[entry.Key]; exists {
		return fmt.Errorf("%w: %w", store.ErrConfigKeyExists,
			domain.NewValidationError("key", domain.MsgTaken))
	}

	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = now
	}
	s.entries[entry.Key] = *cloneEntry(*entry)
	return nil
}

// Update implements store.ConfigStore.
func (s *ConfigStore) Update(_ context.Context, entry *domain.ConfigEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.entries[entry.Key]
	if !ok || existing.ID != entry.ID {
		return store.ErrConfigNotFound
	}

	existing.Value = domain.ConfigValue{
		Kind:    entry.Value.Kind,
		Options: append([]string{}, entry.Value.Options...),
	}
	existing.UpdatedBy = entry.UpdatedBy
	existing.UpdatedAt = entry.UpdatedAt
	s.entries[entry.Key] = existing
	return nil
}

// Count implements store.ConfigStore.
func (s *ConfigStore) Count(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

// Keys implements store.ConfigStore.
func (s *ConfigStore) Keys(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// List implements store.ConfigStore.
func (s *ConfigStore) List(ctx context.Context) ([]*domain.ConfigEntry, error) {
	keys, _ := s.Keys(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.ConfigEntry, 0, len(keys))
	for _, k := range keys {
		if e, ok := s.entries[k]; ok {
			out = append(out, cloneEntry(e))
		}
	}
	return out, nil
}

// DeleteAll implements store.ConfigStore.
func (s *ConfigStore) DeleteAll(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.entries)
	s.entries = make(map[string]domain.ConfigEntry)
	return n, nil
}

// WithTransaction implements store.ConfigStore. There is no rollback: writes
// made by fn before it fails remain.
func (s *ConfigStore) WithTransaction(ctx context.Context, fn func(ctx context.Context, txStore store.ConfigStore) error) error {
	return fn(ctx, s)
}

func cloneEntry(e domain.ConfigEntry) *domain.ConfigEntry {
	e.Value.Options = append([]string{}, e.Value.Options...)
	return &e
}

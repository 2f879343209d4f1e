package registry

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/casebook/internal/domain"
	"github.com/phrazzld/casebook/internal/platform/memory"
	"github.com/phrazzld/casebook/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingEmitter keeps every emitted event.
type recordingEmitter struct {
	mu     sync.Mutex
	events []*domain.AuditEvent
	err    error
}

func (e *recordingEmitter) EmitEvent(_ context.Context, event *domain.AuditEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
	return e.err
}

func (e *recordingEmitter) Events() []*domain.AuditEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*domain.AuditEvent(nil), e.events...)
}

func newTestRegistry(t *testing.T) (*Registry, *memory.ConfigStore, *recordingEmitter) {
	t.Helper()
	s := memory.NewConfigStore()
	emitter := &recordingEmitter{}
	r, err := New(s, DefaultFields(), emitter, discardLogger())
	require.NoError(t, err)
	return r, s, emitter
}

// MockConfigStore is a testify mock of store.ConfigStore.
type MockConfigStore struct {
	mock.Mock
}

var _ store.ConfigStore = (*MockConfigStore)(nil)

func (m *MockConfigStore) FindByKey(ctx context.Context, key string) (*domain.ConfigEntry, error) {
	args := m.Called(ctx, key)
	entry, _ := args.Get(0).(*domain.ConfigEntry)
	return entry, args.Error(1)
}

func (m *MockConfigStore) Create(ctx context.Context, entry *domain.ConfigEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockConfigStore) Update(ctx context.Context, entry *domain.ConfigEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockConfigStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockConfigStore) Keys(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	keys, _ := args.Get(0).([]string)
	return keys, args.Error(1)
}

func (m *MockConfigStore) List(ctx context.Context) ([]*domain.ConfigEntry, error) {
	args := m.Called(ctx)
	entries, _ := args.Get(0).([]*domain.ConfigEntry)
	return entries, args.Error(1)
}

func (m *MockConfigStore) DeleteAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// WithTransaction runs fn against the mock itself.
func (m *MockConfigStore) WithTransaction(
	ctx context.Context,
	fn func(ctx context.Context, txStore store.ConfigStore) error,
) error {
	return fn(ctx, m)
}

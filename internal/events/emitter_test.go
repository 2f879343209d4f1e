package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/casebook/internal/domain"
)

// MockEventHandler records the events it receives.
type MockEventHandler struct {
	mu           sync.Mutex
	HandledCount int
	LastEvent    *domain.AuditEvent
	HandlerError error
}

func (m *MockEventHandler) HandleEvent(_ context.Context, event *domain.AuditEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.HandledCount++
	m.LastEvent = event
	return m.HandlerError
}

func testEvent() *domain.AuditEvent {
	return domain.NewAuditEvent(domain.AuditCreate, domain.EntityConfig, uuid.New(), "system",
		nil, map[string]any{"key": "language", "options": []string{"Spanish"}})
}

func TestInMemoryEventEmitter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("emit event with no handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		assert.NoError(t, emitter.EmitEvent(context.Background(), testEvent()))
	})

	t.Run("emit event with successful handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		handler1 := &MockEventHandler{}
		handler2 := &MockEventHandler{}
		emitter.RegisterHandler(handler1)
		emitter.RegisterHandler(handler2)

		event := testEvent()
		require.NoError(t, emitter.EmitEvent(context.Background(), event))

		assert.Equal(t, 1, handler1.HandledCount)
		assert.Equal(t, 1, handler2.HandledCount)
		assert.Same(t, event, handler1.LastEvent)
		assert.Same(t, event, handler2.LastEvent)
	})

	t.Run("emit event with failing handler", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		failing := &MockEventHandler{HandlerError: errors.New("handler error")}
		success := &MockEventHandler{}
		emitter.RegisterHandler(failing)
		emitter.RegisterHandler(success)

		err := emitter.EmitEvent(context.Background(), testEvent())
		require.Error(t, err)
		assert.Equal(t, "handler error", err.Error())

		// Later handlers still run.
		assert.Equal(t, 1, failing.HandledCount)
		assert.Equal(t, 1, success.HandledCount)
	})

	t.Run("first error wins", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(nil)
		emitter.RegisterHandler(&MockEventHandler{HandlerError: errors.New("first")})
		emitter.RegisterHandler(&MockEventHandler{HandlerError: errors.New("second")})

		err := emitter.EmitEvent(context.Background(), testEvent())
		require.Error(t, err)
		assert.Equal(t, "first", err.Error())
	})

	t.Run("handler func adapter", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		var seen []domain.AuditAction
		emitter.RegisterHandler(EventHandlerFunc(func(_ context.Context, e *domain.AuditEvent) error {
			seen = append(seen, e.Action)
			return nil
		}))

		require.NoError(t, emitter.EmitEvent(context.Background(), testEvent()))
		assert.Equal(t, []domain.AuditAction{domain.AuditCreate}, seen)
	})
}

func TestNoopEmitter(t *testing.T) {
	var emitter EventEmitter = NoopEmitter{}
	assert.NoError(t, emitter.EmitEvent(context.Background(), testEvent()))
}

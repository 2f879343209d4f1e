package events

import (
	"context"
	"fmt"

	"github.com/phrazzld/casebook/internal/domain"
	"github.com/phrazzld/casebook/internal/store"
)

// HistoryRecorder is an EventHandler that appends every event to the
// history store.
type HistoryRecorder struct {
	history store.HistoryStore
}

// NewHistoryRecorder creates a HistoryRecorder writing to history.
func NewHistoryRecorder(history store.HistoryStore) *HistoryRecorder {
	return &HistoryRecorder{history: history}
}

// HandleEvent implements EventHandler.
func (r *HistoryRecorder) HandleEvent(ctx context.Context, event *domain.AuditEvent) error {
	if err := r.history.Append(ctx, event); err != nil {
		return fmt.Errorf("recording %s %s history: %w", event.Entity, event.Action, err)
	}
	return nil
}

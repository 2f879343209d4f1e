package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/casebook/internal/domain"
)

// HistoryStore is the append-only audit trail.
type HistoryStore interface {
	// Append records an audit event. Events are never modified afterwards.
	Append(ctx context.Context, event *domain.AuditEvent) error

	// ListForEntity returns the events recorded for one entity, oldest first.
	ListForEntity(ctx context.Context, entity string, entityID uuid.UUID) ([]*domain.AuditEvent, error)
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction names the kind of change an AuditEvent records.
type AuditAction string

// Audit actions.
const (
	AuditCreate  AuditAction = "create"
	AuditUpdate  AuditAction = "update"
	AuditDestroy AuditAction = "destroy"
)

// Audited entity names.
const (
	EntityConfig           = "config"
	EntityPracticalSupport = "practical_support"
)

// AuditEvent is an immutable record of a change to a tracked entity.
// Original holds the changed attributes before the change and Modified
// holds them after; a create has no Original and a destroy no Modified.
type AuditEvent struct {
	ID         uuid.UUID      `json:"id"`
	Action     AuditAction    `json:"action"`
	Entity     string         `json:"entity"`
	EntityID   uuid.UUID      `json:"entity_id"`
	Original   map[string]any `json:"original,omitempty"`
	Modified   map[string]any `json:"modified,omitempty"`
	Actor      string         `json:"actor"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// NewAuditEvent stamps a new AuditEvent with an ID and the current time.
func NewAuditEvent(
	action AuditAction,
	entity string,
	entityID uuid.UUID,
	actor string,
	original, modified map[string]any,
) *AuditEvent {
	return &AuditEvent{
		ID:         uuid.New(),
		Action:     action,
		Entity:     entity,
		EntityID:   entityID,
		Original:   original,
		Modified:   modified,
		Actor:      actor,
		OccurredAt: time.Now().UTC(),
	}
}

// Topic returns the dotted subject an event is published under,
// e.g. "casebook.audit.config.create".
func (e *AuditEvent) Topic() string {
	return "casebook.audit." + e.Entity + "." + string(e.Action)
}

// AuditAttributes returns the tracked attributes of a config entry.
func (e *ConfigEntry) AuditAttributes() map[string]any {
	return map[string]any{
		"key":     e.Key,
		"options": e.Options(),
	}
}

// AuditAttributes returns the tracked attributes of a practical support entry.
func (p *PracticalSupport) AuditAttributes() map[string]any {
	return map[string]any{
		"patient_id":   p.PatientID.String(),
		"support_type": p.SupportType,
		"source":       p.Source,
		"confirmed":    p.Confirmed,
	}
}

package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/casebook/internal/domain"
	"github.com/phrazzld/casebook/internal/platform/logger"
	"github.com/phrazzld/casebook/internal/store"
)

// PostgresHistoryStore implements store.HistoryStore on the history_tracks table.
type PostgresHistoryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresHistoryStore creates a PostgresHistoryStore.
func NewPostgresHistoryStore(db store.DBTX, logger *slog.Logger) *PostgresHistoryStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresHistoryStore{
		db:     db,
		logger: logger.With(slog.String("component", "history_store")),
	}
}

var _ store.HistoryStore = (*PostgresHistoryStore)(nil)

// Append implements store.HistoryStore.Append.
func (s *PostgresHistoryStore) Append(ctx context.Context, event *domain.AuditEvent) error {
	if event == nil {
		return store.ErrInvalidEntity
	}

	original, err := marshalAttributes(event.Original)
	if err != nil {
		return err
	}
	modified, err := marshalAttributes(event.Modified)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO history_tracks (id, action, entity, entity_id, original, modified, actor, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		event.ID,
		string(event.Action),
		event.Entity,
		event.EntityID,
		original,
		modified,
		event.Actor,
		event.OccurredAt,
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to append history",
			slog.String("event_id", event.ID.String()),
			slog.String("entity", event.Entity),
			slog.String("error", err.Error()))
		return MapError(err)
	}
	return nil
}

// ListForEntity implements store.HistoryStore.ListForEntity.
func (s *PostgresHistoryStore) ListForEntity(ctx context.Context, entity string, entityID uuid.UUID) ([]*domain.AuditEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, action, entity, entity_id, original, modified, actor, occurred_at
		FROM history_tracks
		WHERE entity = $1 AND entity_id = $2
		ORDER BY occurred_at, id
	`, entity, entityID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var out []*domain.AuditEvent
	for rows.Next() {
		var (
			event              domain.AuditEvent
			action             string
			original, modified []byte
		)
		if err := rows.Scan(
			&event.ID,
			&action,
			&event.Entity,
			&event.EntityID,
			&original,
			&modified,
			&event.Actor,
			&event.OccurredAt,
		); err != nil {
			return nil, MapError(err)
		}
		event.Action = domain.AuditAction(action)
		if event.Original, err = unmarshalAttributes(original); err != nil {
			return nil, err
		}
		if event.Modified, err = unmarshalAttributes(modified); err != nil {
			return nil, err
		}
		out = append(out, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return out, nil
}

// marshalAttributes encodes an attribute map for a nullable JSONB column.
func marshalAttributes(attrs map[string]any) ([]byte, error) {
	if attrs == nil {
		return nil, nil
	}
	data, err := json.Marshal(attrs)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding history attributes: %w", store.ErrInvalidEntity, err)
	}
	return data, nil
}

func unmarshalAttributes(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var attrs map[string]any
	if err := json.Unmarshal(data, &attrs); err != nil {
		return nil, fmt.Errorf("decoding history attributes: %w", err)
	}
	return attrs, nil
}

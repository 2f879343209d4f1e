package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/casebook/internal/domain"
	"github.com/phrazzld/casebook/internal/platform/logger"
	"github.com/phrazzld/casebook/internal/store"
)

// PostgresConfigStore implements the store.ConfigStore interface
// using a PostgreSQL database as the storage backend.
type PostgresConfigStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresConfigStore creates a new PostgreSQL implementation of the ConfigStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresConfigStore(db store.DBTX, logger *slog.Logger) *PostgresConfigStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresConfigStore{
		db:     db,
		logger: logger.With(slog.String("component", "config_store")),
	}
}

// Ensure PostgresConfigStore implements store.ConfigStore interface
var _ store.ConfigStore = (*PostgresConfigStore)(nil)

const configColumns = `id, key, config_value, created_by, updated_by, created_at, updated_at`

// FindByKey implements store.ConfigStore.FindByKey.
func (s *PostgresConfigStore) FindByKey(ctx context.Context, key string) (*domain.ConfigEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	row := s.db.QueryRowContext(ctx,
		`SELECT `+configColumns+` FROM config_entries WHERE key = $1`, key)

	entry, err := scanConfigEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("config entry not found", slog.String("key", key))
			return nil, store.ErrConfigNotFound
		}
		log.Error("failed to find config entry",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return entry, nil
}

// Create implements store.ConfigStore.Create.
// A duplicate key fails with store.ErrConfigKeyExists joined with a
// *domain.ValidationError reporting the key as taken.
func (s *PostgresConfigStore) Create(ctx context.Context, entry *domain.ConfigEntry) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := entry.Validate(); err != nil {
		log.Warn("config entry validation failed during create",
			slog.String("key", entry.Key),
			slog.String("error", err.Error()))
		return err
	}

	value, err := json.Marshal(entry.Value)
	if err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO config_entries (`+configColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		entry.ID,
		entry.Key,
		value,
		entry.CreatedBy,
		entry.UpdatedBy,
		entry.CreatedAt,
		entry.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("config key already taken", slog.String("key", entry.Key))
		} else {
			log.Error("failed to create config entry",
				slog.String("key", entry.Key),
				slog.String("error", err.Error()))
		}
		return MapKeyTaken(err)
	}

	log.Debug("config entry created",
		slog.String("key", entry.Key),
		slog.String("config_id", entry.ID.String()))
	return nil
}

// Update implements store.ConfigStore.Update.
func (s *PostgresConfigStore) Update(ctx context.Context, entry *domain.ConfigEntry) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := entry.Validate(); err != nil {
		return err
	}

	value, err := json.Marshal(entry.Value)
	if err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE config_entries
		SET config_value = $1, updated_by = $2, updated_at = $3
		WHERE id = $4
	`, value, entry.UpdatedBy, entry.UpdatedAt, entry.ID)
	if err != nil {
		log.Error("failed to update config entry",
			slog.String("key", entry.Key),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrConfigNotFound); err != nil {
		return err
	}

	log.Debug("config entry updated", slog.String("key", entry.Key))
	return nil
}

// Count implements store.ConfigStore.Count.
func (s *PostgresConfigStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM config_entries`).Scan(&n); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count config entries",
			slog.String("error", err.Error()))
		return 0, MapError(err)
	}
	return n, nil
}

// Keys implements store.ConfigStore.Keys.
func (s *PostgresConfigStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM config_entries ORDER BY key`)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, MapError(err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return keys, nil
}

// List implements store.ConfigStore.List.
func (s *PostgresConfigStore) List(ctx context.Context) ([]*domain.ConfigEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+configColumns+` FROM config_entries ORDER BY key`)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var entries []*domain.ConfigEntry
	for rows.Next() {
		entry, err := scanConfigEntry(rows)
		if err != nil {
			return nil, MapError(err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return entries, nil
}

// DeleteAll implements store.ConfigStore.DeleteAll.
func (s *PostgresConfigStore) DeleteAll(ctx context.Context) (int, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM config_entries`)
	if err != nil {
		return 0, MapError(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("deleted all config entries",
		slog.Int64("count", n))
	return int(n), nil
}

// WithTransaction implements store.ConfigStore.WithTransaction.
// When the store already runs inside a transaction, fn joins it.
func (s *PostgresConfigStore) WithTransaction(
	ctx context.Context,
	fn func(ctx context.Context, txStore store.ConfigStore) error,
) error {
	db, ok := s.db.(*sql.DB)
	if !ok {
		return fn(ctx, s)
	}
	return store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, s.WithTx(tx))
	})
}

// WithTx returns a new store instance that uses the provided transaction.
func (s *PostgresConfigStore) WithTx(tx *sql.Tx) *PostgresConfigStore {
	return &PostgresConfigStore{db: tx, logger: s.logger}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConfigEntry(row rowScanner) (*domain.ConfigEntry, error) {
	var entry domain.ConfigEntry
	var value []byte
	if err := row.Scan(
		&entry.ID,
		&entry.Key,
		&value,
		&entry.CreatedBy,
		&entry.UpdatedBy,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(value, &entry.Value); err != nil {
		return nil, fmt.Errorf("config entry %q: %w", entry.Key, err)
	}
	return &entry, nil
}

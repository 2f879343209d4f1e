package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/casebook/internal/domain"
	"github.com/phrazzld/casebook/internal/platform/logger"
	"github.com/phrazzld/casebook/internal/store"
)

// PostgresPracticalSupportStore implements store.PracticalSupportStore on PostgreSQL.
type PostgresPracticalSupportStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPracticalSupportStore creates a PostgresPracticalSupportStore.
// If logger is nil, a default logger will be used.
func NewPostgresPracticalSupportStore(db store.DBTX, logger *slog.Logger) *PostgresPracticalSupportStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresPracticalSupportStore{
		db:     db,
		logger: logger.With(slog.String("component", "practical_support_store")),
	}
}

var _ store.PracticalSupportStore = (*PostgresPracticalSupportStore)(nil)

const practicalSupportColumns = `id, patient_id, support_type, source, confirmed, created_by, updated_by, created_at, updated_at`

// Create implements store.PracticalSupportStore.Create.
func (s *PostgresPracticalSupportStore) Create(ctx context.Context, ps *domain.PracticalSupport) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := ps.Validate(); err != nil {
		log.Warn("practical support validation failed during create",
			slog.String("error", err.Error()))
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO practical_supports (`+practicalSupportColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		ps.ID,
		ps.PatientID,
		ps.SupportType,
		ps.Source,
		ps.Confirmed,
		ps.CreatedBy,
		ps.UpdatedBy,
		ps.CreatedAt,
		ps.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create practical support",
			slog.String("practical_support_id", ps.ID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	log.Info("practical support created",
		slog.String("practical_support_id", ps.ID.String()),
		slog.String("patient_id", ps.PatientID.String()))
	return nil
}

// GetByID implements store.PracticalSupportStore.GetByID.
func (s *PostgresPracticalSupportStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.PracticalSupport, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+practicalSupportColumns+` FROM practical_supports WHERE id = $1`, id)

	ps, err := scanPracticalSupport(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrPracticalSupportNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get practical support",
			slog.String("practical_support_id", id.String()),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return ps, nil
}

// Update implements store.PracticalSupportStore.Update.
func (s *PostgresPracticalSupportStore) Update(ctx context.Context, ps *domain.PracticalSupport) error {
	if err := ps.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE practical_supports
		SET support_type = $1, source = $2, confirmed = $3, updated_by = $4, updated_at = $5
		WHERE id = $6
	`, ps.SupportType, ps.Source, ps.Confirmed, ps.UpdatedBy, ps.UpdatedAt, ps.ID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update practical support",
			slog.String("practical_support_id", ps.ID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrPracticalSupportNotFound)
}

// Delete implements store.PracticalSupportStore.Delete.
func (s *PostgresPracticalSupportStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM practical_supports WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrPracticalSupportNotFound)
}

// ListByPatient implements store.PracticalSupportStore.ListByPatient.
func (s *PostgresPracticalSupportStore) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*domain.PracticalSupport, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+practicalSupportColumns+`
		FROM practical_supports
		WHERE patient_id = $1
		ORDER BY created_at, id
	`, patientID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var out []*domain.PracticalSupport
	for rows.Next() {
		ps, err := scanPracticalSupport(rows)
		if err != nil {
			return nil, MapError(err)
		}
		out = append(out, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return out, nil
}

func scanPracticalSupport(row rowScanner) (*domain.PracticalSupport, error) {
	var ps domain.PracticalSupport
	if err := row.Scan(
		&ps.ID,
		&ps.PatientID,
		&ps.SupportType,
		&ps.Source,
		&ps.Confirmed,
		&ps.CreatedBy,
		&ps.UpdatedBy,
		&ps.CreatedAt,
		&ps.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ps, nil
}

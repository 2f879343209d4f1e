package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/casebook/internal/domain"
)

// PracticalSupportStore defines the interface for practical support persistence.
type PracticalSupportStore interface {
	// Create saves a new entry.
	// Returns a *domain.ValidationError if the entry is invalid.
	Create(ctx context.Context, ps *domain.PracticalSupport) error

	// GetByID retrieves an entry by its ID.
	// Returns ErrPracticalSupportNotFound if the entry does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PracticalSupport, error)

	// Update saves the editable fields of an existing entry.
	// Returns ErrPracticalSupportNotFound if the entry does not exist.
	Update(ctx context.Context, ps *domain.PracticalSupport) error

	// Delete removes an entry.
	// Returns ErrPracticalSupportNotFound if the entry does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByPatient returns a patient's entries, oldest first.
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*domain.PracticalSupport, error)
}

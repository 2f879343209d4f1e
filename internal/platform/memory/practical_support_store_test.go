package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/casebook/internal/domain"
	"github.com/phrazzld/casebook/internal/store"
)

func mustSupport(t *testing.T, patientID uuid.UUID, supportType string) *domain.PracticalSupport {
	t.Helper()
	ps, err := domain.NewPracticalSupport(patientID, domain.PracticalSupportParams{
		SupportType: supportType,
		Source:      domain.SourceClinicDiscount,
	}, "test")
	require.NoError(t, err)
	return ps
}

func TestPracticalSupportStoreLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewPracticalSupportStore()
	patient := uuid.New()

	ps := mustSupport(t, patient, "Lodging")
	require.NoError(t, s.Create(ctx, ps))

	got, err := s.GetByID(ctx, ps.ID)
	require.NoError(t, err)
	assert.Equal(t, "lodging", got.SupportType)

	ps.Apply(domain.PracticalSupportParams{
		SupportType: "Companion",
		Source:      domain.SourceOtherFunds,
		Confirmed:   true,
	}, "editor")
	require.NoError(t, s.Update(ctx, ps))

	got, err = s.GetByID(ctx, ps.ID)
	require.NoError(t, err)
	assert.Equal(t, "companion", got.SupportType)
	assert.True(t, got.Confirmed)
	assert.Equal(t, "editor", got.UpdatedBy)

	require.NoError(t, s.Delete(ctx, ps.ID))
	_, err = s.GetByID(ctx, ps.ID)
	assert.ErrorIs(t, err, store.ErrPracticalSupportNotFound)
	assert.ErrorIs(t, s.Delete(ctx, ps.ID), store.ErrPracticalSupportNotFound)
}

func TestPracticalSupportStoreRejectsInvalid(t *testing.T) {
	t.Parallel()
	s := NewPracticalSupportStore()

	err := s.Create(context.Background(), &domain.PracticalSupport{ID: uuid.New()})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPracticalSupportStoreListByPatient(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewPracticalSupportStore()
	patient := uuid.New()

	first := mustSupport(t, patient, "lodging")
	second := mustSupport(t, patient, "companion")
	second.CreatedAt = first.CreatedAt.Add(time.Minute)
	other := mustSupport(t, uuid.New(), "lodging")

	for _, ps := range []*domain.PracticalSupport{second, other, first} {
		require.NoError(t, s.Create(ctx, ps))
	}

	list, err := s.ListByPatient(ctx, patient)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
}

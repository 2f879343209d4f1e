package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/casebook/internal/domain"
	"github.com/phrazzld/casebook/internal/store"
)

var practicalSupportRowColumns = []string{
	"id", "patient_id", "support_type", "source", "confirmed",
	"created_by", "updated_by", "created_at", "updated_at",
}

func newSupport(t *testing.T) *domain.PracticalSupport {
	t.Helper()
	ps, err := domain.NewPracticalSupport(uuid.New(), domain.PracticalSupportParams{
		SupportType: "Lodging",
		Source:      domain.SourceClinicDiscount,
	}, "cm")
	require.NoError(t, err)
	return ps
}

func TestPostgresPracticalSupportStoreCreate(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresPracticalSupportStore(db, discardLogger())
	ps := newSupport(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO practical_supports")).
		WithArgs(ps.ID, ps.PatientID, "lodging", domain.SourceClinicDiscount, false,
			"cm", "cm", ps.CreatedAt, ps.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, s.Create(context.Background(), ps))
}

func TestPostgresPracticalSupportStoreGetByID(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresPracticalSupportStore(db, discardLogger())
	id, patient := uuid.New(), uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM practical_supports WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(practicalSupportRowColumns).
			AddRow(id.String(), patient.String(), "companion", domain.SourceOtherFunds, true, "cm", "cm", now, now))

	ps, err := s.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, patient, ps.PatientID)
	assert.Equal(t, "companion", ps.SupportType)
	assert.True(t, ps.Confirmed)

	mock.ExpectQuery(regexp.QuoteMeta("FROM practical_supports WHERE id = $1")).
		WillReturnRows(sqlmock.NewRows(practicalSupportRowColumns))
	_, err = s.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrPracticalSupportNotFound)
}

func TestPostgresPracticalSupportStoreUpdateDelete(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresPracticalSupportStore(db, discardLogger())
	ps := newSupport(t)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE practical_supports")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.Update(ctx, ps))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE practical_supports")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, s.Update(ctx, ps), store.ErrPracticalSupportNotFound)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM practical_supports WHERE id = $1")).
		WithArgs(ps.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.Delete(ctx, ps.ID))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM practical_supports")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, s.Delete(ctx, ps.ID), store.ErrPracticalSupportNotFound)
}

func TestPostgresPracticalSupportStoreListByPatient(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresPracticalSupportStore(db, discardLogger())
	patient := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE patient_id = $1")).
		WithArgs(patient).
		WillReturnRows(sqlmock.NewRows(practicalSupportRowColumns).
			AddRow(uuid.NewString(), patient.String(), "lodging", domain.SourceClinicDiscount, false, "cm", "cm", now, now).
			AddRow(uuid.NewString(), patient.String(), "companion", domain.SourceOtherFunds, true, "cm", "cm", now.Add(time.Minute), now))

	list, err := s.ListByPatient(context.Background(), patient)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "lodging", list[0].SupportType)
	assert.Equal(t, "companion", list[1].SupportType)
}

package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/casebook/internal/attribution"
	"github.com/phrazzld/casebook/internal/domain"
	"github.com/phrazzld/casebook/internal/events"
	"github.com/phrazzld/casebook/internal/platform/memory"
	"github.com/phrazzld/casebook/internal/registry"
	"github.com/phrazzld/casebook/internal/store"
)

type fixture struct {
	svc      PracticalSupportService
	registry *registry.Registry
	repo     *memory.PracticalSupportStore
	history  *memory.HistoryStore
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	history := memory.NewHistoryStore()
	emitter := events.NewInMemoryEventEmitter(log)
	emitter.RegisterHandler(events.NewHistoryRecorder(history))

	reg, err := registry.New(memory.NewConfigStore(), registry.DefaultFields(), emitter, log)
	require.NoError(t, err)
	_, err = reg.Autosetup(context.Background())
	require.NoError(t, err)

	repo := memory.NewPracticalSupportStore()
	svc, err := NewPracticalSupportService(repo, reg, emitter, log)
	require.NoError(t, err)

	return fixture{svc: svc, registry: reg, repo: repo, history: history}
}

func TestCreatePracticalSupport(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := attribution.WithActor(context.Background(), "cm@example.org")
	patient := uuid.New()

	ps, err := f.svc.Create(ctx, patient, domain.PracticalSupportParams{
		SupportType: "Companion",
		Source:      "other funds (see notes)",
		Confirmed:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, "companion", ps.SupportType)
	assert.Equal(t, domain.SourceOtherFunds, ps.Source, "source takes its configured spelling")
	assert.True(t, ps.Confirmed)
	assert.Equal(t, "cm@example.org", ps.CreatedBy)

	list, err := f.svc.ListForPatient(ctx, patient)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, ps.ID, list[0].ID)

	history, err := f.history.ListForEntity(ctx, domain.EntityPracticalSupport, ps.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.AuditCreate, history[0].Action)
	assert.Equal(t, "cm@example.org", history[0].Actor)
}

func TestCreatePracticalSupportBlankSupportType(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	patient := uuid.New()

	_, err := f.svc.Create(ctx, patient, domain.PracticalSupportParams{Source: domain.SourceClinicDiscount})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "Practical support failed to save: Support type can't be blank", FailureMessage(err))

	list, err := f.svc.ListForPatient(ctx, patient)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreatePracticalSupportUnconfiguredOptions(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), uuid.New(), domain.PracticalSupportParams{
		SupportType: "Helicopter",
		Source:      "Lottery",
	})
	ve, ok := domain.AsValidationError(err)
	require.True(t, ok, "expected validation error, got %v", err)
	assert.True(t, ve.Includes("support_type", domain.MsgNotIncluded))
	assert.True(t, ve.Includes("source", domain.MsgNotIncluded))
}

func TestSourcesIncludeConfiguredPledgeSources(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.registry.SetOptions(ctx, registry.KeyExternalPledgeSource, []string{"Baltimore Abortion Fund"})
	require.NoError(t, err)

	sources, err := f.svc.Sources(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Baltimore Abortion Fund", domain.SourceClinicDiscount, domain.SourceOtherFunds}, sources)

	ps, err := f.svc.Create(ctx, uuid.New(), domain.PracticalSupportParams{
		SupportType: "lodging",
		Source:      "Baltimore Abortion Fund",
	})
	require.NoError(t, err)
	assert.Equal(t, "Baltimore Abortion Fund", ps.Source)
}

func TestUpdatePracticalSupport(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	ps, err := f.svc.Create(ctx, uuid.New(), domain.PracticalSupportParams{
		SupportType: "lodging",
		Source:      domain.SourceOtherFunds,
	})
	require.NoError(t, err)

	editCtx := attribution.WithActor(ctx, "editor")
	updated, err := f.svc.Update(editCtx, ps.ID, domain.PracticalSupportParams{
		SupportType: "Companion",
		Source:      domain.SourceClinicDiscount,
		Confirmed:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, "companion", updated.SupportType)
	assert.Equal(t, "editor", updated.UpdatedBy)

	got, err := f.svc.Get(ctx, ps.ID)
	require.NoError(t, err)
	assert.Equal(t, "companion", got.SupportType)
	assert.Equal(t, domain.SourceClinicDiscount, got.Source)
	assert.True(t, got.Confirmed)

	history, err := f.history.ListForEntity(ctx, domain.EntityPracticalSupport, ps.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.AuditUpdate, history[1].Action)
	assert.Equal(t, "lodging", history[1].Original["support_type"])
	assert.Equal(t, "companion", history[1].Modified["support_type"])
}

func TestUpdatePracticalSupportInvalidLeavesStoredEntry(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	ps, err := f.svc.Create(ctx, uuid.New(), domain.PracticalSupportParams{
		SupportType: "lodging",
		Source:      domain.SourceOtherFunds,
	})
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, ps.ID, domain.PracticalSupportParams{Source: domain.SourceOtherFunds})
	assert.Equal(t, "Practical support failed to save: Support type can't be blank", FailureMessage(err))

	got, err := f.svc.Get(ctx, ps.ID)
	require.NoError(t, err)
	assert.Equal(t, "lodging", got.SupportType)
}

func TestDeletePracticalSupport(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	patient := uuid.New()

	ps, err := f.svc.Create(ctx, patient, domain.PracticalSupportParams{
		SupportType: "lodging",
		Source:      domain.SourceOtherFunds,
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, ps.ID))

	list, err := f.svc.ListForPatient(ctx, patient)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = f.svc.Get(ctx, ps.ID)
	assert.ErrorIs(t, err, ErrPracticalSupportNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, ps.ID), ErrPracticalSupportNotFound)

	history, err := f.history.ListForEntity(ctx, domain.EntityPracticalSupport, ps.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.AuditDestroy, history[1].Action)
	assert.Nil(t, history[1].Modified)
}

type unavailableOptions struct{}

func (unavailableOptions) Options(context.Context, string) ([]string, error) {
	return nil, store.ErrStoreUnavailable
}

func TestCreatePropagatesStoreUnavailable(t *testing.T) {
	t.Parallel()
	svc, err := NewPracticalSupportService(memory.NewPracticalSupportStore(), unavailableOptions{},
		events.NoopEmitter{}, nil)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), uuid.New(), domain.PracticalSupportParams{
		SupportType: "lodging",
		Source:      domain.SourceOtherFunds,
	})
	assert.ErrorIs(t, err, store.ErrStoreUnavailable)

	var svcErr *PracticalSupportServiceError
	assert.True(t, errors.As(err, &svcErr))
}

func TestNewPracticalSupportServiceRequiresDependencies(t *testing.T) {
	t.Parallel()
	repo := memory.NewPracticalSupportStore()

	_, err := NewPracticalSupportService(nil, unavailableOptions{}, events.NoopEmitter{}, nil)
	assert.Error(t, err)
	_, err = NewPracticalSupportService(repo, nil, events.NoopEmitter{}, nil)
	assert.Error(t, err)
	_, err = NewPracticalSupportService(repo, unavailableOptions{}, nil, nil)
	assert.Error(t, err)
}

package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/casebook/internal/domain"
	"github.com/phrazzld/casebook/internal/platform/logger"
	"github.com/phrazzld/casebook/internal/platform/memory"
	"github.com/phrazzld/casebook/internal/store"
)

func TestStartDayDefaultsToMonday(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r, _, _ := newTestRegistry(t)

	day, err := r.StartDay(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Monday, day, "empty registry")

	_, err = r.Autosetup(ctx)
	require.NoError(t, err)
	day, err = r.StartDay(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Monday, day, "seeded registry")
}

func TestStartDayMatchesCaseInsensitively(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r, _, _ := newTestRegistry(t)
	_, err := r.Autosetup(ctx)
	require.NoError(t, err)

	for input, want := range map[string]domain.Weekday{
		"Tuesday":   domain.Tuesday,
		"tuesday":   domain.Tuesday,
		"SATURDAY":  domain.Saturday,
		" sunday  ": domain.Sunday,
	} {
		_, err := r.SetOptions(ctx, KeyStartOfWeek, []string{input})
		require.NoError(t, err)

		day, err := r.StartDay(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, day, input)
	}
}

func TestStartDayUsesFirstOption(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r, _, _ := newTestRegistry(t)

	_, err := r.SetOptions(ctx, KeyStartOfWeek, []string{"Friday", "Monday"})
	require.NoError(t, err)

	day, err := r.StartDay(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Friday, day)
}

func TestStartDayFallsBackOnEmptyOrInvalid(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	buf, log := logger.NewTestLogger(t)
	s := memory.NewConfigStore()
	r, err := New(s, DefaultFields(), nil, log)
	require.NoError(t, err)

	_, err = r.SetOptions(ctx, KeyStartOfWeek, nil)
	require.NoError(t, err)
	day, err := r.StartDay(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Monday, day, "empty options")

	_, err = r.SetOptions(ctx, KeyStartOfWeek, []string{"Funday"})
	require.NoError(t, err)
	day, err = r.StartDay(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Monday, day, "invalid weekday")
	logger.AssertLogContains(t, buf, "unusable config value, using default")
}

func TestStartDayWithoutDefinition(t *testing.T) {
	t.Parallel()
	r, err := New(memory.NewConfigStore(), []domain.FieldDefinition{{Key: "language"}}, nil, discardLogger())
	require.NoError(t, err)

	day, err := r.StartDay(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Monday, day)
}

func TestStartDayStoreUnavailable(t *testing.T) {
	t.Parallel()
	m := &MockConfigStore{}
	m.On("FindByKey", mock.Anything, KeyStartOfWeek).Return(nil, store.ErrStoreUnavailable)
	r, err := New(m, DefaultFields(), nil, discardLogger())
	require.NoError(t, err)

	day, err := r.StartDay(context.Background())
	assert.ErrorIs(t, err, store.ErrStoreUnavailable)
	assert.Equal(t, domain.Monday, day)
}

func TestBudgetBarMax(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r, _, _ := newTestRegistry(t)

	n, err := r.BudgetBarMax(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1000, n)

	cases := map[string]int{
		"2500":   2500,
		"$1,500": 1500,
		"0":      DefaultBudgetBarMax,
		"-20":    DefaultBudgetBarMax,
		"lots":   DefaultBudgetBarMax,
	}
	for input, want := range cases {
		_, err := r.SetOptions(ctx, KeyBudgetBarMax, []string{input})
		require.NoError(t, err)
		got, err := r.BudgetBarMax(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got, input)
	}
}

func TestHidePracticalSupport(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r, _, _ := newTestRegistry(t)

	hidden, err := r.HidePracticalSupport(ctx)
	require.NoError(t, err)
	assert.False(t, hidden)

	cases := map[string]bool{"Yes": true, "YES": true, "no": false, "maybe": false}
	for input, want := range cases {
		_, err := r.SetOptions(ctx, KeyHidePracticalSupport, []string{input})
		require.NoError(t, err)
		got, err := r.HidePracticalSupport(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got, input)
	}
}

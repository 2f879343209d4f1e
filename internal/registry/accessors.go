package registry

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/phrazzld/casebook/internal/domain"
	"github.com/phrazzld/casebook/internal/platform/logger"
)

// Built-in values returned when a setting is absent or unusable.
const (
	DefaultStartDay             = domain.Monday
	DefaultBudgetBarMax         = 1000
	DefaultHidePracticalSupport = false
)

// firstOption returns the first option configured for key, falling back to
// the definition's defaults when the entry is missing. ok is false when
// there is nothing to read.
func (r *Registry) firstOption(ctx context.Context, key string) (string, bool, error) {
	options, err := r.Options(ctx, key)
	if err != nil {
		return "", false, err
	}
	if len(options) == 0 {
		return "", false, nil
	}
	first := strings.TrimSpace(options[0])
	return first, first != "", nil
}

// StartDay returns the day the budget week starts on, read from the first
// start_of_week option and matched case-insensitively. It returns Monday
// when the setting is missing, empty or not a weekday.
func (r *Registry) StartDay(ctx context.Context) (domain.Weekday, error) {
	raw, ok, err := r.optionOrDefault(ctx, KeyStartOfWeek)
	if err != nil || !ok {
		return DefaultStartDay, err
	}

	day, err := domain.ParseWeekday(raw)
	if err != nil {
		r.warnUnusable(ctx, KeyStartOfWeek, raw, DefaultStartDay.String())
		return DefaultStartDay, nil
	}
	return day, nil
}

// BudgetBarMax returns the budget bar maximum in dollars. It returns 1000
// when the setting is missing or not a positive whole number.
func (r *Registry) BudgetBarMax(ctx context.Context) (int, error) {
	raw, ok, err := r.optionOrDefault(ctx, KeyBudgetBarMax)
	if err != nil || !ok {
		return DefaultBudgetBarMax, err
	}

	n, err := strconv.Atoi(strings.ReplaceAll(strings.TrimPrefix(raw, "$"), ",", ""))
	if err != nil || n <= 0 {
		r.warnUnusable(ctx, KeyBudgetBarMax, raw, strconv.Itoa(DefaultBudgetBarMax))
		return DefaultBudgetBarMax, nil
	}
	return n, nil
}

// HidePracticalSupport reports whether the practical support tab is hidden.
// Only "yes" (any case) hides it; "no" and anything unparsable show it.
func (r *Registry) HidePracticalSupport(ctx context.Context) (bool, error) {
	raw, ok, err := r.optionOrDefault(ctx, KeyHidePracticalSupport)
	if err != nil || !ok {
		return DefaultHidePracticalSupport, err
	}

	switch strings.ToLower(raw) {
	case "yes":
		return true, nil
	case "no":
		return false, nil
	default:
		r.warnUnusable(ctx, KeyHidePracticalSupport, raw, "no")
		return DefaultHidePracticalSupport, nil
	}
}

// optionOrDefault reads the first option of key. An unknown key is not an
// error here: typed accessors still answer with their built-in default when
// a custom field table omits their field.
func (r *Registry) optionOrDefault(ctx context.Context, key string) (string, bool, error) {
	first, ok, err := r.firstOption(ctx, key)
	if errors.Is(err, ErrUnknownKey) {
		return "", false, nil
	}
	return first, ok, err
}

func (r *Registry) warnUnusable(ctx context.Context, key, raw, fallback string) {
	logger.FromContextOrDefault(ctx, r.logger).Warn("unusable config value, using default",
		slog.String("key", key),
		slog.String("value", raw),
		slog.String("default", fallback))
}

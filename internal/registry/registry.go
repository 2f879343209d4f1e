package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/casebook/internal/attribution"
	"github.com/phrazzld/casebook/internal/domain"
	"github.com/phrazzld/casebook/internal/events"
	"github.com/phrazzld/casebook/internal/platform/logger"
	"github.com/phrazzld/casebook/internal/store"
)

// Registry resolves configuration settings from a ConfigStore using a
// fixed table of field definitions.
type Registry struct {
	store   store.ConfigStore
	fields  []domain.FieldDefinition
	byKey   map[string]domain.FieldDefinition
	emitter events.EventEmitter
	logger  *slog.Logger
}

// New creates a Registry over configStore using fields as the field table.
// A nil emitter discards audit events; a nil logger uses slog.Default().
// Returns ErrInvalidFieldTable if fields has blank or repeated keys.
func New(
	configStore store.ConfigStore,
	fields []domain.FieldDefinition,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (*Registry, error) {
	if configStore == nil {
		return nil, errors.New("config store cannot be nil")
	}
	if err := ValidateFields(fields); err != nil {
		return nil, err
	}
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	table := make([]domain.FieldDefinition, len(fields))
	byKey := make(map[string]domain.FieldDefinition, len(fields))
	for i, f := range fields {
		f.DefaultOptions = f.Defaults()
		table[i] = f
		byKey[f.Key] = f
	}

	return &Registry{
		store:   configStore,
		fields:  table,
		byKey:   byKey,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "settings_registry")),
	}, nil
}

// Fields returns a copy of the registry's field table.
func (r *Registry) Fields() []domain.FieldDefinition {
	out := make([]domain.FieldDefinition, len(r.fields))
	for i, f := range r.fields {
		f.DefaultOptions = f.Defaults()
		out[i] = f
	}
	return out
}

// Definition returns the field definition for key.
func (r *Registry) Definition(key string) (domain.FieldDefinition, bool) {
	f, ok := r.byKey[key]
	if ok {
		f.DefaultOptions = f.Defaults()
	}
	return f, ok
}

// HelpText returns the help text declared for key, or "" when the key has
// no definition or declares none. It never touches the store.
func (r *Registry) HelpText(key string) string {
	return r.byKey[key].HelpText
}

// Options returns the ordered options of the entry for key.
//
// When no entry has been persisted yet, Options falls back to the field
// definition's default options, so callers need not run Autosetup first.
// A key with neither an entry nor a definition yields ErrUnknownKey.
func (r *Registry) Options(ctx context.Context, key string) ([]string, error) {
	entry, err := r.store.FindByKey(ctx, key)
	switch {
	case err == nil:
		return entry.Options(), nil
	case store.IsNotFoundError(err):
		if f, ok := r.byKey[key]; ok {
			logger.FromContextOrDefault(ctx, r.logger).Debug("config entry missing, using defaults",
				slog.String("key", key))
			return f.Defaults(), nil
		}
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	default:
		return nil, fmt.Errorf("reading config %q: %w", key, err)
	}
}

// Entries returns every persisted entry ordered by key.
func (r *Registry) Entries(ctx context.Context) ([]*domain.ConfigEntry, error) {
	entries, err := r.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing config entries: %w", err)
	}
	return entries, nil
}

// SetOptions replaces the options of the entry for key, creating the entry
// if it does not exist yet. Options are trimmed and blanks dropped. The
// change is attributed to the actor on ctx and emitted as an audit event.
// If the event cannot be emitted the saved entry is returned with the error.
func (r *Registry) SetOptions(ctx context.Context, key string, options []string) (*domain.ConfigEntry, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)
	actor := attribution.ActorFromContext(ctx)
	options = domain.NormalizeOptions(options)

	entry, err := r.store.FindByKey(ctx, key)
	if store.IsNotFoundError(err) {
		created, cerr := r.create(ctx, key, options, actor)
		if !store.IsDuplicateError(cerr) {
			return created, cerr
		}
		// Another writer created the key after our lookup.
		log.Debug("config entry created concurrently, updating", slog.String("key", key))
		entry, err = r.store.FindByKey(ctx, key)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %q: %w", key, err)
	}

	original := entry.AuditAttributes()
	entry.SetOptions(options, actor)
	if err := r.store.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("updating config %q: %w", key, err)
	}

	log.Info("config entry updated",
		slog.String("key", key),
		slog.String("actor", actor),
		slog.Int("option_count", len(options)))
	return entry, r.emit(ctx, domain.NewAuditEvent(
		domain.AuditUpdate, domain.EntityConfig, entry.ID, actor, original, entry.AuditAttributes()))
}

func (r *Registry) create(ctx context.Context, key string, options []string, actor string) (*domain.ConfigEntry, error) {
	entry, err := domain.NewConfigEntry(key, options, actor)
	if err != nil {
		return nil, err
	}
	if err := r.store.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("creating config %q: %w", key, err)
	}
	logger.FromContextOrDefault(ctx, r.logger).Info("config entry created",
		slog.String("key", key), slog.String("actor", actor))
	return entry, r.emit(ctx, domain.NewAuditEvent(
		domain.AuditCreate, domain.EntityConfig, entry.ID, actor, nil, entry.AuditAttributes()))
}

// emit hands an audit event to the emitter. The write it describes has
// already happened, so a failure is returned for the caller to surface.
func (r *Registry) emit(ctx context.Context, event *domain.AuditEvent) error {
	if err := r.emitter.EmitEvent(ctx, event); err != nil {
		logger.FromContextOrDefault(ctx, r.logger).Error("failed to emit audit event",
			slog.String("event_id", event.ID.String()),
			slog.String("topic", event.Topic()),
			slog.String("error", err.Error()))
		return fmt.Errorf("emitting %s: %w", event.Topic(), err)
	}
	return nil
}

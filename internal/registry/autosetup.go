package registry

import (
	"context"
	"fmt"
	"log/slog"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/hashicorp/go-multierror"

	"github.com/phrazzld/casebook/internal/attribution"
	"github.com/phrazzld/casebook/internal/domain"
	"github.com/phrazzld/casebook/internal/platform/logger"
	"github.com/phrazzld/casebook/internal/store"
)

// Autosetup creates one entry, seeded with the definition's default
// options, for every field whose key has no persisted entry. Existing
// entries are never modified. It returns the number of entries created, so
// a second run returns 0.
//
// The work runs as one store transaction. A store error aborts it and is
// returned unchanged in the chain; a key created concurrently by another
// process fails the run with a *domain.ValidationError reporting the key
// as taken. Audit events for the created entries are emitted after commit.
func (r *Registry) Autosetup(ctx context.Context) (int, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)
	actor := attribution.ActorFromContext(ctx)

	var created []*domain.ConfigEntry
	err := r.store.WithTransaction(ctx, func(ctx context.Context, tx store.ConfigStore) error {
		created = created[:0]

		keys, err := tx.Keys(ctx)
		if err != nil {
			return fmt.Errorf("listing config keys: %w", err)
		}

		missing := r.fieldKeys().Difference(mapset.NewThreadUnsafeSet(keys...))
		if missing.Cardinality() == 0 {
			return nil
		}

		for _, f := range r.fields {
			if !missing.Contains(f.Key) {
				continue
			}
			entry, err := domain.NewConfigEntry(f.Key, f.Defaults(), actor)
			if err != nil {
				return fmt.Errorf("seeding config %q: %w", f.Key, err)
			}
			if err := tx.Create(ctx, entry); err != nil {
				return fmt.Errorf("seeding config %q: %w", f.Key, err)
			}
			created = append(created, entry)
		}
		return nil
	})
	if err != nil {
		log.Error("autosetup failed", slog.String("error", err.Error()))
		return 0, err
	}

	var emitErr *multierror.Error
	for _, entry := range created {
		event := domain.NewAuditEvent(domain.AuditCreate, domain.EntityConfig, entry.ID, actor,
			nil, entry.AuditAttributes())
		if err := r.emit(ctx, event); err != nil {
			emitErr = multierror.Append(emitErr, err)
		}
	}

	log.Info("autosetup complete",
		slog.Int("created", len(created)),
		slog.Int("fields", len(r.fields)),
		slog.String("actor", actor))
	return len(created), emitErr.ErrorOrNil()
}

func (r *Registry) fieldKeys() mapset.Set[string] {
	keys := mapset.NewThreadUnsafeSetWithSize[string](len(r.fields))
	for _, f := range r.fields {
		keys.Add(f.Key)
	}
	return keys
}

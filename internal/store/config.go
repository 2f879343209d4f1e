package store

import (
	"context"

	"github.com/phrazzld/casebook/internal/domain"
)

// ConfigStore defines the interface for config entry persistence.
// Implementations enforce key uniqueness and key presence.
type ConfigStore interface {
	// FindByKey retrieves the entry with the given key.
	// Returns ErrConfigNotFound if no entry exists.
	FindByKey(ctx context.Context, key string) (*domain.ConfigEntry, error)

	// Create saves a new entry.
	// Returns a *domain.ValidationError if the entry is invalid. A duplicate
	// key fails with an error matching both ErrConfigKeyExists and a
	// *domain.ValidationError reporting key "is already taken".
	Create(ctx context.Context, entry *domain.ConfigEntry) error

	// Update saves the value and attribution of an existing entry.
	// Returns ErrConfigNotFound if the entry does not exist.
	Update(ctx context.Context, entry *domain.ConfigEntry) error

	// Count returns the number of persisted entries.
	Count(ctx context.Context) (int, error)

	// Keys returns every persisted key.
	Keys(ctx context.Context) ([]string, error)

	// List returns every entry ordered by key.
	List(ctx context.Context) ([]*domain.ConfigEntry, error)

	// DeleteAll removes every entry and returns how many were removed.
	// It exists for resets and tests; production code never calls it.
	DeleteAll(ctx context.Context) (int, error)

	// WithTransaction runs fn against a ConfigStore scoped to a single unit
	// of work. Stores backed by a database commit when fn returns nil and
	// roll back otherwise; stores without transactions run fn directly.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, txStore ConfigStore) error) error
}

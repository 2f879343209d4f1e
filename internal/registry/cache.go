package registry

import (
	"context"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/phrazzld/casebook/internal/domain"
	"github.com/phrazzld/casebook/internal/store"
)

// cachedLookup is what the cache holds for a key: the entry, or the
// not-found error when the key has no entry.
type cachedLookup struct {
	entry *domain.ConfigEntry
	err   error
}

// CachedStore is a store.ConfigStore that serves FindByKey from a TTL cache
// and forwards everything else. Writes made through it drop the affected
// keys; a transaction drops the whole cache when it finishes. Writes made
// by other processes become visible once the TTL lapses.
//
// A lookup that overlaps a write through the store is returned but not
// cached, so a miss read before a Create cannot outlive it.
type CachedStore struct {
	store.ConfigStore
	cache *ttlcache.Cache[string, cachedLookup]

	// mu orders cache fills against invalidation. epoch counts whole-cache
	// drops; generations counts writes per key.
	mu          sync.Mutex
	epoch       uint64
	generations map[string]uint64
}

var _ store.ConfigStore = (*CachedStore)(nil)

// NewCachedStore wraps inner with a read-through cache whose entries live
// for ttl.
func NewCachedStore(inner store.ConfigStore, ttl time.Duration) *CachedStore {
	return &CachedStore{
		ConfigStore: inner,
		cache: ttlcache.New[string, cachedLookup](
			ttlcache.WithTTL[string, cachedLookup](ttl),
			ttlcache.WithDisableTouchOnHit[string, cachedLookup](),
		),
		generations: make(map[string]uint64),
	}
}

// FindByKey implements store.ConfigStore. Found entries and not-found
// results are cached; other errors are returned without being cached.
func (c *CachedStore) FindByKey(ctx context.Context, key string) (*domain.ConfigEntry, error) {
	var (
		loadErr  error
		uncached *cachedLookup
	)
	loader := ttlcache.LoaderFunc[string, cachedLookup](
		func(cache *ttlcache.Cache[string, cachedLookup], key string) *ttlcache.Item[string, cachedLookup] {
			epoch, generation := c.version(key)

			entry, err := c.ConfigStore.FindByKey(ctx, key)
			if err != nil && !store.IsNotFoundError(err) {
				loadErr = err
				return nil
			}
			result := cachedLookup{entry: entry, err: err}

			c.mu.Lock()
			defer c.mu.Unlock()
			if c.epoch != epoch || c.generations[key] != generation {
				uncached = &result
				return nil
			}
			return cache.Set(key, result, ttlcache.DefaultTTL)
		},
	)

	var v cachedLookup
	switch item := c.cache.Get(key, ttlcache.WithLoader[string, cachedLookup](loader)); {
	case item != nil:
		v = item.Value()
	case uncached != nil:
		v = *uncached
	default:
		return nil, loadErr
	}

	if v.err != nil {
		return nil, v.err
	}
	clone := *v.entry
	clone.Value.Options = v.entry.Options()
	return &clone, nil
}

// Create implements store.ConfigStore.
func (c *CachedStore) Create(ctx context.Context, entry *domain.ConfigEntry) error {
	defer c.invalidate(entry.Key)
	return c.ConfigStore.Create(ctx, entry)
}

// Update implements store.ConfigStore.
func (c *CachedStore) Update(ctx context.Context, entry *domain.ConfigEntry) error {
	defer c.invalidate(entry.Key)
	return c.ConfigStore.Update(ctx, entry)
}

// DeleteAll implements store.ConfigStore.
func (c *CachedStore) DeleteAll(ctx context.Context) (int, error) {
	defer c.invalidateAll()
	return c.ConfigStore.DeleteAll(ctx)
}

// WithTransaction implements store.ConfigStore. The transaction runs on the
// inner store, bypassing the cache.
func (c *CachedStore) WithTransaction(
	ctx context.Context,
	fn func(ctx context.Context, txStore store.ConfigStore) error,
) error {
	defer c.invalidateAll()
	return c.ConfigStore.WithTransaction(ctx, fn)
}

// Len returns the number of cached keys.
func (c *CachedStore) Len() int {
	return c.cache.Len()
}

func (c *CachedStore) version(key string) (epoch, generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch, c.generations[key]
}

func (c *CachedStore) invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[key]++
	c.cache.Delete(key)
}

func (c *CachedStore) invalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	clear(c.generations)
	c.cache.DeleteAll()
}

// Package snapshotcache keeps the last good accounts and transactions of a user in redis.
package snapshotcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-bank-client/internal/domain"
)

const keyPrefix = "bank:snapshot:"

// Store is the subset of the redis client used by ViewCache.
type Store interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

// Connect returns a redis client for addr after a successful ping.
func Connect(ctx context.Context, addr string) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return rdb, nil
}

// ViewCache is a JSON-backed redis cache bound to the value type T.
// A zero ttl stores keys without expiration.
type ViewCache[T any] struct {
	store Store
	ttl   time.Duration
}

// NewViewCache creates a ViewCache backed by store.
func NewViewCache[T any](store Store, ttl time.Duration) *ViewCache[T] {
	return &ViewCache[T]{store: store, ttl: ttl}
}

// Get returns the value under key. Misses and undecodable values report false.
func (c *ViewCache[T]) Get(ctx context.Context, key string) (*T, bool) {
	data, err := c.store.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("cache read failed")
		}

		return nil, false
	}

	var v T
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("cache entry is corrupt")
		return nil, false
	}

	return &v, true
}

// Set stores value under key. Write errors are logged, not returned.
func (c *ViewCache[T]) Set(ctx context.Context, key string, value *T) {
	data, err := json.Marshal(value)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("key", key).Msg("cache marshal failed")
		return
	}

	if err := c.store.Set(ctx, key, data, c.ttl).Err(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// Delete removes key.
func (c *ViewCache[T]) Delete(ctx context.Context, key string) {
	if err := c.store.Del(ctx, key).Err(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("cache delete failed")
	}
}

// Snapshot is the last full refresh of one user.
type Snapshot struct {
	Accounts     []domain.Account     `json:"accounts"`
	Transactions []domain.Transaction `json:"transactions"`
	SavedAt      time.Time            `json:"saved_at"`
}

// Cache stores snapshots per user.
type Cache struct {
	views *ViewCache[Snapshot]
}

// New returns a snapshot cache with entries expiring after ttl.
func New(store Store, ttl time.Duration) *Cache {
	return &Cache{views: NewViewCache[Snapshot](store, ttl)}
}

// Key returns the redis key of the snapshot of user.
func Key(user string) string {
	return keyPrefix + user
}

// Save stores snap for user.
func (c *Cache) Save(ctx context.Context, user string, snap Snapshot) {
	c.views.Set(ctx, Key(user), &snap)
}

// Load returns the stored snapshot of user.
func (c *Cache) Load(ctx context.Context, user string) (Snapshot, bool) {
	snap, ok := c.views.Get(ctx, Key(user))
	if !ok {
		return Snapshot{}, false
	}

	return *snap, true
}

// Clear removes the snapshot of user.
func (c *Cache) Clear(ctx context.Context, user string) {
	c.views.Delete(ctx, Key(user))
}

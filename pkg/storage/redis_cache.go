package storage

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/matst80/kitchen-catalog/pkg/types"
	"github.com/redis/go-redis/v9"
)

type Cache interface {
	Get(ctx context.Context, key string, out any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

type localEntry struct {
	expires time.Time
	data    []byte
}

// RedisCache stores JSON values in redis with a short-lived local copy in front.
type RedisCache struct {
	Addr     string
	DB       int
	client   *redis.Client
	mu       sync.Mutex
	memCache map[string]localEntry
	localTTL time.Duration
}

func NewRedisCache(addr, password string, db int) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisCache{
		Addr:     addr,
		DB:       db,
		client:   rdb,
		memCache: make(map[string]localEntry),
		localTTL: time.Minute,
	}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string, out any) error {
	c.mu.Lock()
	local, found := c.memCache[key]
	if found && time.Now().After(local.expires) {
		delete(c.memCache, key)
		found = false
	}
	c.mu.Unlock()
	if found {
		return sonic.Unmarshal(local.data, out)
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if err = sonic.Unmarshal(data, out); err != nil {
		return err
	}
	c.remember(key, data, c.localTTL)
	return nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	data, err := sonic.Marshal(value)
	if err != nil {
		return err
	}
	c.remember(key, data, min(expiration, c.localTTL))
	return c.client.Set(ctx, key, data, expiration).Err()
}

func (c *RedisCache) remember(key string, data []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.memCache[key] = localEntry{expires: time.Now().Add(ttl), data: data}
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

const CatalogCacheKey = "catalog:items"

// CachedSource answers from the cache when it can and fills it from the
// wrapped source otherwise. Cache failures never fail the load.
type CachedSource struct {
	Source Source
	Cache  Cache
	Key    string
	TTL    time.Duration
}

func NewCachedSource(src Source, cache Cache, ttl time.Duration) *CachedSource {
	return &CachedSource{Source: src, Cache: cache, Key: CatalogCacheKey, TTL: ttl}
}

func (c *CachedSource) Name() string {
	return "cached-" + c.Source.Name()
}

func (c *CachedSource) Items(ctx context.Context) ([]types.CatalogItem, error) {
	items := make([]types.CatalogItem, 0)
	err := c.Cache.Get(ctx, c.Key, &items)
	if err == nil && len(items) > 0 {
		return items, nil
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		log.Printf("catalog cache read failed: %v", err)
	}

	items, err = c.Source.Items(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.Cache.Set(ctx, c.Key, items, c.TTL); err != nil {
		log.Printf("catalog cache write failed: %v", err)
	}
	return items, nil
}

// Store replaces the cached catalog, used when a new collection is pushed.
func (c *CachedSource) Store(ctx context.Context, items []types.CatalogItem) error {
	return c.Cache.Set(ctx, c.Key, items, c.TTL)
}

package fetcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jmylchreest/soccer-rosters/internal/logger"
)

// Cache stores fetched pages by key.
type Cache interface {
	// Get returns the stored page, or ok=false on a miss.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
}

// CachingFetcher serves repeated fetches of the same URL from a Cache. Only
// successful fetches are stored. Cache errors are logged and the page is
// fetched as if the cache were absent.
type CachingFetcher struct {
	next  Fetcher
	cache Cache
	ttl   time.Duration
}

// NewCaching wraps next with a page cache.
func NewCaching(next Fetcher, cache Cache, ttl time.Duration) *CachingFetcher {
	return &CachingFetcher{next: next, cache: cache, ttl: ttl}
}

// Fetch returns the cached page for url or fetches and stores it.
func (f *CachingFetcher) Fetch(ctx context.Context, url string, opts Options) (Content, error) {
	key := CacheKey(f.next.Type(), url)

	data, ok, err := f.cache.Get(ctx, key)
	switch {
	case err != nil:
		logger.Warn("page cache read failed", "url", url, "error", err)
	case ok:
		var c Content
		if err := json.Unmarshal(data, &c); err == nil {
			logger.Debug("page cache hit", "url", url)
			c.Cached = true
			return c, nil
		}
		logger.Debug("discarding unreadable cache entry", "url", url)
	}

	content, err := f.next.Fetch(ctx, url, opts)
	if err != nil {
		return content, err
	}

	if data, err := json.Marshal(content); err == nil {
		if err := f.cache.Set(ctx, key, data, f.ttl); err != nil {
			logger.Warn("page cache write failed", "url", url, "error", err)
		}
	}
	return content, nil
}

// Close closes the wrapped fetcher.
func (f *CachingFetcher) Close() error {
	return f.next.Close()
}

// Type returns the wrapped fetcher type.
func (f *CachingFetcher) Type() string {
	return f.next.Type()
}

// CacheKey derives the cache key for a page. Pages rendered by different
// fetchers are cached apart.
func CacheKey(fetcherType, url string) string {
	sum := sha256.Sum256([]byte(url))
	return fmt.Sprintf("rosters:page:%s:%s", fetcherType, hex.EncodeToString(sum[:16]))
}

// RedisCache is a Cache backed by Redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to the Redis server at redisURL
// (redis://[:password@]host:port/db) and checks it responds.
func NewRedisCache(ctx context.Context, redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &RedisCache{client: client}, nil
}

// NewRedisCacheFromClient wraps an existing client.
func NewRedisCacheFromClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get returns the page stored under key.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores a page under key for ttl. A zero ttl never expires.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, data, ttl).Err()
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

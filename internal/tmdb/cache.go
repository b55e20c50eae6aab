package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "tmdb:search:"

// ErrCacheMiss 表示缓存中没有对应的键
var ErrCacheMiss = errors.New("cache miss")

// Cache 是搜索结果缓存的最小接口
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisCache 用Redis实现 Cache
type RedisCache struct {
	rdb *redis.Client
}

func NewRedisCache(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return b, err
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

// CachedSearcher 在上游搜索前先查缓存。缓存不可用时直接访问上游，错误结果不缓存。
type CachedSearcher struct {
	next  Searcher
	cache Cache
	ttl   time.Duration
}

func NewCachedSearcher(next Searcher, cache Cache, ttl time.Duration) *CachedSearcher {
	return &CachedSearcher{next: next, cache: cache, ttl: ttl}
}

func cacheKey(query string) string {
	return cacheKeyPrefix + strings.ToLower(strings.TrimSpace(query))
}

func (s *CachedSearcher) Search(ctx context.Context, query string) ([]Result, error) {
	key := cacheKey(query)

	cached, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		var results []Result
		if jsonErr := json.Unmarshal(cached, &results); jsonErr == nil {
			return results, nil
		}
		slog.Warn("搜索缓存内容无法解析，忽略", "key", key)
	case !errors.Is(err, ErrCacheMiss):
		slog.Warn("读取搜索缓存失败", "key", key, "error", err)
	}

	results, err := s.next.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	if payload, jsonErr := json.Marshal(results); jsonErr == nil {
		if setErr := s.cache.Set(ctx, key, payload, s.ttl); setErr != nil {
			slog.Warn("写入搜索缓存失败", "key", key, "error", setErr)
		}
	}
	return results, nil
}

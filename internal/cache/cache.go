// Package cache holds remote catalog lookups in Redis so repeated rentals of
// the same title do not re-query OpenLibrary. The cache is best-effort: any
// Redis failure degrades to a miss.
package cache

import (
	"context"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"github.com/AnkitDhruva08/bookrent/internal/domain"
	"github.com/AnkitDhruva08/bookrent/internal/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const bookKeyPrefix = "catalog:title:"

type BookCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBookCache connects to Redis and returns a cache handle. A failed ping
// returns a nil-client cache that misses on every lookup, so the service
// keeps working without Redis.
func NewBookCache(addr, password string, db int, ttl time.Duration) *BookCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unavailable, catalog caching disabled", "addr", addr, "error", err)
		client.Close()
		client = nil
	}

	return &BookCache{client: client, ttl: ttl}
}

func bookKey(title string) string {
	return bookKeyPrefix + strings.ToLower(strings.TrimSpace(title))
}

// Get returns the cached catalog entry for a title, or false on a miss.
func (c *BookCache) Get(ctx context.Context, title string) (*domain.BookInfo, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, bookKey(title)).Bytes()
	if err != nil {
		return nil, false
	}

	var info domain.BookInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, false
	}
	return &info, true
}

// Set stores a catalog entry under the normalized title.
func (c *BookCache) Set(ctx context.Context, title string, info *domain.BookInfo) {
	if c == nil || c.client == nil {
		return
	}

	data, err := json.Marshal(info)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, bookKey(title), data, c.ttl).Err(); err != nil {
		logger.Warn("Failed to cache catalog entry", "title", title, "error", err)
	}
}

func (c *BookCache) Close() {
	if c != nil && c.client != nil {
		c.client.Close()
	}
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// response.go provides a Valkey-backed cache for public API responses.
// Serialized JSON for list and detail reads is stored per collection so
// an admin write can drop every cached variant of that collection at
// once (all pages, all filter combinations).
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// respKeyPrefix is the Valkey key prefix for cached responses.
	respKeyPrefix = "resp:"

	// DefaultResponseTTL is how long a cached response stays valid
	// without an explicit invalidation.
	DefaultResponseTTL = 5 * time.Minute
)

// ResponseCache caches serialized API responses in Valkey, namespaced
// by collection for bulk invalidation.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResponseCache creates a response cache backed by the given Valkey
// client. A zero ttl uses DefaultResponseTTL.
func NewResponseCache(client *redis.Client, ttl time.Duration) *ResponseCache {
	if ttl == 0 {
		ttl = DefaultResponseTTL
	}
	return &ResponseCache{client: client, ttl: ttl}
}

// Key builds the cache key for a request: the collection namespace plus
// the request path and raw query, so every filter/page combination is
// cached separately.
func Key(collection, pathAndQuery string) string {
	return collection + ":" + pathAndQuery
}

// Get retrieves a cached response body. Cache errors degrade to a miss.
func (rc *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := rc.client.Get(ctx, respKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("response cache get error", "key", key, "error", err)
		return nil, false
	}
	return val, true
}

// Set stores a response body with the configured TTL.
func (rc *ResponseCache) Set(ctx context.Context, key string, body []byte) {
	if err := rc.client.Set(ctx, respKeyPrefix+key, body, rc.ttl).Err(); err != nil {
		slog.Warn("response cache set error", "key", key, "error", err)
	}
}

// InvalidateCollection removes every cached response for a collection
// by scanning the namespace. Called after any write to that collection.
func (rc *ResponseCache) InvalidateCollection(ctx context.Context, collection string) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := rc.client.Scan(ctx, cursor, respKeyPrefix+collection+":*", 100).Result()
		if err != nil {
			slog.Warn("response cache scan error", "collection", collection, "error", err)
			return
		}
		if len(keys) > 0 {
			if err := rc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("response cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("response cache invalidated", "collection", collection, "deleted", deleted)
	}
}

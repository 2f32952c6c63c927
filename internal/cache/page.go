// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// page.go provides a Valkey-backed cache for composed storefront pages.
// When the public endpoint assembles a template's sections and block trees,
// the resulting JSON is stored so subsequent shopper requests skip the DB
// queries entirely. Any editor mutation invalidates the owning shop's pages.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// pageKeyPrefix is the Valkey key prefix for cached storefront pages.
	pageKeyPrefix = "page:"

	// DefaultPageTTL is how long a composed page stays cached.
	DefaultPageTTL = 5 * time.Minute
)

// PageCache manages composed-page JSON caching in Valkey.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache creates a new page cache backed by the given Valkey client.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl == 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl}
}

// PageKey returns the cache key for a shop's page of the given template type.
func PageKey(shopID uuid.UUID, templateType string) string {
	return shopID.String() + ":" + templateType
}

// Get retrieves a cached page. Returns false on miss.
func (pc *PageCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if pc == nil || pc.client == nil {
		return nil, false
	}
	val, err := pc.client.Get(ctx, pageKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("page cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("page cache hit", "key", key)
	return val, true
}

// Set stores a composed page for a key with the configured TTL.
func (pc *PageCache) Set(ctx context.Context, key string, body []byte) {
	if pc == nil || pc.client == nil {
		return
	}
	if err := pc.client.Set(ctx, pageKeyPrefix+key, body, pc.ttl).Err(); err != nil {
		slog.Warn("page cache set error", "key", key, "error", err)
	}
}

// InvalidateShop removes every cached page belonging to a shop. Called
// after any editor mutation, since blocks can appear on any of its pages.
func (pc *PageCache) InvalidateShop(ctx context.Context, shopID uuid.UUID) {
	if pc == nil || pc.client == nil {
		return
	}
	pattern := pageKeyPrefix + shopID.String() + ":*"

	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := pc.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			slog.Warn("page cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("page cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("page cache invalidated", "shop_id", shopID, "deleted", deleted)
	}
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// feed.go provides a Valkey-backed cache for the anonymous published
// feed. Signed-in viewers never read from it (their viewer_has_liked
// flags are personal), and every post or like mutation invalidates it,
// so reads stay store-derived.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// feedKey is the Valkey key holding the serialized anonymous feed.
	feedKey = "feed:anonymous"

	// DefaultFeedTTL bounds staleness even if an invalidation is missed.
	DefaultFeedTTL = 5 * time.Minute
)

// FeedCache stores the JSON-encoded anonymous feed in Valkey.
type FeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFeedCache creates a feed cache backed by the given Valkey client.
func NewFeedCache(client *redis.Client, ttl time.Duration) *FeedCache {
	if ttl == 0 {
		ttl = DefaultFeedTTL
	}
	return &FeedCache{client: client, ttl: ttl}
}

// Get retrieves the cached feed payload. Returns (nil, false) on miss.
func (fc *FeedCache) Get(ctx context.Context) ([]byte, bool) {
	val, err := fc.client.Get(ctx, feedKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("feed cache get error", "error", err)
		return nil, false
	}
	slog.Debug("feed cache hit")
	return val, true
}

// Set stores the serialized feed with the configured TTL.
func (fc *FeedCache) Set(ctx context.Context, payload []byte) {
	if err := fc.client.Set(ctx, feedKey, payload, fc.ttl).Err(); err != nil {
		slog.Warn("feed cache set error", "error", err)
	}
}

// Invalidate drops the cached feed. Called after every post or like
// mutation so the next anonymous read comes from the store.
func (fc *FeedCache) Invalidate(ctx context.Context) {
	if err := fc.client.Del(ctx, feedKey).Err(); err != nil {
		slog.Warn("feed cache invalidate error", "error", err)
	}
	slog.Debug("feed cache invalidated")
}

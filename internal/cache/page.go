// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	// pageKeyPrefix is the Valkey key prefix for cached pages.
	pageKeyPrefix = "page:"

	// DefaultPageTTL is how long a rendered page stays cached.
	DefaultPageTTL = 2 * time.Minute
)

// PageCache stores rendered HTML of anonymous public pages. A nil
// *PageCache is valid and caches nothing.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache creates a new page cache backed by the given Valkey client.
// A nil client yields a nil cache.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl}
}

// Get retrieves cached HTML for a page key.
func (pc *PageCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if pc == nil {
		return nil, false
	}
	val, err := pc.client.Get(ctx, pageKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("page cache get error")
		return nil, false
	}
	return val, true
}

// Set stores rendered HTML for a page key with the configured TTL.
func (pc *PageCache) Set(ctx context.Context, key string, html []byte) {
	if pc == nil {
		return
	}
	if err := pc.client.Set(ctx, pageKeyPrefix+key, html, pc.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("page cache set error")
	}
}

// InvalidateArticle drops the cached article page so the next read shows
// newly posted comments.
func (pc *PageCache) InvalidateArticle(ctx context.Context, articleID string) {
	if pc == nil {
		return
	}
	key := ArticleKey(articleID)
	if err := pc.client.Del(ctx, pageKeyPrefix+key).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("page cache invalidate error")
		return
	}
	log.Debug().Str("key", key).Msg("page cache invalidated")
}

// InvalidateListings drops every cached listing page. Used after an
// article is published.
func (pc *PageCache) InvalidateListings(ctx context.Context) {
	pc.invalidatePattern(ctx, pageKeyPrefix+"list:*")
}

// InvalidateAll removes all cached pages.
func (pc *PageCache) InvalidateAll(ctx context.Context) {
	pc.invalidatePattern(ctx, pageKeyPrefix+"*")
}

func (pc *PageCache) invalidatePattern(ctx context.Context, pattern string) {
	if pc == nil {
		return
	}
	var cursor uint64
	var deleted int
	for {
		keys, next, err := pc.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			log.Warn().Err(err).Msg("page cache scan error")
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				log.Warn().Err(err).Msg("page cache bulk delete error")
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		log.Info().Int("deleted", deleted).Str("pattern", pattern).Msg("page cache cleared")
	}
}

// ListingKey returns the cache key for a listing page. category is "" for
// the home page.
func ListingKey(category string, page int) string {
	if category == "" {
		category = "all"
	}
	return "list:" + category + ":" + strconv.Itoa(page)
}

// ArticleKey returns the cache key for an article page.
func ArticleKey(id string) string {
	return "article:" + id
}

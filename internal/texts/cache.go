package texts

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"campusbot/core/logger"
)

// CachedStore layers a Redis read-through cache over a template store.
// Templates change rarely and are read on every render, so even a short TTL
// removes almost all database traffic. Redis being down degrades to direct
// reads, never to failures.
type CachedStore struct {
	next Store
	rdb  *redis.Client
	ttl  time.Duration
	log  *slog.Logger
}

func NewCachedStore(next Store, rdb *redis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{
		next: next,
		rdb:  rdb,
		ttl:  ttl,
		log:  logger.SVCTexts,
	}
}

func (c *CachedStore) TextByName(ctx context.Context, name string, isButton bool) (string, bool, error) {
	key := cacheKey(name, isButton)
	if cached, err := c.rdb.Get(ctx, key).Result(); err == nil {
		logger.LogEvent(ctx, c.log, slog.LevelDebug, "texts.cache",
			slog.String("cache", "hit"),
			slog.String("template", name),
		)
		return cached, true, nil
	} else if !errors.Is(err, redis.Nil) {
		logger.LogEvent(ctx, c.log, slog.LevelWarn, "texts.cache.failed",
			slog.String("status", "fail"),
			slog.String("template", name),
			slog.String("err", err.Error()),
		)
	}

	text, found, err := c.next.TextByName(ctx, name, isButton)
	if err != nil || !found || text == "" {
		return text, found, err
	}
	if err := c.rdb.Set(ctx, key, text, c.ttl).Err(); err != nil {
		logger.LogEvent(ctx, c.log, slog.LevelWarn, "texts.cache.failed",
			slog.String("status", "fail"),
			slog.String("template", name),
			slog.String("err", err.Error()),
		)
	}
	return text, true, nil
}

func cacheKey(name string, isButton bool) string {
	if isButton {
		return "text:btn:" + name
	}
	return "text:msg:" + name
}

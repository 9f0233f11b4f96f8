package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// MenuCache keeps menu payloads in Redis under a generation number. Every admin write bumps the
// generation, which orphans all cached payloads at once, combos that embed a changed item
// included. Orphans age out on the TTL. A nil cache or client disables caching.
type MenuCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewMenuCache(client *redis.Client, ttl time.Duration) *MenuCache {
	return &MenuCache{client: client, ttl: ttl, prefix: "catalog"}
}

func (c *MenuCache) enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

func (c *MenuCache) genKey() string { return c.prefix + ":gen" }

func (c *MenuCache) key(ctx context.Context, name string) (string, error) {
	gen, err := c.client.Get(ctx, c.genKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("%s:%d:%s", c.prefix, gen, name), nil
}

// Load decodes the cached payload for name into dst and reports a hit. Redis errors count as
// misses so the menu is served from Postgres.
func (c *MenuCache) Load(ctx context.Context, name string, dst any) bool {
	if !c.enabled() {
		return false
	}
	key, err := c.key(ctx, name)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("menu cache generation unreadable")
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("menu cache read failed")
		}
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

func (c *MenuCache) Store(ctx context.Context, name string, v any) {
	if !c.enabled() {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	key, err := c.key(ctx, name)
	if err == nil {
		err = c.client.Set(ctx, key, data, c.ttl).Err()
	}
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("name", name).Msg("menu cache write failed")
	}
}

// Bump starts a new generation.
func (c *MenuCache) Bump(ctx context.Context) {
	if !c.enabled() {
		return
	}
	if err := c.client.Incr(ctx, c.genKey()).Err(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("menu cache invalidation failed")
	}
}

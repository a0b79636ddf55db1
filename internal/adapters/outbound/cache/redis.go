package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const resolutionKeyPrefix = "os:number:"

// ConnectRedis parses url and pings the server once.
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opt.MaxRetries = 3

	client := redis.NewClient(opt)

	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctxPing).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// ResolutionRedis shares number -> key mappings between replicas. Redis
// errors are logged and reported as misses so resolution falls through to
// the database.
type ResolutionRedis struct {
	client *redis.Client
	ttl    time.Duration
	log    *slog.Logger
	stats  *Stats
}

func NewResolutionRedis(client *redis.Client, ttl time.Duration, log *slog.Logger) *ResolutionRedis {
	return &ResolutionRedis{
		client: client,
		ttl:    ttl,
		log:    log.With(slog.String("component", "resolution_cache")),
		stats:  NewStats(),
	}
}

func (c *ResolutionRedis) Get(ctx context.Context, number string) (string, bool) {
	id, err := c.client.Get(ctx, resolutionKeyPrefix+number).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.WarnContext(ctx, "redis get failed", slog.String("number", number), slog.String("error", err.Error()))
		}
		c.stats.IncMiss()
		return "", false
	}
	c.stats.IncHit()
	return id, true
}

func (c *ResolutionRedis) Set(ctx context.Context, number, id string) {
	if err := c.client.Set(ctx, resolutionKeyPrefix+number, id, c.ttl).Err(); err != nil {
		c.log.WarnContext(ctx, "redis set failed", slog.String("number", number), slog.String("error", err.Error()))
	}
}

func (c *ResolutionRedis) Delete(ctx context.Context, number string) {
	if err := c.client.Del(ctx, resolutionKeyPrefix+number).Err(); err != nil {
		c.log.WarnContext(ctx, "redis del failed", slog.String("number", number), slog.String("error", err.Error()))
	}
}

func (c *ResolutionRedis) Stats() *Stats { return c.stats }

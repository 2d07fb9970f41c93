package like

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache holds authoritative like counts keyed by post.
type Cache interface {
	Get(ctx context.Context, postID string) (int64, bool, error)
	Set(ctx context.Context, postID string, n int64) error
	Del(ctx context.Context, postID string) error
}

type redisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client) Cache {
	return &redisCache{rdb: rdb, ttl: 24 * time.Hour}
}

func likeKey(postID string) string { return fmt.Sprintf("likes:%s", postID) }

func (c *redisCache) Get(ctx context.Context, postID string) (int64, bool, error) {
	n, err := c.rdb.Get(ctx, likeKey(postID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

func (c *redisCache) Set(ctx context.Context, postID string, n int64) error {
	return c.rdb.Set(ctx, likeKey(postID), n, c.ttl).Err()
}

func (c *redisCache) Del(ctx context.Context, postID string) error {
	return c.rdb.Del(ctx, likeKey(postID)).Err()
}

package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "helpdesk:cooldown:"

// RedisStore shares cooldowns between bot instances. The key expiry is the
// cooldown itself, so the Redis server clock decides when it ends.
type RedisStore struct {
	client redis.Cmdable
	prefix string
}

func NewRedisStore(client redis.Cmdable, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) Reserve(ctx context.Context, userID int64, now time.Time, cooldown time.Duration) (bool, time.Duration, error) {
	key := r.key(userID)
	ok, err := r.client.SetNX(ctx, key, now.UnixMilli(), cooldown).Result()
	if err != nil {
		return false, 0, err
	}
	if ok {
		return true, 0, nil
	}

	ttl, err := r.client.PTTL(ctx, key).Result()
	if err != nil {
		return false, 0, err
	}
	if ttl < 0 {
		// Expired between the two calls.
		ttl = 0
	}
	return false, ttl, nil
}

func (r *RedisStore) key(userID int64) string {
	return fmt.Sprintf("%s%d", r.prefix, userID)
}

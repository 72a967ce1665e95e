package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter counts submissions per actor in a fixed window. The key
// expires with the window, so abandoned actors cost nothing.
type RedisLimiter struct {
	client *redis.Client
	max    int64
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, max int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, max: int64(max), window: window}
}

// TooFrequent increments the actor's window counter and reports whether it
// exceeded the allowance. The increment counts the current attempt, so the
// first call inside a fresh window always passes.
func (l *RedisLimiter) TooFrequent(ctx context.Context, actorID string) (bool, error) {
	key := fmt.Sprintf("claim_submissions:%s", actorID)

	pipe := l.client.TxPipeline()
	count := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	return count.Val() > l.max, nil
}

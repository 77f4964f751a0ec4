package middleware

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// InitRedisRateLimiter sets the shared Redis client for limiters built
// afterwards. A nil client keeps the in-memory fallback.
func InitRedisRateLimiter(client *redis.Client) {
	redisClient = client
}

// redisCounter is a fixed-window counter using INCR/EXPIRE.
type redisCounter struct {
	client *redis.Client
}

func (r redisCounter) incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	val, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if val == 1 {
		r.client.Expire(ctx, key, window)
	}
	return val, nil
}

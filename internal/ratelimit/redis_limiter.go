package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/caseguard/caseguard/internal/errors"
)

// fixedWindowScript counts a hit and starts the window on the first one. It returns the hit
// count and the remaining window in milliseconds.
var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("PTTL", KEYS[1])}
`)

// RedisLimiter shares limits across instances with a fixed window counter per key. The
// window admits Burst requests and lasts Burst/RequestsPerSec seconds.
type RedisLimiter struct {
	client redis.Scripter
	config Config
	prefix string
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	result, err := fixedWindowScript.Run(
		ctx,
		l.client,
		[]string{l.prefix + key},
		l.config.window().Milliseconds(),
	).Int64Slice()
	if err != nil {
		return Decision{}, apperrors.Unavailable(err, "failed to check rate limit")
	}

	count, ttl := result[0], time.Duration(result[1])*time.Millisecond
	if count <= int64(l.config.Burst) {
		return Decision{Allowed: true}, nil
	}
	return Decision{Allowed: false, RetryAfter: ttl}, nil
}

// NewRedisLimiter creates a Redis-backed limiter. Keys are stored under prefix.
func NewRedisLimiter(client redis.Scripter, config Config, prefix string) *RedisLimiter {
	return &RedisLimiter{client: client, config: config, prefix: prefix}
}

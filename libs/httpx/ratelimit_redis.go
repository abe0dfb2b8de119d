package httpx

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter shares fixed windows between instances through Redis.
type RedisRateLimiter struct {
	rdb    redis.Scripter
	limit  int64
	window time.Duration
	prefix string
}

// INCR then arm the expiry on the first hit, atomically.
var fixedWindow = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

func NewRedisRateLimiter(rdb redis.Scripter, limit int, per time.Duration, prefix string) *RedisRateLimiter {
	if limit <= 0 {
		limit = 60
	}
	if per < time.Millisecond {
		per = time.Minute
	}
	if prefix = strings.TrimSpace(prefix); prefix == "" {
		prefix = "rl"
	}
	return &RedisRateLimiter{rdb: rdb, limit: int64(limit), window: per, prefix: prefix}
}

func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	n, err := fixedWindow.Run(ctx, rl.rdb, []string{rl.prefix + ":" + key}, rl.window.Milliseconds()).Int64()
	if err != nil {
		return false, err
	}
	return n <= rl.limit, nil
}

package verification

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// slidingWindow trims, counts, and records in one script so concurrent
// callers cannot all pass the count check and overshoot the budget.
// KEYS[1] window set, ARGV: now-ms, window-ms, limit, member.
var slidingWindow = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], 0, tonumber(ARGV[1]) - tonumber(ARGV[2]))
if redis.call('ZCARD', KEYS[1]) >= tonumber(ARGV[3]) then
	return 0
end
redis.call('ZADD', KEYS[1], ARGV[1], ARGV[4])
redis.call('PEXPIRE', KEYS[1], ARGV[2])
return 1
`)

// RedisLimiter is the shared-store sliding window: a sorted set of request
// timestamps per key, trimmed on every call. Horizontal replicas see the
// same counters, so scaling out does not reset limits per instance.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	seq    atomic.Int64 // member tiebreak for same-millisecond requests
}

func NewRedisLimiter(client *redis.Client, prefix string) *RedisLimiter {
	if prefix == "" {
		prefix = "rl"
	}
	return &RedisLimiter{client: client, prefix: prefix}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if l.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}

	nowMs := time.Now().UnixMilli()
	rkey := fmt.Sprintf("%s:%s", l.prefix, key)
	member := strconv.FormatInt(nowMs, 10) + "-" + strconv.FormatInt(l.seq.Add(1), 10)

	res, err := slidingWindow.Run(ctx, l.client,
		[]string{rkey},
		nowMs, window.Milliseconds(), limit, member,
	).Int()
	if err != nil {
		return false, fmt.Errorf("rate limit script: %w", err)
	}

	return res == 1, nil
}

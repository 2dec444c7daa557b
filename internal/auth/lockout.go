package auth

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockoutPolicy counts failed logins and locks accounts after too many.
type LockoutPolicy interface {
	IsLocked(ctx context.Context, key string) (bool, error)
	// RecordFailure counts a failure and reports whether the account is now locked.
	RecordFailure(ctx context.Context, key string) (bool, error)
	Clear(ctx context.Context, key string) error
}

// NoopLockout never locks.
type NoopLockout struct{}

func (NoopLockout) IsLocked(context.Context, string) (bool, error)      { return false, nil }
func (NoopLockout) RecordFailure(context.Context, string) (bool, error) { return false, nil }
func (NoopLockout) Clear(context.Context, string) error                 { return nil }

// RedisLockout locks an account for Duration once Threshold failures occur, each
// within Window of the previous one. Counters and locks live in Redis so every
// instance shares them.
type RedisLockout struct {
	client    *redis.Client
	threshold int64
	window    time.Duration
	duration  time.Duration
	prefix    string
}

// AccountKey is the lockout key of a resolved account. Counting per account keeps
// the username and email of one user on a single counter.
func AccountKey(userID string) string { return "user:" + userID }

// NewRedisLockout builds a Redis-backed policy.
func NewRedisLockout(client *redis.Client, threshold int, window, duration time.Duration) *RedisLockout {
	return &RedisLockout{
		client:    client,
		threshold: int64(threshold),
		window:    window,
		duration:  duration,
		prefix:    "hrms:login",
	}
}

func (l *RedisLockout) failKey(key string) string { return l.prefix + ":fail:" + normalizeKey(key) }
func (l *RedisLockout) lockKey(key string) string { return l.prefix + ":lock:" + normalizeKey(key) }

// IsLocked implements LockoutPolicy.
func (l *RedisLockout) IsLocked(ctx context.Context, key string) (bool, error) {
	n, err := l.client.Exists(ctx, l.lockKey(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RecordFailure implements LockoutPolicy.
func (l *RedisLockout) RecordFailure(ctx context.Context, key string) (bool, error) {
	pipe := l.client.Pipeline()
	incr := pipe.Incr(ctx, l.failKey(key))
	pipe.Expire(ctx, l.failKey(key), l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	if incr.Val() < l.threshold {
		return false, nil
	}

	pipe = l.client.TxPipeline()
	pipe.Set(ctx, l.lockKey(key), "1", l.duration)
	pipe.Del(ctx, l.failKey(key))
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Clear implements LockoutPolicy.
func (l *RedisLockout) Clear(ctx context.Context, key string) error {
	return l.client.Del(ctx, l.failKey(key), l.lockKey(key)).Err()
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

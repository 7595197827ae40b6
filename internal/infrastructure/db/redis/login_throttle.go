package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxAttempts = 5
	defaultLockout     = 15 * time.Minute
)

// LoginThrottle counts failed logins per username in Redis.
// Key format: login:fail:<username>. The counter expires lockout after the
// first failure of a window.
type LoginThrottle struct {
	client      *redis.Client
	maxAttempts int64
	lockout     time.Duration
}

// NewLoginThrottle creates a LoginThrottle. Non-positive limits fall back to
// 5 attempts per 15 minutes.
func NewLoginThrottle(client *redis.Client, maxAttempts int, lockout time.Duration) *LoginThrottle {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if lockout <= 0 {
		lockout = defaultLockout
	}
	return &LoginThrottle{client: client, maxAttempts: int64(maxAttempts), lockout: lockout}
}

// Allowed reports whether username is below the failure limit.
func (l *LoginThrottle) Allowed(ctx context.Context, username string) (bool, error) {
	val, err := l.client.Get(ctx, l.key(username)).Result()
	if errors.Is(err, redis.Nil) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("login throttle get: %w", err)
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return false, fmt.Errorf("login throttle parse %q: %w", val, err)
	}
	return n < l.maxAttempts, nil
}

// RecordFailure increments the failure counter, starting the lockout window
// on the first failure. INCR and EXPIRE NX run in one MULTI/EXEC so the key
// never lives without a TTL.
func (l *LoginThrottle) RecordFailure(ctx context.Context, username string) error {
	key := l.key(username)
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, l.lockout)
		return nil
	})
	if err != nil {
		return fmt.Errorf("login throttle record failure: %w", err)
	}
	return nil
}

// Reset clears the failure counter after a successful login.
func (l *LoginThrottle) Reset(ctx context.Context, username string) error {
	return l.client.Del(ctx, l.key(username)).Err()
}

func (l *LoginThrottle) key(username string) string {
	return "login:fail:" + username
}

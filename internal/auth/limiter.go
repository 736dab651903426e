package auth

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LoginLimiter throttles repeated login attempts per email.
type LoginLimiter interface {
	Allow(ctx context.Context, email string) bool
	Reset(ctx context.Context, email string)
}

// counterStore is the subset of *redis.Client the limiter needs.
type counterStore interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisLoginLimiter counts attempts in a fixed window with INCR + EXPIRE.
// Redis failures fail open: logins are never blocked by a cache outage.
type RedisLoginLimiter struct {
	store       counterStore
	maxAttempts int64
	window      time.Duration
	logger      *zap.Logger
}

// NewRedisLoginLimiter builds a limiter. maxAttempts <= 0 disables throttling.
func NewRedisLoginLimiter(store counterStore, maxAttempts int, window time.Duration, logger *zap.Logger) *RedisLoginLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisLoginLimiter{store: store, maxAttempts: int64(maxAttempts), window: window, logger: logger}
}

func (l *RedisLoginLimiter) Allow(ctx context.Context, email string) bool {
	if l == nil || l.store == nil || l.maxAttempts <= 0 {
		return true
	}
	key := attemptKey(email)
	count, err := l.store.Incr(ctx, key).Result()
	if err != nil {
		l.logger.Warn("login limiter unavailable", zap.Error(err))
		return true
	}
	if count == 1 && l.window > 0 {
		if err := l.store.Expire(ctx, key, l.window).Err(); err != nil {
			l.logger.Warn("login limiter expire failed", zap.Error(err))
		}
	}
	return count <= l.maxAttempts
}

func (l *RedisLoginLimiter) Reset(ctx context.Context, email string) {
	if l == nil || l.store == nil {
		return
	}
	if err := l.store.Del(ctx, attemptKey(email)).Err(); err != nil {
		l.logger.Warn("login limiter reset failed", zap.Error(err))
	}
}

func attemptKey(email string) string {
	return "login:attempts:" + strings.ToLower(strings.TrimSpace(email))
}

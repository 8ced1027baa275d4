// Package ratelimit provides a Redis-backed sliding-window limiter for the
// HTTP facade.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Config bounds requests per client key within a rolling window.
type Config struct {
	Limit  int64
	Window time.Duration
}

// Limiter implements sliding-window rate limiting over Redis sorted sets.
type Limiter struct {
	redis  *redis.Client
	config Config
	logger *zap.Logger
}

func NewLimiter(redis *redis.Client, config Config, logger *zap.Logger) *Limiter {
	if config.Window <= 0 {
		config.Window = time.Minute
	}
	return &Limiter{redis: redis, config: config, logger: logger}
}

// CheckResult reports one rate limit decision.
type CheckResult struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// Check records one request for key and reports whether it is allowed.
// Redis failures fail open.
func (l *Limiter) Check(ctx context.Context, key string) *CheckResult {
	if l.config.Limit <= 0 {
		return &CheckResult{Allowed: true, Remaining: -1}
	}

	redisKey := "ratelimit:" + key
	now := time.Now()
	windowStart := now.Add(-l.config.Window)

	pipe := l.redis.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", windowStart.UnixNano()))
	countCmd := pipe.ZCount(ctx, redisKey, fmt.Sprintf("%d", windowStart.UnixNano()), "+inf")
	pipe.ZAdd(ctx, redisKey, &redis.Z{Score: float64(now.UnixNano()), Member: now.UnixNano()})
	pipe.Expire(ctx, redisKey, l.config.Window*2)

	if _, err := pipe.Exec(ctx); err != nil {
		l.logger.Warn("Rate limit check failed, allowing request", zap.Error(err), zap.String("key", key))
		return &CheckResult{Allowed: true, Remaining: -1}
	}

	count := countCmd.Val()
	remaining := l.config.Limit - count - 1
	if remaining < 0 {
		remaining = 0
	}

	return &CheckResult{
		Allowed:    count < l.config.Limit,
		Remaining:  remaining,
		RetryAfter: l.config.Window,
	}
}

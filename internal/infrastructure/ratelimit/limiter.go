package ratelimit

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Result is the outcome of a limiter check
type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter is a Redis-backed sliding-window rate limiter. Each identity gets
// a sorted set of request timestamps; entries older than the window are
// pruned before counting. The limiter fails OPEN: if Redis is unreachable
// the request is allowed, because dropping traffic on a cache outage is
// worse than briefly losing the limit.
type Limiter struct {
	client *redis.Client
	logger *zap.Logger
	prefix string
	window time.Duration
	max    int
}

// New creates a named limiter. The prefix keeps different endpoint classes
// (auth, api, global, user) in separate keyspaces.
func New(client *redis.Client, logger *zap.Logger, prefix string, cfg config.LimiterConfig) *Limiter {
	return &Limiter{
		client: client,
		logger: logger,
		prefix: prefix,
		window: cfg.Window,
		max:    cfg.MaxRequests,
	}
}

// Check records a request for identity and reports whether it is allowed.
// When the limit is hit the request is NOT recorded, so a client that backs
// off recovers as soon as old entries slide out of the window.
func (l *Limiter) Check(ctx context.Context, identity string) Result {
	key := fmt.Sprintf("ratelimit:%s:%s", l.prefix, identity)
	now := time.Now()
	windowStart := now.Add(-l.window)

	pipe := l.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key,
		"0", fmt.Sprintf("%d", windowStart.UnixMilli()))
	countCmd := pipe.ZCard(ctx, key)

	if _, err := pipe.Exec(ctx); err != nil {
		l.logger.Warn("rate limiter unavailable, allowing request",
			zap.String("limiter", l.prefix), zap.Error(err))
		return Result{Allowed: true, Remaining: l.max}
	}

	count := int(countCmd.Val())
	if count >= l.max {
		return Result{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: time.Duration(math.Ceil(l.window.Seconds())) * time.Second,
		}
	}

	member := fmt.Sprintf("%d:%s", now.UnixMilli(), uuid.NewString())
	pipe = l.client.TxPipeline()
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixMilli()), Member: member})
	pipe.Expire(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		l.logger.Warn("rate limiter record failed",
			zap.String("limiter", l.prefix), zap.Error(err))
	}

	return Result{Allowed: true, Remaining: l.max - count - 1}
}

// Window returns the limiter window, used for Retry-After headers
func (l *Limiter) Window() time.Duration {
	return l.window
}

// Max returns the request budget per window
func (l *Limiter) Max() int {
	return l.max
}

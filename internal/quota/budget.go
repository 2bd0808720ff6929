// Package quota tracks daily request budgets for metered upstream APIs.
package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Default budget configuration values.
const (
	// DefaultDailyLimit matches the free-tier request allowance of the AI provider.
	DefaultDailyLimit = 1500
	// DefaultKeyTTL keeps spent counters around past the day boundary for inspection.
	DefaultKeyTTL = 48 * time.Hour
)

// KeyPrefix namespaces budget counters in Redis.
const KeyPrefix = "quota:requests:"

// RequestBudget tracks daily request consumption for an upstream provider.
// Counters live in Redis keyed by UTC date, so every process serving the same
// provider shares one budget. The tracker fails open: when Redis is
// unavailable, requests are allowed rather than blocked.
type RequestBudget struct {
	redis      redis.Cmdable
	provider   string
	dailyLimit int
	keyTTL     time.Duration
}

// NewRequestBudget creates a budget tracker for the named provider.
// A non-positive limit disables tracking: Allow always reports true.
func NewRequestBudget(client redis.Cmdable, provider string, dailyLimit int) *RequestBudget {
	return &RequestBudget{
		redis:      client,
		provider:   provider,
		dailyLimit: dailyLimit,
		keyTTL:     DefaultKeyTTL,
	}
}

// Allow consumes one request from today's budget and reports whether the
// request may proceed. The consumed slot is not returned on upstream failure;
// a failed request still counts against the budget.
func (b *RequestBudget) Allow(ctx context.Context) bool {
	if b == nil || b.dailyLimit <= 0 {
		return true
	}

	key := b.key(time.Now().UTC())

	used, err := b.redis.Incr(ctx, key).Result()
	if err != nil {
		// Fail open: a broken budget store must not take the feature down
		return true
	}
	if used == 1 {
		b.redis.Expire(ctx, key, b.keyTTL)
	}

	return used <= int64(b.dailyLimit)
}

// Used returns the number of requests consumed from today's budget
func (b *RequestBudget) Used(ctx context.Context) (int, error) {
	if b == nil || b.dailyLimit <= 0 {
		return 0, nil
	}

	used, err := b.redis.Get(ctx, b.key(time.Now().UTC())).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read budget counter: %w", err)
	}
	return used, nil
}

// Remaining returns the number of requests left in today's budget
func (b *RequestBudget) Remaining(ctx context.Context) (int, error) {
	used, err := b.Used(ctx)
	if err != nil {
		return 0, err
	}
	remaining := b.dailyLimit - used
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

func (b *RequestBudget) key(now time.Time) string {
	return KeyPrefix + b.provider + ":" + now.Format("2006-01-02")
}

package adapter

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer enforces a minimum interval between requests to an upstream API.
// It is a courtesy limit against free-tier quotas, shared by every caller that
// holds a reference to the same Pacer. Unlike a bare "time of last request"
// variable, concurrent callers are serialized deterministically: each Wait
// reserves the next slot, so two racing calls cannot both observe a stale
// timestamp and dispatch together.
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer creates a pacer allowing one request per interval.
// A non-positive interval disables pacing.
func NewPacer(interval time.Duration) *Pacer {
	if interval <= 0 {
		return &Pacer{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Pacer{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the minimum interval since the previous request has
// elapsed, or the context is cancelled.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

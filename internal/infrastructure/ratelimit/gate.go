package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultInterval keeps two enrichment calls per unit under the provider's
// ceiling of 10 calls per 60-second window.
const DefaultInterval = 6 * time.Second

// Gate is a fixed-interval limiter serializing remote enrichment calls. The
// underlying limiter is safe for concurrent use, so the gate stays a single
// shared chokepoint even if extraction ever runs on multiple workers.
type Gate struct {
	limiter *rate.Limiter
}

func NewGate(interval time.Duration) *Gate {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Gate{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the next call is allowed or the context ends.
func (g *Gate) Wait(ctx context.Context) error {
	return g.limiter.Wait(ctx)
}

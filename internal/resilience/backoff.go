package resilience

import (
	"math"
	"math/rand"
	"time"
)

// Backoff computes exponential retry delays with jitter.
type Backoff struct {
	// Initial is the base delay before the first retry. Default: 10s, the
	// provider's documented minimum for free-tier rate limits.
	Initial time.Duration

	// Max caps the computed delay. Default: 120s.
	Max time.Duration

	// Multiplier scales the delay per attempt. Default: 2.0.
	Multiplier float64

	// JitterFraction adds random jitter as a fraction of the computed
	// delay. Default: 0.2.
	JitterFraction float64
}

// DefaultBackoff returns the backoff used for rate-limited provider calls.
func DefaultBackoff() Backoff {
	return Backoff{
		Initial:        10 * time.Second,
		Max:            120 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.2,
	}
}

// Delay returns the sleep before retry number attempt (0-based).
func (b Backoff) Delay(attempt int) time.Duration {
	cfg := b.withDefaults()

	d := float64(cfg.Initial) * math.Pow(cfg.Multiplier, float64(attempt))
	if d > float64(cfg.Max) {
		d = float64(cfg.Max)
	}
	if cfg.JitterFraction > 0 {
		span := d * cfg.JitterFraction
		d += (rand.Float64()*2 - 1) * span
	}
	if d < 0 {
		d = 0
	}
	return time.Duration(d)
}

// Jittered adds up to frac of extra random delay on top of d. Used when a
// server supplies its own retry hint and only spread is needed.
func Jittered(d time.Duration, frac float64) time.Duration {
	if frac <= 0 {
		return d
	}
	return d + time.Duration(rand.Float64()*frac*float64(d))
}

func (b Backoff) withDefaults() Backoff {
	if b.Initial <= 0 {
		b.Initial = 10 * time.Second
	}
	if b.Max <= 0 {
		b.Max = 120 * time.Second
	}
	if b.Multiplier <= 0 {
		b.Multiplier = 2.0
	}
	if b.JitterFraction < 0 {
		b.JitterFraction = 0
	}
	return b
}

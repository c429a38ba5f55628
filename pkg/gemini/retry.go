package gemini

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/lucen-labs/irreview/internal/resilience"
)

// Call classifies a request for rate-limiting purposes. Grounded (web
// search) calls are materially more rate-constrained upstream, so they get
// their own limiter.
type Call int

const (
	CallStandard Call = iota
	CallGrounded
)

const (
	defaultMaxRetries  = 5
	transportRetryWait = 5 * time.Second
	serverRetryWait    = 5 * time.Second
)

// RetryClient wraps a Client with per-classification rate limiting and
// bounded retries. It is the only path the pipeline uses to reach the
// provider.
type RetryClient struct {
	inner      Client
	standard   *rate.Limiter
	grounded   *rate.Limiter
	backoff    resilience.Backoff
	maxRetries int
	sleep      func(ctx context.Context, d time.Duration) error
}

// RetryOption configures the retrying wrapper.
type RetryOption func(*RetryClient)

// WithLimiters sets the per-classification limiters. Pass nil limiters to
// disable throttling (tests).
func WithLimiters(standard, grounded *rate.Limiter) RetryOption {
	return func(c *RetryClient) {
		c.standard = standard
		c.grounded = grounded
	}
}

// WithMaxRetries overrides the retry ceiling.
func WithMaxRetries(n int) RetryOption {
	return func(c *RetryClient) {
		if n > 0 {
			c.maxRetries = n
		}
	}
}

// WithBackoff overrides the rate-limit fallback backoff.
func WithBackoff(b resilience.Backoff) RetryOption {
	return func(c *RetryClient) {
		c.backoff = b
	}
}

// WithSleep injects the sleep function. Tests use a zero-wait stub.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) RetryOption {
	return func(c *RetryClient) {
		c.sleep = fn
	}
}

// NewRetryClient wraps inner with the default policy: a 15s minimum
// interval for standard calls, 60s for grounded ones, and up to five
// attempts per call.
func NewRetryClient(inner Client, opts ...RetryOption) *RetryClient {
	c := &RetryClient{
		inner:      inner,
		standard:   rate.NewLimiter(rate.Every(15*time.Second), 1),
		grounded:   rate.NewLimiter(rate.Every(60*time.Second), 1),
		backoff:    resilience.DefaultBackoff(),
		maxRetries: defaultMaxRetries,
		sleep:      sleepCtx,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Generate performs a generateContent call under the given classification.
// Transport failures retry after a short jittered delay, rate limits wait
// for the server-supplied hint (or exponential backoff when absent), server
// errors retry after a fixed delay. Any other non-success status, or an
// exhausted retry budget, returns the last error untouched.
func (c *RetryClient) Generate(ctx context.Context, call Call, req GenerateRequest) (*GenerateResponse, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if err := c.wait(ctx, call); err != nil {
			return nil, err
		}

		resp, err := c.inner.GenerateContent(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, lastErr
		}

		delay, retryable := c.classify(err, attempt)
		if !retryable {
			return nil, lastErr
		}
		if attempt == c.maxRetries-1 {
			break
		}
		if err := c.sleep(ctx, delay); err != nil {
			return nil, lastErr
		}
	}

	return nil, lastErr
}

// classify maps a call error to (retry delay, retryable).
func (c *RetryClient) classify(err error, attempt int) (time.Duration, bool) {
	if se, ok := err.(*StatusError); ok {
		switch {
		case se.StatusCode == 429:
			delay, hinted := se.RetryHint()
			if !hinted {
				delay = c.backoff.Delay(attempt)
			}
			delay = resilience.Jittered(delay, 0.2)
			zap.L().Warn("gemini: rate limited",
				zap.Duration("wait", delay),
				zap.Bool("server_hint", hinted),
				zap.Int("attempt", attempt+1),
			)
			return delay, true
		case resilience.IsServerStatus(se.StatusCode):
			zap.L().Warn("gemini: server error, retrying",
				zap.Int("status", se.StatusCode),
				zap.Int("attempt", attempt+1),
			)
			return serverRetryWait, true
		default:
			return 0, false
		}
	}

	if resilience.IsTransient(err) {
		return resilience.Jittered(transportRetryWait, 0.4), true
	}
	// Unknown transport-level failures are treated as transient too: the
	// original behavior retried every RequestException.
	return resilience.Jittered(transportRetryWait, 0.4), true
}

func (c *RetryClient) wait(ctx context.Context, call Call) error {
	limiter := c.standard
	if call == CallGrounded {
		limiter = c.grounded
	}
	if limiter == nil {
		return nil
	}
	return limiter.Wait(ctx)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

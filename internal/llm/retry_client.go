package llm

import (
	"context"
	"math"
	"math/rand"
	"time"

	"focusd/internal/logging"
)

// RetryConfig configures retry behavior for oracle calls.
type RetryConfig struct {
	MaxAttempts int           // Maximum number of attempts (default: 3)
	BaseDelay   time.Duration // Base delay for exponential backoff (default: 500ms)
	MaxDelay    time.Duration // Maximum delay between retries (default: 5s)
}

// DefaultRetryConfig returns sensible defaults.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    5 * time.Second,
	}
}

// retryClient wraps a Client with exponential backoff retry.
type retryClient struct {
	underlying Client
	config     RetryConfig
	logger     logging.Logger
}

// NewRetryClient wraps an oracle client with retry logic.
func NewRetryClient(client Client, config RetryConfig) Client {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.BaseDelay <= 0 {
		config.BaseDelay = 500 * time.Millisecond
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 5 * time.Second
	}
	return &retryClient{
		underlying: client,
		config:     config,
		logger:     logging.NewComponentLogger("llm-retry"),
	}
}

// Complete executes the completion with retries. Context cancellation stops
// retrying immediately so an aborted request does not keep the oracle busy.
func (c *retryClient) Complete(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= c.config.MaxAttempts; attempt++ {
		result, err := c.underlying.Complete(ctx, prompt)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if attempt == c.config.MaxAttempts {
			break
		}

		delay := c.backoffDelay(attempt)
		c.logger.Warn("oracle call failed (attempt %d/%d), retrying in %v: %v",
			attempt, c.config.MaxAttempts, delay, err)

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}

	c.logger.Warn("oracle call failed after %d attempts: %v", c.config.MaxAttempts, lastErr)
	return "", lastErr
}

// backoffDelay computes exponential backoff with jitter.
func (c *retryClient) backoffDelay(attempt int) time.Duration {
	delay := float64(c.config.BaseDelay) * math.Pow(2, float64(attempt-1))
	if delay > float64(c.config.MaxDelay) {
		delay = float64(c.config.MaxDelay)
	}
	// Up to 25% jitter to avoid synchronized retries.
	jitter := delay * 0.25 * rand.Float64()
	return time.Duration(delay + jitter)
}

var _ Client = (*retryClient)(nil)

package llm

import (
	"context"
	"errors"
	"time"

	"muse/internal/shared/logging"
)

// RetryConfig bounds the transient-failure retry loop around a client.
//
// This policy covers oracle transport failures only; it is independent of the
// content regeneration loop, which retries on quality grounds.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryConfig returns the retry policy used when none is configured.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    8 * time.Second,
	}
}

type retryClient struct {
	underlying Client
	config     RetryConfig
	logger     logging.Logger
}

// NewRetryClient wraps a client with bounded exponential-backoff retries on
// transient failures. Client errors (4xx other than 429) are not retried.
func NewRetryClient(client Client, config RetryConfig, logger logging.Logger) Client {
	if config.MaxAttempts <= 0 {
		config = DefaultRetryConfig()
	}
	return &retryClient{
		underlying: client,
		config:     config,
		logger:     logging.OrNop(logger),
	}
}

func (c *retryClient) Model() string {
	return c.underlying.Model()
}

func (c *retryClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	delay := c.config.BaseDelay
	var lastErr error

	for attempt := 1; attempt <= c.config.MaxAttempts; attempt++ {
		resp, err := c.underlying.Complete(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !retryable(err) {
			return nil, err
		}
		if attempt == c.config.MaxAttempts {
			break
		}

		c.logger.Warn("oracle call failed (attempt %d/%d), retrying in %v: %v",
			attempt, c.config.MaxAttempts, delay, err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if c.config.MaxDelay > 0 && delay > c.config.MaxDelay {
			delay = c.config.MaxDelay
		}
	}

	return nil, lastErr
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		if statusErr.Code == 429 {
			return true
		}
		return statusErr.Code >= 500
	}
	return true
}

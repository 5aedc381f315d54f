// Retry policy with exponential backoff.
//
// Basic usage with default configuration (3 retries, 1s base delay, 2x backoff):
//
//	client, _ := factory.New().CreateClient(config)
//	retryClient := llm.RetryChatCompletion(client)
//	resp, err := retryClient.ChatCompletion(ctx, request)
//
// Only retry rate limiting:
//
//	retryClient := llm.RetryChatCompletion(client, llm.RetryConfig{
//		MaxRetries:         3,
//		BaseDelay:          2 * time.Second,
//		RetryOnStatusCodes: []int{429},
//	})
//
// The same RetryConfig drives callers that run their own loop around a single-shot
// component (see ShouldRetry, Delay and Wait).
package llm

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"math"
	"time"
)

// secureRandomFloat64 generates a cryptographically secure random float64 between 0 and 1
func secureRandomFloat64() (float64, error) {
	var bytes [8]byte
	_, err := rand.Read(bytes[:])
	if err != nil {
		return 0, err
	}
	return float64(binary.BigEndian.Uint64(bytes[:])) / float64(^uint64(0)), nil
}

// RetryConfig defines configuration options for the retry mechanism.
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts (default: 3).
	// Total requests = MaxRetries + 1 (original attempt).
	MaxRetries int

	// BaseDelay is the initial delay between retries (default: 1 second).
	BaseDelay time.Duration

	// MaxDelay caps the maximum delay between retries (default: 60 seconds).
	MaxDelay time.Duration

	// BackoffFactor multiplies the delay after each retry (default: 2.0).
	BackoffFactor float64

	// Jitter multiplies each delay by a random factor between 0.5 and 1.5.
	Jitter bool

	// RetryOnStatusCodes restricts retries to upstream errors with these HTTP status codes.
	// If empty, IsRetryable decides.
	RetryOnStatusCodes []int
}

// DefaultRetryConfig returns a sensible default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:    3,
		BaseDelay:     1 * time.Second,
		MaxDelay:      60 * time.Second,
		BackoffFactor: 2.0,
		Jitter:        true,
	}
}

// withDefaults fills zero values with the defaults
func (c RetryConfig) withDefaults() RetryConfig {
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = 1 * time.Second
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 60 * time.Second
	}
	if c.BackoffFactor <= 0 {
		c.BackoffFactor = 2.0
	}
	return c
}

// ShouldRetry determines if an error should trigger a retry
func (c RetryConfig) ShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if len(c.RetryOnStatusCodes) == 0 {
		return IsRetryable(err)
	}

	llmErr := ClassifyError(err)
	for _, code := range c.RetryOnStatusCodes {
		if llmErr.StatusCode == code {
			return true
		}
	}
	return false
}

// Delay computes the delay before retry number attempt (0-based) using exponential backoff
func (c RetryConfig) Delay(attempt int) time.Duration {
	delay := float64(c.BaseDelay) * math.Pow(c.BackoffFactor, float64(attempt))

	if c.Jitter {
		randomValue, err := secureRandomFloat64()
		if err != nil {
			randomValue = 1.0
		}
		delay *= 0.5 + randomValue
	}

	if c.MaxDelay > 0 && delay > float64(c.MaxDelay) {
		delay = float64(c.MaxDelay)
	}

	return time.Duration(delay)
}

// Wait blocks for d or until ctx is done, whichever comes first
func Wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RetryableChatCompleter wraps a ChatCompleter with retry functionality
type RetryableChatCompleter struct {
	client ChatCompleter
	config RetryConfig
}

// RetryChatCompletion creates a new retryable wrapper around any ChatCompleter.
// It retries requests that fail with a retryable error, using exponential backoff.
func RetryChatCompletion(client ChatCompleter, config ...RetryConfig) ChatCompleter {
	cfg := DefaultRetryConfig()
	if len(config) > 0 {
		cfg = config[0].withDefaults()
	}

	return &RetryableChatCompleter{
		client: client,
		config: cfg,
	}
}

// ChatCompletion executes the chat completion with retry logic
func (r *RetryableChatCompleter) ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		resp, err := r.client.ChatCompletion(ctx, req)
		if err == nil {
			return resp, nil
		}

		lastErr = err

		if attempt == r.config.MaxRetries {
			break
		}
		if !r.config.ShouldRetry(err) {
			return nil, err
		}

		if err := Wait(ctx, r.config.Delay(attempt)); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

// Ensure RetryableChatCompleter implements ChatCompleter
var _ ChatCompleter = (*RetryableChatCompleter)(nil)

package translate

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/inercia/go-llm-heuristics/pkg/gateway"
	"github.com/inercia/go-llm-heuristics/pkg/llm"
	"github.com/inercia/go-llm-heuristics/pkg/script"
)

const (
	// DefaultMaxAttempts bounds the gateway calls made for one text
	DefaultMaxAttempts = 3

	// Temperature is the sampling temperature used for translation requests
	Temperature float32 = 0.1
)

// Normalizer translates non-English text through a completion gateway
type Normalizer struct {
	completer   gateway.Completer
	maxAttempts int
	retry       llm.RetryConfig
	model       string
	logger      *zap.Logger
}

// Option configures a Normalizer
type Option func(*Normalizer)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(n *Normalizer) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// WithMaxAttempts sets how many gateway calls may be spent on one text.
// Values below one are treated as one.
func WithMaxAttempts(attempts int) Option {
	return func(n *Normalizer) {
		if attempts < 1 {
			attempts = 1
		}
		n.maxAttempts = attempts
	}
}

// WithRetryConfig sets the backoff between attempts
func WithRetryConfig(cfg llm.RetryConfig) Option {
	return func(n *Normalizer) {
		n.retry = cfg
	}
}

// WithDefaultModel sets the model used when Normalize is called without one
func WithDefaultModel(model string) Option {
	return func(n *Normalizer) {
		n.model = model
	}
}

// New creates a normalizer over the given completer
func New(completer gateway.Completer, opts ...Option) *Normalizer {
	retry := llm.DefaultRetryConfig()
	retry.BaseDelay = 500 * time.Millisecond
	retry.MaxDelay = 5 * time.Second

	n := &Normalizer{
		completer:   completer,
		maxAttempts: DefaultMaxAttempts,
		retry:       retry,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.logger = n.logger.Named("translate")
	return n
}

// Normalize returns text in English. Text already free of CJK ideographs is
// returned as is without any gateway call. The first answer obtained is
// returned unverified; when none can be obtained, text itself is returned.
func (n *Normalizer) Normalize(ctx context.Context, text, model string) string {
	if script.IsTarget(text) {
		return text
	}
	if model == "" {
		model = n.model
	}

	prompt, err := BuildPrompt(text)
	if err != nil {
		n.logger.Error("failed to render translation prompt", zap.Error(err))
		return text
	}

	req := gateway.Request{
		Prompt:      prompt,
		Model:       model,
		Temperature: Temperature,
	}

	for attempt := 0; attempt < n.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := n.retry.Delay(attempt - 1)
			n.logger.Debug("retrying translation",
				zap.Int("attempt", attempt+1),
				zap.Duration("delay", delay))
			if err := llm.Wait(ctx, delay); err != nil {
				n.logger.Warn("translation abandoned", zap.Error(err))
				return text
			}
		}

		result := n.completer.Complete(ctx, req)
		if result.OK() {
			n.logger.Debug("translated",
				zap.String("model", model),
				zap.Int("attempts", attempt+1),
				zap.Bool("code", HasCodeFence(text)))
			return result.Text
		}

		if !n.retry.ShouldRetry(result.Err) {
			n.logger.Warn("translation failed",
				zap.String("model", model),
				zap.String("kind", string(llm.KindOf(result.Err))),
				zap.Error(result.Err))
			return text
		}
		n.logger.Warn("translation attempt failed",
			zap.String("model", model),
			zap.Int("attempt", attempt+1),
			zap.Error(result.Err))
	}

	n.logger.Warn("translation retry budget exhausted",
		zap.String("model", model),
		zap.Int("attempts", n.maxAttempts))
	return text
}

// Translate normalizes text with a throwaway Normalizer
func Translate(ctx context.Context, completer gateway.Completer, text, model string, opts ...Option) string {
	return New(completer, opts...).Normalize(ctx, text, model)
}

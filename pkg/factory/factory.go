package factory

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/inercia/go-llm-heuristics/pkg/llm"
)

// Factory creates LLM clients based on configuration
type Factory struct {
	logger *zap.Logger
}

// Option configures a Factory
type Option func(*Factory)

// WithLogger sets the logger handed to the providers
func WithLogger(logger *zap.Logger) Option {
	return func(f *Factory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// New creates a new client factory
func New(opts ...Option) *Factory {
	f := &Factory{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateClient creates an LLM client based on the configuration
func (f *Factory) CreateClient(config llm.ClientConfig) (llm.Client, error) {
	provider := config.Provider
	if provider == "" {
		provider = llm.DefaultProvider
	}
	provider = strings.ToLower(provider)

	if config.Model == "" {
		return nil, &llm.Error{
			Kind:    llm.KindValidation,
			Code:    "missing_model",
			Message: "model is required",
			Type:    "validation_error",
		}
	}

	constructor, exists := GetProvider(provider)
	if !exists {
		return nil, &llm.Error{
			Kind:    llm.KindValidation,
			Code:    "unsupported_provider",
			Message: fmt.Sprintf("unsupported provider: %s", provider),
			Type:    "validation_error",
		}
	}

	f.logger.Debug("creating llm client",
		zap.String("provider", provider),
		zap.String("model", config.Model),
		zap.String("base_url", config.BaseURL))

	return constructor(config, f.logger)
}

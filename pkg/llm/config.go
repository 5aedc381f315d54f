// Client configuration
package llm

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	DefaultProvider      = "openai"
	DefaultOpenAIModel   = "gpt-4o-mini"
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultTimeout       = 30 * time.Second
)

// ClientConfig holds configuration for creating LLM clients.
// It is passed explicitly to constructors; nothing reads it from global state.
//
// Configuration can come from a YAML file or environment variables.
// Environment variables always override YAML values.
type ClientConfig struct {
	Provider string `yaml:"provider" env:"LLM_PROVIDER" env-default:"openai"`
	Model    string `yaml:"model" env:"OPENAI_MODEL" env-default:"gpt-4o-mini"`

	// APIKey is sent as a bearer credential. Empty means an unauthenticated request.
	APIKey string `yaml:"-" env:"OPENAI_API_KEY"`

	// BaseURL is the backend serving the OpenAI-compatible POST /chat/completions.
	BaseURL string `yaml:"base_url" env:"OPENAI_BASE_URL" env-default:"https://api.openai.com/v1"`

	Timeout    time.Duration `yaml:"timeout" env:"LLM_TIMEOUT" env-default:"30s"`
	MaxRetries int           `yaml:"max_retries" env:"LLM_MAX_RETRIES" env-default:"3"`
}

// LoadConfig loads the client configuration from the YAML file at path,
// with environment overrides. An empty path reads the environment only.
func LoadConfig(path string) (ClientConfig, error) {
	var cfg ClientConfig

	var err error
	if path == "" {
		err = cleanenv.ReadEnv(&cfg)
	} else {
		err = cleanenv.ReadConfig(path, &cfg)
	}
	if err != nil {
		return ClientConfig{}, fmt.Errorf("failed to load llm config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return ClientConfig{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values no backend could accept
func (c ClientConfig) Validate() error {
	if c.Model == "" {
		return &Error{Kind: KindValidation, Code: "missing_model", Message: "model is required"}
	}
	if c.Timeout < 0 {
		return &Error{Kind: KindValidation, Code: "invalid_timeout", Message: "timeout must not be negative"}
	}
	if c.MaxRetries < 0 {
		return &Error{Kind: KindValidation, Code: "invalid_max_retries", Message: "max retries must not be negative"}
	}
	return nil
}

// Describe returns a human readable configuration description
func (c ClientConfig) Describe() string {
	auth := "unauthenticated"
	if c.APIKey != "" {
		auth = "bearer token"
	}
	return fmt.Sprintf("%s model=%s base_url=%s (%s)", c.Provider, c.Model, c.BaseURL, auth)
}

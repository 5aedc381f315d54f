package factory

import (
	"go.uber.org/zap"

	"github.com/inercia/go-llm-heuristics/pkg/llm"
	"github.com/inercia/go-llm-heuristics/pkg/providers/mock"
	"github.com/inercia/go-llm-heuristics/pkg/providers/openai"
)

func init() {
	// OpenAI-compatible backends (OpenAI, Open WebUI, vLLM, OpenRouter, DeepSeek...)
	RegisterProvider("openai", func(config llm.ClientConfig, logger *zap.Logger) (llm.Client, error) {
		return openai.NewClient(config, openai.WithLogger(logger))
	})

	RegisterProvider("mock", func(config llm.ClientConfig, _ *zap.Logger) (llm.Client, error) {
		return mock.NewClient(config.Model, "mock")
	})
}

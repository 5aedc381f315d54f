package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inercia/go-llm-heuristics/pkg/llm"
	"github.com/inercia/go-llm-heuristics/pkg/providers/mock"
	"github.com/inercia/go-llm-heuristics/pkg/providers/openai"
)

func TestFactory(t *testing.T) {
	t.Parallel()

	t.Run("missing model", func(t *testing.T) {
		t.Parallel()

		_, err := New().CreateClient(llm.ClientConfig{Provider: "openai"})
		require.Error(t, err)

		llmErr, ok := err.(*llm.Error)
		require.True(t, ok, "expected *llm.Error, got %T", err)
		assert.Equal(t, "missing_model", llmErr.Code)
		assert.Equal(t, llm.KindValidation, llmErr.Kind)
	})

	t.Run("unsupported provider", func(t *testing.T) {
		t.Parallel()

		_, err := New().CreateClient(llm.ClientConfig{Provider: "bedrock", Model: "m"})
		require.Error(t, err)
		assert.Equal(t, "unsupported_provider", err.(*llm.Error).Code)
	})

	t.Run("auto registration", func(t *testing.T) {
		t.Parallel()

		assert.Subset(t, ListProviders(), []string{"mock", "openai"})
	})

	t.Run("default provider is openai", func(t *testing.T) {
		t.Parallel()

		client, err := New().CreateClient(llm.ClientConfig{Model: "gpt-4o-mini", BaseURL: "http://localhost:1/v1"})
		require.NoError(t, err)
		assert.IsType(t, &openai.Client{}, client)
		assert.Equal(t, "http://localhost:1/v1", client.GetModelInfo().BaseURL)
	})

	t.Run("provider name is case insensitive", func(t *testing.T) {
		t.Parallel()

		client, err := New().CreateClient(llm.ClientConfig{Provider: "MOCK", Model: "test-model"})
		require.NoError(t, err)
		assert.IsType(t, &mock.Client{}, client)
	})
}

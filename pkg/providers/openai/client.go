package openai

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/inercia/go-llm-heuristics/pkg/llm"
)

// Client implements the llm.Client interface for OpenAI-compatible backends
type Client struct {
	client   *openai.Client
	model    string
	provider string
	baseURL  string
	logger   *zap.Logger
}

// Option configures a Client
type Option func(*Client, *openai.ClientConfig)

// WithLogger sets the logger used by the client
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client, _ *openai.ClientConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient replaces the HTTP client requests are sent with
func WithHTTPClient(doer openai.HTTPDoer) Option {
	return func(_ *Client, cfg *openai.ClientConfig) {
		cfg.HTTPClient = doer
	}
}

// NewClient creates a new OpenAI-compatible client.
// An empty API key is allowed and results in unauthenticated requests.
func NewClient(config llm.ClientConfig, opts ...Option) (*Client, error) {
	if config.Model == "" {
		return nil, &llm.Error{
			Kind:    llm.KindValidation,
			Code:    "missing_model",
			Message: "model is required",
			Type:    "validation_error",
		}
	}

	baseURL := strings.TrimSuffix(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = llm.DefaultOpenAIBaseURL
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	clientConfig.BaseURL = baseURL
	clientConfig.HTTPClient = &http.Client{Timeout: config.Timeout}

	c := &Client{
		model:    config.Model,
		provider: "openai",
		baseURL:  baseURL,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c, &clientConfig)
	}
	c.logger = c.logger.Named("openai")

	clientConfig.HTTPClient = &transport{base: clientConfig.HTTPClient, authToken: config.APIKey}
	c.client = openai.NewClientWithConfig(clientConfig)

	return c, nil
}

// ChatCompletion performs a single non-streaming chat completion request
func (c *Client) ChatCompletion(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	if req.Stream {
		return nil, &llm.Error{
			Kind:    llm.KindValidation,
			Code:    "streaming_unsupported",
			Message: "streaming chat completions are not supported",
			Type:    "validation_error",
		}
	}

	model := req.Model
	if model == "" {
		model = c.model
	}

	resp, err := c.client.CreateChatCompletion(withBodyExtras(ctx, req), c.convertRequest(req, model))
	if err != nil {
		converted := c.convertError(err)
		c.logger.Debug("chat completion error",
			zap.String("model", model),
			zap.String("kind", string(converted.Kind)),
			zap.Error(err))
		return nil, converted
	}

	return c.convertResponse(resp), nil
}

// ListModels returns the identifiers of the models served by the backend, sorted
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	resp, err := c.client.ListModels(ctx)
	if err != nil {
		return nil, c.convertError(err)
	}

	ids := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		ids = append(ids, m.ID)
	}
	sort.Strings(ids)
	return ids, nil
}

// GetModelInfo returns information about the model being used
func (c *Client) GetModelInfo() llm.ModelInfo {
	return llm.ModelInfo{
		Name:      c.model,
		Provider:  c.provider,
		BaseURL:   c.baseURL,
		Streaming: false,
	}
}

// Close cleans up any resources used by the client
func (c *Client) Close() error {
	// OpenAI client doesn't require explicit cleanup
	return nil
}

// convertRequest converts our ChatRequest to OpenAI format
func (c *Client) convertRequest(req llm.ChatRequest, model string) openai.ChatCompletionRequest {
	openaiReq := openai.ChatCompletionRequest{
		Model:    model,
		Messages: make([]openai.ChatCompletionMessage, 0, len(req.Messages)),
	}

	for _, msg := range req.Messages {
		openaiReq.Messages = append(openaiReq.Messages, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	if req.Temperature != nil {
		openaiReq.Temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		openaiReq.MaxTokens = *req.MaxTokens
	}

	return openaiReq
}

// convertResponse converts OpenAI response to our format
func (c *Client) convertResponse(resp openai.ChatCompletionResponse) *llm.ChatResponse {
	chatResp := &llm.ChatResponse{
		ID:    resp.ID,
		Model: resp.Model,
		Usage: llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}

	for _, choice := range resp.Choices {
		chatResp.Choices = append(chatResp.Choices, llm.Choice{
			Index:        choice.Index,
			Message:      llm.NewTextMessage(llm.MessageRole(choice.Message.Role), choice.Message.Content),
			FinishReason: string(choice.FinishReason),
		})
	}

	return chatResp
}

// convertError converts OpenAI error to our format
func (c *Client) convertError(err error) *llm.Error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		code := "unknown"
		if codeStr, ok := apiErr.Code.(string); ok && codeStr != "" {
			code = codeStr
		}
		return &llm.Error{
			Kind:       llm.KindUpstream,
			Code:       code,
			Message:    apiErr.Message,
			Type:       apiErr.Type,
			StatusCode: apiErr.HTTPStatusCode,
			Cause:      err,
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &llm.Error{
			Kind:       llm.KindUpstream,
			Code:       "http_error",
			Message:    "backend rejected the request",
			Type:       "api_error",
			StatusCode: reqErr.HTTPStatusCode,
			Cause:      err,
		}
	}

	return llm.ClassifyError(err)
}

var (
	_ llm.Client      = (*Client)(nil)
	_ llm.ModelLister = (*Client)(nil)
)

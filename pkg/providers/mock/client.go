package mock

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/inercia/go-llm-heuristics/pkg/llm"
)

// Handler computes a response for a request
type Handler func(req llm.ChatRequest) (*llm.ChatResponse, error)

// step is one scripted outcome
type step struct {
	resp *llm.ChatResponse
	err  error
}

// Client implements the llm.Client interface for testing.
// It is safe for concurrent use.
type Client struct {
	mu        sync.Mutex
	modelInfo llm.ModelInfo
	script    []step
	fallback  Handler
	callLog   []llm.ChatRequest
	latency   time.Duration
	models    []string
}

// NewClient creates a new mock LLM client for testing
func NewClient(modelName, provider string) (*Client, error) {
	return &Client{
		modelInfo: llm.ModelInfo{
			Name:     modelName,
			Provider: provider,
		},
	}, nil
}

// ChatCompletion returns the next scripted answer or error.
// Once the script is exhausted the fallback handler answers; without one, a
// generic text answer is returned.
func (m *Client) ChatCompletion(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	m.mu.Lock()
	m.callLog = append(m.callLog, req)
	latency := m.latency
	m.mu.Unlock()

	if latency > 0 {
		select {
		case <-time.After(latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	if len(m.script) > 0 {
		next := m.script[0]
		m.script = m.script[1:]
		m.mu.Unlock()
		return next.resp, next.err
	}
	fallback := m.fallback
	m.mu.Unlock()

	if fallback != nil {
		return fallback(req)
	}
	return m.textResponse(fmt.Sprintf("mock response to: %s", lastUserText(req))), nil
}

// ListModels returns the models configured with WithModels
func (m *Client) ListModels(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.models...), nil
}

// GetModelInfo returns information about the model being used
func (m *Client) GetModelInfo() llm.ModelInfo {
	return m.modelInfo
}

// Close cleans up any resources used by the client
func (m *Client) Close() error {
	return nil
}

// Test helper methods

// AddResponse adds a response to be returned by a subsequent call
func (m *Client) AddResponse(response llm.ChatResponse) *Client {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, step{resp: &response})
	return m
}

// AddError adds an error to be returned by a subsequent call
func (m *Client) AddError(err error) *Client {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, step{err: err})
	return m
}

// WithSimpleResponse adds a plain text answer
func (m *Client) WithSimpleResponse(content string) *Client {
	return m.AddResponse(*m.textResponse(content))
}

// WithError adds an upstream error with the given code, message and HTTP status
func (m *Client) WithError(code, message string, statusCode int) *Client {
	return m.AddError(&llm.Error{
		Kind:       llm.KindUpstream,
		Code:       code,
		Message:    message,
		Type:       "api_error",
		StatusCode: statusCode,
	})
}

// WithHandler sets the handler answering once the script is exhausted
func (m *Client) WithHandler(handler Handler) *Client {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = handler
	return m
}

// WithAlwaysError makes every unscripted call fail with err
func (m *Client) WithAlwaysError(err error) *Client {
	return m.WithHandler(func(llm.ChatRequest) (*llm.ChatResponse, error) {
		return nil, err
	})
}

// WithLatency configures simulated latency for requests
func (m *Client) WithLatency(duration time.Duration) *Client {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latency = duration
	return m
}

// WithModels sets the identifiers returned by ListModels
func (m *Client) WithModels(models ...string) *Client {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.models = models
	return m
}

// GetCallLog returns all requests made to this mock client
func (m *Client) GetCallLog() []llm.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]llm.ChatRequest(nil), m.callLog...)
}

// GetLastCall returns the most recent request made to this mock client
func (m *Client) GetLastCall() *llm.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.callLog) == 0 {
		return nil
	}
	last := m.callLog[len(m.callLog)-1]
	return &last
}

// CallCount returns the number of requests received
func (m *Client) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.callLog)
}

// Reset clears the script, the handler and the call log
func (m *Client) Reset() *Client {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = nil
	m.fallback = nil
	m.callLog = nil
	return m
}

// AssertLastMessageContains checks if the last user message contains text
func (m *Client) AssertLastMessageContains(text string) bool {
	last := m.GetLastCall()
	if last == nil {
		return false
	}
	return strings.Contains(lastUserText(*last), text)
}

// TextResponse builds a single-choice assistant response
func TextResponse(model, content string) *llm.ChatResponse {
	return &llm.ChatResponse{
		ID:    fmt.Sprintf("mock-resp-%d", time.Now().UnixNano()),
		Model: model,
		Choices: []llm.Choice{
			{
				Index:        0,
				Message:      llm.NewTextMessage(llm.RoleAssistant, content),
				FinishReason: "stop",
			},
		},
		Usage: llm.Usage{
			PromptTokens:     1,
			CompletionTokens: len(strings.Fields(content)),
			TotalTokens:      1 + len(strings.Fields(content)),
		},
	}
}

func (m *Client) textResponse(content string) *llm.ChatResponse {
	return TextResponse(m.modelInfo.Name, content)
}

func lastUserText(req llm.ChatRequest) string {
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == llm.RoleUser {
			return req.Messages[i].Content
		}
	}
	return ""
}

var (
	_ llm.Client      = (*Client)(nil)
	_ llm.ModelLister = (*Client)(nil)
)

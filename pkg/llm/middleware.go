package llm

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Middleware defines the interface for LLM middleware components
type Middleware interface {
	// Name returns the middleware name for identification
	Name() string

	// ProcessRequest processes the request before sending to LLM
	ProcessRequest(ctx context.Context, req *ChatRequest) (*ChatRequest, error)

	// ProcessResponse processes the response after receiving from LLM
	ProcessResponse(ctx context.Context, req *ChatRequest, resp *ChatResponse, err error) (*ChatResponse, error)
}

// MiddlewareChain manages a chain of LLM middleware
type MiddlewareChain struct {
	mu          sync.RWMutex
	middlewares []Middleware
}

// NewMiddlewareChain creates a new middleware chain
func NewMiddlewareChain(middlewares []Middleware) *MiddlewareChain {
	chain := &MiddlewareChain{}
	for _, middleware := range middlewares {
		chain.AddMiddleware(middleware)
	}
	return chain
}

// AddMiddleware adds a middleware to the chain
func (c *MiddlewareChain) AddMiddleware(middleware Middleware) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.middlewares = append(c.middlewares, middleware)
}

// RemoveMiddleware removes a middleware by name
func (c *MiddlewareChain) RemoveMiddleware(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, middleware := range c.middlewares {
		if middleware.Name() == name {
			c.middlewares = append(c.middlewares[:i], c.middlewares[i+1:]...)
			return true
		}
	}
	return false
}

func (c *MiddlewareChain) snapshot() []Middleware {
	c.mu.RLock()
	defer c.mu.RUnlock()
	middlewares := make([]Middleware, len(c.middlewares))
	copy(middlewares, c.middlewares)
	return middlewares
}

// ProcessRequest processes request through the middleware chain
func (c *MiddlewareChain) ProcessRequest(ctx context.Context, req *ChatRequest) (*ChatRequest, error) {
	currentReq := req
	var err error

	for _, middleware := range c.snapshot() {
		currentReq, err = middleware.ProcessRequest(ctx, currentReq)
		if err != nil {
			return nil, fmt.Errorf("middleware %s failed: %w", middleware.Name(), err)
		}
	}

	return currentReq, nil
}

// ProcessResponse processes response through the middleware chain (in reverse order)
func (c *MiddlewareChain) ProcessResponse(ctx context.Context, req *ChatRequest, resp *ChatResponse, err error) (*ChatResponse, error) {
	middlewares := c.snapshot()
	currentResp := resp

	for i := len(middlewares) - 1; i >= 0; i-- {
		processedResp, processErr := middlewares[i].ProcessResponse(ctx, req, currentResp, err)
		if processErr != nil {
			// Continue with other middleware even if one fails
			continue
		}
		currentResp = processedResp
	}

	return currentResp, err
}

// GetMiddlewareNames returns the names of all middleware in the chain
func (c *MiddlewareChain) GetMiddlewareNames() []string {
	middlewares := c.snapshot()
	names := make([]string, len(middlewares))
	for i, middleware := range middlewares {
		names[i] = middleware.Name()
	}
	return names
}

/////////////////////////////////////////////////////////////////////////////////////////

// LoggingMiddleware logs every outbound request and its outcome.
// Payloads are logged at debug level, failures at warn level.
type LoggingMiddleware struct {
	logger *zap.Logger
}

// NewLoggingMiddleware creates a logging middleware. A nil logger disables logging.
func NewLoggingMiddleware(logger *zap.Logger) *LoggingMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingMiddleware{logger: logger}
}

// Name implements Middleware
func (l *LoggingMiddleware) Name() string {
	return "logging"
}

// ProcessRequest implements Middleware
func (l *LoggingMiddleware) ProcessRequest(ctx context.Context, req *ChatRequest) (*ChatRequest, error) {
	fields := []zap.Field{
		zap.String("model", req.Model),
		zap.Bool("stream", req.Stream),
		zap.Int("messages", len(req.Messages)),
		zap.Int("files", len(req.Files)),
	}
	if req.Temperature != nil {
		fields = append(fields, zap.Float32("temperature", *req.Temperature))
	}
	if n := len(req.Messages); n > 0 {
		fields = append(fields, zap.String("prompt", req.Messages[n-1].Content))
	}
	l.logger.Debug("chat completion request", fields...)
	return req, nil
}

// ProcessResponse implements Middleware
func (l *LoggingMiddleware) ProcessResponse(ctx context.Context, req *ChatRequest, resp *ChatResponse, err error) (*ChatResponse, error) {
	if err != nil {
		llmErr := ClassifyError(err)
		l.logger.Warn("chat completion failed",
			zap.String("model", req.Model),
			zap.String("kind", string(llmErr.Kind)),
			zap.Int("status", llmErr.StatusCode),
			zap.Error(err))
		return resp, nil
	}
	if resp != nil {
		l.logger.Debug("chat completion response",
			zap.String("model", resp.Model),
			zap.Int("choices", len(resp.Choices)),
			zap.Int("prompt_tokens", resp.Usage.PromptTokens),
			zap.Int("completion_tokens", resp.Usage.CompletionTokens))
	}
	return resp, nil
}

var _ Middleware = (*LoggingMiddleware)(nil)

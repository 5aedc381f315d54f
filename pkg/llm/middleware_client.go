package llm

import (
	"context"
	"fmt"
)

// EnhancedClient wraps a ChatCompleter with a middleware chain
type EnhancedClient struct {
	client ChatCompleter
	chain  *MiddlewareChain
}

// NewEnhancedClient creates a new enhanced client with middleware
func NewEnhancedClient(client ChatCompleter, chain []Middleware) *EnhancedClient {
	return &EnhancedClient{
		client: client,
		chain:  NewMiddlewareChain(chain),
	}
}

// ChatCompletion implements ChatCompleter with middleware processing
func (e *EnhancedClient) ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	processedReq, err := e.chain.ProcessRequest(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("middleware request processing failed: %w", err)
	}

	resp, err := e.client.ChatCompletion(ctx, *processedReq)

	processedResp, _ := e.chain.ProcessResponse(ctx, processedReq, resp, err)

	return processedResp, err
}

// AddMiddleware adds a middleware to the client's chain
func (e *EnhancedClient) AddMiddleware(middleware Middleware) {
	e.chain.AddMiddleware(middleware)
}

// RemoveMiddleware removes a middleware from the client's chain
func (e *EnhancedClient) RemoveMiddleware(name string) bool {
	return e.chain.RemoveMiddleware(name)
}

// GetMiddlewareNames returns the names of all middleware in the client's chain
func (e *EnhancedClient) GetMiddlewareNames() []string {
	return e.chain.GetMiddlewareNames()
}

// WithMiddleware wraps an existing completer with the middleware system.
// If the completer is already an EnhancedClient, the middleware is appended to its chain.
func WithMiddleware(client ChatCompleter, chain ...Middleware) ChatCompleter {
	if enhancedClient, ok := client.(*EnhancedClient); ok {
		for _, middleware := range chain {
			enhancedClient.AddMiddleware(middleware)
		}
		return enhancedClient
	}

	return NewEnhancedClient(client, chain)
}

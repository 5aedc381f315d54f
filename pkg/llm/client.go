// Client interfaces
package llm

import "context"

// ChatCompleter defines an interface for any client that can perform chat completions.
// Any client implementing this interface can be wrapped with RetryChatCompletion
// or WithMiddleware.
type ChatCompleter interface {
	ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// Client defines the core interface that all LLM clients must implement
type Client interface {
	ChatCompleter

	// GetModelInfo returns information about the model being used
	GetModelInfo() ModelInfo

	// Close cleans up any resources used by the client
	Close() error
}

// ModelLister is implemented by clients that can enumerate the models a backend serves.
// Identifiers are returned as-is: nothing in this module validates them.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// Core request and response types
package llm

import "strings"

// ChatRequest represents a chat completion request (provider-agnostic)
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float32  `json:"temperature,omitempty"`
	MaxTokens   *int      `json:"max_tokens,omitempty"`
	Stream      bool      `json:"stream"`

	// Files are opaque references forwarded to the backend as the "files" field.
	Files []FileRef `json:"files,omitempty"`

	// Extra holds backend-specific top-level body fields (e.g. "ragTemplate").
	// Keys that collide with the fields above are ignored by providers.
	Extra map[string]any `json:"extra,omitempty"`
}

// FileRef is an opaque reference to a file previously uploaded to the backend.
type FileRef struct {
	Type string `json:"type,omitempty"`
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

// ChatResponse represents a chat completion response (provider-agnostic)
type ChatResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage,omitempty"`
}

// Choice represents a single response choice
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason,omitempty"`
}

// Usage represents token usage information
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// FirstText returns the content of the first choice.
// The boolean is false when there are no choices or the content is blank.
func (r *ChatResponse) FirstText() (string, bool) {
	if r == nil || len(r.Choices) == 0 {
		return "", false
	}
	text := r.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	return text, true
}

// Float32 returns a pointer to v, for optional request fields.
func Float32(v float32) *float32 {
	return &v
}

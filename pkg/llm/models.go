// Model information
package llm

// ModelInfo contains information about the model
type ModelInfo struct {
	Name      string `json:"name"`
	Provider  string `json:"provider"`
	BaseURL   string `json:"base_url,omitempty"`
	Streaming bool   `json:"streaming"`
}

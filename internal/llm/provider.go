package llm

import (
	"context"
)

// Provider defines the interface for LLM providers.
// All providers MUST support structured output (JSON Schema) so the
// response can be parsed reliably.
type Provider interface {
	// Generate performs a single blocking generation call with
	// structured output. No internal retry.
	Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error)

	// Name returns the provider name (e.g., "openai", "gemini")
	Name() string
}

// GenerationRequest contains all parameters needed for generation
type GenerationRequest struct {
	Model        string
	InputArray   []map[string]any
	SystemPrompt string
	// Structured output schema - REQUIRED for reliable JSON parsing
	OutputSchema *OutputSchema
}

// OutputSchema defines the expected JSON output structure
type OutputSchema struct {
	Name        string
	Description string
	Schema      map[string]any // JSON Schema object
}

// TokenUsage normalizes token accounting across providers
type TokenUsage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
	TotalTokens  int64 `json:"total_tokens"`
}

// GenerationResponse contains the result from the LLM
type GenerationResponse struct {
	// RawOutput is the JSON text produced under the output schema
	RawOutput string     `json:"-"`
	Usage     TokenUsage `json:"usage"`
}

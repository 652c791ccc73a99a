package driven

import "context"

// CompletionProvider sends a prompt to an AI backend and returns the raw reply.
//
// Implementations include live HTTP backends (OpenAI-compatible, Anthropic,
// Ollama), Vertex AI, and an offline simulation returning a fixed payload.
// Failures are reported as *domain.GatewayError.
type CompletionProvider interface {
	// Complete returns the completion text for prompt.
	Complete(ctx context.Context, prompt string) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

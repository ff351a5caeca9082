// File: internal/services/ai/interface.go
package ai

import "context"

// ChatMessage is one prior turn passed as conversation history.
type ChatMessage struct {
	Role    string
	Content string
}

// CompletionRequest carries per-call generation parameters.
// A zero MaxTokens means no explicit output ceiling.
type CompletionRequest struct {
	Model string
	// System is an optional system prompt sent before History and Prompt.
	System string
	// History holds prior turns, oldest first.
	History     []ChatMessage
	Prompt      string
	Temperature float32
	MaxTokens   int
	// JSONMode requests a structured JSON-object response from the provider.
	JSONMode bool
}

// EmbeddingProvider handles text embeddings
type EmbeddingProvider interface {
	CreateEmbedding(ctx context.Context, text string) ([]float32, error)
	// CreateEmbeddings embeds a batch of texts, order-preserving.
	CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// CompletionProvider handles chat completions
type CompletionProvider interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	StreamCompletion(ctx context.Context, req CompletionRequest, onDelta func(string) error) error
}

// Provider combines embedding and completion capabilities
type Provider interface {
	EmbeddingProvider
	CompletionProvider
}

// Logger is the key/value logging interface used by this package.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// File: internal/services/pinecone/interface.go
package pinecone

import (
	"context"

	"github.com/pinecone-io/go-pinecone/v4/pinecone"
)

// VectorRepository handles vector data operations against one namespace.
type VectorRepository interface {
	QuerySimilar(ctx context.Context, embedding []float32, topK int, filter *Filter) ([]*pinecone.ScoredVector, error)
	UpsertVectors(ctx context.Context, vectors []*pinecone.Vector) error
	DeleteVectors(ctx context.Context, ids []string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// RetryProvider handles retry logic for vector store operations
type RetryProvider interface {
	RetryWithTimeout(call func(ctx context.Context) error) error
}

// ServiceStatus represents vector store health
type ServiceStatus struct {
	IsHealthy         bool
	ConnectionHealthy bool
	Message           string
	IndexHost         string
	Namespace         string
}

// Logger interface for vector store operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

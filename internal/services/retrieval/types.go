// File: internal/services/retrieval/types.go
package retrieval

import (
	"context"

	pineconeSDK "github.com/pinecone-io/go-pinecone/v4/pinecone"

	"github.com/haarwerk/haarwerk/internal/services/pinecone"
)

// MatchedProduct is a catalog item returned from a similarity search, with
// its query-time similarity score.
type MatchedProduct struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Similarity  float64 `json:"similarity"`
}

// RetrievedChunk is a knowledge chunk returned from a similarity search.
// WeightedSimilarity starts as the raw similarity and absorbs re-ranking
// boosts.
type RetrievedChunk struct {
	ID                 string  `json:"id"`
	SourceType         string  `json:"source_type"`
	SourceName         string  `json:"source_name"`
	Content            string  `json:"content"`
	HairTexture        string  `json:"hair_texture,omitempty"`
	Similarity         float64 `json:"similarity"`
	WeightedSimilarity float64 `json:"weighted_similarity"`
}

// EmbeddingProvider is the narrow slice of the AI service this package needs.
type EmbeddingProvider interface {
	CreateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// VectorStore is the similarity-search surface of the vector store.
type VectorStore interface {
	QuerySimilar(ctx context.Context, embedding []float32, topK int, filter *pinecone.Filter) ([]*pineconeSDK.ScoredVector, error)
}

// Logger is the key/value logging interface used by this package.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// metadataString safely extracts a string field from vector metadata.
func metadataString(match *pineconeSDK.ScoredVector, key string) string {
	if match == nil || match.Vector == nil || match.Vector.Metadata == nil {
		return ""
	}
	field, ok := match.Vector.Metadata.GetFields()[key]
	if !ok {
		return ""
	}
	return field.GetStringValue()
}

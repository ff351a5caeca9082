// File: internal/services/retrieval/matcher.go
package retrieval

import (
	"context"
	"time"

	"github.com/haarwerk/haarwerk/internal/services/intent"
	"github.com/haarwerk/haarwerk/internal/services/pinecone"
)

const matchTimeout = 15 * time.Second

// DefaultMatchCount is the number of products returned when the caller does
// not ask for a specific count.
const DefaultMatchCount = 5

// MatchParams carries the profile signals for a product match. Concerns must
// already be normalized to the store's concern vocabulary (see concerns.go).
type MatchParams struct {
	Thickness string
	Concerns  []string
	Category  *intent.Category
	Count     int
}

// Matcher turns a query plus profile signals into a ranked list of catalog
// items from the product namespace.
type Matcher struct {
	embedder EmbeddingProvider
	store    VectorStore
	logger   Logger
}

func NewMatcher(embedder EmbeddingProvider, store VectorStore, logger Logger) *Matcher {
	return &Matcher{
		embedder: embedder,
		store:    store,
		logger:   logger,
	}
}

// MatchProducts embeds the query and runs one filtered similarity search.
// The store combines vector similarity with the metadata filter; there is no
// client-side re-ranking here. Any failure degrades to an empty list so the
// reply path is never blocked by retrieval.
func (m *Matcher) MatchProducts(ctx context.Context, query string, params MatchParams) []MatchedProduct {
	ctx, cancel := context.WithTimeout(ctx, matchTimeout)
	defer cancel()

	count := params.Count
	if count <= 0 {
		count = DefaultMatchCount
	}

	embedding, err := m.embedder.CreateEmbedding(ctx, query)
	if err != nil {
		m.logger.Error("product match embedding failed", "error", err)
		return nil
	}

	filter := &pinecone.Filter{
		Concerns:   params.Concerns,
		Categories: CategoryLabels(params.Category),
		Thickness:  params.Thickness,
	}

	matches, err := m.store.QuerySimilar(ctx, embedding, count, filter)
	if err != nil {
		m.logger.Error("product similarity search failed", "error", err)
		return nil
	}

	products := make([]MatchedProduct, 0, len(matches))
	for _, match := range matches {
		if match == nil || match.Vector == nil {
			continue
		}
		products = append(products, MatchedProduct{
			ID:          match.Vector.Id,
			Name:        metadataString(match, "name"),
			Brand:       metadataString(match, "brand"),
			Description: metadataString(match, "description"),
			Category:    metadataString(match, "category"),
			Similarity:  float64(match.Score),
		})
	}

	m.logger.Debug("products matched", "count", len(products))
	return products
}

// File: internal/services/retrieval/retriever.go
package retrieval

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/haarwerk/haarwerk/internal/services/intent"
	"github.com/haarwerk/haarwerk/internal/services/pinecone"
)

const retrieveTimeout = 15 * time.Second

// candidateCount is the broad fetch size before re-ranking trims to the
// requested count.
const candidateCount = 20

// textureBoost is the score multiplier for chunks tagged with the user's
// hair texture.
const textureBoost = 1.15

// dedupOverlap: if this share of a shorter chunk's text appears verbatim in
// a higher-ranked chunk, the shorter one is dropped.
const dedupOverlap = 0.8

// intentSourceRoutes maps an intent to the allowed knowledge source types.
// nil means all sources.
var intentSourceRoutes = map[intent.Intent][]string{
	intent.IntentProductRecommendation: {"product_list", "book", "community_qa"},
	intent.IntentIngredientQuestion:    {"book", "qa"},
	intent.IntentHairCareAdvice:        {"book", "transcript", "qa", "product_list", "community_qa"},
	intent.IntentRoutineHelp:           {"book", "transcript", "qa", "product_list", "community_qa"},
	intent.IntentDiagnosis:             {"book", "qa", "live_call", "community_qa"},
	intent.IntentPhotoAnalysis:         {"book", "qa", "live_call"},
	intent.IntentGeneralChat:           nil,
	intent.IntentFollowup:              nil,
}

// RetrieveOptions controls a context retrieval.
type RetrieveOptions struct {
	Intent intent.Intent
	// HairTexture boosts chunks tagged with the user's texture during
	// re-ranking and, when PreFilterTexture is set, pre-filters by it.
	HairTexture      string
	PreFilterTexture bool
	Count            int
}

// Retriever fetches knowledge chunks from the content namespace with
// intent-based source routing and light client-side re-ranking.
type Retriever struct {
	embedder EmbeddingProvider
	store    VectorStore
	logger   Logger
}

func NewRetriever(embedder EmbeddingProvider, store VectorStore, logger Logger) *Retriever {
	return &Retriever{
		embedder: embedder,
		store:    store,
		logger:   logger,
	}
}

// RetrieveContext embeds the query, fetches a broad candidate set routed by
// intent, then re-ranks with the texture boost and near-duplicate removal.
// Any failure degrades to an empty list.
func (r *Retriever) RetrieveContext(ctx context.Context, query string, opts RetrieveOptions) []RetrievedChunk {
	ctx, cancel := context.WithTimeout(ctx, retrieveTimeout)
	defer cancel()

	count := opts.Count
	if count <= 0 {
		count = DefaultMatchCount
	}

	embedding, err := r.embedder.CreateEmbedding(ctx, query)
	if err != nil {
		r.logger.Error("context retrieval embedding failed", "error", err)
		return nil
	}

	filter := &pinecone.Filter{
		SourceTypes: intentSourceRoutes[opts.Intent],
	}
	if opts.PreFilterTexture && opts.HairTexture != "" {
		filter.HairTexture = opts.HairTexture
	}

	matches, err := r.store.QuerySimilar(ctx, embedding, candidateCount, filter)
	if err != nil {
		r.logger.Error("context similarity search failed", "error", err)
		return nil
	}

	chunks := make([]RetrievedChunk, 0, len(matches))
	for _, match := range matches {
		if match == nil || match.Vector == nil {
			continue
		}
		content := metadataString(match, "text")
		if content == "" {
			continue
		}
		chunks = append(chunks, RetrievedChunk{
			ID:                 match.Vector.Id,
			SourceType:         metadataString(match, "source_type"),
			SourceName:         metadataString(match, "source_name"),
			Content:            content,
			HairTexture:        metadataString(match, "hair_texture"),
			Similarity:         float64(match.Score),
			WeightedSimilarity: float64(match.Score),
		})
	}

	ranked := rerank(chunks, opts.HairTexture, count)
	r.logger.Debug("context retrieved", "candidates", len(chunks), "kept", len(ranked))
	return ranked
}

// rerank boosts texture matches, sorts by weighted similarity and drops
// near-duplicate chunks until finalCount survivors remain.
func rerank(chunks []RetrievedChunk, hairTexture string, finalCount int) []RetrievedChunk {
	for i := range chunks {
		if hairTexture != "" && chunks[i].HairTexture == hairTexture {
			chunks[i].WeightedSimilarity *= textureBoost
		}
	}

	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].WeightedSimilarity > chunks[j].WeightedSimilarity
	})

	kept := make([]RetrievedChunk, 0, finalCount)
	for _, chunk := range chunks {
		if isNearDuplicate(chunk, kept) {
			continue
		}
		kept = append(kept, chunk)
		if len(kept) >= finalCount {
			break
		}
	}

	return kept
}

// isNearDuplicate reports whether most of the shorter of the two texts
// appears as a contiguous substring of the longer one.
func isNearDuplicate(chunk RetrievedChunk, kept []RetrievedChunk) bool {
	for _, existing := range kept {
		shorter, longer := chunk.Content, existing.Content
		if len(shorter) > len(longer) {
			shorter, longer = longer, shorter
		}
		if len(shorter) == 0 {
			return true
		}

		runes := []rune(shorter)
		window := int(float64(len(runes)) * dedupOverlap)
		if window < 1 {
			if strings.Contains(longer, shorter) {
				return true
			}
			continue
		}
		for i := 0; i+window <= len(runes); i++ {
			if strings.Contains(longer, string(runes[i:i+window])) {
				return true
			}
		}
	}
	return false
}

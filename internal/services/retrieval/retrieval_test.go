// File: internal/services/retrieval/retrieval_test.go
package retrieval

import (
	"context"
	"errors"
	"strings"
	"testing"

	pineconeSDK "github.com/pinecone-io/go-pinecone/v4/pinecone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/haarwerk/haarwerk/internal/services/intent"
	"github.com/haarwerk/haarwerk/internal/services/pinecone"
)

type fakeEmbedder struct {
	err   error
	calls int
}

func (f *fakeEmbedder) CreateEmbedding(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	return []float32{0.1, 0.2}, f.err
}

type fakeStore struct {
	matches    []*pineconeSDK.ScoredVector
	err        error
	lastTopK   int
	lastFilter *pinecone.Filter
}

func (f *fakeStore) QuerySimilar(ctx context.Context, embedding []float32, topK int, filter *pinecone.Filter) ([]*pineconeSDK.ScoredVector, error) {
	f.lastTopK = topK
	f.lastFilter = filter
	return f.matches, f.err
}

type noopLogger struct{}

func (noopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Error(msg string, keysAndValues ...interface{}) {}
func (noopLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (noopLogger) Warn(msg string, keysAndValues ...interface{})  {}

func scoredVector(t *testing.T, id string, score float32, metadata map[string]interface{}) *pineconeSDK.ScoredVector {
	t.Helper()
	s, err := structpb.NewStruct(metadata)
	require.NoError(t, err)
	return &pineconeSDK.ScoredVector{
		Vector: &pineconeSDK.Vector{Id: id, Metadata: s},
		Score:  score,
	}
}

func TestScalpConcernCode(t *testing.T) {
	cases := []struct {
		scalpType, condition, want string
	}{
		{"fettig", "schuppen", ConcernDandruff},
		{"trocken", "gereizt", ConcernIrritation},
		{"fettig", "keine", ConcernDehydratedOily},
		{"fettig", "", ConcernDehydratedOily},
		{"trocken", "keine", ConcernDry},
		{"ausgeglichen", "", ConcernNormal},
		{"", "", ""},
		{"unbekannt", "unbekannt", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ScalpConcernCode(tc.scalpType, tc.condition),
			"type=%q condition=%q", tc.scalpType, tc.condition)
	}
}

func TestProteinMoistureConcernCode(t *testing.T) {
	assert.Equal(t, ConcernNeedsMoisture, ProteinMoistureConcernCode("snaps"))
	assert.Equal(t, ConcernNeedsProtein, ProteinMoistureConcernCode("stretches_stays"))
	assert.Empty(t, ProteinMoistureConcernCode("stretches_bounces"))
	assert.Empty(t, ProteinMoistureConcernCode(""))
}

func TestProfileConcernCodes(t *testing.T) {
	codes := ProfileConcernCodes("fettig", "schuppen", "snaps")
	assert.Equal(t, []string{ConcernDandruff, ConcernNeedsMoisture}, codes)

	assert.Empty(t, ProfileConcernCodes("", "", "stretches_bounces"))
}

func TestCategoryLabels(t *testing.T) {
	shampoo := intent.CategoryShampoo
	assert.Equal(t, []string{"shampoo", "shampoo-profi"}, CategoryLabels(&shampoo))

	routine := intent.CategoryRoutine
	assert.Len(t, CategoryLabels(&routine), 8)

	assert.Nil(t, CategoryLabels(nil))

	unknown := intent.Category("zahnpasta")
	assert.Nil(t, CategoryLabels(&unknown))
}

func TestMatchProductsMapsMetadata(t *testing.T) {
	store := &fakeStore{matches: []*pineconeSDK.ScoredVector{
		scoredVector(t, "p1", 0.92, map[string]interface{}{
			"name":        "Hydro Shampoo",
			"brand":       "Haarwerk",
			"description": "Mildes Shampoo",
			"category":    "shampoo",
		}),
	}}
	matcher := NewMatcher(&fakeEmbedder{}, store, noopLogger{})

	shampoo := intent.CategoryShampoo
	products := matcher.MatchProducts(context.Background(), "shampoo gesucht", MatchParams{
		Thickness: "fein",
		Concerns:  []string{ConcernDry},
		Category:  &shampoo,
	})

	require.Len(t, products, 1)
	assert.Equal(t, "p1", products[0].ID)
	assert.Equal(t, "Hydro Shampoo", products[0].Name)
	assert.InDelta(t, 0.92, products[0].Similarity, 1e-6)

	assert.Equal(t, DefaultMatchCount, store.lastTopK)
	assert.Equal(t, []string{ConcernDry}, store.lastFilter.Concerns)
	assert.Equal(t, []string{"shampoo", "shampoo-profi"}, store.lastFilter.Categories)
	assert.Equal(t, "fein", store.lastFilter.Thickness)
}

func TestMatchProductsEmptyOnFailure(t *testing.T) {
	t.Run("embedding failure", func(t *testing.T) {
		matcher := NewMatcher(&fakeEmbedder{err: errors.New("boom")}, &fakeStore{}, noopLogger{})
		assert.Empty(t, matcher.MatchProducts(context.Background(), "q", MatchParams{}))
	})

	t.Run("store failure", func(t *testing.T) {
		matcher := NewMatcher(&fakeEmbedder{}, &fakeStore{err: errors.New("boom")}, noopLogger{})
		assert.Empty(t, matcher.MatchProducts(context.Background(), "q", MatchParams{}))
	})
}

func TestRetrieveContextRoutesSourceTypes(t *testing.T) {
	store := &fakeStore{}
	retriever := NewRetriever(&fakeEmbedder{}, store, noopLogger{})

	retriever.RetrieveContext(context.Background(), "frage", RetrieveOptions{
		Intent: intent.IntentIngredientQuestion,
	})

	assert.Equal(t, candidateCount, store.lastTopK)
	assert.Equal(t, []string{"book", "qa"}, store.lastFilter.SourceTypes)
}

func TestRetrieveContextTexturePreFilter(t *testing.T) {
	store := &fakeStore{}
	retriever := NewRetriever(&fakeEmbedder{}, store, noopLogger{})

	retriever.RetrieveContext(context.Background(), "frage", RetrieveOptions{
		Intent:           intent.IntentProductRecommendation,
		HairTexture:      "lockig",
		PreFilterTexture: true,
	})
	assert.Equal(t, "lockig", store.lastFilter.HairTexture)

	retriever.RetrieveContext(context.Background(), "frage", RetrieveOptions{
		Intent:      intent.IntentProductRecommendation,
		HairTexture: "lockig",
	})
	assert.Empty(t, store.lastFilter.HairTexture)
}

func TestRetrieveContextEmptyOnFailure(t *testing.T) {
	retriever := NewRetriever(&fakeEmbedder{err: errors.New("boom")}, &fakeStore{}, noopLogger{})
	assert.Empty(t, retriever.RetrieveContext(context.Background(), "q", RetrieveOptions{}))
}

func TestRerankBoostsMatchingTexture(t *testing.T) {
	chunks := []RetrievedChunk{
		{ID: "a", Content: strings.Repeat("a", 100), Similarity: 0.80, WeightedSimilarity: 0.80},
		{ID: "b", Content: strings.Repeat("b", 100), HairTexture: "lockig", Similarity: 0.75, WeightedSimilarity: 0.75},
	}

	ranked := rerank(chunks, "lockig", 5)

	require.Len(t, ranked, 2)
	// 0.75 * 1.15 = 0.8625 beats 0.80.
	assert.Equal(t, "b", ranked[0].ID)
	assert.InDelta(t, 0.8625, ranked[0].WeightedSimilarity, 1e-6)
	assert.InDelta(t, 0.80, ranked[1].WeightedSimilarity, 1e-6)
}

func TestRerankDropsNearDuplicates(t *testing.T) {
	long := strings.Repeat("Haarpflege ist wichtig. ", 20)
	// A chunk that is a large verbatim substring of the first.
	duplicate := long[:len(long)*9/10]
	distinct := strings.Repeat("Ganz anderer Inhalt ohne Ueberlappung. ", 10)

	chunks := []RetrievedChunk{
		{ID: "orig", Content: long, Similarity: 0.9, WeightedSimilarity: 0.9},
		{ID: "dup", Content: duplicate, Similarity: 0.85, WeightedSimilarity: 0.85},
		{ID: "other", Content: distinct, Similarity: 0.8, WeightedSimilarity: 0.8},
	}

	ranked := rerank(chunks, "", 5)

	require.Len(t, ranked, 2)
	assert.Equal(t, "orig", ranked[0].ID)
	assert.Equal(t, "other", ranked[1].ID)
}

func TestRerankHonorsFinalCount(t *testing.T) {
	var chunks []RetrievedChunk
	for i := 0; i < 10; i++ {
		chunks = append(chunks, RetrievedChunk{
			ID:                 string(rune('a' + i)),
			Content:            strings.Repeat(string(rune('a'+i)), 80),
			WeightedSimilarity: float64(i),
		})
	}

	ranked := rerank(chunks, "", 3)
	require.Len(t, ranked, 3)
	assert.Equal(t, "j", ranked[0].ID)
}

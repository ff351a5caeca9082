// File: internal/services/pinecone/filter_test.go
package pinecone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterIsZero(t *testing.T) {
	var nilFilter *Filter
	assert.True(t, nilFilter.IsZero())
	assert.True(t, (&Filter{}).IsZero())
	assert.False(t, (&Filter{HairTexture: "lockig"}).IsZero())
	assert.False(t, (&Filter{Concerns: []string{"trocken"}}).IsZero())
}

func TestMetadataFilterZeroIsNil(t *testing.T) {
	f, err := (&Filter{}).MetadataFilter()
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestMetadataFilterSingleClause(t *testing.T) {
	f, err := (&Filter{HairTexture: "lockig"}).MetadataFilter()
	require.NoError(t, err)
	require.NotNil(t, f)

	fields := f.GetFields()
	require.Contains(t, fields, "hair_texture")
	assert.NotContains(t, fields, "$and")

	clause := fields["hair_texture"].GetStructValue().GetFields()
	assert.Equal(t, "lockig", clause["$eq"].GetStringValue())
}

func TestMetadataFilterCombinesClausesWithAnd(t *testing.T) {
	filter := &Filter{
		Concerns:   []string{"trocken", "schuppen"},
		Categories: []string{"shampoo"},
		Thickness:  "fein",
	}

	f, err := filter.MetadataFilter()
	require.NoError(t, err)
	require.NotNil(t, f)

	and := f.GetFields()["$and"].GetListValue()
	require.NotNil(t, and)
	assert.Len(t, and.GetValues(), 3)
}

func TestMetadataFilterInClause(t *testing.T) {
	f, err := (&Filter{SourceTypes: []string{"book", "qa"}}).MetadataFilter()
	require.NoError(t, err)

	clause := f.GetFields()["source_type"].GetStructValue().GetFields()
	values := clause["$in"].GetListValue().GetValues()
	require.Len(t, values, 2)
	assert.Equal(t, "book", values[0].GetStringValue())
	assert.Equal(t, "qa", values[1].GetStringValue())
}

// File: internal/services/pinecone/filter.go
package pinecone

import (
	"github.com/pinecone-io/go-pinecone/v4/pinecone"
	"google.golang.org/protobuf/types/known/structpb"
)

// Filter describes metadata constraints for a similarity search.
// Empty fields impose no constraint. The store combines the filter with
// vector similarity; callers do not re-rank client-side.
type Filter struct {
	// Concerns matches any of the given concern codes on the "concern" field.
	Concerns []string
	// Categories matches any of the given catalog labels on the "category" field.
	Categories []string
	// HairTexture is an exact match on the "hair_texture" field.
	HairTexture string
	// Thickness is an exact match on the "thickness" field.
	Thickness string
	// SourceTypes matches any of the given labels on the "source_type" field.
	SourceTypes []string
}

// IsZero reports whether the filter imposes no constraints.
func (f *Filter) IsZero() bool {
	return f == nil ||
		(len(f.Concerns) == 0 && len(f.Categories) == 0 &&
			f.HairTexture == "" && f.Thickness == "" && len(f.SourceTypes) == 0)
}

// MetadataFilter translates the filter into the store's query syntax.
// Returns nil for a zero filter.
func (f *Filter) MetadataFilter() (*pinecone.MetadataFilter, error) {
	if f.IsZero() {
		return nil, nil
	}

	var clauses []interface{}
	if len(f.Concerns) > 0 {
		clauses = append(clauses, anyOf("concern", f.Concerns))
	}
	if len(f.Categories) > 0 {
		clauses = append(clauses, anyOf("category", f.Categories))
	}
	if f.HairTexture != "" {
		clauses = append(clauses, map[string]interface{}{
			"hair_texture": map[string]interface{}{"$eq": f.HairTexture},
		})
	}
	if f.Thickness != "" {
		clauses = append(clauses, map[string]interface{}{
			"thickness": map[string]interface{}{"$eq": f.Thickness},
		})
	}
	if len(f.SourceTypes) > 0 {
		clauses = append(clauses, anyOf("source_type", f.SourceTypes))
	}

	var expr map[string]interface{}
	if len(clauses) == 1 {
		expr = clauses[0].(map[string]interface{})
	} else {
		expr = map[string]interface{}{"$and": clauses}
	}

	s, err := structpb.NewStruct(expr)
	if err != nil {
		return nil, NewOperationError("failed to build metadata filter", err)
	}
	return s, nil
}

func anyOf(field string, values []string) map[string]interface{} {
	vals := make([]interface{}, len(values))
	for i, v := range values {
		vals[i] = v
	}
	return map[string]interface{}{
		field: map[string]interface{}{"$in": vals},
	}
}

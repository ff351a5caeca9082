// File: internal/services/pinecone/repository.go
package pinecone

import (
	"context"

	"github.com/pinecone-io/go-pinecone/v4/pinecone"
)

// VectorService implements VectorRepository with retries around the SDK calls.
type VectorService struct {
	client *ClientService
	retry  *RetryService
	config *Config
	logger Logger
}

func NewVectorService(client *ClientService, retry *RetryService, config *Config, logger Logger) *VectorService {
	return &VectorService{
		client: client,
		retry:  retry,
		config: config,
		logger: logger,
	}
}

// QuerySimilar runs a filtered similarity search and returns the top-K matches
// with metadata, ranked by the store.
func (v *VectorService) QuerySimilar(ctx context.Context, embedding []float32, topK int, filter *Filter) ([]*pinecone.ScoredVector, error) {
	metadataFilter, err := filter.MetadataFilter()
	if err != nil {
		return nil, err
	}

	var result []*pinecone.ScoredVector
	err = v.retry.RetryWithTimeout(func(ctx context.Context) error {
		v.logger.Debug("querying similar vectors", "topK", topK, "dimension", len(embedding))

		resp, err := v.client.Index().QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
			Vector:          embedding,
			TopK:            uint32(topK),
			MetadataFilter:  metadataFilter,
			IncludeMetadata: true,
		})
		if err != nil {
			v.logger.Error("similarity search failed", "error", err)
			return NewOperationError("search operation failed", err)
		}

		result = resp.Matches
		v.logger.Debug("similarity search completed", "results_count", len(result))
		return nil
	})
	return result, err
}

// UpsertVectors writes vectors in config-sized batches.
func (v *VectorService) UpsertVectors(ctx context.Context, vectors []*pinecone.Vector) error {
	for start := 0; start < len(vectors); start += v.config.BatchSize {
		end := start + v.config.BatchSize
		if end > len(vectors) {
			end = len(vectors)
		}
		batch := vectors[start:end]

		err := v.retry.RetryWithTimeout(func(ctx context.Context) error {
			count, err := v.client.Index().UpsertVectors(ctx, batch)
			if err != nil {
				return NewOperationError("upsert operation failed", err)
			}
			v.logger.Debug("upserted vector batch", "count", count)
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (v *VectorService) DeleteVectors(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return v.retry.RetryWithTimeout(func(ctx context.Context) error {
		if err := v.client.Index().DeleteVectorsById(ctx, ids); err != nil {
			return NewOperationError("delete operation failed", err)
		}
		return nil
	})
}

// DeleteByPrefix removes every vector whose ID starts with prefix. Listing
// is paginated; pages are deleted as they are listed, so a mid-run failure
// leaves earlier pages already removed.
func (v *VectorService) DeleteByPrefix(ctx context.Context, prefix string) error {
	limit := uint32(v.config.BatchSize)
	var token *string

	for {
		var resp *pinecone.ListVectorsResponse
		err := v.retry.RetryWithTimeout(func(ctx context.Context) error {
			var listErr error
			resp, listErr = v.client.Index().ListVectors(ctx, &pinecone.ListVectorsRequest{
				Prefix:          &prefix,
				Limit:           &limit,
				PaginationToken: token,
			})
			if listErr != nil {
				return NewOperationError("list operation failed", listErr)
			}
			return nil
		})
		if err != nil {
			return err
		}
		if len(resp.VectorIds) == 0 {
			return nil
		}

		ids := make([]string, 0, len(resp.VectorIds))
		for _, id := range resp.VectorIds {
			if id != nil {
				ids = append(ids, *id)
			}
		}
		if err := v.DeleteVectors(ctx, ids); err != nil {
			return err
		}
		v.logger.Debug("deleted vector page", "prefix", prefix, "count", len(ids))

		if resp.NextPaginationToken == nil {
			return nil
		}
		token = resp.NextPaginationToken
	}
}

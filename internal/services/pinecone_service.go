// File: internal/services/pinecone_service.go
package services

import (
	"context"

	"github.com/haarwerk/haarwerk/internal/services/pinecone"
	pineconeSDK "github.com/pinecone-io/go-pinecone/v4/pinecone"
)

// PineconeService bundles the client, retry and vector components for one
// namespace behind a single facade.
type PineconeService struct {
	config        *pinecone.Config
	clientService *pinecone.ClientService
	vectorService *pinecone.VectorService
	logger        Logger
}

func NewPineconeService(apiKey, indexHost, namespace string, logger Logger) (*PineconeService, error) {
	config := pinecone.DefaultConfig()
	config.APIKey = apiKey
	config.IndexHost = indexHost
	config.Namespace = namespace

	if err := config.Validate(); err != nil {
		return nil, pinecone.NewConfigError(err.Error())
	}

	clientService, err := pinecone.NewClientService(config, logger)
	if err != nil {
		return nil, err
	}

	retryService := pinecone.NewRetryService(config, logger)
	vectorService := pinecone.NewVectorService(clientService, retryService, config, logger)

	return &PineconeService{
		config:        config,
		clientService: clientService,
		vectorService: vectorService,
		logger:        logger,
	}, nil
}

func (s *PineconeService) QuerySimilar(ctx context.Context, embedding []float32, topK int, filter *pinecone.Filter) ([]*pineconeSDK.ScoredVector, error) {
	return s.vectorService.QuerySimilar(ctx, embedding, topK, filter)
}

func (s *PineconeService) UpsertVectors(ctx context.Context, vectors []*pineconeSDK.Vector) error {
	return s.vectorService.UpsertVectors(ctx, vectors)
}

func (s *PineconeService) DeleteVectors(ctx context.Context, ids []string) error {
	return s.vectorService.DeleteVectors(ctx, ids)
}

func (s *PineconeService) DeleteByPrefix(ctx context.Context, prefix string) error {
	return s.vectorService.DeleteByPrefix(ctx, prefix)
}

func (s *PineconeService) HealthCheck(ctx context.Context) error {
	return s.clientService.HealthCheck(ctx)
}

func (s *PineconeService) GetStatus(ctx context.Context) pinecone.ServiceStatus {
	return s.clientService.GetStatus(ctx)
}

func (s *PineconeService) Close() error {
	return s.clientService.Close()
}

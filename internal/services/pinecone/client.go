// File: internal/services/pinecone/client.go
package pinecone

import (
	"context"

	"github.com/pinecone-io/go-pinecone/v4/pinecone"
)

// ClientService manages the Pinecone SDK client and the index connection
// for one namespace.
type ClientService struct {
	config *Config
	client *pinecone.Client
	index  *pinecone.IndexConnection
	logger Logger
}

// NewClientService connects to the configured index host and namespace.
func NewClientService(config *Config, logger Logger) (*ClientService, error) {
	if err := config.Validate(); err != nil {
		return nil, NewConfigError(err.Error())
	}

	client, err := pinecone.NewClient(pinecone.NewClientParams{
		ApiKey: config.APIKey,
	})
	if err != nil {
		return nil, NewConnectionError("failed to create pinecone client", err)
	}

	index, err := client.Index(pinecone.NewIndexConnParams{
		Host:      config.IndexHost,
		Namespace: config.Namespace,
	})
	if err != nil {
		return nil, NewConnectionError("failed to open index connection", err)
	}

	logger.Info("pinecone client initialized",
		"host", config.IndexHost,
		"namespace", config.Namespace)

	return &ClientService{
		config: config,
		client: client,
		index:  index,
		logger: logger,
	}, nil
}

// Index returns the namespace-bound index connection.
func (c *ClientService) Index() *pinecone.IndexConnection {
	return c.index
}

// HealthCheck verifies the index is reachable.
func (c *ClientService) HealthCheck(ctx context.Context) error {
	if _, err := c.index.DescribeIndexStats(ctx); err != nil {
		c.logger.Error("pinecone health check failed", "error", err)
		return NewConnectionError("index stats request failed", err)
	}
	c.logger.Debug("pinecone health check passed")
	return nil
}

func (c *ClientService) GetStatus(ctx context.Context) ServiceStatus {
	err := c.HealthCheck(ctx)
	isHealthy := err == nil

	return ServiceStatus{
		IsHealthy:         isHealthy,
		ConnectionHealthy: isHealthy,
		IndexHost:         c.config.IndexHost,
		Namespace:         c.config.Namespace,
		Message:           "Pinecone vector store",
	}
}

func (c *ClientService) Close() error {
	return c.index.Close()
}

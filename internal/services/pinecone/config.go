// File: internal/services/pinecone/config.go
package pinecone

import (
	"errors"
	"time"
)

type Config struct {
	APIKey    string
	IndexHost string
	Namespace string

	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration

	BatchSize int
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:    30 * time.Second,
		MaxRetries: 3,
		RetryDelay: 2 * time.Second,
		BatchSize:  100,
	}
}

func (c *Config) Validate() error {
	if c.IndexHost == "" {
		return errors.New("pinecone index host is required")
	}
	if c.APIKey == "" {
		return errors.New("pinecone API key is required")
	}
	if c.Namespace == "" {
		return errors.New("pinecone namespace is required")
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	if c.MaxRetries < 0 {
		return errors.New("max retries cannot be negative")
	}
	return nil
}

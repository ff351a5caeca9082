// File: internal/services/chat/config.go
package chat

import (
	"fmt"
	"time"
)

type Config struct {
	// Retrieval Configuration
	RetrievalTopK int // Number of knowledge chunks to retrieve
	MatchCount    int // Number of products to match
	HistoryLimit  int // Prior turns passed to the model

	// Model Configuration
	ChatModel  string // Model for the streamed advice reply
	SmallModel string // Model for classification, titles and extraction

	// Performance Configuration
	Timeout time.Duration // Full pipeline timeout

	// Generation Parameters
	Temperature float32
	MaxTokens   int
}

func (c *Config) Validate() error {
	if c.RetrievalTopK <= 0 {
		return fmt.Errorf("retrieval_top_k must be positive")
	}
	if c.RetrievalTopK > 20 {
		return fmt.Errorf("retrieval_top_k cannot exceed 20")
	}
	if c.MatchCount <= 0 {
		return fmt.Errorf("match_count must be positive")
	}
	if c.HistoryLimit < 0 {
		return fmt.Errorf("history_limit cannot be negative")
	}
	if c.ChatModel == "" {
		return fmt.Errorf("chat_model is required")
	}
	if c.SmallModel == "" {
		return fmt.Errorf("small_model is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		RetrievalTopK: 5,
		MatchCount:    5,
		HistoryLimit:  10,
		ChatModel:     "gpt-4o",
		SmallModel:    "gpt-4o-mini",
		Timeout:       120 * time.Second,
		Temperature:   0.7,
		MaxTokens:     2000,
	}
}

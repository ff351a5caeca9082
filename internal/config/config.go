// File: internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string

	// OpenAI-compatible provider settings.
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	EmbeddingModel string
	ChatModel      string
	// SmallModel is used for cheap auxiliary calls (titles, memory extraction).
	SmallModel string

	// Pinecone settings. ProductNamespace holds catalog item vectors,
	// ContentNamespace holds knowledge chunk vectors.
	PineconeAPIKey   string
	PineconeHost     string
	ProductNamespace string
	ContentNamespace string

	RetrievalTopK int
	Environment   string
}

// Load reads configuration from environment variables or .env file.
func Load() *Config {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", ""),
		EmbeddingModel:   getEnv("EMBEDDING_MODEL_NAME", "text-embedding-3-small"),
		ChatModel:        getEnv("CHAT_MODEL_NAME", "gpt-4o"),
		SmallModel:       getEnv("SMALL_MODEL_NAME", "gpt-4o-mini"),
		PineconeAPIKey:   getEnv("PINECONE_API_KEY", ""),
		PineconeHost:     getEnv("PINECONE_INDEX_HOST", ""),
		ProductNamespace: getEnv("PINECONE_PRODUCT_NAMESPACE", "products"),
		ContentNamespace: getEnv("PINECONE_CONTENT_NAMESPACE", "content"),
		RetrievalTopK:    getEnvAsInt("RAG_TOPK", 5),
		Environment:      env,
	}

	// Validation for production environments
	if strings.ToLower(env) == "production" {
		missing := []string{}
		if cfg.OpenAIAPIKey == "" {
			missing = append(missing, "OPENAI_API_KEY")
		}
		if cfg.PineconeAPIKey == "" {
			missing = append(missing, "PINECONE_API_KEY")
		}
		if cfg.PineconeHost == "" {
			missing = append(missing, "PINECONE_INDEX_HOST")
		}
		if len(missing) > 0 {
			log.Fatalf("Missing required production environment variables: %v", missing)
		}
	}

	return cfg
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}

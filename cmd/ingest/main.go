// File: cmd/ingest/main.go

// Offline ingestion tool: chunks markdown knowledge sources and embeds the
// product catalog into their Pinecone namespaces.
//
// Usage:
//
//	ingest -dir data/markdown            # ingest knowledge chunks
//	ingest -products data/products.json  # regenerate product embeddings
package main

import (
	"context"
	"flag"
	"log"

	"github.com/haarwerk/haarwerk/internal/config"
	"github.com/haarwerk/haarwerk/internal/ingest"
	"github.com/haarwerk/haarwerk/internal/services"
	"github.com/haarwerk/haarwerk/internal/services/ai"
)

func main() {
	dir := flag.String("dir", "", "directory of markdown sources to ingest")
	productsPath := flag.String("products", "", "JSON product catalog to embed")
	flag.Parse()

	if *dir == "" && *productsPath == "" {
		log.Fatal("nothing to do: pass -dir and/or -products")
	}

	cfg := config.Load()
	logger := services.NewLogger("ingest")

	aiConfig := ai.DefaultConfig()
	aiConfig.APIKey = cfg.OpenAIAPIKey
	aiConfig.BaseURL = cfg.OpenAIBaseURL
	aiConfig.EmbeddingModel = cfg.EmbeddingModel
	provider, err := ai.NewOpenAIProvider(aiConfig, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize AI provider: %v", err)
	}

	ctx := context.Background()

	if *dir != "" {
		contentStore, err := services.NewPineconeService(
			cfg.PineconeAPIKey, cfg.PineconeHost, cfg.ContentNamespace, logger)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize content vector store: %v", err)
		}
		defer contentStore.Close()

		pipeline := ingest.NewPipeline(provider, contentStore, logger)
		stats, err := pipeline.IngestDir(ctx, *dir)
		if err != nil {
			log.Fatalf("Markdown ingestion failed: %v", err)
		}
		log.Printf("Markdown ingestion done: %d files, %d chunks, %d vectors upserted, %d skipped",
			stats.Files, stats.Chunks, stats.Upserted, stats.Skipped)
	}

	if *productsPath != "" {
		productStore, err := services.NewPineconeService(
			cfg.PineconeAPIKey, cfg.PineconeHost, cfg.ProductNamespace, logger)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize product vector store: %v", err)
		}
		defer productStore.Close()

		products, err := ingest.LoadProducts(*productsPath)
		if err != nil {
			log.Fatalf("Failed to load products: %v", err)
		}

		pipeline := ingest.NewPipeline(provider, productStore, logger)
		stats, err := pipeline.IngestProducts(ctx, products)
		if err != nil {
			log.Fatalf("Product ingestion failed: %v", err)
		}
		log.Printf("Product ingestion done: %d products, %d vectors upserted",
			len(products), stats.Upserted)
	}
}

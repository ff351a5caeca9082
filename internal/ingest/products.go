// File: internal/ingest/products.go
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/pinecone-io/go-pinecone/v4/pinecone"
	"google.golang.org/protobuf/types/known/structpb"
)

// German labels used when generating a product description from its tags.
var concernLabels = map[string]string{
	"schuppen":          "Schuppen",
	"irritationen":      "Kopfhautirritationen",
	"normal":            "normale Pflege",
	"dehydriert-fettig": "dehydrierte oder fettige Kopfhaut",
	"trocken":           "trockene Kopfhaut",
	"protein":           "Proteinbedarf",
	"feuchtigkeit":      "Feuchtigkeitsbedarf",
}

var textureAdjectives = map[string]string{
	"fein":   "feines",
	"mittel": "mittelstarkes",
	"dick":   "dickes",
}

// ProductInput is one catalog entry from the products JSON file.
type ProductInput struct {
	Name              string   `json:"name"`
	Brand             string   `json:"brand"`
	Description       string   `json:"description"`
	Category          string   `json:"category"`
	SuitableThickness []string `json:"suitable_hair_types"`
	SuitableConcerns  []string `json:"suitable_concerns"`
}

// LoadProducts reads the catalog from a JSON file.
func LoadProducts(path string) ([]ProductInput, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read products file: %w", err)
	}
	var products []ProductInput
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("parse products file: %w", err)
	}

	kept := products[:0]
	for _, p := range products {
		if p.Name != "" {
			kept = append(kept, p)
		}
	}
	return kept, nil
}

// describeProduct builds the German semantic text that gets embedded when a
// product carries no hand-written description.
func describeProduct(p ProductInput) string {
	hair := "alle Haartypen"
	if len(p.SuitableThickness) > 0 {
		adjectives := make([]string, 0, len(p.SuitableThickness))
		for _, t := range p.SuitableThickness {
			if adj, ok := textureAdjectives[t]; ok {
				adjectives = append(adjectives, adj)
			} else {
				adjectives = append(adjectives, t)
			}
		}
		hair = strings.Join(adjectives, ", ")
	}

	concernText := "allgemeine Pflege"
	if len(p.SuitableConcerns) > 0 {
		labels := make([]string, 0, len(p.SuitableConcerns))
		for _, c := range p.SuitableConcerns {
			if label, ok := concernLabels[c]; ok {
				labels = append(labels, label)
			} else {
				labels = append(labels, c)
			}
		}
		concernText = strings.Join(labels, ", ")
	}

	category := p.Category
	if category == "" {
		category = "Produkt"
	}
	brand := ""
	if p.Brand != "" && p.Brand != p.Name {
		brand = " von " + p.Brand
	}
	return fmt.Sprintf("%s ist ein %s%s, empfohlen für %s Haar bei %s.",
		p.Name, category, brand, hair, concernText)
}

// IngestProducts embeds product descriptions and upserts them into the
// product namespace. Embedding regeneration is best-effort: each batch is
// written independently and there is no transaction across the run.
func (p *Pipeline) IngestProducts(ctx context.Context, products []ProductInput) (*Stats, error) {
	stats := &Stats{}

	// Product vectors get fresh IDs every run, so the namespace is cleared
	// first. The empty prefix matches every vector in it.
	if err := p.store.DeleteByPrefix(ctx, ""); err != nil {
		return stats, fmt.Errorf("clear product namespace: %w", err)
	}

	for start := 0; start < len(products); start += embeddingBatchSize {
		end := start + embeddingBatchSize
		if end > len(products) {
			end = len(products)
		}
		batch := products[start:end]

		if err := p.embedAndUpsertProducts(ctx, batch, stats); err != nil {
			// Best-effort: a failed batch is skipped, a re-run converges.
			p.logger.Error("product batch failed, skipping", "offset", start, "error", err)
			stats.Skipped += len(batch)
		}
	}

	p.logger.Info("product ingestion completed",
		"products", len(products), "upserted", stats.Upserted, "skipped", stats.Skipped)
	return stats, nil
}

func (p *Pipeline) embedAndUpsertProducts(ctx context.Context, batch []ProductInput, stats *Stats) error {
	ctx, cancel := context.WithTimeout(ctx, batchTimeout)
	defer cancel()

	texts := make([]string, len(batch))
	for i, product := range batch {
		if product.Description != "" {
			texts[i] = product.Description
		} else {
			texts[i] = describeProduct(product)
		}
	}

	embeddings, err := p.embedder.CreateEmbeddings(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed products: %w", err)
	}

	vectors := make([]*pinecone.Vector, 0, len(batch))
	for i, product := range batch {
		metadata, err := structpb.NewStruct(map[string]interface{}{
			"name":        product.Name,
			"brand":       product.Brand,
			"description": texts[i],
			"category":    product.Category,
			"thickness":   toInterfaceList(product.SuitableThickness),
			"concern":     toInterfaceList(product.SuitableConcerns),
		})
		if err != nil {
			return fmt.Errorf("build product metadata: %w", err)
		}
		values := embeddings[i]
		vectors = append(vectors, &pinecone.Vector{
			Id:       uuid.NewString(),
			Values:   &values,
			Metadata: metadata,
		})
	}

	if err := p.store.UpsertVectors(ctx, vectors); err != nil {
		return fmt.Errorf("upsert products: %w", err)
	}
	stats.Upserted += len(vectors)
	return nil
}

func toInterfaceList(values []string) []interface{} {
	list := make([]interface{}, len(values))
	for i, v := range values {
		list[i] = v
	}
	return list
}

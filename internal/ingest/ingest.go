// File: internal/ingest/ingest.go
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pinecone-io/go-pinecone/v4/pinecone"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/haarwerk/haarwerk/internal/chunker"
	"github.com/haarwerk/haarwerk/internal/services/ai"
)

const (
	chunkTargetSize = 1500
	chunkOverlap    = 200

	// embeddingBatchSize bounds one embedding API request.
	embeddingBatchSize = 100

	batchTimeout = 60 * time.Second
)

// VectorStore is the write surface of a vector namespace.
type VectorStore interface {
	UpsertVectors(ctx context.Context, vectors []*pinecone.Vector) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// Logger is the key/value logging interface used by this package.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Stats summarizes one ingestion run.
type Stats struct {
	Files    int
	Chunks   int
	Upserted int
	Skipped  int
}

// Pipeline chunks markdown sources, embeds them in batches and upserts the
// vectors with their metadata tags.
type Pipeline struct {
	embedder ai.EmbeddingProvider
	store    VectorStore
	logger   Logger
}

func NewPipeline(embedder ai.EmbeddingProvider, store VectorStore, logger Logger) *Pipeline {
	return &Pipeline{
		embedder: embedder,
		store:    store,
		logger:   logger,
	}
}

// IngestDir processes every .md file under dir. Files that fail to parse
// are skipped and counted, not fatal; embedding or upsert failures abort
// the run.
func (p *Pipeline) IngestDir(ctx context.Context, dir string) (*Stats, error) {
	stats := &Stats{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read source dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := p.ingestFile(ctx, path, stats); err != nil {
			return stats, fmt.Errorf("ingest %s: %w", entry.Name(), err)
		}
		stats.Files++
	}

	p.logger.Info("ingestion completed",
		"files", stats.Files, "chunks", stats.Chunks, "upserted", stats.Upserted, "skipped", stats.Skipped)
	return stats, nil
}

func (p *Pipeline) ingestFile(ctx context.Context, path string, stats *Stats) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	fm, body := ParseFrontMatter(string(raw))
	if fm.SourceType == "" {
		p.logger.Warn("skipping file without source_type", "file", path)
		stats.Skipped++
		return nil
	}
	if fm.SourceName == "" {
		fm.SourceName = strings.TrimSuffix(filepath.Base(path), ".md")
	}

	plain, err := MarkdownToText([]byte(body))
	if err != nil {
		return err
	}

	chunks := chunker.Chunk(chunker.Normalize(plain), chunkTargetSize, chunkOverlap)
	if len(chunks) == 0 {
		p.logger.Warn("no chunks produced", "file", path)
		stats.Skipped++
		return nil
	}
	stats.Chunks += len(chunks)
	p.logger.Debug("chunked file", "file", path, "chunks", len(chunks))

	// Chunk IDs are derived from the source name, so re-ingesting a source
	// replaces its vectors. Stale vectors beyond the new chunk count are
	// cleared first.
	if err := p.store.DeleteByPrefix(ctx, chunkIDPrefix(fm.SourceName)); err != nil {
		return fmt.Errorf("clear existing vectors: %w", err)
	}

	for start := 0; start < len(chunks); start += embeddingBatchSize {
		end := start + embeddingBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		if err := p.embedAndUpsert(ctx, fm, chunks[start:end], start, stats); err != nil {
			return err
		}
	}
	return nil
}

// embedAndUpsert embeds one batch of chunks and writes them as vectors.
// Chunk indices are global within the file so re-ingestion stays stable.
func (p *Pipeline) embedAndUpsert(ctx context.Context, fm FrontMatter, batch []string, offset int, stats *Stats) error {
	ctx, cancel := context.WithTimeout(ctx, batchTimeout)
	defer cancel()

	embeddings, err := p.embedder.CreateEmbeddings(ctx, batch)
	if err != nil {
		return fmt.Errorf("embed batch: %w", err)
	}

	vectors := make([]*pinecone.Vector, 0, len(batch))
	for i, content := range batch {
		metadata, err := structpb.NewStruct(map[string]interface{}{
			"source_type":  fm.SourceType,
			"source_name":  fm.SourceName,
			"chunk_index":  offset + i,
			"concern":      fm.Concern,
			"hair_texture": fm.HairTexture,
			"text":         content,
		})
		if err != nil {
			return fmt.Errorf("build metadata: %w", err)
		}
		values := embeddings[i]
		vectors = append(vectors, &pinecone.Vector{
			Id:       chunkID(fm.SourceName, offset+i),
			Values:   &values,
			Metadata: metadata,
		})
	}

	if err := p.store.UpsertVectors(ctx, vectors); err != nil {
		return fmt.Errorf("upsert batch: %w", err)
	}
	stats.Upserted += len(vectors)
	return nil
}

func chunkIDPrefix(sourceName string) string {
	return sourceName + "#"
}

func chunkID(sourceName string, index int) string {
	return fmt.Sprintf("%s#%04d", sourceName, index)
}

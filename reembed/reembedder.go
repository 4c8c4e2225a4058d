// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reembed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/poiesic/studyrag/ai"
	"github.com/poiesic/studyrag/core"
	"github.com/poiesic/studyrag/jobs"
	"github.com/poiesic/studyrag/storage"
)

// Config holds configuration for the re-embedding pass.
type Config struct {
	// BatchSize is the number of chunks to embed per provider call
	BatchSize int

	// ReportInterval is how often to report progress (number of chunks)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for embedding calls
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// RepairOnly limits the pass to chunks with a missing vector. When
	// false, every chunk is re-embedded (model migration).
	RepairOnly bool
}

// DefaultConfig returns a Config with sensible defaults. The default mode is
// repair-only.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
		RepairOnly:     true,
	}
}

// Reembedder walks every document and regenerates chunk embeddings.
type Reembedder struct {
	documents storage.DocumentRepository
	chunks    storage.ChunkRepository
	embedder  ai.Embedder
	config    *Config
	progress  io.Writer
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(
	documents storage.DocumentRepository,
	chunks storage.ChunkRepository,
	embedder ai.Embedder,
	config *Config,
	progress io.Writer,
) (*Reembedder, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}

	return &Reembedder{
		documents: documents,
		chunks:    chunks,
		embedder:  embedder,
		config:    config,
		progress:  progress,
	}, nil
}

// Run executes the re-embedding pass over every document.
func (r *Reembedder) Run(ctx context.Context) error {
	docs, err := r.documents.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	type docWork struct {
		doc     *core.Document
		chunks  []*core.Chunk
		pending []int
	}

	var work []docWork
	total := 0
	for _, doc := range docs {
		chunks, err := r.chunks.GetChunks(ctx, doc.Id)
		if err != nil {
			return fmt.Errorf("failed to load chunks for document %d: %w", doc.Id, err)
		}

		var pending []int
		for i, chunk := range chunks {
			if r.config.RepairOnly && len(chunk.Vector) > 0 {
				continue
			}
			pending = append(pending, i)
		}
		if len(pending) == 0 {
			continue
		}

		work = append(work, docWork{doc: doc, chunks: chunks, pending: pending})
		total += len(pending)
	}

	if total == 0 {
		fmt.Fprintf(r.progress, "Nothing to re-embed (0 chunks)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting re-embedding of %d chunks across %d documents (batch size: %d)\n",
		total, len(work), r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	for _, w := range work {
		if err := r.processDocument(ctx, w.doc.Id, w.chunks, w.pending, tracker); err != nil {
			return fmt.Errorf("document %d: %w", w.doc.Id, err)
		}
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Re-embedding complete. Processed %d chunks in %v (%.1f chunks/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())

	return nil
}

// processDocument embeds the pending chunks of one document in batches, then
// rewrites the document's chunk set once all batches succeed. A failed
// document leaves its stored chunks untouched.
func (r *Reembedder) processDocument(ctx context.Context, documentID core.ID, chunks []*core.Chunk, pending []int, tracker *ProgressTracker) error {
	for start := 0; start < len(pending); start += r.config.BatchSize {
		end := start + r.config.BatchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[start:end]

		texts := make([]string, len(batch))
		for i, idx := range batch {
			texts[i] = chunks[idx].Content
		}

		var embeddings [][]float32
		err := jobs.RetryWithBackoff(ctx, func() error {
			var embedErr error
			embeddings, embedErr = r.embedder.EmbedTexts(ctx, texts)
			return embedErr
		}, r.config.MaxRetries, r.config.RetryDelay)
		if err != nil {
			return fmt.Errorf("failed to generate embeddings after %d attempts: %w", r.config.MaxRetries, err)
		}
		if len(embeddings) != len(batch) {
			return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(batch), len(embeddings))
		}

		for i, idx := range batch {
			chunks[idx].Vector = embeddings[i]
		}
		tracker.Increment(len(batch))
	}

	return r.chunks.PutChunks(ctx, documentID, chunks)
}

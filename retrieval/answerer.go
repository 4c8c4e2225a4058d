package retrieval

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/studyrag/ai"
	"github.com/poiesic/studyrag/core"
	"github.com/poiesic/studyrag/storage"
)

// Answerer answers natural-language questions grounded in a single
// ingested document.
type Answerer struct {
	documentRepository storage.DocumentRepository
	chunkRepository    storage.ChunkRepository
	embedder           ai.Embedder
	generator          ai.Generator
	logger             *slog.Logger
}

// Option configures an Answerer.
type Option func(*Answerer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Answerer) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// AnswerResult is the outcome of a grounded query.
type AnswerResult struct {
	// Answer is the generated answer text. Never empty: generation
	// failures degrade to a placeholder string.
	Answer string

	// DocumentTitle is the file name of the queried document.
	DocumentTitle string
}

// NewAnswerer creates a new answerer.
func NewAnswerer(
	documentRepository storage.DocumentRepository,
	chunkRepository storage.ChunkRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Answerer, error) {
	if documentRepository == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if chunkRepository == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	a := &Answerer{
		documentRepository: documentRepository,
		chunkRepository:    chunkRepository,
		embedder:           provider.Embedder(),
		generator:          provider.Generator(),
		logger:             slog.Default().With("component", "answerer"),
	}

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// Answer embeds the query, ranks the document's chunks against it, and
// generates an answer grounded in the selected context.
//
// Returns storage.ErrNotFound when the document doesn't exist, and
// ErrStillProcessing when the document has no chunks yet. A query
// embedding failure is fatal: without a query vector there is nothing
// to rank against.
func (a *Answerer) Answer(ctx context.Context, documentID core.ID, query string) (*AnswerResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	document, err := a.documentRepository.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	chunks, err := a.chunkRepository.GetChunks(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		a.logger.Debug("document has no chunks yet", "document_id", documentID)
		return nil, ErrStillProcessing
	}

	queryVector, err := a.embedder.EmbedText(ctx, query)
	if err != nil {
		a.logger.Error("error generating embedding for query", "document_id", documentID, "err", err)
		return nil, err
	}

	selected := Rank(queryVector, chunks)
	excerpts := BuildContext(selected)

	a.logger.Debug("assembled context",
		"document_id", documentID,
		"total_chunks", len(chunks),
		"selected_chunks", len(selected))

	answer, err := a.generator.Answer(ctx, excerpts, query)
	if err != nil {
		a.logger.Error("error generating answer", "document_id", documentID, "err", err)
		return nil, err
	}

	return &AnswerResult{
		Answer:        answer,
		DocumentTitle: document.FileName,
	}, nil
}

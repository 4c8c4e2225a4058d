package reembed

import "errors"

var (
	// ErrDocumentRepositoryRequired is returned when a nil document repository is provided.
	ErrDocumentRepositoryRequired = errors.New("document repository is required")
	// ErrChunkRepositoryRequired is returned when a nil chunk repository is provided.
	ErrChunkRepositoryRequired = errors.New("chunk repository is required")
	// ErrEmbedderRequired is returned when a nil embedder is provided.
	ErrEmbedderRequired = errors.New("embedder is required")
)

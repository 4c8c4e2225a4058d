package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces text and structured content from an LLM.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// Summarize produces a short multi-paragraph synopsis of the text.
	// Input is truncated to a bounded prefix before prompting to respect
	// generation-model input limits. Never returns an empty string: if the
	// model produces no usable text, a fixed placeholder is returned.
	Summarize(ctx context.Context, text string) (string, error)

	// Answer answers a question strictly from the supplied context excerpts.
	// Never returns an empty string: if the model produces no usable text,
	// a fixed placeholder is returned.
	Answer(ctx context.Context, excerpts, question string) (string, error)

	// Generate produces free-form text from a prompt.
	Generate(ctx context.Context, prompt string) (string, error)

	// GenerateJSON produces a JSON document (object or array) from a prompt.
	// The returned string is valid JSON; malformed model output is repaired
	// or retried before an error is returned.
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder and Generator instances,
// ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Generator returns the content generation service.
	// The returned Generator is safe for concurrent use.
	Generator() Generator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}

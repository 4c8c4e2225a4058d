package jobs

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/poiesic/studyrag/ai/mock"
	"github.com/poiesic/studyrag/core"
	"github.com/poiesic/studyrag/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runnerFixture struct {
	repos     *badger.Repositories
	embedder  *mock.MockEmbedder
	generator *mock.MockGenerator
	runner    *Runner
}

func newRunnerFixture(t *testing.T, opts ...Option) *runnerFixture {
	t.Helper()

	repos, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })

	embedder := mock.NewMockEmbedder()
	generator := mock.NewMockGenerator()
	provider := mock.NewMockProviderWithServices(embedder, generator)

	opts = append([]Option{WithRetry(1, 0)}, opts...)
	runner, err := NewRunner(repos.Documents, repos.Chunks, repos.Courses, repos.Steps, repos.Blobs, provider, opts...)
	require.NoError(t, err)
	t.Cleanup(runner.Release)

	return &runnerFixture{
		repos:     repos,
		embedder:  embedder,
		generator: generator,
		runner:    runner,
	}
}

func (f *runnerFixture) addDocument(t *testing.T, ctx context.Context) *core.Document {
	t.Helper()
	doc, err := f.repos.Documents.AddDocument(ctx, &core.Document{
		UserId:   "user-1",
		FileName: "doc.txt",
	})
	require.NoError(t, err)
	return doc
}

func TestNewRunner(t *testing.T) {
	repos, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()

	provider := mock.NewMockProvider()

	t.Run("valid configuration", func(t *testing.T) {
		runner, err := NewRunner(repos.Documents, repos.Chunks, repos.Courses, repos.Steps, repos.Blobs, provider)
		require.NoError(t, err)
		assert.NotNil(t, runner)
		runner.Release()
	})

	t.Run("nil document repository", func(t *testing.T) {
		_, err := NewRunner(nil, repos.Chunks, repos.Courses, repos.Steps, repos.Blobs, provider)
		assert.Equal(t, ErrDocumentRepositoryRequired, err)
	})

	t.Run("nil chunk repository", func(t *testing.T) {
		_, err := NewRunner(repos.Documents, nil, repos.Courses, repos.Steps, repos.Blobs, provider)
		assert.Equal(t, ErrChunkRepositoryRequired, err)
	})

	t.Run("nil provider", func(t *testing.T) {
		_, err := NewRunner(repos.Documents, repos.Chunks, repos.Courses, repos.Steps, repos.Blobs, nil)
		assert.Equal(t, ErrAIProviderRequired, err)
	})

	t.Run("invalid chunking option", func(t *testing.T) {
		_, err := NewRunner(repos.Documents, repos.Chunks, repos.Courses, repos.Steps, repos.Blobs, provider,
			WithChunking(100, 100))
		assert.Error(t, err)
	})
}

func TestRunIngest(t *testing.T) {
	ctx := context.Background()

	t.Run("complete pipeline", func(t *testing.T) {
		f := newRunnerFixture(t, WithChunking(50, 10))
		doc := f.addDocument(t, ctx)

		f.generator.SummarizeFunc = func(ctx context.Context, text string) (string, error) {
			return "a study summary", nil
		}

		text := strings.Repeat("sentence one here. ", 10)
		trigger := &IngestDocumentTrigger{
			FileName:   "doc.txt",
			UserID:     "user-1",
			DocumentID: doc.Id,
			Inline:     []byte(text),
		}

		require.NoError(t, f.runner.RunIngest(ctx, trigger))

		stored, err := f.repos.Documents.GetDocument(ctx, doc.Id)
		require.NoError(t, err)
		assert.Equal(t, "a study summary", stored.Summary)
		assert.NotEmpty(t, stored.Content)
		assert.Equal(t, core.DocumentStatusReady, stored.Status)

		chunks, err := f.repos.Chunks.GetChunks(ctx, doc.Id)
		require.NoError(t, err)
		require.NotEmpty(t, chunks)
		for i, chunk := range chunks {
			assert.Equal(t, i, chunk.ChunkIndex)
			assert.NotEmpty(t, chunk.Content)
			assert.NotEmpty(t, chunk.Vector)
		}
	})

	t.Run("reads bytes from blob storage", func(t *testing.T) {
		f := newRunnerFixture(t)
		doc := f.addDocument(t, ctx)

		require.NoError(t, f.repos.Blobs.PutBlob(ctx, "uploads/doc", []byte("stored document text")))

		trigger := &IngestDocumentTrigger{
			FileName:   "doc.txt",
			DocumentID: doc.Id,
			StorageRef: "uploads/doc",
		}

		require.NoError(t, f.runner.RunIngest(ctx, trigger))

		stored, err := f.repos.Documents.GetDocument(ctx, doc.Id)
		require.NoError(t, err)
		assert.Equal(t, "stored document text", stored.Content)
	})

	t.Run("resumed job reuses committed steps", func(t *testing.T) {
		f := newRunnerFixture(t, WithChunking(50, 10))
		doc := f.addDocument(t, ctx)

		summarizeCalls := 0
		f.generator.SummarizeFunc = func(ctx context.Context, text string) (string, error) {
			summarizeCalls++
			return "summary", nil
		}

		trigger := &IngestDocumentTrigger{
			FileName:   "doc.txt",
			DocumentID: doc.Id,
			Inline:     []byte(strings.Repeat("text here. ", 20)),
		}

		require.NoError(t, f.runner.RunIngest(ctx, trigger))
		embedCallsAfterFirst := f.embedder.CallCount()
		chunksAfterFirst, err := f.repos.Chunks.GetChunks(ctx, doc.Id)
		require.NoError(t, err)

		// Re-running the same job must not re-call providers or duplicate chunks
		require.NoError(t, f.runner.RunIngest(ctx, trigger))

		assert.Equal(t, 1, summarizeCalls)
		assert.Equal(t, embedCallsAfterFirst, f.embedder.CallCount())

		chunksAfterSecond, err := f.repos.Chunks.GetChunks(ctx, doc.Id)
		require.NoError(t, err)
		assert.Equal(t, len(chunksAfterFirst), len(chunksAfterSecond))
	})

	t.Run("single chunk embedding failure is tolerated", func(t *testing.T) {
		f := newRunnerFixture(t, WithChunking(50, 10))
		doc := f.addDocument(t, ctx)

		calls := 0
		f.embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			calls++
			if calls == 2 {
				return nil, errors.New("transient embed failure")
			}
			return []float32{0.1, 0.2}, nil
		}

		trigger := &IngestDocumentTrigger{
			FileName:   "doc.txt",
			DocumentID: doc.Id,
			Inline:     []byte(strings.Repeat("passage text. ", 20)),
		}

		require.NoError(t, f.runner.RunIngest(ctx, trigger))

		chunks, err := f.repos.Chunks.GetChunks(ctx, doc.Id)
		require.NoError(t, err)
		require.Greater(t, len(chunks), 2)

		// Second chunk has content but no vector
		assert.NotEmpty(t, chunks[1].Content)
		assert.Empty(t, chunks[1].Vector)
		assert.NotEmpty(t, chunks[0].Vector)
	})

	t.Run("total embedding failure aborts the job", func(t *testing.T) {
		f := newRunnerFixture(t, WithChunking(50, 10))
		doc := f.addDocument(t, ctx)

		f.embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return nil, errors.New("provider down")
		}

		trigger := &IngestDocumentTrigger{
			FileName:   "doc.txt",
			DocumentID: doc.Id,
			Inline:     []byte(strings.Repeat("passage text. ", 20)),
		}

		err := f.runner.RunIngest(ctx, trigger)
		assert.ErrorIs(t, err, ErrEmbeddingUnavailable)

		stored, err := f.repos.Documents.GetDocument(ctx, doc.Id)
		require.NoError(t, err)
		assert.Equal(t, core.DocumentStatusError, stored.Status)

		chunks, err := f.repos.Chunks.GetChunks(ctx, doc.Id)
		require.NoError(t, err)
		assert.Empty(t, chunks)
	})

	t.Run("parse failure marks document errored", func(t *testing.T) {
		f := newRunnerFixture(t)
		doc := f.addDocument(t, ctx)

		trigger := &IngestDocumentTrigger{
			FileName:   "scan.pdf",
			DocumentID: doc.Id,
			Inline:     []byte("%PDF-1.4"),
		}

		err := f.runner.RunIngest(ctx, trigger)
		assert.Error(t, err)

		stored, err := f.repos.Documents.GetDocument(ctx, doc.Id)
		require.NoError(t, err)
		assert.Equal(t, core.DocumentStatusError, stored.Status)

		// Later steps never ran
		assert.Equal(t, 0, f.embedder.CallCount())
	})

	t.Run("invalid trigger", func(t *testing.T) {
		f := newRunnerFixture(t)

		err := f.runner.RunIngest(ctx, &IngestDocumentTrigger{FileName: "doc.txt", Inline: []byte("x")})
		assert.ErrorIs(t, err, ErrMissingDocumentID)

		err = f.runner.RunIngest(ctx, &IngestDocumentTrigger{FileName: "doc.txt", DocumentID: 1})
		assert.ErrorIs(t, err, ErrMissingSource)
	})
}

package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/studyrag/ai/mock"
	"github.com/poiesic/studyrag/core"
	"github.com/poiesic/studyrag/storage"
	"github.com/poiesic/studyrag/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAnswerer(t *testing.T) {
	repos, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()

	provider := mock.NewMockProvider()

	t.Run("valid configuration", func(t *testing.T) {
		answerer, err := NewAnswerer(repos.Documents, repos.Chunks, provider)
		require.NoError(t, err)
		assert.NotNil(t, answerer)
	})

	t.Run("nil document repository", func(t *testing.T) {
		_, err := NewAnswerer(nil, repos.Chunks, provider)
		assert.Equal(t, ErrDocumentRepositoryRequired, err)
	})

	t.Run("nil chunk repository", func(t *testing.T) {
		_, err := NewAnswerer(repos.Documents, nil, provider)
		assert.Equal(t, ErrChunkRepositoryRequired, err)
	})

	t.Run("nil provider", func(t *testing.T) {
		_, err := NewAnswerer(repos.Documents, repos.Chunks, nil)
		assert.Equal(t, ErrAIProviderRequired, err)
	})
}

func TestAnswererAnswer(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*badger.Repositories, *mock.MockEmbedder, *mock.MockGenerator, *Answerer) {
		repos, err := badger.NewMemoryRepositories()
		require.NoError(t, err)
		t.Cleanup(func() { repos.Close() })

		embedder := mock.NewMockEmbedder()
		generator := mock.NewMockGenerator()
		provider := mock.NewMockProviderWithServices(embedder, generator)

		answerer, err := NewAnswerer(repos.Documents, repos.Chunks, provider)
		require.NoError(t, err)

		return repos, embedder, generator, answerer
	}

	t.Run("grounded answer", func(t *testing.T) {
		repos, embedder, generator, answerer := setup(t)

		doc, err := repos.Documents.AddDocument(ctx, &core.Document{
			UserId:   "user-1",
			FileName: "physics.txt",
		})
		require.NoError(t, err)

		err = repos.Chunks.PutChunks(ctx, doc.Id, []*core.Chunk{
			{ChunkIndex: 0, Content: "velocity is distance over time", Vector: []float32{1, 0}},
			{ChunkIndex: 1, Content: "force equals mass times acceleration", Vector: []float32{0.9, 0.1}},
		})
		require.NoError(t, err)

		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return []float32{1, 0}, nil
		}
		generator.AnswerFunc = func(ctx context.Context, excerpts, question string) (string, error) {
			assert.Contains(t, excerpts, "velocity is distance over time")
			return "a grounded answer", nil
		}

		result, err := answerer.Answer(ctx, doc.Id, "what is velocity?")
		require.NoError(t, err)
		assert.Equal(t, "a grounded answer", result.Answer)
		assert.Equal(t, "physics.txt", result.DocumentTitle)
	})

	t.Run("unknown document", func(t *testing.T) {
		_, _, _, answerer := setup(t)

		_, err := answerer.Answer(ctx, 99999, "anything")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("document without chunks is still processing", func(t *testing.T) {
		repos, _, _, answerer := setup(t)

		doc, err := repos.Documents.AddDocument(ctx, &core.Document{
			UserId:   "user-1",
			FileName: "pending.txt",
		})
		require.NoError(t, err)

		_, err = answerer.Answer(ctx, doc.Id, "anything")
		assert.ErrorIs(t, err, ErrStillProcessing)
	})

	t.Run("empty query", func(t *testing.T) {
		_, _, _, answerer := setup(t)

		_, err := answerer.Answer(ctx, 1, "   ")
		assert.ErrorIs(t, err, ErrEmptyQuery)
	})

	t.Run("query embedding failure is fatal", func(t *testing.T) {
		repos, embedder, _, answerer := setup(t)

		doc, err := repos.Documents.AddDocument(ctx, &core.Document{
			UserId:   "user-1",
			FileName: "doc.txt",
		})
		require.NoError(t, err)

		err = repos.Chunks.PutChunks(ctx, doc.Id, []*core.Chunk{
			{ChunkIndex: 0, Content: "text", Vector: []float32{1, 0}},
		})
		require.NoError(t, err)

		embedFailure := errors.New("embedding service down")
		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return nil, embedFailure
		}

		_, err = answerer.Answer(ctx, doc.Id, "anything")
		assert.ErrorIs(t, err, embedFailure)
	})

	t.Run("falls back to document order when embeddings are missing", func(t *testing.T) {
		repos, _, generator, answerer := setup(t)

		doc, err := repos.Documents.AddDocument(ctx, &core.Document{
			UserId:   "user-1",
			FileName: "doc.txt",
		})
		require.NoError(t, err)

		// No chunk has an embedding
		err = repos.Chunks.PutChunks(ctx, doc.Id, []*core.Chunk{
			{ChunkIndex: 0, Content: "first"},
			{ChunkIndex: 1, Content: "second"},
		})
		require.NoError(t, err)

		generator.AnswerFunc = func(ctx context.Context, excerpts, question string) (string, error) {
			assert.Equal(t, "first\n\nsecond", excerpts)
			return "fallback answer", nil
		}

		result, err := answerer.Answer(ctx, doc.Id, "anything")
		require.NoError(t, err)
		assert.Equal(t, "fallback answer", result.Answer)
	})
}

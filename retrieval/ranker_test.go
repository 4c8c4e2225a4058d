package retrieval

import (
	"fmt"
	"testing"

	"github.com/poiesic/studyrag/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	t.Run("identical vectors", func(t *testing.T) {
		v := []float32{0.5, 0.5, 0.7071}
		assert.InDelta(t, 1.0, CosineSimilarity(v, v), 0.0001)
	})

	t.Run("orthogonal vectors", func(t *testing.T) {
		a := []float32{1, 0}
		b := []float32{0, 1}
		assert.InDelta(t, 0.0, CosineSimilarity(a, b), 0.0001)
	})

	t.Run("opposite vectors", func(t *testing.T) {
		a := []float32{1, 0}
		b := []float32{-1, 0}
		assert.InDelta(t, -1.0, CosineSimilarity(a, b), 0.0001)
	})

	t.Run("symmetric", func(t *testing.T) {
		a := []float32{0.3, 0.1, 0.9}
		b := []float32{0.2, 0.8, 0.4}
		assert.Equal(t, CosineSimilarity(a, b), CosineSimilarity(b, a))
	})

	t.Run("mismatched lengths yield sentinel", func(t *testing.T) {
		assert.Equal(t, float32(-1), CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}))
	})

	t.Run("missing vector yields sentinel", func(t *testing.T) {
		assert.Equal(t, float32(-1), CosineSimilarity(nil, []float32{1, 2}))
		assert.Equal(t, float32(-1), CosineSimilarity([]float32{1, 2}, nil))
	})

	t.Run("zero magnitude yields sentinel", func(t *testing.T) {
		assert.Equal(t, float32(-1), CosineSimilarity([]float32{0, 0}, []float32{1, 2}))
	})
}

func TestRank(t *testing.T) {
	query := []float32{1, 0}

	t.Run("orders by descending score", func(t *testing.T) {
		chunks := []*core.Chunk{
			{ChunkIndex: 0, Content: "weak", Vector: []float32{0.4, 0.9}},
			{ChunkIndex: 1, Content: "strong", Vector: []float32{1, 0.05}},
			{ChunkIndex: 2, Content: "medium", Vector: []float32{0.6, 0.5}},
		}

		ranked := Rank(query, chunks)
		require.Len(t, ranked, 3)
		assert.Equal(t, "strong", ranked[0].Content)
		assert.Equal(t, "medium", ranked[1].Content)
		assert.Equal(t, "weak", ranked[2].Content)
	})

	t.Run("caps at eight chunks", func(t *testing.T) {
		chunks := make([]*core.Chunk, 20)
		for i := range chunks {
			chunks[i] = &core.Chunk{
				ChunkIndex: i,
				Content:    fmt.Sprintf("chunk %d", i),
				Vector:     []float32{1, float32(i) * 0.01},
			}
		}

		ranked := Rank(query, chunks)
		assert.Len(t, ranked, 8)

		// Scores must be non-increasing
		for i := 1; i < len(ranked); i++ {
			prev := CosineSimilarity(query, ranked[i-1].Vector)
			cur := CosineSimilarity(query, ranked[i].Vector)
			assert.GreaterOrEqual(t, prev, cur)
		}
	})

	t.Run("excludes non-positive scores", func(t *testing.T) {
		chunks := []*core.Chunk{
			{ChunkIndex: 0, Content: "opposite", Vector: []float32{-1, 0}},
			{ChunkIndex: 1, Content: "aligned", Vector: []float32{1, 0}},
			{ChunkIndex: 2, Content: "no embedding"},
		}

		ranked := Rank(query, chunks)
		require.Len(t, ranked, 1)
		assert.Equal(t, "aligned", ranked[0].Content)
	})

	t.Run("falls back to first ten in document order", func(t *testing.T) {
		// No chunk has an embedding, so nothing scores positively
		chunks := make([]*core.Chunk, 15)
		for i := range chunks {
			chunks[i] = &core.Chunk{ChunkIndex: i, Content: fmt.Sprintf("chunk %d", i)}
		}

		ranked := Rank(query, chunks)
		require.Len(t, ranked, 10)
		for i, chunk := range ranked {
			assert.Equal(t, i, chunk.ChunkIndex)
		}
	})

	t.Run("fallback with fewer than ten chunks", func(t *testing.T) {
		chunks := []*core.Chunk{
			{ChunkIndex: 0, Content: "a"},
			{ChunkIndex: 1, Content: "b"},
		}

		ranked := Rank(query, chunks)
		assert.Len(t, ranked, 2)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, Rank(query, nil))
	})
}

func TestBuildContext(t *testing.T) {
	chunks := []*core.Chunk{
		{Content: "first passage"},
		{Content: "second passage"},
		{Content: "third passage"},
	}

	assert.Equal(t, "first passage\n\nsecond passage\n\nthird passage", BuildContext(chunks))
	assert.Equal(t, "", BuildContext(nil))
}

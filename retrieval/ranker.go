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


package retrieval

import (
	"math"
	"slices"
	"strings"

	"github.com/poiesic/studyrag/core"
)

const (
	// topScored caps how many scored chunks enter the answer context.
	topScored = 8

	// fallbackCount is how many leading chunks form the context when no
	// chunk has a usable score.
	fallbackCount = 10
)

// ScoredChunk pairs a chunk with its similarity score against a query.
type ScoredChunk struct {
	Chunk *core.Chunk
	Score float32
}

// CosineSimilarity computes the cosine similarity of two vectors.
// Mismatched lengths, missing vectors, and zero magnitudes yield the
// sentinel -1, guaranteed lower than any valid similarity.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return -1
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return -1
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// Rank scores chunks against the query vector and returns the context
// subset in selection order. Chunks with a non-positive score (including
// the -1 sentinel for missing embeddings) are excluded from the scored
// pool; the pool is sorted descending by score and capped at topScored.
// When no chunk scores positively, retrieval degrades to the first
// fallbackCount chunks in document order rather than returning nothing.
func Rank(queryVector []float32, chunks []*core.Chunk) []*core.Chunk {
	scored := make([]ScoredChunk, 0, len(chunks))
	for _, chunk := range chunks {
		score := CosineSimilarity(queryVector, chunk.Vector)
		if score > 0 {
			scored = append(scored, ScoredChunk{Chunk: chunk, Score: score})
		}
	}

	if len(scored) == 0 {
		// Fallback: first chunks in original document order
		if len(chunks) > fallbackCount {
			chunks = chunks[:fallbackCount]
		}
		return slices.Clone(chunks)
	}

	slices.SortFunc(scored, func(a, b ScoredChunk) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(scored) > topScored {
		scored = scored[:topScored]
	}

	result := make([]*core.Chunk, len(scored))
	for i, sc := range scored {
		result[i] = sc.Chunk
	}
	return result
}

// BuildContext concatenates the chunks' text in their selected order,
// separated by a blank line, to form the retrieval context.
func BuildContext(chunks []*core.Chunk) string {
	parts := make([]string, len(chunks))
	for i, chunk := range chunks {
		parts[i] = chunk.Content
	}
	return strings.Join(parts, "\n\n")
}

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


// Package retrieval provides query-time ranking and grounded answering.
//
// The Answerer type implements the retrieval flow for a single document:
//   - Embed the query
//   - Score stored chunks by cosine similarity
//   - Select the top-scoring chunks, falling back to document order when
//     no chunk has a usable embedding
//   - Generate an answer grounded only in the selected excerpts
//
// Ranking degrades gracefully: missing or degenerate chunk embeddings score
// a sentinel -1 and are excluded rather than failing the query.
package retrieval

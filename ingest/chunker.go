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


package ingest

import (
	"fmt"
	"strings"
)

const (
	// DefaultChunkSize is large enough to retain coherent passages while
	// bounding single-call embedding and context cost.
	DefaultChunkSize = 1200

	// DefaultChunkOverlap preserves local context across chunk boundaries.
	DefaultChunkOverlap = 200
)

// SplitText splits text into overlapping chunks of roughly chunkSize
// characters. Window ends snap backward to the nearest sentence-terminating
// period or newline when one lies past the midpoint of the window, so chunks
// break at natural boundaries without becoming too short. Consecutive chunks
// overlap by overlap characters. Empty segments are dropped.
//
// Text shorter than chunkSize yields exactly one chunk. An overlap greater
// than or equal to chunkSize is a configuration error, not a silent loop.
func SplitText(text string, chunkSize, overlap int) ([]string, error) {
	if chunkSize < 1 {
		return nil, fmt.Errorf("%w: chunk size %d must be positive", ErrInvalidChunkConfig, chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be in [0, %d)", ErrInvalidChunkConfig, overlap, chunkSize)
	}

	runes := []rune(text)
	var chunks []string

	start := 0
	for start < len(runes) {
		end := start + chunkSize
		if end >= len(runes) {
			end = len(runes)
		} else {
			// Snap back to a sentence boundary, but only past the window
			// midpoint so chunks don't degenerate into fragments.
			if boundary := lastBoundary(runes, start, end); boundary-start >= chunkSize/2 {
				end = boundary + 1
			}
		}

		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end >= len(runes) {
			break
		}
		// A boundary snap can shrink the window below the overlap; in that
		// case continue from the window end so the cursor always advances
		// and never runs negative.
		if next := end - overlap; next > start {
			start = next
		} else {
			start = end
		}
	}

	return chunks, nil
}

// lastBoundary returns the index of the last period or newline in
// runes[start:end], or start-1 when none exists.
func lastBoundary(runes []rune, start, end int) int {
	for i := end - 1; i >= start; i-- {
		if runes[i] == '.' || runes[i] == '\n' {
			return i
		}
	}
	return start - 1
}

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


package jobs

import "errors"

var (
	// ErrDocumentRepositoryRequired is returned when a document repository is not provided.
	ErrDocumentRepositoryRequired = errors.New("document repository required")

	// ErrChunkRepositoryRequired is returned when a chunk repository is not provided.
	ErrChunkRepositoryRequired = errors.New("chunk repository required")

	// ErrCourseRepositoryRequired is returned when a course repository is not provided.
	ErrCourseRepositoryRequired = errors.New("course repository required")

	// ErrStepRepositoryRequired is returned when a step repository is not provided.
	ErrStepRepositoryRequired = errors.New("step repository required")

	// ErrBlobRepositoryRequired is returned when a blob repository is not provided.
	ErrBlobRepositoryRequired = errors.New("blob repository required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrInvalidMaxAttempts is returned when retry is configured with a
	// non-positive attempt count.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")

	// ErrUnsupportedStudyType is returned for study content types the runner
	// has no generator for. This is fatal, not retryable.
	ErrUnsupportedStudyType = errors.New("unsupported study type")

	// ErrEmbeddingUnavailable is returned when no chunk of a document could
	// be embedded, indicating the embedding provider is unreachable rather
	// than individual chunks failing.
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")

	// ErrMissingDocumentID is returned when a trigger lacks a document ID.
	ErrMissingDocumentID = errors.New("document ID required")

	// ErrMissingSource is returned when an ingest trigger carries neither
	// inline content nor a storage reference.
	ErrMissingSource = errors.New("storage reference or inline content required")

	// ErrMissingCourse is returned when a notes trigger lacks a course.
	ErrMissingCourse = errors.New("course required")

	// ErrMissingPrompt is returned when a study content trigger lacks a prompt.
	ErrMissingPrompt = errors.New("prompt required")

	// ErrMissingRecordID is returned when a study content trigger lacks a
	// target record ID.
	ErrMissingRecordID = errors.New("record ID required")
)

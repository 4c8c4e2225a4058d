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


package core

import "fmt"

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - FileName must not be empty
//   - UserId must not be empty
//
// NOT validated (populated by the ingestion job):
//   - Content and Summary (empty until ingestion completes)
//   - Status (set by repositories and the job)
//   - ID (0 is valid before the database sequence assigns one)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.FileName == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyFileName)
	}

	if doc.UserId == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyUserId)
	}

	return nil
}

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Content must not be empty
//   - ChunkIndex must not be negative
//
// NOT validated:
//   - Vector (empty marks a failed embedding, which is a legal state)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyContent)
	}

	if chunk.ChunkIndex < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrNegativeChunkIndex)
	}

	return nil
}

// ValidateCourse validates a Course according to domain rules.
//
// Validation rules:
//   - The chapter list must not be empty
//   - Every chapter must have a title
func ValidateCourse(course *Course) error {
	if course == nil {
		return fmt.Errorf("%w: course is nil", ErrInvalidCourse)
	}

	if len(course.Chapters) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidCourse, ErrNoChapters)
	}

	for i, chapter := range course.Chapters {
		if chapter.Title == "" {
			return fmt.Errorf("%w: chapter %d has no title", ErrInvalidCourse, i+1)
		}
	}

	return nil
}

// ValidateStudyType validates that a StudyType has a known value.
func ValidateStudyType(studyType StudyType) error {
	switch studyType {
	case StudyTypeFlashcard, StudyTypeQuiz, StudyTypeQA:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidStudyType, studyType)
}

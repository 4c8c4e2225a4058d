package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs. Job IDs use this so
// that a re-dispatched trigger maps onto the same durable step records.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// DocumentStatus tracks the ingestion lifecycle of a document.
type DocumentStatus int

const (
	// DocumentStatusProcessing means ingestion has not completed yet.
	DocumentStatusProcessing DocumentStatus = iota + 1
	// DocumentStatusReady means content, summary, and chunks are all persisted.
	DocumentStatusReady
	// DocumentStatusError means ingestion failed after exhausting retries.
	DocumentStatusError
)

func (s DocumentStatus) String() string {
	switch s {
	case DocumentStatusProcessing:
		return "processing"
	case DocumentStatusReady:
		return "ready"
	case DocumentStatusError:
		return "error"
	}
	return "unknown"
}

// Document represents an uploaded document moving through the ingestion pipeline.
// Content and Summary stay empty until the terminal persistence steps of the
// ingestion job fill them in.
type Document struct {
	Id        ID
	UserId    string
	FileName  string
	Content   string
	Summary   string
	Status    DocumentStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Chunk is a contiguous, overlap-bounded segment of a document's text.
// Identity is (DocumentId, ChunkIndex); ChunkIndex preserves original text order.
// An empty Vector marks a chunk whose embedding generation failed; such chunks
// are still persisted and remain reachable via the order-based retrieval fallback.
type Chunk struct {
	DocumentId ID
	ChunkIndex int
	Content    string
	Vector     []float32
}

// CourseStatus tracks generation state for courses and study records.
type CourseStatus int

const (
	// CourseStatusGenerating means derived content is still being produced.
	CourseStatusGenerating CourseStatus = iota + 1
	// CourseStatusReady means all derived content is persisted.
	CourseStatusReady
	// CourseStatusError means generation failed.
	CourseStatusError
)

func (s CourseStatus) String() string {
	switch s {
	case CourseStatusGenerating:
		return "generating"
	case CourseStatusReady:
		return "ready"
	case CourseStatusError:
		return "error"
	}
	return "unknown"
}

// Chapter is one entry of a course layout.
type Chapter struct {
	Title   string
	Summary string
}

// Course is a study course whose layout drives chapter-note generation.
type Course struct {
	Id        ID
	Title     string
	Chapters  []Chapter
	Status    CourseStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ChapterNote holds the generated notes for one chapter of a course.
// ChapterId is 1-based, matching chapter order in the course layout.
type ChapterNote struct {
	CourseId  ID
	ChapterId int
	Notes     string
}

// StudyType selects which kind of derived study content to generate.
type StudyType string

const (
	StudyTypeFlashcard StudyType = "Flashcard"
	StudyTypeQuiz      StudyType = "Quiz"
	StudyTypeQA        StudyType = "QA"
)

// StudyRecord holds one generated set of derived study content for a course.
// Content is the structured JSON payload produced by the generation model.
type StudyRecord struct {
	Id        ID
	CourseId  ID
	Type      StudyType
	Content   string
	Status    CourseStatus
	UpdatedAt time.Time
}

// StepRecord is the durable memoization record for one named step of a job.
// Result holds the JSON-encoded step output; a resumed job that finds a
// StepRecord for (JobId, Step) decodes Result instead of re-executing the step.
type StepRecord struct {
	JobId     ID
	Step      string
	Result    string
	UpdatedAt time.Time
}

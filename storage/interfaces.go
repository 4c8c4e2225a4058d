package storage

import (
	"context"

	"github.com/poiesic/studyrag/core"
)

// DocumentRepository provides operations for managing documents.
// Implementations must be thread-safe and support concurrent access.
type DocumentRepository interface {
	// AddDocument adds a document to storage.
	// For documents with ID=0, generates a new ID from sequence and sets
	// CreatedAt/Status. Returns the document with generated fields populated.
	AddDocument(ctx context.Context, doc *core.Document) (*core.Document, error)

	// GetDocument retrieves a document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.ID) (*core.Document, error)

	// UpdateDocument updates an existing document.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if the document doesn't exist.
	UpdateDocument(ctx context.Context, doc *core.Document) error

	// SetDocumentStatus updates only the status of a document.
	// Returns ErrNotFound if the document doesn't exist.
	SetDocumentStatus(ctx context.Context, id core.ID, status core.DocumentStatus) error

	// ListDocuments retrieves all documents ordered by key.
	ListDocuments(ctx context.Context) ([]*core.Document, error)

	// Close releases resources held by the repository.
	Close() error
}

// ChunkRepository provides operations for managing document chunks.
// A document's chunk set is owned by its ingestion job: it is written as a
// whole and read as a whole, never updated chunk by chunk.
type ChunkRepository interface {
	// PutChunks atomically replaces the chunk set for a document with the
	// given chunks. Readers never observe a partial set: either the previous
	// set (or nothing) is visible, or the complete new set is.
	PutChunks(ctx context.Context, documentID core.ID, chunks []*core.Chunk) error

	// GetChunks retrieves all chunks of a document ordered by ChunkIndex.
	// Returns an empty slice if the document has no chunks yet.
	GetChunks(ctx context.Context, documentID core.ID) ([]*core.Chunk, error)

	// Close releases resources held by the repository.
	Close() error
}

// CourseRepository provides operations for courses, chapter notes, and
// derived study content records.
type CourseRepository interface {
	// PutCourse inserts or replaces a course.
	PutCourse(ctx context.Context, course *core.Course) error

	// GetCourse retrieves a course by ID.
	// Returns ErrNotFound if the course doesn't exist.
	GetCourse(ctx context.Context, id core.ID) (*core.Course, error)

	// SetCourseStatus updates only the status of a course.
	// Returns ErrNotFound if the course doesn't exist.
	SetCourseStatus(ctx context.Context, id core.ID, status core.CourseStatus) error

	// AddChapterNote inserts the notes row for one chapter of a course.
	AddChapterNote(ctx context.Context, note *core.ChapterNote) error

	// GetChapterNotes retrieves all chapter notes of a course ordered by ChapterId.
	GetChapterNotes(ctx context.Context, courseID core.ID) ([]*core.ChapterNote, error)

	// PutStudyRecord inserts or replaces a study content record.
	PutStudyRecord(ctx context.Context, record *core.StudyRecord) error

	// GetStudyRecord retrieves a study content record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetStudyRecord(ctx context.Context, id core.ID) (*core.StudyRecord, error)

	// Close releases resources held by the repository.
	Close() error
}

// StepRepository provides durable memoization records for job steps.
// A job consults it before executing each named step so that a resumed job
// never re-executes a step whose result was already committed.
type StepRepository interface {
	// SaveStep persists the result record for (JobId, Step).
	SaveStep(ctx context.Context, record *core.StepRecord) error

	// GetStep retrieves the result record for (jobID, step).
	// Returns ErrNotFound if the step has not completed.
	GetStep(ctx context.Context, jobID core.ID, step string) (*core.StepRecord, error)
}

// BlobRepository stores raw uploaded file bytes under a storage reference,
// keeping job trigger payloads small.
type BlobRepository interface {
	// PutBlob stores data under ref, replacing any previous value.
	PutBlob(ctx context.Context, ref string, data []byte) error

	// GetBlob retrieves the data stored under ref.
	// Returns ErrNotFound for an unknown reference.
	GetBlob(ctx context.Context, ref string) ([]byte, error)
}

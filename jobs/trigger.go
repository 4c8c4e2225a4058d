package jobs

import (
	"strconv"

	"github.com/poiesic/studyrag/core"
)

// Trigger is a job dispatch request. Each workflow has its own trigger
// variant; JobID is stable for a given trigger so re-dispatch resumes the
// existing job.
type Trigger interface {
	Validate() error
	JobID() core.ID
}

var (
	_ Trigger = (*IngestDocumentTrigger)(nil)
	_ Trigger = (*GenerateChapterNotesTrigger)(nil)
	_ Trigger = (*GenerateStudyContentTrigger)(nil)
)

// IngestDocumentTrigger starts the ingestion workflow for one uploaded document.
// The document record must already exist; raw file bytes are carried either by
// StorageRef (preferred, keeps the trigger payload small) or inline.
type IngestDocumentTrigger struct {
	FileName   string
	UserID     string
	DocumentID core.ID

	// StorageRef locates the raw file bytes in blob storage.
	StorageRef string

	// Inline carries the raw file bytes directly. Used when the caller
	// already holds the bytes (e.g. CLI ingestion) and blob storage would
	// be a needless round trip.
	Inline []byte
}

// Validate checks the trigger for required fields.
func (t *IngestDocumentTrigger) Validate() error {
	if t.DocumentID == 0 {
		return ErrMissingDocumentID
	}
	if t.StorageRef == "" && len(t.Inline) == 0 {
		return ErrMissingSource
	}
	return nil
}

// JobID derives the stable job identity for this trigger. Re-triggering
// ingestion for the same document resumes the same job, so completed steps
// are not redone.
func (t *IngestDocumentTrigger) JobID() core.ID {
	return core.IDFromContent("ingest:" + strconv.FormatUint(uint64(t.DocumentID), 10))
}

// GenerateChapterNotesTrigger starts the fan-out workflow that produces
// per-chapter study notes for a course.
type GenerateChapterNotesTrigger struct {
	Course *core.Course
}

// Validate checks the trigger for required fields.
func (t *GenerateChapterNotesTrigger) Validate() error {
	if t.Course == nil {
		return ErrMissingCourse
	}
	if len(t.Course.Chapters) == 0 {
		return core.ErrNoChapters
	}
	return nil
}

// JobID derives the stable job identity for this trigger.
func (t *GenerateChapterNotesTrigger) JobID() core.ID {
	return core.IDFromContent("notes:" + strconv.FormatUint(uint64(t.Course.Id), 10))
}

// GenerateStudyContentTrigger starts generation of one derived study content
// record (flashcards, quiz, or Q&A) for a course.
type GenerateStudyContentTrigger struct {
	StudyType core.StudyType
	Prompt    string
	CourseID  core.ID
	RecordID  core.ID
}

// Validate checks the trigger for required fields.
func (t *GenerateStudyContentTrigger) Validate() error {
	if t.RecordID == 0 {
		return ErrMissingRecordID
	}
	if t.Prompt == "" {
		return ErrMissingPrompt
	}
	return core.ValidateStudyType(t.StudyType)
}

// JobID derives the stable job identity for this trigger.
func (t *GenerateStudyContentTrigger) JobID() core.ID {
	return core.IDFromContent("study:" + strconv.FormatUint(uint64(t.RecordID), 10))
}

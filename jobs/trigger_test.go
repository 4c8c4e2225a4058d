package jobs

import (
	"testing"

	"github.com/poiesic/studyrag/core"
	"github.com/stretchr/testify/assert"
)

func TestTriggerJobIDs(t *testing.T) {
	t.Run("stable across calls", func(t *testing.T) {
		a := &IngestDocumentTrigger{DocumentID: 12, Inline: []byte("x")}
		b := &IngestDocumentTrigger{DocumentID: 12, StorageRef: "uploads/other"}
		assert.Equal(t, a.JobID(), b.JobID())
	})

	t.Run("distinct per document", func(t *testing.T) {
		a := &IngestDocumentTrigger{DocumentID: 12}
		b := &IngestDocumentTrigger{DocumentID: 13}
		assert.NotEqual(t, a.JobID(), b.JobID())
	})

	t.Run("distinct across workflows", func(t *testing.T) {
		ingestT := &IngestDocumentTrigger{DocumentID: 12}
		notes := &GenerateChapterNotesTrigger{Course: &core.Course{Id: 12}}
		study := &GenerateStudyContentTrigger{RecordID: 12}
		assert.NotEqual(t, ingestT.JobID(), notes.JobID())
		assert.NotEqual(t, notes.JobID(), study.JobID())
	})
}

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDocument(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		doc := &Document{UserId: "user-1", FileName: "notes.pdf"}
		require.NoError(t, ValidateDocument(doc))
	})

	t.Run("nil document", func(t *testing.T) {
		err := ValidateDocument(nil)
		assert.ErrorIs(t, err, ErrInvalidDocument)
	})

	t.Run("missing file name", func(t *testing.T) {
		err := ValidateDocument(&Document{UserId: "user-1"})
		assert.ErrorIs(t, err, ErrEmptyFileName)
	})

	t.Run("missing user id", func(t *testing.T) {
		err := ValidateDocument(&Document{FileName: "notes.pdf"})
		assert.ErrorIs(t, err, ErrEmptyUserId)
	})
}

func TestValidateChunk(t *testing.T) {
	t.Run("valid chunk without vector", func(t *testing.T) {
		// Missing embeddings are a legal state.
		chunk := &Chunk{DocumentId: 1, ChunkIndex: 0, Content: "some text"}
		require.NoError(t, ValidateChunk(chunk))
	})

	t.Run("empty content", func(t *testing.T) {
		err := ValidateChunk(&Chunk{DocumentId: 1, ChunkIndex: 0})
		assert.ErrorIs(t, err, ErrEmptyContent)
	})

	t.Run("negative index", func(t *testing.T) {
		err := ValidateChunk(&Chunk{DocumentId: 1, ChunkIndex: -1, Content: "x"})
		assert.ErrorIs(t, err, ErrNegativeChunkIndex)
	})
}

func TestValidateCourse(t *testing.T) {
	t.Run("valid course", func(t *testing.T) {
		course := &Course{
			Id:       7,
			Chapters: []Chapter{{Title: "Intro"}, {Title: "Advanced"}},
		}
		require.NoError(t, ValidateCourse(course))
	})

	t.Run("no chapters", func(t *testing.T) {
		err := ValidateCourse(&Course{Id: 7})
		assert.ErrorIs(t, err, ErrNoChapters)
	})

	t.Run("untitled chapter", func(t *testing.T) {
		err := ValidateCourse(&Course{Id: 7, Chapters: []Chapter{{Title: ""}}})
		assert.ErrorIs(t, err, ErrInvalidCourse)
	})
}

func TestValidateStudyType(t *testing.T) {
	for _, studyType := range []StudyType{StudyTypeFlashcard, StudyTypeQuiz, StudyTypeQA} {
		assert.NoError(t, ValidateStudyType(studyType))
	}
	assert.ErrorIs(t, ValidateStudyType("Mindmap"), ErrInvalidStudyType)
}

func TestIDFromContent(t *testing.T) {
	a := IDFromContent("ingest:42")
	b := IDFromContent("ingest:42")
	c := IDFromContent("ingest:43")

	assert.Equal(t, a, b, "same content must produce the same ID")
	assert.NotEqual(t, a, c)
	assert.NotZero(t, a)
}

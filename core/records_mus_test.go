package core

import (
	"testing"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentMUSRoundTrip(t *testing.T) {
	doc := Document{
		Id:        12,
		UserId:    "user-1",
		FileName:  "biology.pdf",
		Content:   "cells divide by mitosis",
		Summary:   "a short synopsis",
		Status:    DocumentStatusReady,
		CreatedAt: time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC),
		UpdatedAt: time.Date(2025, 3, 1, 10, 45, 0, 0, time.UTC),
	}

	bs := make([]byte, DocumentMUS.Size(doc))
	n := DocumentMUS.Marshal(doc, bs)
	require.Equal(t, len(bs), n)

	decoded, n, err := DocumentMUS.Unmarshal(bs)
	require.NoError(t, err)
	assert.Equal(t, len(bs), n)
	assert.Equal(t, doc, decoded)
}

func TestChunkMUSRoundTrip(t *testing.T) {
	t.Run("with vector", func(t *testing.T) {
		chunk := Chunk{
			DocumentId: 12,
			ChunkIndex: 3,
			Content:    "the mitochondria is the powerhouse of the cell",
			Vector:     []float32{0.25, -0.5, 0.125},
		}

		bs := make([]byte, ChunkMUS.Size(chunk))
		ChunkMUS.Marshal(chunk, bs)

		decoded, _, err := ChunkMUS.Unmarshal(bs)
		require.NoError(t, err)
		assert.Equal(t, chunk, decoded)
	})

	t.Run("missing vector survives round trip as nil", func(t *testing.T) {
		chunk := Chunk{DocumentId: 1, ChunkIndex: 0, Content: "unembedded"}

		bs := make([]byte, ChunkMUS.Size(chunk))
		ChunkMUS.Marshal(chunk, bs)

		decoded, _, err := ChunkMUS.Unmarshal(bs)
		require.NoError(t, err)
		assert.Nil(t, decoded.Vector)
		assert.Equal(t, chunk.Content, decoded.Content)
	})
}

func TestCourseMUSRoundTrip(t *testing.T) {
	course := Course{
		Id:    99,
		Title: "Operating Systems",
		Chapters: []Chapter{
			{Title: "Processes", Summary: "scheduling and lifecycle"},
			{Title: "Memory", Summary: "paging"},
		},
		Status:    CourseStatusGenerating,
		CreatedAt: time.Date(2025, 5, 2, 8, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2025, 5, 2, 8, 0, 0, 0, time.UTC),
	}

	bs := make([]byte, CourseMUS.Size(course))
	CourseMUS.Marshal(course, bs)

	decoded, _, err := CourseMUS.Unmarshal(bs)
	require.NoError(t, err)
	assert.Equal(t, course, decoded)
}

func TestStepRecordMUSRoundTrip(t *testing.T) {
	record := StepRecord{
		JobId:     IDFromContent("ingest:12"),
		Step:      "persist-chunks",
		Result:    `"ok"`,
		UpdatedAt: time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC),
	}

	bs := make([]byte, StepRecordMUS.Size(record))
	StepRecordMUS.Marshal(record, bs)

	decoded, _, err := StepRecordMUS.Unmarshal(bs)
	require.NoError(t, err)
	assert.Equal(t, record, decoded)
}

func TestUnmarshalTruncatedData(t *testing.T) {
	doc := Document{Id: 5, UserId: "u", FileName: "f.pdf"}
	bs := make([]byte, DocumentMUS.Size(doc))
	DocumentMUS.Marshal(doc, bs)

	_, _, err := DocumentMUS.Unmarshal(bs[:2])
	assert.Error(t, err)
}

func TestUnmarshalCorruptLengths(t *testing.T) {
	t.Run("negative vector length", func(t *testing.T) {
		// Zigzag-encoded -3 as the vector's length prefix
		bs := make([]byte, 1)
		varint.Int.Marshal(-3, bs)

		_, _, err := unmarshalVector(bs)
		assert.ErrorIs(t, err, ErrCorruptRecord)
	})

	t.Run("negative chapter count", func(t *testing.T) {
		course := Course{Id: 9, Title: "t"}
		bs := make([]byte, CourseMUS.Size(course))
		n := IDMUS.Marshal(course.Id, bs)
		n += ord.String.Marshal(course.Title, bs[n:])
		varint.Int.Marshal(-1, bs[n:])

		_, _, err := CourseMUS.Unmarshal(bs)
		assert.ErrorIs(t, err, ErrCorruptRecord)
	})
}

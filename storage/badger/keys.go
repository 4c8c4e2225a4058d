package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/studyrag/core"
)

// Key prefixes for different data types
const (
	documentRecordPrefix = "docrec"
	documentIDSeq        = "docrecseq"
	chunkRecordPrefix    = "chkrec"
	courseRecordPrefix   = "crsrec"
	chapterNotePrefix    = "crsnote"
	studyRecordPrefix    = "styrec"
	stepRecordPrefix     = "jobstep"
	blobPrefix           = "blob"
)

// makeDocumentKey generates a key for a document by ID.
func makeDocumentKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", documentRecordPrefix, id))
}

// makeChunkKey generates a composite key for a chunk.
// Format: prefix:documentID:chunkIndex
func makeChunkKey(documentID core.ID, chunkIndex int) []byte {
	prefix := chunkRecordPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for documentID + 8 bytes for chunkIndex
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(documentID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(chunkIndex))
	return buf
}

// makePartialChunkKey generates a partial key spanning all chunks of a document.
// Format: prefix:documentID
func makePartialChunkKey(documentID core.ID) []byte {
	prefix := chunkRecordPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for documentID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(documentID))
	return buf
}

// makeCourseKey generates a key for a course by ID.
func makeCourseKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", courseRecordPrefix, id))
}

// makeChapterNoteKey generates a composite key for a chapter note.
// Format: prefix:courseID:chapterID
func makeChapterNoteKey(courseID core.ID, chapterID int) []byte {
	prefix := chapterNotePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for courseID + 8 bytes for chapterID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(courseID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(chapterID))
	return buf
}

// makePartialChapterNoteKey generates a partial key spanning all notes of a course.
// Format: prefix:courseID
func makePartialChapterNoteKey(courseID core.ID) []byte {
	prefix := chapterNotePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for courseID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(courseID))
	return buf
}

// makeStudyRecordKey generates a key for a study record by ID.
func makeStudyRecordKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", studyRecordPrefix, id))
}

// makeStepKey generates a key for a job step result.
func makeStepKey(jobID core.ID, step string) []byte {
	return []byte(fmt.Sprintf("%s:%d:%s", stepRecordPrefix, jobID, step))
}

// makeBlobKey generates a key for a stored blob.
func makeBlobKey(ref string) []byte {
	return []byte(blobPrefix + ":" + ref)
}

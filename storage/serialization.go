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


package storage

import (
	"github.com/poiesic/studyrag/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalDocument serializes a Document to bytes.
func MarshalDocument(doc *core.Document) []byte {
	buf := make([]byte, core.DocumentMUS.Size(*doc))
	core.DocumentMUS.Marshal(*doc, buf)
	return buf
}

// UnmarshalDocument deserializes a Document from bytes.
func UnmarshalDocument(data []byte) (*core.Document, error) {
	doc, _, err := core.DocumentMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// MarshalChunk serializes a Chunk to bytes.
func MarshalChunk(chunk *core.Chunk) []byte {
	buf := make([]byte, core.ChunkMUS.Size(*chunk))
	core.ChunkMUS.Marshal(*chunk, buf)
	return buf
}

// UnmarshalChunk deserializes a Chunk from bytes.
func UnmarshalChunk(data []byte) (*core.Chunk, error) {
	chunk, _, err := core.ChunkMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &chunk, nil
}

// MarshalCourse serializes a Course to bytes.
func MarshalCourse(course *core.Course) []byte {
	buf := make([]byte, core.CourseMUS.Size(*course))
	core.CourseMUS.Marshal(*course, buf)
	return buf
}

// UnmarshalCourse deserializes a Course from bytes.
func UnmarshalCourse(data []byte) (*core.Course, error) {
	course, _, err := core.CourseMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// MarshalChapterNote serializes a ChapterNote to bytes.
func MarshalChapterNote(note *core.ChapterNote) []byte {
	buf := make([]byte, core.ChapterNoteMUS.Size(*note))
	core.ChapterNoteMUS.Marshal(*note, buf)
	return buf
}

// UnmarshalChapterNote deserializes a ChapterNote from bytes.
func UnmarshalChapterNote(data []byte) (*core.ChapterNote, error) {
	note, _, err := core.ChapterNoteMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// MarshalStudyRecord serializes a StudyRecord to bytes.
func MarshalStudyRecord(record *core.StudyRecord) []byte {
	buf := make([]byte, core.StudyRecordMUS.Size(*record))
	core.StudyRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalStudyRecord deserializes a StudyRecord from bytes.
func UnmarshalStudyRecord(data []byte) (*core.StudyRecord, error) {
	record, _, err := core.StudyRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// MarshalStepRecord serializes a StepRecord to bytes.
func MarshalStepRecord(record *core.StepRecord) []byte {
	buf := make([]byte, core.StepRecordMUS.Size(*record))
	core.StepRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalStepRecord deserializes a StepRecord from bytes.
func UnmarshalStepRecord(data []byte) (*core.StepRecord, error) {
	record, _, err := core.StepRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

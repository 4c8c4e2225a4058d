package core

import (
	"fmt"
	"math"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the persisted record types. The call shape
// (Marshal/Unmarshal/Size on an XxxMUS value) matches what the storage layer
// expects; timestamps are encoded as microsecond Unix integers.

var (
	IDMUS          = idMUS{}
	DocumentMUS    = documentMUS{}
	ChunkMUS       = chunkMUS{}
	CourseMUS      = courseMUS{}
	ChapterNoteMUS = chapterNoteMUS{}
	StudyRecordMUS = studyRecordMUS{}
	StepRecordMUS  = stepRecordMUS{}
)

type idMUS struct{}

func (s idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return ID(u), n, err
}

func (s idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

// marshalTime encodes a time.Time as a microsecond Unix timestamp.
func marshalTime(t time.Time, bs []byte) (n int) {
	return varint.Int64.Marshal(t.UnixMicro(), bs)
}

func unmarshalTime(bs []byte) (t time.Time, n int, err error) {
	micros, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(micros).UTC(), n, nil
}

func sizeTime(t time.Time) (size int) {
	return varint.Int64.Size(t.UnixMicro())
}

// marshalVector encodes a float32 slice as a length-prefixed sequence of
// IEEE 754 bit patterns.
func marshalVector(v []float32, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, f := range v {
		n += varint.Uint32.Marshal(math.Float32bits(f), bs[n:])
	}
	return
}

func unmarshalVector(bs []byte) (v []float32, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if length < 0 {
		return nil, n, fmt.Errorf("%w: negative vector length %d", ErrCorruptRecord, length)
	}
	if length == 0 {
		return nil, n, nil
	}
	v = make([]float32, length)
	for i := 0; i < length; i++ {
		var bits uint32
		var n1 int
		bits, n1, err = varint.Uint32.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return nil, n, err
		}
		v[i] = math.Float32frombits(bits)
	}
	return v, n, nil
}

func sizeVector(v []float32) (size int) {
	size = varint.Int.Size(len(v))
	for _, f := range v {
		size += varint.Uint32.Size(math.Float32bits(f))
	}
	return
}

type documentMUS struct{}

func (s documentMUS) Marshal(v Document, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.UserId, bs[n:])
	n += ord.String.Marshal(v.FileName, bs[n:])
	n += ord.String.Marshal(v.Content, bs[n:])
	n += ord.String.Marshal(v.Summary, bs[n:])
	n += varint.Int.Marshal(int(v.Status), bs[n:])
	n += marshalTime(v.CreatedAt, bs[n:])
	n += marshalTime(v.UpdatedAt, bs[n:])
	return
}

func (s documentMUS) Unmarshal(bs []byte) (v Document, n int, err error) {
	var n1 int
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	v.UserId, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.FileName, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Content, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Summary, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var status int
	status, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Status = DocumentStatus(status)
	v.CreatedAt, n1, err = unmarshalTime(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = unmarshalTime(bs[n:])
	n += n1
	return
}

func (s documentMUS) Size(v Document) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.UserId)
	size += ord.String.Size(v.FileName)
	size += ord.String.Size(v.Content)
	size += ord.String.Size(v.Summary)
	size += varint.Int.Size(int(v.Status))
	size += sizeTime(v.CreatedAt)
	size += sizeTime(v.UpdatedAt)
	return
}

type chunkMUS struct{}

func (s chunkMUS) Marshal(v Chunk, bs []byte) (n int) {
	n = IDMUS.Marshal(v.DocumentId, bs)
	n += varint.Int.Marshal(v.ChunkIndex, bs[n:])
	n += ord.String.Marshal(v.Content, bs[n:])
	n += marshalVector(v.Vector, bs[n:])
	return
}

func (s chunkMUS) Unmarshal(bs []byte) (v Chunk, n int, err error) {
	var n1 int
	v.DocumentId, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	v.ChunkIndex, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Content, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Vector, n1, err = unmarshalVector(bs[n:])
	n += n1
	return
}

func (s chunkMUS) Size(v Chunk) (size int) {
	size = IDMUS.Size(v.DocumentId)
	size += varint.Int.Size(v.ChunkIndex)
	size += ord.String.Size(v.Content)
	size += sizeVector(v.Vector)
	return
}

type courseMUS struct{}

func (s courseMUS) Marshal(v Course, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Title, bs[n:])
	n += varint.Int.Marshal(len(v.Chapters), bs[n:])
	for _, chapter := range v.Chapters {
		n += ord.String.Marshal(chapter.Title, bs[n:])
		n += ord.String.Marshal(chapter.Summary, bs[n:])
	}
	n += varint.Int.Marshal(int(v.Status), bs[n:])
	n += marshalTime(v.CreatedAt, bs[n:])
	n += marshalTime(v.UpdatedAt, bs[n:])
	return
}

func (s courseMUS) Unmarshal(bs []byte) (v Course, n int, err error) {
	var n1 int
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Title, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var count int
	count, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if count < 0 {
		err = fmt.Errorf("%w: negative chapter count %d", ErrCorruptRecord, count)
		return
	}
	if count > 0 {
		v.Chapters = make([]Chapter, count)
		for i := 0; i < count; i++ {
			v.Chapters[i].Title, n1, err = ord.String.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return
			}
			v.Chapters[i].Summary, n1, err = ord.String.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return
			}
		}
	}
	var status int
	status, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Status = CourseStatus(status)
	v.CreatedAt, n1, err = unmarshalTime(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = unmarshalTime(bs[n:])
	n += n1
	return
}

func (s courseMUS) Size(v Course) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Title)
	size += varint.Int.Size(len(v.Chapters))
	for _, chapter := range v.Chapters {
		size += ord.String.Size(chapter.Title)
		size += ord.String.Size(chapter.Summary)
	}
	size += varint.Int.Size(int(v.Status))
	size += sizeTime(v.CreatedAt)
	size += sizeTime(v.UpdatedAt)
	return
}

type chapterNoteMUS struct{}

func (s chapterNoteMUS) Marshal(v ChapterNote, bs []byte) (n int) {
	n = IDMUS.Marshal(v.CourseId, bs)
	n += varint.Int.Marshal(v.ChapterId, bs[n:])
	n += ord.String.Marshal(v.Notes, bs[n:])
	return
}

func (s chapterNoteMUS) Unmarshal(bs []byte) (v ChapterNote, n int, err error) {
	var n1 int
	v.CourseId, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	v.ChapterId, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Notes, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (s chapterNoteMUS) Size(v ChapterNote) (size int) {
	size = IDMUS.Size(v.CourseId)
	size += varint.Int.Size(v.ChapterId)
	size += ord.String.Size(v.Notes)
	return
}

type studyRecordMUS struct{}

func (s studyRecordMUS) Marshal(v StudyRecord, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += IDMUS.Marshal(v.CourseId, bs[n:])
	n += ord.String.Marshal(string(v.Type), bs[n:])
	n += ord.String.Marshal(v.Content, bs[n:])
	n += varint.Int.Marshal(int(v.Status), bs[n:])
	n += marshalTime(v.UpdatedAt, bs[n:])
	return
}

func (s studyRecordMUS) Unmarshal(bs []byte) (v StudyRecord, n int, err error) {
	var n1 int
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	v.CourseId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var studyType string
	studyType, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Type = StudyType(studyType)
	v.Content, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var status int
	status, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Status = CourseStatus(status)
	v.UpdatedAt, n1, err = unmarshalTime(bs[n:])
	n += n1
	return
}

func (s studyRecordMUS) Size(v StudyRecord) (size int) {
	size = IDMUS.Size(v.Id)
	size += IDMUS.Size(v.CourseId)
	size += ord.String.Size(string(v.Type))
	size += ord.String.Size(v.Content)
	size += varint.Int.Size(int(v.Status))
	size += sizeTime(v.UpdatedAt)
	return
}

type stepRecordMUS struct{}

func (s stepRecordMUS) Marshal(v StepRecord, bs []byte) (n int) {
	n = IDMUS.Marshal(v.JobId, bs)
	n += ord.String.Marshal(v.Step, bs[n:])
	n += ord.String.Marshal(v.Result, bs[n:])
	n += marshalTime(v.UpdatedAt, bs[n:])
	return
}

func (s stepRecordMUS) Unmarshal(bs []byte) (v StepRecord, n int, err error) {
	var n1 int
	v.JobId, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Step, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Result, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = unmarshalTime(bs[n:])
	n += n1
	return
}

func (s stepRecordMUS) Size(v StepRecord) (size int) {
	size = IDMUS.Size(v.JobId)
	size += ord.String.Size(v.Step)
	size += ord.String.Size(v.Result)
	size += sizeTime(v.UpdatedAt)
	return
}

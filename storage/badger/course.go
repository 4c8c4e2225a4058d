package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/studyrag/core"
	"github.com/poiesic/studyrag/storage"
)

// CourseRepository implements storage.CourseRepository for BadgerDB.
type CourseRepository struct {
	backend *Backend
}

var _ storage.CourseRepository = (*CourseRepository)(nil)

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(backend *Backend) (*CourseRepository, error) {
	return &CourseRepository{
		backend: backend,
	}, nil
}

// Close releases resources. CourseRepository has no resources to release.
func (r *CourseRepository) Close() error {
	return nil
}

// PutCourse inserts or replaces a course.
func (r *CourseRepository) PutCourse(ctx context.Context, course *core.Course) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if course.CreatedAt.IsZero() {
			course.CreatedAt = time.Now().UTC()
		}
		course.UpdatedAt = time.Now().UTC()

		key := makeCourseKey(course.Id)
		value := storage.MarshalCourse(course)
		if err := tx.Set(key, value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetCourse retrieves a course by ID.
func (r *CourseRepository) GetCourse(ctx context.Context, id core.ID) (*core.Course, error) {
	var result *core.Course
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readCourse(tx, makeCourseKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// SetCourseStatus updates only the status of a course.
func (r *CourseRepository) SetCourseStatus(ctx context.Context, id core.ID, status core.CourseStatus) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeCourseKey(id)

		course, err := readCourse(tx, key)
		if err != nil {
			return err
		}
		if course == nil {
			return storage.ErrNotFound
		}

		course.Status = status
		course.UpdatedAt = time.Now().UTC()

		value := storage.MarshalCourse(course)
		if err := tx.Set(key, value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// AddChapterNote inserts the notes row for one chapter of a course.
func (r *CourseRepository) AddChapterNote(ctx context.Context, note *core.ChapterNote) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeChapterNoteKey(note.CourseId, note.ChapterId)
		value := storage.MarshalChapterNote(note)
		if err := tx.Set(key, value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetChapterNotes retrieves all chapter notes of a course ordered by ChapterId.
func (r *CourseRepository) GetChapterNotes(ctx context.Context, courseID core.ID) ([]*core.ChapterNote, error) {
	results := []*core.ChapterNote{}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makePartialChapterNoteKey(courseID)
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()

			var note *core.ChapterNote
			err := item.Value(func(val []byte) error {
				var err error
				note, err = storage.UnmarshalChapterNote(val)
				return err
			})
			if err != nil {
				return err
			}
			if note != nil {
				results = append(results, note)
			}
		}
		return nil
	}, false)

	return results, err
}

// PutStudyRecord inserts or replaces a study content record.
func (r *CourseRepository) PutStudyRecord(ctx context.Context, record *core.StudyRecord) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		record.UpdatedAt = time.Now().UTC()

		key := makeStudyRecordKey(record.Id)
		value := storage.MarshalStudyRecord(record)
		if err := tx.Set(key, value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetStudyRecord retrieves a study content record by ID.
func (r *CourseRepository) GetStudyRecord(ctx context.Context, id core.ID) (*core.StudyRecord, error) {
	var result *core.StudyRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeStudyRecordKey(id))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			result, err = storage.UnmarshalStudyRecord(val)
			return err
		})
	}, false)
	return result, err
}

// readCourse reads a course from the transaction.
func readCourse(tx *badger.Txn, key []byte) (*core.Course, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var course *core.Course
	err = item.Value(func(val []byte) error {
		var err error
		course, err = storage.UnmarshalCourse(val)
		return err
	})
	return course, err
}

package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/studyrag/core"
	"github.com/poiesic/studyrag/storage"
)

// StepRepository implements storage.StepRepository for BadgerDB.
type StepRepository struct {
	backend *Backend
}

var _ storage.StepRepository = (*StepRepository)(nil)

// NewStepRepository creates a new StepRepository.
func NewStepRepository(backend *Backend) (*StepRepository, error) {
	return &StepRepository{
		backend: backend,
	}, nil
}

// SaveStep persists the result record for (JobId, Step).
func (r *StepRepository) SaveStep(ctx context.Context, record *core.StepRecord) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		record.UpdatedAt = time.Now().UTC()

		key := makeStepKey(record.JobId, record.Step)
		value := storage.MarshalStepRecord(record)
		if err := tx.Set(key, value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetStep retrieves the result record for (jobID, step).
func (r *StepRepository) GetStep(ctx context.Context, jobID core.ID, step string) (*core.StepRecord, error) {
	var result *core.StepRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeStepKey(jobID, step))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			result, err = storage.UnmarshalStepRecord(val)
			return err
		})
	}, false)
	return result, err
}

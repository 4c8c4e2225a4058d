package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/studyrag/storage"
)

// BlobRepository implements storage.BlobRepository for BadgerDB.
type BlobRepository struct {
	backend *Backend
}

var _ storage.BlobRepository = (*BlobRepository)(nil)

// NewBlobRepository creates a new BlobRepository.
func NewBlobRepository(backend *Backend) (*BlobRepository, error) {
	return &BlobRepository{
		backend: backend,
	}, nil
}

// PutBlob stores data under ref, replacing any previous value.
func (r *BlobRepository) PutBlob(ctx context.Context, ref string, data []byte) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeBlobKey(ref), data); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetBlob retrieves the data stored under ref.
func (r *BlobRepository) GetBlob(ctx context.Context, ref string) ([]byte, error) {
	var result []byte
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeBlobKey(ref))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		result, err = item.ValueCopy(nil)
		return err
	}, false)
	return result, err
}

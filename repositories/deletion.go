//go:generate go run go.uber.org/mock/mockgen -source=deletion.go -destination=../mocks/mock_deletion_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"transfer-lab/domain"
)

// IDeletionRepository is the durable delete-after queue. A 24h retention
// window routinely outlives a process, so pending deletions are persisted
// and survive restarts: the scheduler resumes where it left off.
type IDeletionRepository interface {
	Enqueue(asset domain.CloudAsset) error
	Due(now time.Time, limit int) ([]domain.CloudAsset, error)
	Remove(asset domain.CloudAsset) error
}

type DeletionRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewDeletionRepository(db *badger.DB, log *slog.Logger) *DeletionRepository {
	return &DeletionRepository{db: db, log: log}
}

// key is formatted as "del:pending:{fire_timestamp_padded}:{file_code}":
//  1. The 19-digit zero padding makes lexicographical order equal fire-time
//     order, so a prefix scan yields due entries first.
//  2. The file code disambiguates assets expiring at the same nanosecond.
func key(asset domain.CloudAsset) []byte {
	return []byte(fmt.Sprintf("del:pending:%019d:%s", asset.DeleteAfter.UnixNano(), asset.FileCode))
}

// Enqueue registers one asset for deletion at its DeleteAfter instant.
// Each asset is enqueued at most once: its key is derived from the asset,
// so re-enqueueing the same asset overwrites rather than duplicates.
func (r DeletionRepository) Enqueue(asset domain.CloudAsset) error {
	data, err := json.Marshal(asset)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(asset), data)
	})
}

// Due returns up to limit assets whose fire time has passed. Keys sort by
// fire time, so the scan stops at the first not-yet-due entry.
func (r DeletionRepository) Due(now time.Time, limit int) ([]domain.CloudAsset, error) {
	var due []domain.CloudAsset
	prefix := []byte("del:pending:")

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.PrefetchSize = limit

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix) && len(due) < limit; it.Next() {
			item := it.Item()
			var asset domain.CloudAsset
			err := item.Value(func(v []byte) error {
				return json.Unmarshal(v, &asset)
			})
			if err != nil {
				// A corrupt record must not wedge the queue; it is
				// reported and skipped.
				r.log.Error("unreadable deletion record", "key", string(item.Key()), "error", err)
				continue
			}
			if asset.DeleteAfter.After(now) {
				break
			}
			due = append(due, asset)
		}
		return nil
	})
	return due, err
}

// Remove drops the registry entry. Called after the single deletion
// attempt, whether it succeeded or was abandoned.
func (r DeletionRepository) Remove(asset domain.CloudAsset) error {
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(asset))
	})
}

//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"
	"time"

	"transfer-lab/domain"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker lifecycle
// events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Sleeper abstracts backoff waits so tests assert delays without waiting.
// Sleep returns early with the context's error when ctx is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// Downloader materializes a job's source as its local destination file,
// mutating the job's byte counter and declared size along the way.
type Downloader interface {
	Download(ctx context.Context, job *domain.TransferJob) error
}

// StorageClient drives the third-party storage provider. Upload runs the
// strictly ordered negotiate/upload/rename/link sequence; any mid-sequence
// failure aborts with no partial asset. Delete is the single delayed
// deletion round trip.
type StorageClient interface {
	Upload(ctx context.Context, localPath, remoteName string) (*domain.CloudAsset, error)
	Delete(ctx context.Context, fileCode string) error
}

// Notifier is the boundary to the excluded command layer. Every terminal
// job state produces exactly one Transfer call; every scheduled-deletion
// attempt produces exactly one Deletion call at fire time.
type Notifier interface {
	Transfer(ctx context.Context, outcome domain.Outcome)
	Deletion(ctx context.Context, outcome domain.DeletionOutcome)
}

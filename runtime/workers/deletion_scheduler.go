package workers

import (
	"context"
	"log/slog"
	"time"

	"transfer-lab/contract"
	"transfer-lab/domain"
	"transfer-lab/repositories"
)

const DefaultDeletionPollInterval = time.Minute
const DefaultDeletionBatchSize = 16

// DeletionSchedulerWorker fires delayed remote deletions. It polls the
// durable queue for assets whose retention window has elapsed, invokes the
// provider delete once per asset, and reports the outcome at fire time.
//
// Deletion is attempted exactly once: the registry entry is removed whether
// the provider accepted the delete or not, so a permanently failing asset
// cannot wedge the queue. Polling instead of in-memory timers means a
// restart simply resumes from whatever the queue still holds.
type DeletionSchedulerWorker struct {
	log          *slog.Logger
	repository   repositories.IDeletionRepository
	storage      contract.StorageClient
	notifier     contract.Notifier
	pollInterval time.Duration
	batchSize    int
	now          func() time.Time
}

func NewDeletionSchedulerWorker(
	log *slog.Logger,
	repository repositories.IDeletionRepository,
	storage contract.StorageClient,
	notifier contract.Notifier,
	pollInterval time.Duration,
	batchSize int,
) *DeletionSchedulerWorker {
	if pollInterval <= 0 {
		pollInterval = DefaultDeletionPollInterval
	}
	if batchSize <= 0 {
		batchSize = DefaultDeletionBatchSize
	}
	return &DeletionSchedulerWorker{
		log:          log,
		repository:   repository,
		storage:      storage,
		notifier:     notifier,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		now:          time.Now,
	}
}

func (w *DeletionSchedulerWorker) Run(ctx context.Context) error {
	w.log.Info("Starting deletion scheduler", "poll_interval", w.pollInterval)
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Stopping deletion scheduler")
			return ctx.Err()
		case <-ticker.C:
			w.Fire(ctx)
		}
	}
}

// Fire processes one batch of due deletions.
func (w *DeletionSchedulerWorker) Fire(ctx context.Context) {
	due, err := w.repository.Due(w.now(), w.batchSize)
	if err != nil {
		w.log.Error("Failed to fetch due deletions", "error", err)
		return
	}

	for _, asset := range due {
		w.fireOne(ctx, asset)
	}
}

func (w *DeletionSchedulerWorker) fireOne(ctx context.Context, asset domain.CloudAsset) {
	err := w.storage.Delete(ctx, asset.FileCode)
	if err != nil {
		w.log.Warn("Remote deletion failed, abandoning", "file_code", asset.FileCode, "error", err)
	} else {
		w.log.Info("Remote asset deleted", "file_code", asset.FileCode, "remote_name", asset.RemoteName)
	}

	w.notifier.Deletion(ctx, domain.DeletionOutcome{Asset: asset, Err: err})

	if err := w.repository.Remove(asset); err != nil {
		w.log.Error("Failed to remove deletion entry", "file_code", asset.FileCode, "error", err)
	}
}

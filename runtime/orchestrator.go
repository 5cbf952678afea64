package runtime

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"transfer-lab/contract"
	"transfer-lab/domain"
	"transfer-lab/errors"
	"transfer-lab/repositories"
)

// SubmitRequest is the inbound boundary consumed by the command layer.
type SubmitRequest struct {
	OwnerID         string        `validate:"required,max=128"`
	Source          domain.Source `validate:"required"`
	DestinationHint string        `validate:"omitempty,max=255"`
	DeliverToCloud  bool
}

// Orchestrator runs the top-level sequence of every job:
// download → (optionally) upload → notify → schedule deletion → cleanup.
// It owns the per-owner cancellation registry; every other component is a
// port so the wire protocols stay swappable in tests.
type Orchestrator struct {
	log             *slog.Logger
	validator       *validator.Validate
	registry        *Registry
	downloader      contract.Downloader
	storage         contract.StorageClient
	deletions       repositories.IDeletionRepository
	notifier        contract.Notifier
	tempDir         string
	downloadTimeout time.Duration
	wg              sync.WaitGroup
}

func NewOrchestrator(
	log *slog.Logger,
	registry *Registry,
	downloader contract.Downloader,
	storage contract.StorageClient,
	deletions repositories.IDeletionRepository,
	notifier contract.Notifier,
	tempDir string,
	downloadTimeout time.Duration,
) *Orchestrator {
	return &Orchestrator{
		log:             log,
		validator:       validator.New(),
		registry:        registry,
		downloader:      downloader,
		storage:         storage,
		deletions:       deletions,
		notifier:        notifier,
		tempDir:         tempDir,
		downloadTimeout: downloadTimeout,
	}
}

// Submit accepts a transfer request, registers the owner's cancellation
// handle (superseding and cancelling any prior job of the same owner) and
// runs the job asynchronously. The returned job is the caller's handle for
// observing progress; completion arrives through the notifier.
func (o *Orchestrator) Submit(ctx context.Context, req SubmitRequest) (*domain.TransferJob, error) {
	if err := o.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid submit request: %w", err)
	}

	token := o.registry.Replace(req.OwnerID)
	job := domain.NewTransferJob(req.OwnerID, req.Source, o.destinationPath(req.DestinationHint), req.DeliverToCloud, token)

	o.log.Info("job accepted", "job_id", job.ID, "owner_id", job.OwnerID, "source", job.Source.String(), "cloud", job.DeliverToCloud)

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.runJob(ctx, job)
	}()
	return job, nil
}

// CancelOwner flips the owner's active cancel handle. Returns false when
// nothing is in flight for that owner.
func (o *Orchestrator) CancelOwner(ownerID string) bool {
	return o.registry.Cancel(ownerID)
}

// Wait blocks until every in-flight job reached a terminal state. Used on
// shutdown and in tests.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

func (o *Orchestrator) runJob(ctx context.Context, job *domain.TransferJob) {
	defer o.registry.Release(job.OwnerID, job.Cancel)

	// The whole download is bounded by a long ceiling so a pathological
	// slow origin cannot pin a job forever.
	downloadCtx := ctx
	if o.downloadTimeout > 0 {
		var cancel context.CancelFunc
		downloadCtx, cancel = context.WithTimeout(ctx, o.downloadTimeout)
		defer cancel()
	}

	job.SetState(domain.StateDownloading)
	if err := o.downloader.Download(downloadCtx, job); err != nil {
		o.removeLocal(job)
		if stderrors.Is(err, errors.ErrCancelled) {
			o.finish(ctx, job, domain.StateCancelled, nil)
			return
		}
		o.finish(ctx, job, domain.StateFailed, err)
		return
	}
	job.SetState(domain.StateDownloaded)

	if !job.DeliverToCloud {
		// The local file is handed to the caller for final delivery;
		// its removal is the caller's responsibility once delivered.
		job.SetState(domain.StateCompleted)
		o.notifier.Transfer(ctx, domain.Outcome{
			OwnerID:   job.OwnerID,
			JobID:     job.ID,
			State:     domain.StateCompleted,
			LocalPath: job.DestinationPath,
		})
		o.log.Info("job completed", "job_id", job.ID, "state", job.State().String(), "bytes", job.BytesTransferred())
		return
	}

	// The token is observed once more before committing to the upload: a
	// cancel landing after the last chunk must not ship the file.
	if job.Cancel.Cancelled() {
		o.removeLocal(job)
		o.finish(ctx, job, domain.StateCancelled, nil)
		return
	}

	job.SetState(domain.StateUploading)
	asset, err := o.storage.Upload(ctx, job.DestinationPath, o.remoteName(job))
	// Uploading or not, there is no further consumer for the local copy.
	o.removeLocal(job)
	if err != nil {
		o.finish(ctx, job, domain.StateFailed, err)
		return
	}
	job.SetState(domain.StateUploaded)

	if err := o.deletions.Enqueue(*asset); err != nil {
		// The asset exists remotely either way; losing the deletion
		// schedule is the one failure worth surfacing loudly here.
		o.log.Error("failed to schedule deletion", "job_id", job.ID, "file_code", asset.FileCode, "error", err)
	}

	job.SetState(domain.StateCompleted)
	o.notifier.Transfer(ctx, domain.Outcome{
		OwnerID: job.OwnerID,
		JobID:   job.ID,
		State:   domain.StateCompleted,
		Asset:   asset,
	})
	o.log.Info("job completed", "job_id", job.ID, "state", job.State().String(), "bytes", job.BytesTransferred(), "file_code", asset.FileCode)
}

// finish records a non-success terminal state and emits its single
// notification, forwarding the failure kind unmodified.
func (o *Orchestrator) finish(ctx context.Context, job *domain.TransferJob, state domain.JobState, err error) {
	job.SetState(state)
	o.notifier.Transfer(ctx, domain.Outcome{
		OwnerID: job.OwnerID,
		JobID:   job.ID,
		State:   state,
		Err:     err,
	})
	if err != nil {
		o.log.Warn("job failed", "job_id", job.ID, "owner_id", job.OwnerID, "error", err)
		return
	}
	o.log.Info("job cancelled", "job_id", job.ID, "owner_id", job.OwnerID)
}

func (o *Orchestrator) removeLocal(job *domain.TransferJob) {
	if err := os.Remove(job.DestinationPath); err != nil && !os.IsNotExist(err) {
		o.log.Error("failed to remove local file", "job_id", job.ID, "path", job.DestinationPath, "error", err)
	}
}

// destinationPath derives a per-job unique local path from the hint, so
// concurrent jobs never collide on disk.
func (o *Orchestrator) destinationPath(hint string) string {
	base := sanitizeHint(hint)
	token := uuidSuffix()
	name := lo.Ternary(base == "", token, base+"-"+token)
	return filepath.Join(o.tempDir, name)
}

func (o *Orchestrator) remoteName(job *domain.TransferJob) string {
	name := filepath.Base(job.DestinationPath)
	if ext := job.DetectedExtension(); ext != "" && !strings.HasSuffix(name, ext) {
		name += ext
	}
	return name
}

package download

import (
	"context"
	"log/slog"

	"github.com/gabriel-vasile/mimetype"

	"transfer-lab/domain"
)

// Service dispatches a job to the resolver matching its source kind and
// sniffs the materialized file so the orchestrator can derive a remote name
// extension when the destination hint carries none.
type Service struct {
	log     *slog.Logger
	generic *GenericDownloader
	drive   *DriveResolver
}

func NewService(log *slog.Logger, generic *GenericDownloader, drive *DriveResolver) *Service {
	return &Service{log: log, generic: generic, drive: drive}
}

func (s *Service) Download(ctx context.Context, job *domain.TransferJob) error {
	var err error
	switch job.Source.Kind {
	case domain.SourceDriveFile:
		err = s.drive.Fetch(ctx, job)
	default:
		err = s.generic.Fetch(ctx, job)
	}
	if err != nil {
		return err
	}

	// Best effort: a file we cannot sniff still completed its transfer.
	if mt, err := mimetype.DetectFile(job.DestinationPath); err == nil {
		job.SetDetectedExtension(mt.Extension())
	} else {
		s.log.Debug("mimetype sniff failed", "job_id", job.ID, "error", err)
	}
	return nil
}

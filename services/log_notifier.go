// Package services hosts application-level adapters around the pipeline
// core.
package services

import (
	"context"
	"log/slog"

	"transfer-lab/domain"
)

// LogNotifier is the default Notifier: it renders every outcome as a log
// line. The embedding command layer replaces it with its own adapter to
// turn outcomes into user-facing replies; the pipeline itself never
// generates user-facing prose.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Transfer(_ context.Context, outcome domain.Outcome) {
	switch outcome.State {
	case domain.StateCancelled:
		n.log.Info("Transfer cancelled", "owner_id", outcome.OwnerID, "job_id", outcome.JobID)
	case domain.StateFailed:
		n.log.Warn("Transfer failed", "owner_id", outcome.OwnerID, "job_id", outcome.JobID, "error", outcome.Err)
	default:
		if outcome.Asset != nil {
			n.log.Info("Transfer completed", "owner_id", outcome.OwnerID, "job_id", outcome.JobID,
				"file_code", outcome.Asset.FileCode, "direct_link", outcome.Asset.DirectLink)
			return
		}
		n.log.Info("Transfer completed", "owner_id", outcome.OwnerID, "job_id", outcome.JobID, "local_path", outcome.LocalPath)
	}
}

func (n *LogNotifier) Deletion(_ context.Context, outcome domain.DeletionOutcome) {
	if outcome.Err != nil {
		n.log.Warn("Scheduled deletion failed", "file_code", outcome.Asset.FileCode, "error", outcome.Err)
		return
	}
	n.log.Info("Scheduled deletion done", "file_code", outcome.Asset.FileCode, "remote_name", outcome.Asset.RemoteName)
}

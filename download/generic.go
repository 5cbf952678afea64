package download

import (
	"context"
	"log/slog"
	"net/http"

	"transfer-lab/domain"
	"transfer-lab/errors"
)

// GenericDownloader fetches an arbitrary URL to the job's destination file.
// It composes the backoff fetcher with the stream writer and propagates the
// writer's failure kinds unchanged.
type GenericDownloader struct {
	log     *slog.Logger
	fetcher *BackoffFetcher
	writer  *StreamWriter
}

func NewGenericDownloader(log *slog.Logger, fetcher *BackoffFetcher, writer *StreamWriter) *GenericDownloader {
	return &GenericDownloader{log: log, fetcher: fetcher, writer: writer}
}

// Fetch requires a 200: any other status is a terminal HTTPStatusError,
// never retried, since retrying an HTTP-level rejection is not transport
// retry's job.
func (d *GenericDownloader) Fetch(ctx context.Context, job *domain.TransferJob) error {
	resp, err := d.fetcher.Get(ctx, job.Source.Value, nil, job.Cancel)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &errors.HTTPStatusError{Code: resp.StatusCode}
	}
	job.SetDeclaredSize(resp.ContentLength)

	written, err := d.writer.Copy(job.DestinationPath, resp.Body, domain.MaxTransferSize, job.Cancel, job.AddBytes)
	if err != nil {
		return err
	}
	d.log.Info("download finished", "job_id", job.ID, "url", job.Source.Value, "bytes", written)
	return nil
}

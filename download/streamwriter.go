// Package download materializes remote files on local disk: a chunked
// stream writer under a hard size ceiling, a backoff-retrying fetcher,
// a generic URL downloader and the Google Drive interstitial resolver.
package download

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"transfer-lab/domain"
	"transfer-lab/errors"
)

// StreamWriter copies a byte stream to a destination file in fixed-size
// chunks, honoring a cooperative cancel token and a cumulative size ceiling.
// Buffers are pooled: one writer serves many concurrent jobs.
type StreamWriter struct {
	log        *slog.Logger
	chunkSize  int
	bufferPool *sync.Pool
}

func NewStreamWriter(log *slog.Logger, chunkSize int) *StreamWriter {
	if chunkSize <= 0 {
		chunkSize = domain.TransferChunkSize
	}
	return &StreamWriter{
		log:       log,
		chunkSize: chunkSize,
		bufferPool: &sync.Pool{
			New: func() any {
				b := make([]byte, chunkSize)
				return &b
			},
		},
	}
}

// Copy streams src into destination until EOF, ceiling overflow or
// cancellation. It creates/truncates the destination and never fsyncs: a
// crash mid-write yields a truncated file the sweeper eventually reclaims.
//
// The cancel token is checked before each chunk write, so the chunk in
// flight always completes. On ErrSizeExceeded the partial file is left on
// disk; removal is the caller's responsibility. progress may be nil.
//
// The returned byte count never exceeds the ceiling, including on failure.
func (w *StreamWriter) Copy(destination string, src io.Reader, ceiling int64, cancel *domain.CancelToken, progress func(n int64)) (int64, error) {
	out, err := os.Create(destination)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", destination, err)
	}
	defer out.Close()

	bufPtr := w.bufferPool.Get().(*[]byte)
	defer w.bufferPool.Put(bufPtr)
	buf := *bufPtr

	var written int64
	for {
		if cancel.Cancelled() {
			w.log.Debug("copy cancelled", "destination", destination, "written", written)
			return written, errors.ErrCancelled
		}

		n, readErr := src.Read(buf)
		if n > 0 {
			if written+int64(n) > ceiling {
				w.log.Warn("size ceiling exceeded", "destination", destination, "written", written, "ceiling", ceiling)
				return written, errors.ErrSizeExceeded
			}
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				return written, fmt.Errorf("write %s: %w", destination, writeErr)
			}
			written += int64(n)
			if progress != nil {
				progress(int64(n))
			}
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, fmt.Errorf("read stream: %w", readErr)
		}
	}
}

package download

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"transfer-lab/domain"
	"transfer-lab/errors"
)

func newTestJob(t *testing.T, source domain.Source) *domain.TransferJob {
	t.Helper()
	destination := filepath.Join(t.TempDir(), "download.bin")
	return domain.NewTransferJob("owner-1", source, destination, false, domain.NewCancelToken())
}

func TestGenericDownloader_Fetch_Streams_Body_To_Destination(t *testing.T) {
	req := require.New(t)
	content := "binary payload of a perfectly ordinary file"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(content))
	}))
	defer server.Close()

	fetcher := NewBackoffFetcher(slog.Default(), server.Client(), 3, time.Millisecond, nil)
	downloader := NewGenericDownloader(slog.Default(), fetcher, NewStreamWriter(slog.Default(), 8))
	job := newTestJob(t, domain.GenericURL(server.URL))

	err := downloader.Fetch(context.Background(), job)

	req.NoError(err)
	req.Equal(int64(len(content)), job.BytesTransferred())
	req.Equal(int64(len(content)), job.DeclaredSize())

	data, err := os.ReadFile(job.DestinationPath)
	req.NoError(err)
	req.Equal(content, string(data))
}

func TestGenericDownloader_Fetch_Rejects_Non_Success_Status(t *testing.T) {
	req := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	fetcher := NewBackoffFetcher(slog.Default(), server.Client(), 3, time.Millisecond, nil)
	downloader := NewGenericDownloader(slog.Default(), fetcher, NewStreamWriter(slog.Default(), 8))
	job := newTestJob(t, domain.GenericURL(server.URL))

	err := downloader.Fetch(context.Background(), job)

	var statusErr *errors.HTTPStatusError
	req.ErrorAs(err, &statusErr)
	req.Equal(http.StatusNotFound, statusErr.Code)
}

func TestGenericDownloader_Fetch_Counts_Every_Chunk(t *testing.T) {
	req := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chunk := make([]byte, 1024)
		for range 10 {
			w.Write(chunk)
		}
	}))
	defer server.Close()

	fetcher := NewBackoffFetcher(slog.Default(), server.Client(), 3, time.Millisecond, nil)
	downloader := NewGenericDownloader(slog.Default(), fetcher, NewStreamWriter(slog.Default(), 1024))
	job := newTestJob(t, domain.GenericURL(server.URL))

	err := downloader.Fetch(context.Background(), job)

	req.NoError(err)
	req.Equal(int64(10*1024), job.BytesTransferred())
}

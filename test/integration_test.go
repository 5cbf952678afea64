package test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"transfer-lab/domain"
	"transfer-lab/download"
	"transfer-lab/mocks"
	"transfer-lab/repositories"
	"transfer-lab/runtime"
	"transfer-lab/runtime/workers"
)

func Test_Scenario(t *testing.T) {
	ctx := context.Background()
	req := require.New(t)
	// Reduced to 16 Mo for testing (avoid 20 Go of storage)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	req.NoError(err)
	t.Cleanup(func() { db.Close() })

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	tempDir := t.TempDir()

	// Given an origin serving one file
	content := "integration payload"
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(content))
	}))
	t.Cleanup(origin.Close)

	fetcher := download.NewBackoffFetcher(log, origin.Client(), 3, time.Millisecond, nil)
	writer := download.NewStreamWriter(log, domain.TransferChunkSize)
	downloadService := download.NewService(
		log,
		download.NewGenericDownloader(log, fetcher, writer),
		download.NewDriveResolver(log, fetcher, writer, ""),
	)

	ctrl := gomock.NewController(t)
	storage := mocks.NewMockStorageClient(ctrl)
	notifier := mocks.NewMockNotifier(ctrl)
	deletionRepository := repositories.NewDeletionRepository(db, log)

	// And a provider whose asset's retention window already elapsed
	asset := domain.NewCloudAsset("abc123", "sample.txt", "https://cdn.example.com/abc123", time.Now().UTC().Add(-25*time.Hour))
	storage.EXPECT().
		Upload(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&asset, nil).
		Times(1)

	transferred := make(chan domain.Outcome, 1)
	notifier.EXPECT().
		Transfer(gomock.Any(), gomock.Any()).
		Do(func(ctx context.Context, outcome domain.Outcome) {
			transferred <- outcome
		}).
		Times(1)

	orchestrator := runtime.NewOrchestrator(
		log, runtime.NewRegistry(),
		downloadService, storage, deletionRepository, notifier,
		tempDir, 10*time.Second,
	)

	// When a cloud transfer is submitted
	job, err := orchestrator.Submit(ctx, runtime.SubmitRequest{
		OwnerID:         "owner-1",
		Source:          domain.GenericURL(origin.URL),
		DestinationHint: "sample",
		DeliverToCloud:  true,
	})
	req.NoError(err)

	select {
	case outcome := <-transferred:
		// Then the job completed with a cloud asset
		req.Equal(domain.StateCompleted, outcome.State)
		req.NotNil(outcome.Asset)
		req.Equal("abc123", outcome.Asset.FileCode)
	case <-time.After(2 * time.Second):
		req.Fail("Timeout: transfer has never completed")
	}
	orchestrator.Wait()

	// And its local copy is gone
	_, err = os.Stat(job.DestinationPath)
	req.True(os.IsNotExist(err))

	// And the deletion is durably scheduled and due
	due, err := deletionRepository.Due(time.Now().UTC(), 10)
	req.NoError(err)
	req.Len(due, 1)

	// When the deletion scheduler fires
	storage.EXPECT().Delete(gomock.Any(), "abc123").Return(nil).Times(1)
	notifier.EXPECT().Deletion(gomock.Any(), gomock.Any()).Times(1)

	scheduler := workers.NewDeletionSchedulerWorker(log, deletionRepository, storage, notifier, time.Minute, 16)
	scheduler.Fire(ctx)

	// Then the queue is empty
	due, err = deletionRepository.Due(time.Now().UTC(), 10)
	req.NoError(err)
	req.Empty(due)
}

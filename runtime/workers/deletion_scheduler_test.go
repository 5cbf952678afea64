package workers

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"transfer-lab/domain"
	"transfer-lab/mocks"
)

type schedulerFixture struct {
	worker     *DeletionSchedulerWorker
	repository *mocks.MockIDeletionRepository
	storage    *mocks.MockStorageClient
	notifier   *mocks.MockNotifier
}

func newSchedulerFixture(t *testing.T) *schedulerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &schedulerFixture{
		repository: mocks.NewMockIDeletionRepository(ctrl),
		storage:    mocks.NewMockStorageClient(ctrl),
		notifier:   mocks.NewMockNotifier(ctrl),
	}
	f.worker = NewDeletionSchedulerWorker(slog.Default(), f.repository, f.storage, f.notifier, time.Minute, 16)
	return f
}

func expiredAsset(code string) domain.CloudAsset {
	return domain.NewCloudAsset(code, code+".bin", "https://cdn.example.com/"+code, time.Now().UTC().Add(-25*time.Hour))
}

func TestDeletionScheduler_Fire_Deletes_Due_Asset_Exactly_Once(t *testing.T) {
	req := require.New(t)
	f := newSchedulerFixture(t)
	asset := expiredAsset("abc123")

	f.repository.EXPECT().Due(gomock.Any(), 16).Return([]domain.CloudAsset{asset}, nil).Times(1)
	f.storage.EXPECT().Delete(gomock.Any(), "abc123").Return(nil).Times(1)
	f.notifier.EXPECT().
		Deletion(gomock.Any(), gomock.Any()).
		Do(func(ctx context.Context, outcome domain.DeletionOutcome) {
			req.Equal(asset, outcome.Asset)
			req.NoError(outcome.Err)
		}).
		Times(1)
	f.repository.EXPECT().Remove(asset).Return(nil).Times(1)

	f.worker.Fire(context.Background())
}

func TestDeletionScheduler_Fire_Abandons_Failed_Deletion(t *testing.T) {
	req := require.New(t)
	f := newSchedulerFixture(t)
	asset := expiredAsset("abc123")
	providerErr := fmt.Errorf("file not found")

	f.repository.EXPECT().Due(gomock.Any(), 16).Return([]domain.CloudAsset{asset}, nil).Times(1)
	f.storage.EXPECT().Delete(gomock.Any(), "abc123").Return(providerErr).Times(1)
	f.notifier.EXPECT().
		Deletion(gomock.Any(), gomock.Any()).
		Do(func(ctx context.Context, outcome domain.DeletionOutcome) {
			req.ErrorIs(outcome.Err, providerErr)
		}).
		Times(1)
	// The entry is removed either way: one attempt per asset
	f.repository.EXPECT().Remove(asset).Return(nil).Times(1)

	f.worker.Fire(context.Background())
}

func TestDeletionScheduler_Fire_Processes_Whole_Batch(t *testing.T) {
	f := newSchedulerFixture(t)
	assets := []domain.CloudAsset{expiredAsset("a1"), expiredAsset("a2"), expiredAsset("a3")}

	f.repository.EXPECT().Due(gomock.Any(), 16).Return(assets, nil).Times(1)
	for _, asset := range assets {
		f.storage.EXPECT().Delete(gomock.Any(), asset.FileCode).Return(nil).Times(1)
		f.repository.EXPECT().Remove(asset).Return(nil).Times(1)
	}
	f.notifier.EXPECT().Deletion(gomock.Any(), gomock.Any()).Times(3)

	f.worker.Fire(context.Background())
}

func TestDeletionScheduler_Fire_Skips_Cycle_On_Queue_Error(t *testing.T) {
	f := newSchedulerFixture(t)

	f.repository.EXPECT().Due(gomock.Any(), 16).Return(nil, fmt.Errorf("store unavailable")).Times(1)
	// No deletion must be attempted on a failed poll

	f.worker.Fire(context.Background())
}

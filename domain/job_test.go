package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJobState_Terminal(t *testing.T) {
	req := require.New(t)

	req.True(StateCompleted.Terminal())
	req.True(StateCancelled.Terminal())
	req.True(StateFailed.Terminal())

	req.False(StatePending.Terminal())
	req.False(StateDownloading.Terminal())
	req.False(StateUploading.Terminal())
}

func TestTransferJob_Progress_Counters(t *testing.T) {
	req := require.New(t)
	job := NewTransferJob("owner-1", GenericURL("http://origin/file"), "/tmp/x", false, NewCancelToken())

	req.Equal(StatePending, job.State())
	req.Zero(job.BytesTransferred())

	job.AddBytes(100)
	job.AddBytes(50)
	req.Equal(int64(150), job.BytesTransferred())

	// An unknown content length must not overwrite a known one
	job.SetDeclaredSize(2048)
	job.SetDeclaredSize(-1)
	req.Equal(int64(2048), job.DeclaredSize())
}

func TestCancelToken_Nil_Receiver(t *testing.T) {
	var token *CancelToken
	require.False(t, token.Cancelled())
}

func TestNewCloudAsset_Retention_Window(t *testing.T) {
	req := require.New(t)
	created := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	asset := NewCloudAsset("abc123", "clip.mp4", "https://cdn.example.com/abc123", created)

	req.Equal(created.Add(24*time.Hour), asset.DeleteAfter)
}

func TestSource_String(t *testing.T) {
	req := require.New(t)

	req.Equal("http://origin/file", GenericURL("http://origin/file").String())
	req.Equal("drive:FILE42", DriveFileID("FILE42").String())
}

package domain

import (
	"sync/atomic"

	"github.com/google/uuid"
)

const KB = 1024
const MB = KB * KB
const GB = MB * KB

// MaxTransferSize is the hard ceiling enforced mid-stream on every download.
const MaxTransferSize int64 = 2 * GB

// TransferChunkSize is the copy granularity of the stream writer. Large
// enough to amortize syscall overhead on multi-gigabyte bodies.
const TransferChunkSize = 1 * MB

type JobState int32

const (
	StatePending JobState = iota
	StateDownloading
	StateDownloaded
	StateUploading
	StateUploaded
	StateCompleted
	StateCancelled
	StateFailed
)

func (s JobState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateDownloading:
		return "downloading"
	case StateDownloaded:
		return "downloaded"
	case StateUploading:
		return "uploading"
	case StateUploaded:
		return "uploaded"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state releases the owner's cancel handle.
func (s JobState) Terminal() bool {
	return s == StateCompleted || s == StateCancelled || s == StateFailed
}

// TransferJob tracks one download(+upload) request end-to-end.
// State and byte counters are atomics: the download goroutine advances them
// while callers observe progress concurrently.
type TransferJob struct {
	ID              uuid.UUID
	OwnerID         string
	Source          Source
	DestinationPath string
	DeliverToCloud  bool
	Cancel          *CancelToken

	state        atomic.Int32
	bytes        atomic.Int64
	declaredSize atomic.Int64
	detectedExt  atomic.Value // string, e.g. ".mp4"
}

func NewTransferJob(ownerID string, source Source, destinationPath string, deliverToCloud bool, cancel *CancelToken) *TransferJob {
	return &TransferJob{
		ID:              uuid.New(),
		OwnerID:         ownerID,
		Source:          source,
		DestinationPath: destinationPath,
		DeliverToCloud:  deliverToCloud,
		Cancel:          cancel,
	}
}

func (j *TransferJob) State() JobState {
	return JobState(j.state.Load())
}

func (j *TransferJob) SetState(s JobState) {
	j.state.Store(int32(s))
}

// AddBytes records progress for one written chunk.
func (j *TransferJob) AddBytes(n int64) {
	j.bytes.Add(n)
}

func (j *TransferJob) BytesTransferred() int64 {
	return j.bytes.Load()
}

// SetDeclaredSize records the Content-Length announced by the origin, 0 when unknown.
func (j *TransferJob) SetDeclaredSize(n int64) {
	if n > 0 {
		j.declaredSize.Store(n)
	}
}

func (j *TransferJob) DeclaredSize() int64 {
	return j.declaredSize.Load()
}

// SetDetectedExtension stores the sniffed file extension (with leading dot).
func (j *TransferJob) SetDetectedExtension(ext string) {
	j.detectedExt.Store(ext)
}

func (j *TransferJob) DetectedExtension() string {
	if v, ok := j.detectedExt.Load().(string); ok {
		return v
	}
	return ""
}

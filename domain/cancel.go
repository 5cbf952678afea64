package domain

import "sync/atomic"

// CancelToken is the shared cooperative-cancellation flag of one job.
// It is observed at chunk boundaries and before retry attempts, never
// mid-chunk: the chunk in flight always completes.
type CancelToken struct {
	cancelled atomic.Bool
}

func NewCancelToken() *CancelToken {
	return &CancelToken{}
}

func (t *CancelToken) Cancel() {
	t.cancelled.Store(true)
}

func (t *CancelToken) Cancelled() bool {
	if t == nil {
		return false
	}
	return t.cancelled.Load()
}

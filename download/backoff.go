package download

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"transfer-lab/contract"
	"transfer-lab/domain"
	"transfer-lab/errors"
)

const DefaultMaxAttempts = 3
const DefaultBackoffBase = time.Second

// realSleeper waits with a timer, bailing out when the context is done.
type realSleeper struct{}

func (realSleeper) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// BackoffFetcher issues one logical request with bounded exponential-backoff
// retries on transport failures. A transport success carrying a non-2xx
// status is surfaced as a value, not an error: callers apply their own
// protocol handling (Drive's interstitial is a 200 with different content).
type BackoffFetcher struct {
	log         *slog.Logger
	client      *http.Client
	maxAttempts int
	base        time.Duration
	sleeper     contract.Sleeper
}

func NewBackoffFetcher(log *slog.Logger, client *http.Client, maxAttempts int, base time.Duration, sleeper contract.Sleeper) *BackoffFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if base <= 0 {
		base = DefaultBackoffBase
	}
	if sleeper == nil {
		sleeper = realSleeper{}
	}
	return &BackoffFetcher{
		log:         log,
		client:      client,
		maxAttempts: maxAttempts,
		base:        base,
		sleeper:     sleeper,
	}
}

// Get fetches url with up to maxAttempts attempts. The delay before attempt
// k is base*2^(k-2): 1, 2, 4 units. The cancel token is observed before
// each attempt; exhaustion surfaces the last transport error wrapped in
// ErrTransportExhausted. The caller owns the response body.
func (f *BackoffFetcher) Get(ctx context.Context, url string, header http.Header, cancel *domain.CancelToken) (*http.Response, error) {
	var lastErr error

	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		if cancel.Cancelled() {
			return nil, errors.ErrCancelled
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		for k, vs := range header {
			req.Header[k] = vs
		}

		resp, err := f.client.Do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if attempt == f.maxAttempts {
			break
		}

		delay := f.base << (attempt - 1)
		f.log.Debug("transport failure, backing off", "url", url, "attempt", attempt, "delay", delay, "error", err)
		if err := f.sleeper.Sleep(ctx, delay); err != nil {
			return nil, err
		}
	}

	return nil, errors.TransportExhausted(f.maxAttempts, lastErr)
}

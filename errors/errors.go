// Package errors defines the failure taxonomy of the transfer pipeline.
// Every terminal failure a job can hit maps to exactly one kind here; the
// orchestrator forwards kinds unmodified, so notification layers can switch
// on them with errors.Is / errors.As.
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")

	// ErrCancelled: the owner flipped the job's cancel token. Terminal,
	// user-initiated, not an error from the user's perspective.
	ErrCancelled = errors.New("transfer cancelled")

	// ErrSizeExceeded: the next chunk would push the download past the
	// enforced ceiling. The partial file is purged by the orchestrator.
	ErrSizeExceeded = errors.New("size ceiling exceeded")

	// ErrConsentRequired: Google Drive offered neither a direct stream, a
	// confirm token in the interstitial body, nor a download_warning cookie.
	// The file is not downloadable without interactive consent.
	ErrConsentRequired = errors.New("drive download requires interactive consent")

	// ErrTransportExhausted: all backoff attempts failed at the transport
	// level. Wraps the last transport error for diagnostics.
	ErrTransportExhausted = errors.New("transport attempts exhausted")
)

// TransportExhausted wraps the last transport error after the final attempt.
func TransportExhausted(attempts int, last error) error {
	return fmt.Errorf("%w after %d attempts: %v", ErrTransportExhausted, attempts, last)
}

// HTTPStatusError is a successful transport response carrying a status the
// caller cannot use. HTTP-level rejections are terminal: retrying them is
// not transport retry's job.
type HTTPStatusError struct {
	Code int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d", e.Code)
}

// Step names one round trip of the storage-provider protocol.
type Step string

const (
	StepNegotiate Step = "negotiate"
	StepUpload    Step = "upload"
	StepRename    Step = "rename"
	StepLink      Step = "link"
	StepDelete    Step = "delete"
)

// StepError is a storage-provider rejection at one protocol step, carrying
// the provider's message verbatim.
type StepError struct {
	Step    Step
	Message string
}

func (e *StepError) Error() string {
	return fmt.Sprintf("storage %s failed: %s", e.Step, e.Message)
}

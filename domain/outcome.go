package domain

import "github.com/google/uuid"

// Outcome is the single notification produced when a job reaches a terminal
// state. Exactly one of LocalPath, Asset or Err is meaningful:
//   - StateCompleted without cloud delivery carries LocalPath (the caller
//     now owns that file and its removal),
//   - StateCompleted with cloud delivery carries Asset,
//   - StateFailed carries Err (the failure kind, unmodified),
//   - StateCancelled carries none of them: cancellation is user-initiated,
//     not an error from the user's perspective.
type Outcome struct {
	OwnerID   string
	JobID     uuid.UUID
	State     JobState
	LocalPath string
	Asset     *CloudAsset
	Err       error
}

// DeletionOutcome reports the single remote-deletion attempt of an asset,
// at fire time. Err is nil when the provider accepted the delete.
type DeletionOutcome struct {
	Asset CloudAsset
	Err   error
}

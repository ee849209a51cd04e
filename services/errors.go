package services

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateRequest is returned when a user who already has an active
	// request in the queue submits another one
	ErrDuplicateRequest = errors.New("user already has an active match request")

	// ErrInvalidRequest is returned for malformed submissions
	ErrInvalidRequest = errors.New("invalid match request")

	// ErrNotFound is returned for lookups on unknown IDs. Cancels on unknown
	// IDs are benign no-ops and never see this error.
	ErrNotFound = errors.New("not found")

	// ErrItemNotFound is the storage-level miss from DynamoDB reads
	ErrItemNotFound = errors.New("item not found")

	// ErrInviteInFlight rejects a second invite attempt while one is outstanding
	ErrInviteInFlight = errors.New("invite already in flight")

	// ErrInviteNotAllowed rejects an invite the policy has not approved
	ErrInviteNotAllowed = errors.New("invitation policy does not allow inviting")

	// ErrInviteFailed covers failed or timed-out invite attempts; the session
	// returns to waiting and the policy is re-evaluated later
	ErrInviteFailed = errors.New("invite attempt failed")

	// ErrSessionFinished rejects operations on ended or cancelled sessions
	ErrSessionFinished = errors.New("session already finished")
)

// SessionCreationError wraps a downstream provisioning failure. The match
// that triggered it is preserved: both requests go back to the queue with
// their original submission times.
type SessionCreationError struct {
	Err error
}

func (e *SessionCreationError) Error() string {
	return fmt.Sprintf("session creation failed: %v", e.Err)
}

func (e *SessionCreationError) Unwrap() error {
	return e.Err
}

package draft

import (
	"errors"
	"fmt"
)

// Domain-specific errors for the draft package.
var (
	ErrExtractionEmpty   = errors.New("no actionable item found")
	ErrAmbiguousDate     = errors.New("date is ambiguous, please clarify")
	ErrInvalidIndex      = errors.New("proposal index out of range")
	ErrSessionExpired    = errors.New("draft session expired")
	ErrNoActiveSession   = errors.New("no active draft session")
	ErrInvalidRecurrence = errors.New("recurring reminder requires a due date")
)

// PartialCommitError reports a confirm where some proposals were stored and
// some failed. Succeeded items are never rolled back; failed items are
// re-offered as a fresh pending session.
type PartialCommitError struct {
	CommittedCount int
	FailedCount    int
	Reasons        []error
}

func (e *PartialCommitError) Error() string {
	return fmt.Sprintf("partial commit: %d stored, %d failed", e.CommittedCount, e.FailedCount)
}

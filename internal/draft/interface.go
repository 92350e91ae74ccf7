package draft

import (
	"context"

	"reminder-draft/internal/model"
)

// UseCase defines the business logic interface for the draft domain.
type UseCase interface {
	// StartDraft extracts reminder proposals from raw content and opens (or
	// merges into) the caller's draft session.
	StartDraft(ctx context.Context, sc model.Scope, input StartDraftInput) (StartDraftOutput, error)

	// ApplyCommand applies one user turn (confirm/edit/remove/cancel or free
	// text refinement) to the caller's active session.
	ApplyCommand(ctx context.Context, sc model.Scope, input ApplyCommandInput) (CommandOutcome, error)
}

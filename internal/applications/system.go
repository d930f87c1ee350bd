package applications

import (
	"context"

	"github.com/google/uuid"

	"github.com/j2kenton/jobsift/internal/status"
	"github.com/j2kenton/jobsift/pkg/pagination"
)

// Remerger rebuilds an application record from its stored source emails.
// The pipeline provides the implementation; the handler only needs the
// operation.
type Remerger interface {
	Remerge(ctx context.Context, id uuid.UUID) (*Application, error)
}

// System defines the public contract for application domain operations.
type System interface {
	Handler(remerger Remerger) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Application], error)

	Find(ctx context.Context, id uuid.UUID) (*Application, error)
	FindByIdentity(ctx context.Context, company, position string) (*Application, error)
	Create(ctx context.Context, cmd CreateCommand) (*Application, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Application, error)
	ApplyStatus(ctx context.Context, id uuid.UUID, candidate status.Candidate, emailID string) (*Application, error)
	SaveMerged(ctx context.Context, cmd MergeCommand) (*Application, error)
	History(ctx context.Context, id uuid.UUID) ([]HistoryEntry, error)
	Transitions(ctx context.Context, id uuid.UUID) ([]TransitionEvent, error)
	Emails(ctx context.Context, id uuid.UUID) ([]SourceEmail, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

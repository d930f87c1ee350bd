// Package review implements the durable human-review queue for emails whose
// confidence landed between the discard and auto-accept thresholds. Items
// survive process restarts; approving an item runs it through the same
// acceptance path as an auto-accepted email.
package review

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/j2kenton/jobsift/internal/applications"
	"github.com/j2kenton/jobsift/internal/classify"
	"github.com/j2kenton/jobsift/internal/escalation"
	"github.com/j2kenton/jobsift/internal/status"
	"github.com/j2kenton/jobsift/pkg/pagination"
)

// Acceptor folds an approved email into the application store. The pipeline
// provides the implementation; approval and auto-accept share it.
type Acceptor interface {
	Accept(ctx context.Context, email classify.ProcessedEmail) (*applications.Application, error)
}

// Advisor asks the model for a decision aid on a queued item. The pipeline
// provides the implementation; the verdict is advisory and mutates nothing.
type Advisor interface {
	Advise(ctx context.Context, item Item) (*escalation.Result, error)
}

// Item is a queued email awaiting a human verdict.
type Item struct {
	ID             uuid.UUID        `json:"id"`
	EmailID        string           `json:"email_id"`
	Subject        string           `json:"subject"`
	Sender         string           `json:"sender"`
	ReceivedAt     time.Time        `json:"received_at"`
	Score          float64          `json:"score"`
	ProposedStatus status.Status    `json:"proposed_status"`
	Verdict        classify.Verdict `json:"verdict"`
	EnqueuedAt     time.Time        `json:"enqueued_at"`
}

// System defines the public contract for review queue operations.
type System interface {
	Handler(acceptor Acceptor, advisor Advisor) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Item], error)

	Find(ctx context.Context, id uuid.UUID) (*Item, error)
	Enqueue(ctx context.Context, email classify.ProcessedEmail) (*Item, error)
	Remove(ctx context.Context, id uuid.UUID) error
	Clear(ctx context.Context) (int, error)
}

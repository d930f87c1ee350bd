package pipeline

import (
	"context"
	"fmt"

	"github.com/j2kenton/jobsift/internal/classify"
	"github.com/j2kenton/jobsift/internal/escalation"
	"github.com/j2kenton/jobsift/internal/review"
)

// Advise consults the model about a queued item as a decision aid for the
// human reviewer. The review-queue hint steers tier selection toward deep
// analysis. Satisfies review.Advisor.
func (r *Runner) Advise(ctx context.Context, item review.Item) (*escalation.Result, error) {
	if r.escalator == nil {
		return nil, fmt.Errorf("%w: no escalator configured", escalation.ErrUnavailable)
	}

	verdict := classify.ProcessedEmail(item.Verdict)

	return r.escalator.Escalate(ctx, escalation.Request{
		Subject:       verdict.Email.Subject,
		Body:          verdict.Email.Body,
		Sender:        verdict.Email.Sender,
		LocalScore:    item.Score,
		InReviewQueue: true,
	})
}

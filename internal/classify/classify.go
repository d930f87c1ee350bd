// Package classify runs the per-email analysis workflow: field extraction,
// relevance scoring, stage detection, optional model escalation, and lane
// routing. Each email is classified independently; cross-email reconciliation
// happens in the merge layer.
package classify

import (
	"context"
	"time"

	"github.com/j2kenton/jobsift/internal/escalation"
	"github.com/j2kenton/jobsift/internal/extraction"
	"github.com/j2kenton/jobsift/internal/mail"
	"github.com/j2kenton/jobsift/internal/scoring"
	"github.com/j2kenton/jobsift/internal/status"
	"github.com/j2kenton/jobsift/internal/triage"
)

// Escalator sends ambiguous emails to a language model. The concrete
// implementation lives in the escalation package; the interface exists so
// classification can be tested without a model endpoint.
type Escalator interface {
	Escalate(ctx context.Context, req escalation.Request) (*escalation.Result, error)
}

// ProcessedEmail is the complete classification verdict for one email.
type ProcessedEmail struct {
	Email  mail.RawEmail     `json:"email"`
	Fields extraction.Fields `json:"fields"`
	Score  scoring.Score     `json:"score"`
	Status status.Candidate  `json:"status"`
	Lane   triage.Lane       `json:"lane"`

	Escalated      bool            `json:"escalated"`
	EscalationTier escalation.Tier `json:"escalation_tier,omitempty"`
	Reasoning      string          `json:"reasoning,omitempty"`

	ProcessedAt time.Time `json:"processed_at"`
}

// Identity returns the company/position pair used to group emails that
// belong to the same application. Either part may be empty.
func (p *ProcessedEmail) Identity() (company, position string) {
	if p.Fields.Company != nil {
		company = *p.Fields.Company
	}
	if p.Fields.Position != nil {
		position = *p.Fields.Position
	}
	return company, position
}

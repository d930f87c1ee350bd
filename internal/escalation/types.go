// Package escalation wraps the external language-model service used when
// local heuristics are inconclusive. Escalation failure is never fatal; the
// caller continues with its local results.
package escalation

import (
	"github.com/j2kenton/jobsift/internal/extraction"
)

// Tier identifies a model capability tier.
type Tier string

// Capability tiers: fast is the cheap default, deep handles non-English,
// long, or previously-queued content.
const (
	TierFast Tier = "fast"
	TierDeep Tier = "deep"
)

// Request carries an email and the contextual hints used for tier selection.
type Request struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Sender  string `json:"sender"`

	// Hints for tier selection and prompt framing.
	LocalScore    float64 `json:"local_score"`
	InReviewQueue bool    `json:"in_review_queue"`
}

// Result is a successful escalation outcome.
type Result struct {
	IsJobRelated bool              `json:"is_job_related"`
	Confidence   float64           `json:"confidence"`
	Status       string            `json:"status"`
	Fields       extraction.Fields `json:"fields"`
	Reasoning    string            `json:"reasoning"`
	Tier         Tier              `json:"tier"`
}

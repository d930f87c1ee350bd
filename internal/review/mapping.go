package review

import (
	"net/url"

	"github.com/j2kenton/jobsift/internal/status"
	"github.com/j2kenton/jobsift/pkg/query"
	"github.com/j2kenton/jobsift/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "review_queue", "r").
	Project("id", "ID").
	Project("email_id", "EmailID").
	Project("subject", "Subject").
	Project("sender", "Sender").
	Project("received_at", "ReceivedAt").
	Project("score", "Score").
	Project("proposed_status", "ProposedStatus").
	Project("verdict", "Verdict").
	Project("enqueued_at", "EnqueuedAt")

var defaultSort = query.SortField{
	Field:      "EnqueuedAt",
	Descending: false,
}

// Filters contains optional filtering criteria for review queue queries.
type Filters struct {
	Sender         *string `json:"sender,omitempty"`
	ProposedStatus *string `json:"proposed_status,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("Sender", f.Sender).
		WhereEquals("ProposedStatus", f.ProposedStatus)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("sender"); s != "" {
		f.Sender = &s
	}

	if ps := values.Get("proposed_status"); ps != "" {
		f.ProposedStatus = &ps
	}

	return f
}

func scanItem(s repository.Scanner) (Item, error) {
	var (
		i  Item
		st string
	)

	err := s.Scan(
		&i.ID,
		&i.EmailID,
		&i.Subject,
		&i.Sender,
		&i.ReceivedAt,
		&i.Score,
		&st,
		&i.Verdict,
		&i.EnqueuedAt,
	)

	i.ProposedStatus = status.Status(st)
	return i, err
}

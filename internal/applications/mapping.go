package applications

import (
	"net/url"

	"github.com/j2kenton/jobsift/internal/status"
	"github.com/j2kenton/jobsift/pkg/query"
	"github.com/j2kenton/jobsift/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "applications", "a").
	Project("id", "ID").
	Project("company", "Company").
	Project("position", "Position").
	Project("status", "Status").
	Project("applied_date", "AppliedDate").
	Project("contact_email", "ContactEmail").
	Project("job_url", "JobURL").
	Project("salary", "Salary").
	Project("location", "Location").
	Project("recruiter_name", "RecruiterName").
	Project("interviewer_name", "InterviewerName").
	Project("notes", "Notes").
	Project("confidence", "Confidence").
	Project("provenance", "Provenance").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "UpdatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for application queries.
// Company and Position use case-insensitive contains matching; Status uses
// exact matching.
type Filters struct {
	Company  *string `json:"company,omitempty"`
	Position *string `json:"position,omitempty"`
	Status   *string `json:"status,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("Company", f.Company).
		WhereContains("Position", f.Position).
		WhereEquals("Status", f.Status)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if c := values.Get("company"); c != "" {
		f.Company = &c
	}

	if p := values.Get("position"); p != "" {
		f.Position = &p
	}

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	return f
}

func scanApplication(s repository.Scanner) (Application, error) {
	var (
		a  Application
		st string
	)

	err := s.Scan(
		&a.ID,
		&a.Company,
		&a.Position,
		&st,
		&a.AppliedDate,
		&a.ContactEmail,
		&a.JobURL,
		&a.Salary,
		&a.Location,
		&a.RecruiterName,
		&a.InterviewerName,
		&a.Notes,
		&a.Confidence,
		&a.Provenance,
		&a.CreatedAt,
		&a.UpdatedAt,
	)

	a.Status = status.Status(st)
	return a, err
}

func scanHistoryEntry(s repository.Scanner) (HistoryEntry, error) {
	var (
		h  HistoryEntry
		st string
	)

	err := s.Scan(
		&h.ID,
		&h.ApplicationID,
		&st,
		&h.Confidence,
		&h.EmailID,
		&h.Reasoning,
		&h.OccurredAt,
	)

	h.Status = status.Status(st)
	return h, err
}

func scanSourceEmail(s repository.Scanner) (SourceEmail, error) {
	var e SourceEmail

	err := s.Scan(
		&e.ID,
		&e.ApplicationID,
		&e.EmailID,
		&e.ReceivedAt,
		&e.Verdict,
		&e.CreatedAt,
	)

	return e, err
}

func scanTransitionEvent(s repository.Scanner) (TransitionEvent, error) {
	var (
		t        TransitionEvent
		from, to string
	)

	err := s.Scan(
		&t.ID,
		&t.ApplicationID,
		&from,
		&to,
		&t.Applied,
		&t.Reason,
		&t.Confidence,
		&t.CreatedAt,
	)

	t.FromStatus = status.Status(from)
	t.ToStatus = status.Status(to)
	return t, err
}

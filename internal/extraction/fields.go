// Package extraction pulls structured candidate fields out of raw email text
// using pattern rules. Extraction misses are not errors; absent fields stay nil.
package extraction

import "time"

// Fields holds the optional values extracted from a single email. A fresh
// Fields is produced per email; reconciliation across emails happens only in
// the merge package.
type Fields struct {
	Company         *string    `json:"company,omitempty"`
	Position        *string    `json:"position,omitempty"`
	AppliedDate     *time.Time `json:"applied_date,omitempty"`
	ContactEmail    *string    `json:"contact_email,omitempty"`
	JobURL          *string    `json:"job_url,omitempty"`
	Salary          *string    `json:"salary,omitempty"`
	Location        *string    `json:"location,omitempty"`
	RecruiterName   *string    `json:"recruiter_name,omitempty"`
	InterviewerName *string    `json:"interviewer_name,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
}

// HasIdentity reports whether both identity fields are present.
func (f *Fields) HasIdentity() bool {
	return f.Company != nil && f.Position != nil
}

// IdentityCount returns how many of the two identity fields are present.
func (f *Fields) IdentityCount() int {
	count := 0
	if f.Company != nil {
		count++
	}
	if f.Position != nil {
		count++
	}
	return count
}

// Overlay returns a copy of f with non-nil fields from other taking
// precedence. Used when escalation results supersede local extraction.
func (f Fields) Overlay(other Fields) Fields {
	merged := f
	if other.Company != nil {
		merged.Company = other.Company
	}
	if other.Position != nil {
		merged.Position = other.Position
	}
	if other.AppliedDate != nil {
		merged.AppliedDate = other.AppliedDate
	}
	if other.ContactEmail != nil {
		merged.ContactEmail = other.ContactEmail
	}
	if other.JobURL != nil {
		merged.JobURL = other.JobURL
	}
	if other.Salary != nil {
		merged.Salary = other.Salary
	}
	if other.Location != nil {
		merged.Location = other.Location
	}
	if other.RecruiterName != nil {
		merged.RecruiterName = other.RecruiterName
	}
	if other.InterviewerName != nil {
		merged.InterviewerName = other.InterviewerName
	}
	if other.Notes != nil {
		merged.Notes = other.Notes
	}
	return merged
}

// Package applications implements the job application domain: the reconciled
// record, its status history, validated status transitions, and per-field
// provenance.
package applications

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/j2kenton/jobsift/internal/classify"
	"github.com/j2kenton/jobsift/internal/status"
)

// Application is the reconciled record for one company/position pair.
type Application struct {
	ID              uuid.UUID     `json:"id"`
	Company         string        `json:"company"`
	Position        string        `json:"position"`
	Status          status.Status `json:"status"`
	AppliedDate     *time.Time    `json:"applied_date"`
	ContactEmail    *string       `json:"contact_email"`
	JobURL          *string       `json:"job_url"`
	Salary          *string       `json:"salary"`
	Location        *string       `json:"location"`
	RecruiterName   *string       `json:"recruiter_name"`
	InterviewerName *string       `json:"interviewer_name"`
	Notes           *string       `json:"notes"`
	Confidence      float64       `json:"confidence"`
	Provenance      Provenance    `json:"provenance"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// FieldProvenance records which email supplied a field's current value.
// Explainability only; it never drives control flow.
type FieldProvenance struct {
	EmailID    string    `json:"email_id"`
	Confidence float64   `json:"confidence"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Provenance maps field names to their source email. Stored as JSONB.
type Provenance map[string]FieldProvenance

// Value implements driver.Valuer for JSONB storage.
func (p Provenance) Value() (driver.Value, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner for JSONB retrieval.
func (p *Provenance) Scan(src any) error {
	if src == nil {
		*p = Provenance{}
		return nil
	}

	data, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("provenance: expected []byte, got %T", src)
	}

	return json.Unmarshal(data, p)
}

// HistoryEntry is one step in an application's status timeline.
type HistoryEntry struct {
	ID            uuid.UUID     `json:"id"`
	ApplicationID uuid.UUID     `json:"application_id"`
	Status        status.Status `json:"status"`
	Confidence    float64       `json:"confidence"`
	EmailID       string        `json:"email_id"`
	Reasoning     string        `json:"reasoning"`
	OccurredAt    time.Time     `json:"occurred_at"`
}

// TransitionEvent is the audit record for every proposed status change,
// applied or not.
type TransitionEvent struct {
	ID            uuid.UUID     `json:"id"`
	ApplicationID uuid.UUID     `json:"application_id"`
	FromStatus    status.Status `json:"from_status"`
	ToStatus      status.Status `json:"to_status"`
	Applied       bool          `json:"applied"`
	Reason        string        `json:"reason"`
	Confidence    float64       `json:"confidence"`
	CreatedAt     time.Time     `json:"created_at"`
}

// SourceEmail links a processed email to the application record it
// contributed to. The stored verdict lets the merge engine rebuild the
// record from scratch.
type SourceEmail struct {
	ID            uuid.UUID        `json:"id"`
	ApplicationID uuid.UUID        `json:"application_id"`
	EmailID       string           `json:"email_id"`
	ReceivedAt    time.Time        `json:"received_at"`
	Verdict       classify.Verdict `json:"verdict"`
	CreatedAt     time.Time        `json:"created_at"`
}

// CreateCommand carries the data for a new application record.
type CreateCommand struct {
	Company         string     `json:"company"`
	Position        string     `json:"position"`
	AppliedDate     *time.Time `json:"applied_date"`
	ContactEmail    *string    `json:"contact_email"`
	JobURL          *string    `json:"job_url"`
	Salary          *string    `json:"salary"`
	Location        *string    `json:"location"`
	RecruiterName   *string    `json:"recruiter_name"`
	InterviewerName *string    `json:"interviewer_name"`
	Notes           *string    `json:"notes"`
	Confidence      float64    `json:"confidence"`
}

// MergeCommand persists a reconciled record produced by the merge engine.
// History replaces any previously stored timeline for the application;
// Emails records the verdicts the reconciliation consumed.
type MergeCommand struct {
	Record     Application    `json:"record"`
	History    []HistoryEntry `json:"history"`
	Provenance Provenance     `json:"provenance"`
	Emails     []SourceEmail  `json:"emails"`
}

// UpdateCommand carries a direct user edit. Nil fields are left unchanged;
// edited fields get a user provenance entry.
type UpdateCommand struct {
	Company         *string    `json:"company"`
	Position        *string    `json:"position"`
	AppliedDate     *time.Time `json:"applied_date"`
	ContactEmail    *string    `json:"contact_email"`
	JobURL          *string    `json:"job_url"`
	Salary          *string    `json:"salary"`
	Location        *string    `json:"location"`
	RecruiterName   *string    `json:"recruiter_name"`
	InterviewerName *string    `json:"interviewer_name"`
	Notes           *string    `json:"notes"`
}

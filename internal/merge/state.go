package merge

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/j2kenton/jobsift/internal/applications"
	"github.com/j2kenton/jobsift/internal/classify"
	"github.com/j2kenton/jobsift/internal/extraction"
	"github.com/j2kenton/jobsift/internal/status"
)

// mergeState accumulates the record as emails fold in chronologically.
type mergeState struct {
	rec     applications.Application
	prov    applications.Provenance
	history []applications.HistoryEntry
	logger  *slog.Logger
}

func newMergeState(existing *applications.Application, logger *slog.Logger) *mergeState {
	st := &mergeState{prov: applications.Provenance{}, logger: logger}

	if existing != nil {
		st.rec = *existing
		for k, v := range existing.Provenance {
			st.prov[k] = v
		}
	}

	return st
}

func (st *mergeState) apply(pe *classify.ProcessedEmail, updateThreshold float64) {
	st.applyIdentity(pe)
	st.applyFields(pe)
	st.applyStatus(pe, updateThreshold)

	if pe.Score.Value > st.rec.Confidence {
		st.rec.Confidence = pe.Score.Value
	}
}

// applyIdentity sets company and position once. An established identity
// never drifts mid-merge, no matter what later emails claim; a disagreeing
// later value is dropped and the conflict is logged for the audit trail.
func (st *mergeState) applyIdentity(pe *classify.ProcessedEmail) {
	if pe.Fields.Company != nil {
		switch {
		case st.rec.Company == "":
			st.rec.Company = *pe.Fields.Company
			st.setProv("company", pe)
		case *pe.Fields.Company != st.rec.Company:
			st.logConflict("company", st.rec.Company, *pe.Fields.Company, pe)
		}
	}

	if pe.Fields.Position != nil {
		switch {
		case st.rec.Position == "":
			st.rec.Position = *pe.Fields.Position
			st.setProv("position", pe)
		case *pe.Fields.Position != st.rec.Position:
			st.logConflict("position", st.rec.Position, *pe.Fields.Position, pe)
		}
	}
}

func (st *mergeState) logConflict(field, kept, dropped string, pe *classify.ProcessedEmail) {
	st.logger.Warn(
		"identity conflict, keeping first value",
		"field", field,
		"kept", kept,
		"dropped", dropped,
		"email_id", pe.Email.ID,
	)
}

func (st *mergeState) applyFields(pe *classify.ProcessedEmail) {
	f := pe.Fields

	// Earliest applied date wins; an applied-stage email without an explicit
	// date contributes its own arrival time.
	date := f.AppliedDate
	if date == nil && pe.Status.Status == status.Applied {
		d := pe.Email.ReceivedAt
		date = &d
	}
	if date != nil && (st.rec.AppliedDate == nil || date.Before(*st.rec.AppliedDate)) {
		d := *date
		st.rec.AppliedDate = &d
		st.setProv("applied_date", pe)
	}

	// Latest human-reachable contact wins; automated relays never do.
	if f.ContactEmail != nil && !extraction.IsAutomatedAddress(*f.ContactEmail) {
		st.rec.ContactEmail = f.ContactEmail
		st.setProv("contact_email", pe)
	}

	if f.JobURL != nil && st.rec.JobURL == nil {
		st.rec.JobURL = f.JobURL
		st.setProv("job_url", pe)
	}

	if f.Salary != nil {
		st.rec.Salary = f.Salary
		st.setProv("salary", pe)
	}

	st.applyLocation(pe)

	if f.RecruiterName != nil {
		st.rec.RecruiterName = f.RecruiterName
		st.setProv("recruiter_name", pe)
	}

	if f.InterviewerName != nil {
		st.rec.InterviewerName = f.InterviewerName
		st.setProv("interviewer_name", pe)
	}

	if f.Notes != nil {
		st.appendNote(pe, *f.Notes)
	}
}

// applyLocation prefers virtual meeting links over physical addresses. A
// physical address never displaces an established meeting link.
func (st *mergeState) applyLocation(pe *classify.ProcessedEmail) {
	loc := pe.Fields.Location
	if loc == nil {
		return
	}

	switch {
	case st.rec.Location == nil:
	case extraction.IsMeetingURL(*loc):
	case !extraction.IsMeetingURL(*st.rec.Location):
	default:
		return
	}

	st.rec.Location = loc
	st.setProv("location", pe)
}

// applyStatus runs the candidate through the transition policy and, when
// accepted, extends the timeline at the email's arrival time.
func (st *mergeState) applyStatus(pe *classify.ProcessedEmail, updateThreshold float64) {
	decision := status.Evaluate(st.rec.Status, pe.Status, updateThreshold)
	if !decision.Apply {
		return
	}

	st.rec.Status = pe.Status.Status
	st.history = append(st.history, applications.HistoryEntry{
		ID:         uuid.New(),
		Status:     pe.Status.Status,
		Confidence: pe.Status.Confidence,
		EmailID:    pe.Email.ID,
		Reasoning:  pe.Status.Reasoning,
		OccurredAt: pe.Email.ReceivedAt,
	})
}

// appendNote adds a source-attributed note line. A line already contributed
// by the same email is skipped, so re-folding an email never duplicates it.
func (st *mergeState) appendNote(pe *classify.ProcessedEmail, note string) {
	attributed := fmt.Sprintf("[%s] %s", pe.Email.ID, note)

	if st.rec.Notes != nil {
		for _, line := range strings.Split(*st.rec.Notes, "\n") {
			if line == attributed {
				return
			}
		}
	}

	if st.rec.Notes == nil || *st.rec.Notes == "" {
		st.rec.Notes = &attributed
	} else {
		combined := *st.rec.Notes + "\n" + attributed
		st.rec.Notes = &combined
	}

	st.setProv("notes", pe)
}

func (st *mergeState) setProv(field string, pe *classify.ProcessedEmail) {
	st.prov[field] = applications.FieldProvenance{
		EmailID:    pe.Email.ID,
		Confidence: pe.Score.Value,
		RecordedAt: pe.Email.ReceivedAt,
	}
}

func (st *mergeState) result() *Result {
	st.rec.Provenance = st.prov
	return &Result{
		Record:     st.rec,
		Provenance: st.prov,
		History:    st.history,
	}
}

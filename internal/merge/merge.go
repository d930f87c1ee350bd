// Package merge reconciles a set of processed emails belonging to one
// application into a single record with per-field provenance and a status
// timeline. The engine is pure: it reads its inputs, touches no storage,
// and produces the same output for any input order that preserves relative
// timestamps.
package merge

import (
	"errors"
	"log/slog"
	"sort"

	"github.com/j2kenton/jobsift/internal/applications"
	"github.com/j2kenton/jobsift/internal/classify"
)

// ErrNoEmails indicates a merge was requested with nothing to merge.
var ErrNoEmails = errors.New("merge requires at least one email")

// Result is the reconciled outcome of one merge.
type Result struct {
	Record     applications.Application `json:"record"`
	Provenance applications.Provenance  `json:"provenance"`
	History    []applications.HistoryEntry `json:"history"`
}

// Merger reconciles emails against an optional existing record.
// updateThreshold gates which status candidates may extend the timeline.
type Merger struct {
	updateThreshold float64
	logger          *slog.Logger
}

// New creates a Merger. The logger receives the audit trail for conflicts
// resolved during a merge.
func New(updateThreshold float64, logger *slog.Logger) *Merger {
	return &Merger{
		updateThreshold: updateThreshold,
		logger:          logger.With("system", "merge"),
	}
}

// Merge folds emails into existing (nil for a fresh record). Emails are
// processed in received-time order regardless of slice order; ties break on
// email ID so the result is deterministic.
func (m *Merger) Merge(existing *applications.Application, emails []classify.ProcessedEmail) (*Result, error) {
	if len(emails) == 0 {
		return nil, ErrNoEmails
	}

	ordered := make([]classify.ProcessedEmail, len(emails))
	copy(ordered, emails)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Email.ReceivedAt.Equal(ordered[j].Email.ReceivedAt) {
			return ordered[i].Email.ID < ordered[j].Email.ID
		}
		return ordered[i].Email.ReceivedAt.Before(ordered[j].Email.ReceivedAt)
	})

	st := newMergeState(existing, m.logger)
	for i := range ordered {
		st.apply(&ordered[i], m.updateThreshold)
	}

	return st.result(), nil
}

// Package pipeline orchestrates a triage run: fetch emails, classify them in
// parallel, route each verdict to its lane, and reconcile accepted emails
// into application records. It also provides the acceptance path shared by
// auto-accepted emails and human-approved review items.
package pipeline

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/j2kenton/jobsift/internal/applications"
	"github.com/j2kenton/jobsift/internal/classify"
	"github.com/j2kenton/jobsift/internal/mail"
	"github.com/j2kenton/jobsift/internal/merge"
	"github.com/j2kenton/jobsift/internal/review"
	"github.com/j2kenton/jobsift/pkg/pagination"
	"github.com/j2kenton/jobsift/pkg/storage"
)

// Options bounds a run's fetch window and concurrency.
type Options struct {
	Lookback  time.Duration
	BatchSize int
	Workers   int
}

// Runner executes triage runs. It implements review.Acceptor so approved
// queue items travel the same path as auto-accepted emails, review.Advisor
// so queued items can request a model decision aid, and
// applications.Remerger so records can be rebuilt from stored verdicts.
type Runner struct {
	source     mail.Source
	classifier *classify.Classifier
	escalator  classify.Escalator
	merger     *merge.Merger
	apps       applications.System
	queue      review.System
	archive    storage.System
	summaries  *summaryRepo
	opts       Options
	logger     *slog.Logger
}

// New assembles a Runner. archive may be nil to skip raw email retention;
// escalator may be nil to run without a model.
func New(
	db *sql.DB,
	source mail.Source,
	classifier *classify.Classifier,
	escalator classify.Escalator,
	merger *merge.Merger,
	apps applications.System,
	queue review.System,
	archive storage.System,
	opts Options,
	pagination pagination.Config,
	logger *slog.Logger,
) *Runner {
	log := logger.With("system", "pipeline")
	return &Runner{
		source:     source,
		classifier: classifier,
		escalator:  escalator,
		merger:     merger,
		apps:       apps,
		queue:      queue,
		archive:    archive,
		summaries:  newSummaryRepo(db, log, pagination),
		opts:       opts,
		logger:     log,
	}
}

// Handler returns the HTTP surface for triggering and inspecting runs.
func (r *Runner) Handler() *Handler {
	return NewHandler(r, r.logger, r.summaries.pagination)
}

package pipeline

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/j2kenton/jobsift/pkg/pagination"
	"github.com/j2kenton/jobsift/pkg/query"
	"github.com/j2kenton/jobsift/pkg/repository"
)

// RunSummary records what one triage run did.
type RunSummary struct {
	ID           uuid.UUID `json:"id"`
	WindowSince  time.Time `json:"window_since"`
	WindowBefore time.Time `json:"window_before"`
	StartedAt    time.Time `json:"started_at"`
	CompletedAt  time.Time `json:"completed_at"`
	Fetched      int       `json:"fetched"`
	Classified   int       `json:"classified"`
	AutoAccepted int       `json:"auto_accepted"`
	Queued       int       `json:"queued"`
	Discarded    int       `json:"discarded"`
	Escalations  int       `json:"escalations"`
	Errors       int       `json:"errors"`
}

var summaryProjection = query.
	NewProjectionMap("public", "run_summaries", "s").
	Project("id", "ID").
	Project("window_since", "WindowSince").
	Project("window_before", "WindowBefore").
	Project("started_at", "StartedAt").
	Project("completed_at", "CompletedAt").
	Project("fetched", "Fetched").
	Project("classified", "Classified").
	Project("auto_accepted", "AutoAccepted").
	Project("queued", "Queued").
	Project("discarded", "Discarded").
	Project("escalations", "Escalations").
	Project("errors", "Errors")

var summarySort = query.SortField{
	Field:      "StartedAt",
	Descending: true,
}

func scanSummary(s repository.Scanner) (RunSummary, error) {
	var r RunSummary
	err := s.Scan(
		&r.ID,
		&r.WindowSince,
		&r.WindowBefore,
		&r.StartedAt,
		&r.CompletedAt,
		&r.Fetched,
		&r.Classified,
		&r.AutoAccepted,
		&r.Queued,
		&r.Discarded,
		&r.Escalations,
		&r.Errors,
	)
	return r, err
}

type summaryRepo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

func newSummaryRepo(db *sql.DB, logger *slog.Logger, pagination pagination.Config) *summaryRepo {
	return &summaryRepo{db: db, logger: logger, pagination: pagination}
}

func (r *summaryRepo) create(ctx context.Context, s RunSummary) (*RunSummary, error) {
	q := `
		INSERT INTO run_summaries(id, window_since, window_before, started_at, completed_at, fetched, classified, auto_accepted, queued, discarded, escalations, errors)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, window_since, window_before, started_at, completed_at, fetched, classified, auto_accepted, queued, discarded, escalations, errors`

	args := []any{
		uuid.New(),
		s.WindowSince,
		s.WindowBefore,
		s.StartedAt,
		s.CompletedAt,
		s.Fetched,
		s.Classified,
		s.AutoAccepted,
		s.Queued,
		s.Discarded,
		s.Escalations,
		s.Errors,
	}

	saved, err := repository.QueryOne(ctx, r.db, q, args, scanSummary)
	if err != nil {
		return nil, fmt.Errorf("insert run summary: %w", err)
	}
	return &saved, nil
}

func (r *summaryRepo) list(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[RunSummary], error) {
	page.Normalize(r.pagination)

	qb := query.NewBuilder(summaryProjection, summarySort)
	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count run summaries: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	runs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanSummary)
	if err != nil {
		return nil, fmt.Errorf("query run summaries: %w", err)
	}

	result := pagination.NewPageResult(runs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *summaryRepo) find(ctx context.Context, id uuid.UUID) (*RunSummary, error) {
	q, args := query.NewBuilder(summaryProjection).BuildSingle("ID", id)

	s, err := repository.QueryOne(ctx, r.db, q, args, scanSummary)
	if err != nil {
		return nil, repository.MapError(err, ErrRunNotFound, ErrRunNotFound)
	}
	return &s, nil
}

package review

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/j2kenton/jobsift/internal/classify"
	"github.com/j2kenton/jobsift/pkg/pagination"
	"github.com/j2kenton/jobsift/pkg/query"
	"github.com/j2kenton/jobsift/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a review queue repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "review"),
		pagination: pagination,
	}
}

func (r *repo) Handler(acceptor Acceptor, advisor Advisor) *Handler {
	return NewHandler(r, acceptor, advisor, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Item], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Subject", "Sender")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count review items: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanItem)
	if err != nil {
		return nil, fmt.Errorf("query review items: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Item, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	i, err := repository.QueryOne(ctx, r.db, q, args, scanItem)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &i, nil
}

// enqueueItem keys on email_id so reprocessing an email leaves the queue
// untouched.
const enqueueItem = `
	INSERT INTO review_queue(id, email_id, subject, sender, received_at, score, proposed_status, verdict)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (email_id) DO NOTHING`

// Enqueue stores a verdict for human review. Enqueueing the same email
// twice is a no-op that returns the already queued item, so a rerun of the
// pipeline never duplicates queue entries.
func (r *repo) Enqueue(ctx context.Context, email classify.ProcessedEmail) (*Item, error) {
	args := []any{
		uuid.New(),
		email.Email.ID,
		email.Email.Subject,
		email.Email.Sender,
		email.Email.ReceivedAt,
		email.Score.Value,
		string(email.Status.Status),
		classify.Verdict(email),
	}

	if _, err := r.db.ExecContext(ctx, enqueueItem, args...); err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	sel, selArgs := query.
		NewBuilder(projection).
		WhereEquals("EmailID", email.Email.ID).
		BuildSingleOrNull()

	i, err := repository.QueryOne(ctx, r.db, sel, selArgs, scanItem)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info(
		"review item queued",
		"id", i.ID,
		"email_id", i.EmailID,
		"score", i.Score,
	)

	return &i, nil
}

func (r *repo) Remove(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM review_queue WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("review item removed", "id", id)
	return nil
}

func (r *repo) Clear(ctx context.Context) (int, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM review_queue")
	if err != nil {
		return 0, fmt.Errorf("clear review queue: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear review queue: %w", err)
	}

	r.logger.Info("review queue cleared", "removed", n)
	return int(n), nil
}

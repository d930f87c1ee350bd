package applications

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/j2kenton/jobsift/internal/status"
	"github.com/j2kenton/jobsift/pkg/pagination"
	"github.com/j2kenton/jobsift/pkg/query"
	"github.com/j2kenton/jobsift/pkg/repository"
)

type repo struct {
	db              *sql.DB
	logger          *slog.Logger
	pagination      pagination.Config
	updateThreshold float64
}

// New creates an application repository implementing the System interface.
// updateThreshold is the minimum candidate confidence for an automatic
// status change.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
	updateThreshold float64,
) System {
	return &repo{
		db:              db,
		logger:          logger.With("system", "applications"),
		pagination:      pagination,
		updateThreshold: updateThreshold,
	}
}

func (r *repo) Handler(remerger Remerger) *Handler {
	return NewHandler(r, remerger, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Application], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Company", "Position")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count applications: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	apps, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanApplication)
	if err != nil {
		return nil, fmt.Errorf("query applications: %w", err)
	}

	result := pagination.NewPageResult(apps, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Application, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanApplication)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func (r *repo) FindByIdentity(ctx context.Context, company, position string) (*Application, error) {
	if company == "" && position == "" {
		return nil, ErrMissingIdentity
	}

	qb := query.NewBuilder(projection)
	if company != "" {
		qb.WhereEquals("Company", company)
	}
	if position != "" {
		qb.WhereEquals("Position", position)
	}

	q, args := qb.BuildSingleOrNull()
	a, err := repository.QueryOne(ctx, r.db, q, args, scanApplication)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

const insertApplication = `
	INSERT INTO applications(id, company, position, status, applied_date, contact_email, job_url, salary, location, recruiter_name, interviewer_name, notes, confidence, provenance)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	RETURNING id, company, position, status, applied_date, contact_email, job_url, salary, location, recruiter_name, interviewer_name, notes, confidence, provenance, created_at, updated_at`

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Application, error) {
	if cmd.Company == "" && cmd.Position == "" {
		return nil, ErrMissingIdentity
	}

	args := []any{
		uuid.New(),
		cmd.Company,
		cmd.Position,
		string(status.Applied),
		cmd.AppliedDate,
		cmd.ContactEmail,
		cmd.JobURL,
		cmd.Salary,
		cmd.Location,
		cmd.RecruiterName,
		cmd.InterviewerName,
		cmd.Notes,
		cmd.Confidence,
		Provenance{},
	}

	a, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Application, error) {
		return repository.QueryOne(ctx, tx, insertApplication, args, scanApplication)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("application created", "id", a.ID, "company", a.Company, "position", a.Position)
	return &a, nil
}

const updateApplication = `
	UPDATE applications SET
		company = $1, position = $2, applied_date = $3, contact_email = $4,
		job_url = $5, salary = $6, location = $7, recruiter_name = $8,
		interviewer_name = $9, notes = $10, provenance = $11, updated_at = now()
	WHERE id = $12
	RETURNING id, company, position, status, applied_date, contact_email, job_url, salary, location, recruiter_name, interviewer_name, notes, confidence, provenance, created_at, updated_at`

// Update applies a direct user edit. Edited fields are stamped with user
// provenance so the audit trail shows manual overrides.
func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Application, error) {
	app, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if app.Provenance == nil {
		app.Provenance = Provenance{}
	}

	edit := func(field string) {
		app.Provenance[field] = FieldProvenance{
			EmailID:    "user",
			Confidence: 1,
			RecordedAt: time.Now().UTC(),
		}
	}

	if cmd.Company != nil && *cmd.Company != "" {
		app.Company = *cmd.Company
		edit("company")
	}
	if cmd.Position != nil && *cmd.Position != "" {
		app.Position = *cmd.Position
		edit("position")
	}
	if cmd.AppliedDate != nil {
		app.AppliedDate = cmd.AppliedDate
		edit("applied_date")
	}
	if cmd.ContactEmail != nil {
		app.ContactEmail = cmd.ContactEmail
		edit("contact_email")
	}
	if cmd.JobURL != nil {
		app.JobURL = cmd.JobURL
		edit("job_url")
	}
	if cmd.Salary != nil {
		app.Salary = cmd.Salary
		edit("salary")
	}
	if cmd.Location != nil {
		app.Location = cmd.Location
		edit("location")
	}
	if cmd.RecruiterName != nil {
		app.RecruiterName = cmd.RecruiterName
		edit("recruiter_name")
	}
	if cmd.InterviewerName != nil {
		app.InterviewerName = cmd.InterviewerName
		edit("interviewer_name")
	}
	if cmd.Notes != nil {
		app.Notes = cmd.Notes
		edit("notes")
	}

	args := []any{
		app.Company,
		app.Position,
		app.AppliedDate,
		app.ContactEmail,
		app.JobURL,
		app.Salary,
		app.Location,
		app.RecruiterName,
		app.InterviewerName,
		app.Notes,
		app.Provenance,
		id,
	}

	updated, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Application, error) {
		return repository.QueryOne(ctx, tx, updateApplication, args, scanApplication)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("application updated", "id", id)
	return &updated, nil
}

// ApplyStatus evaluates a proposed status against the transition rules and
// the confidence threshold. Every proposal is recorded as a transition
// event; only accepted proposals mutate the record and extend its history.
// A declined proposal is not an error.
func (r *repo) ApplyStatus(ctx context.Context, id uuid.UUID, candidate status.Candidate, emailID string) (*Application, error) {
	app, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	decision := status.Evaluate(app.Status, candidate, r.updateThreshold)

	updated, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Application, error) {
		if err := insertTransitionEvent(ctx, tx, id, app.Status, candidate, decision); err != nil {
			return Application{}, err
		}

		if !decision.Apply {
			return *app, nil
		}

		if err := insertHistoryEntry(ctx, tx, HistoryEntry{
			ID:            uuid.New(),
			ApplicationID: id,
			Status:        candidate.Status,
			Confidence:    candidate.Confidence,
			EmailID:       emailID,
			Reasoning:     candidate.Reasoning,
			OccurredAt:    time.Now().UTC(),
		}); err != nil {
			return Application{}, err
		}

		q := `
			UPDATE applications SET status = $1, updated_at = now() WHERE id = $2
			RETURNING id, company, position, status, applied_date, contact_email, job_url, salary, location, recruiter_name, interviewer_name, notes, confidence, provenance, created_at, updated_at`

		return repository.QueryOne(ctx, tx, q, []any{string(candidate.Status), id}, scanApplication)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info(
		"status proposal evaluated",
		"id", id,
		"from", app.Status,
		"to", candidate.Status,
		"applied", decision.Apply,
		"reason", decision.Reason,
	)

	return &updated, nil
}

// SaveMerged persists a reconciled record. The stored history is replaced
// wholesale; the merge engine owns timeline reconstruction.
func (r *repo) SaveMerged(ctx context.Context, cmd MergeCommand) (*Application, error) {
	if cmd.Record.Company == "" && cmd.Record.Position == "" {
		return nil, ErrMissingIdentity
	}

	a, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Application, error) {
		id := cmd.Record.ID
		if id == uuid.Nil {
			id = uuid.New()
		}

		q := `
			INSERT INTO applications(id, company, position, status, applied_date, contact_email, job_url, salary, location, recruiter_name, interviewer_name, notes, confidence, provenance)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			ON CONFLICT (id) DO UPDATE SET
				status = EXCLUDED.status,
				applied_date = EXCLUDED.applied_date,
				contact_email = EXCLUDED.contact_email,
				job_url = EXCLUDED.job_url,
				salary = EXCLUDED.salary,
				location = EXCLUDED.location,
				recruiter_name = EXCLUDED.recruiter_name,
				interviewer_name = EXCLUDED.interviewer_name,
				notes = EXCLUDED.notes,
				confidence = EXCLUDED.confidence,
				provenance = EXCLUDED.provenance,
				updated_at = now()
			RETURNING id, company, position, status, applied_date, contact_email, job_url, salary, location, recruiter_name, interviewer_name, notes, confidence, provenance, created_at, updated_at`

		rec := cmd.Record
		args := []any{
			id,
			rec.Company,
			rec.Position,
			string(rec.Status),
			rec.AppliedDate,
			rec.ContactEmail,
			rec.JobURL,
			rec.Salary,
			rec.Location,
			rec.RecruiterName,
			rec.InterviewerName,
			rec.Notes,
			rec.Confidence,
			cmd.Provenance,
		}

		saved, err := repository.QueryOne(ctx, tx, q, args, scanApplication)
		if err != nil {
			return Application{}, err
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM status_history WHERE application_id = $1", saved.ID); err != nil {
			return Application{}, fmt.Errorf("clear status history: %w", err)
		}

		for _, h := range cmd.History {
			h.ApplicationID = saved.ID
			if h.ID == uuid.Nil {
				h.ID = uuid.New()
			}
			if err := insertHistoryEntry(ctx, tx, h); err != nil {
				return Application{}, err
			}
		}

		for _, e := range cmd.Emails {
			e.ApplicationID = saved.ID
			if e.ID == uuid.Nil {
				e.ID = uuid.New()
			}
			if err := upsertSourceEmail(ctx, tx, e); err != nil {
				return Application{}, err
			}
		}

		return saved, nil
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info(
		"merged record saved",
		"id", a.ID,
		"company", a.Company,
		"position", a.Position,
		"status", a.Status,
		"history_entries", len(cmd.History),
	)

	return &a, nil
}

func (r *repo) History(ctx context.Context, id uuid.UUID) ([]HistoryEntry, error) {
	q := `
		SELECT id, application_id, status, confidence, email_id, reasoning, occurred_at
		FROM status_history
		WHERE application_id = $1
		ORDER BY occurred_at ASC`

	entries, err := repository.QueryMany(ctx, r.db, q, []any{id}, scanHistoryEntry)
	if err != nil {
		return nil, fmt.Errorf("query status history: %w", err)
	}
	return entries, nil
}

func (r *repo) Transitions(ctx context.Context, id uuid.UUID) ([]TransitionEvent, error) {
	q := `
		SELECT id, application_id, from_status, to_status, applied, reason, confidence, created_at
		FROM transition_events
		WHERE application_id = $1
		ORDER BY created_at ASC`

	events, err := repository.QueryMany(ctx, r.db, q, []any{id}, scanTransitionEvent)
	if err != nil {
		return nil, fmt.Errorf("query transition events: %w", err)
	}
	return events, nil
}

func (r *repo) Emails(ctx context.Context, id uuid.UUID) ([]SourceEmail, error) {
	q := `
		SELECT id, application_id, email_id, received_at, verdict, created_at
		FROM application_emails
		WHERE application_id = $1
		ORDER BY received_at ASC`

	emails, err := repository.QueryMany(ctx, r.db, q, []any{id}, scanSourceEmail)
	if err != nil {
		return nil, fmt.Errorf("query application emails: %w", err)
	}
	return emails, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM applications WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("application deleted", "id", id)
	return nil
}

func insertHistoryEntry(ctx context.Context, tx *sql.Tx, h HistoryEntry) error {
	_, err := tx.ExecContext(
		ctx,
		`INSERT INTO status_history(id, application_id, status, confidence, email_id, reasoning, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		h.ID,
		h.ApplicationID,
		string(h.Status),
		h.Confidence,
		h.EmailID,
		h.Reasoning,
		h.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}
	return nil
}

func upsertSourceEmail(ctx context.Context, tx *sql.Tx, e SourceEmail) error {
	_, err := tx.ExecContext(
		ctx,
		`INSERT INTO application_emails(id, application_id, email_id, received_at, verdict)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (email_id) DO UPDATE SET
			application_id = EXCLUDED.application_id,
			verdict = EXCLUDED.verdict`,
		e.ID,
		e.ApplicationID,
		e.EmailID,
		e.ReceivedAt,
		e.Verdict,
	)
	if err != nil {
		return fmt.Errorf("upsert source email: %w", err)
	}
	return nil
}

func insertTransitionEvent(
	ctx context.Context,
	tx *sql.Tx,
	id uuid.UUID,
	from status.Status,
	candidate status.Candidate,
	decision status.Decision,
) error {
	_, err := tx.ExecContext(
		ctx,
		`INSERT INTO transition_events(id, application_id, from_status, to_status, applied, reason, confidence)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.New(),
		id,
		string(from),
		string(candidate.Status),
		decision.Apply,
		decision.Reason,
		candidate.Confidence,
	)
	if err != nil {
		return fmt.Errorf("insert transition event: %w", err)
	}
	return nil
}

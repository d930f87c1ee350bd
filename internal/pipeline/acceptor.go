package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/j2kenton/jobsift/internal/applications"
	"github.com/j2kenton/jobsift/internal/classify"
)

// Accept folds a single email into the application store. It satisfies
// review.Acceptor; approving a queued item is the one-email case of the
// same reconciliation that auto-accepted groups go through.
func (r *Runner) Accept(ctx context.Context, email classify.ProcessedEmail) (*applications.Application, error) {
	return r.reconcile(ctx, []classify.ProcessedEmail{email})
}

func (r *Runner) reconcile(ctx context.Context, group []classify.ProcessedEmail) (*applications.Application, error) {
	company, position := groupIdentity(group)

	var (
		existing *applications.Application
		prior    []applications.HistoryEntry
	)

	if company != "" || position != "" {
		app, err := r.apps.FindByIdentity(ctx, company, position)
		switch {
		case err == nil:
			existing = app
			if prior, err = r.apps.History(ctx, app.ID); err != nil {
				return nil, fmt.Errorf("load history: %w", err)
			}
		case !errors.Is(err, applications.ErrNotFound):
			return nil, fmt.Errorf("find application: %w", err)
		}
	}

	if existing != nil {
		stored, err := r.apps.Emails(ctx, existing.ID)
		if err != nil {
			return nil, fmt.Errorf("load source emails: %w", err)
		}

		// A rerun over an overlapping fetch window hands back emails the
		// record already absorbed; folding them again is a no-op at best.
		group = unseenEmails(stored, group)
		if len(group) == 0 {
			return existing, nil
		}
	}

	res, err := r.merger.Merge(existing, group)
	if err != nil {
		return nil, fmt.Errorf("merge group: %w", err)
	}

	saved, err := r.apps.SaveMerged(ctx, applications.MergeCommand{
		Record:     res.Record,
		History:    append(prior, res.History...),
		Provenance: res.Provenance,
		Emails:     sourceEmails(group),
	})
	if err != nil {
		return nil, fmt.Errorf("save merged record: %w", err)
	}

	return saved, nil
}

// Remerge rebuilds an application from its stored source emails, discarding
// the incremental record in favor of a clean chronological fold. Satisfies
// applications.Remerger.
func (r *Runner) Remerge(ctx context.Context, id uuid.UUID) (*applications.Application, error) {
	stored, err := r.apps.Emails(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load source emails: %w", err)
	}
	if len(stored) == 0 {
		return nil, fmt.Errorf("%w: no source emails recorded", applications.ErrInvalidRequest)
	}

	group := make([]classify.ProcessedEmail, len(stored))
	for i, e := range stored {
		group[i] = classify.ProcessedEmail(e.Verdict)
	}

	res, err := r.merger.Merge(nil, group)
	if err != nil {
		return nil, fmt.Errorf("merge source emails: %w", err)
	}

	res.Record.ID = id
	saved, err := r.apps.SaveMerged(ctx, applications.MergeCommand{
		Record:     res.Record,
		History:    res.History,
		Provenance: res.Provenance,
		Emails:     stored,
	})
	if err != nil {
		return nil, fmt.Errorf("save remerged record: %w", err)
	}

	return saved, nil
}

// unseenEmails drops group members already recorded as sources for the
// target record.
func unseenEmails(
	stored []applications.SourceEmail,
	group []classify.ProcessedEmail,
) []classify.ProcessedEmail {
	seen := make(map[string]struct{}, len(stored))
	for _, e := range stored {
		seen[e.EmailID] = struct{}{}
	}

	fresh := make([]classify.ProcessedEmail, 0, len(group))
	for _, pe := range group {
		if _, ok := seen[pe.Email.ID]; !ok {
			fresh = append(fresh, pe)
		}
	}
	return fresh
}

func sourceEmails(group []classify.ProcessedEmail) []applications.SourceEmail {
	emails := make([]applications.SourceEmail, len(group))
	for i := range group {
		emails[i] = applications.SourceEmail{
			ID:         uuid.New(),
			EmailID:    group[i].Email.ID,
			ReceivedAt: group[i].Email.ReceivedAt,
			Verdict:    classify.Verdict(group[i]),
		}
	}
	return emails
}

// groupIdentity returns the first company and position the group can
// establish, scanning in slice order.
func groupIdentity(group []classify.ProcessedEmail) (company, position string) {
	for i := range group {
		c, p := group[i].Identity()
		if company == "" {
			company = c
		}
		if position == "" {
			position = p
		}
		if company != "" && position != "" {
			break
		}
	}
	return company, position
}

package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/j2kenton/jobsift/internal/classify"
	"github.com/j2kenton/jobsift/internal/mail"
	"github.com/j2kenton/jobsift/internal/triage"
)

// Run executes one triage pass over the configured lookback window. Emails
// are classified concurrently; accepted verdicts are then reconciled group
// by group in arrival order. Individual email failures are counted, not
// fatal.
func (r *Runner) Run(ctx context.Context) (*RunSummary, error) {
	started := time.Now().UTC()
	window := mail.Window{
		Since:  started.Add(-r.opts.Lookback),
		Before: started,
	}

	emails, err := r.source.Fetch(ctx, window, r.opts.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("fetch emails: %w", err)
	}

	summary := RunSummary{
		WindowSince:  window.Since,
		WindowBefore: window.Before,
		StartedAt:    started,
		Fetched:      len(emails),
	}

	verdicts := r.classifyAll(ctx, emails, &summary)
	summary.Classified = len(verdicts)

	r.routeAll(ctx, verdicts, &summary)

	summary.CompletedAt = time.Now().UTC()

	saved, err := r.summaries.create(ctx, summary)
	if err != nil {
		return nil, fmt.Errorf("save run summary: %w", err)
	}

	r.logger.InfoContext(
		ctx, "triage run complete",
		"run_id", saved.ID,
		"fetched", saved.Fetched,
		"auto_accepted", saved.AutoAccepted,
		"queued", saved.Queued,
		"discarded", saved.Discarded,
		"errors", saved.Errors,
	)

	return saved, nil
}

func (r *Runner) classifyAll(ctx context.Context, emails []mail.RawEmail, summary *RunSummary) []classify.ProcessedEmail {
	var (
		mu       sync.Mutex
		verdicts []classify.ProcessedEmail
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(r.opts.Workers, 1))

	for i := range emails {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			email := emails[i]
			r.archiveEmail(gctx, email)

			pe, err := r.classifier.Classify(gctx, email)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				summary.Errors++
				r.logger.WarnContext(gctx, "classification failed", "email_id", email.ID, "error", err)
				return nil
			}

			if pe.Escalated {
				summary.Escalations++
			}
			verdicts = append(verdicts, *pe)
			return nil
		})
	}

	// The only group error is context cancellation; partial results still count.
	if err := g.Wait(); err != nil {
		r.logger.WarnContext(ctx, "classification pass interrupted", "error", err)
	}

	return verdicts
}

func (r *Runner) routeAll(ctx context.Context, verdicts []classify.ProcessedEmail, summary *RunSummary) {
	accepted := make(map[string][]classify.ProcessedEmail)

	for _, pe := range verdicts {
		switch pe.Lane {
		case triage.LaneDiscard:
			summary.Discarded++
		case triage.LaneReview:
			if _, err := r.queue.Enqueue(ctx, pe); err != nil {
				summary.Errors++
				r.logger.WarnContext(ctx, "enqueue for review failed", "email_id", pe.Email.ID, "error", err)
				continue
			}
			summary.Queued++
		case triage.LaneAutoAccept:
			key := identityKey(&pe)
			accepted[key] = append(accepted[key], pe)
		}
	}

	for _, group := range accepted {
		if _, err := r.reconcile(ctx, group); err != nil {
			summary.Errors += len(group)
			r.logger.WarnContext(ctx, "reconcile failed", "error", err)
			continue
		}
		summary.AutoAccepted += len(group)
	}
}

// archiveEmail retains the raw message bytes. Archive failures never block
// classification.
func (r *Runner) archiveEmail(ctx context.Context, email mail.RawEmail) {
	if r.archive == nil || len(email.Raw) == 0 {
		return
	}

	key := fmt.Sprintf("emails/%s/%s.eml", email.ReceivedAt.UTC().Format("2006-01-02"), email.ID)
	if err := r.archive.Upload(ctx, key, bytes.NewReader(email.Raw), "message/rfc822"); err != nil {
		r.logger.WarnContext(ctx, "email archive failed", "email_id", email.ID, "error", err)
	}
}

func identityKey(pe *classify.ProcessedEmail) string {
	company, position := pe.Identity()
	return strings.ToLower(company) + "|" + strings.ToLower(position)
}

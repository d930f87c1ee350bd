package pipeline_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/j2kenton/jobsift/internal/applications"
	"github.com/j2kenton/jobsift/internal/classify"
	"github.com/j2kenton/jobsift/internal/extraction"
	"github.com/j2kenton/jobsift/internal/mail"
	"github.com/j2kenton/jobsift/internal/merge"
	"github.com/j2kenton/jobsift/internal/pipeline"
	"github.com/j2kenton/jobsift/internal/scoring"
	"github.com/j2kenton/jobsift/internal/status"
	"github.com/j2kenton/jobsift/pkg/pagination"
)

// fakeApps is an in-memory applications.System holding a single record, the
// shape reconcile works against.
type fakeApps struct {
	app     *applications.Application
	history []applications.HistoryEntry
	emails  []applications.SourceEmail
	saves   int
}

func (f *fakeApps) Handler(applications.Remerger) *applications.Handler { return nil }

func (f *fakeApps) List(
	context.Context,
	pagination.PageRequest,
	applications.Filters,
) (*pagination.PageResult[applications.Application], error) {
	return nil, nil
}

func (f *fakeApps) Find(context.Context, uuid.UUID) (*applications.Application, error) {
	if f.app == nil {
		return nil, applications.ErrNotFound
	}
	return f.app, nil
}

func (f *fakeApps) FindByIdentity(context.Context, string, string) (*applications.Application, error) {
	if f.app == nil {
		return nil, applications.ErrNotFound
	}
	return f.app, nil
}

func (f *fakeApps) Create(context.Context, applications.CreateCommand) (*applications.Application, error) {
	return nil, nil
}

func (f *fakeApps) Update(context.Context, uuid.UUID, applications.UpdateCommand) (*applications.Application, error) {
	return nil, nil
}

func (f *fakeApps) ApplyStatus(context.Context, uuid.UUID, status.Candidate, string) (*applications.Application, error) {
	return nil, nil
}

func (f *fakeApps) SaveMerged(_ context.Context, cmd applications.MergeCommand) (*applications.Application, error) {
	f.saves++

	rec := cmd.Record
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	f.app = &rec
	f.history = cmd.History

	for _, e := range cmd.Emails {
		e.ApplicationID = rec.ID
		f.emails = append(f.emails, e)
	}

	return f.app, nil
}

func (f *fakeApps) History(context.Context, uuid.UUID) ([]applications.HistoryEntry, error) {
	return f.history, nil
}

func (f *fakeApps) Transitions(context.Context, uuid.UUID) ([]applications.TransitionEvent, error) {
	return nil, nil
}

func (f *fakeApps) Emails(context.Context, uuid.UUID) ([]applications.SourceEmail, error) {
	return f.emails, nil
}

func (f *fakeApps) Delete(context.Context, uuid.UUID) error { return nil }

func newRunner(apps applications.System, esc classify.Escalator) *pipeline.Runner {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return pipeline.New(
		nil, nil, nil, esc,
		merge.New(0.6, logger),
		apps, nil, nil,
		pipeline.Options{},
		pagination.Config{},
		logger,
	)
}

func ptr[T any](v T) *T {
	return &v
}

func processed(id string, received time.Time, st status.Status, fields extraction.Fields) classify.ProcessedEmail {
	return classify.ProcessedEmail{
		Email: mail.RawEmail{
			ID:         id,
			Sender:     "jane@acme.com",
			ReceivedAt: received,
		},
		Fields: fields,
		Score:  scoring.Score{Value: 0.9},
		Status: status.Candidate{
			Status:     st,
			Confidence: 0.9,
			Source:     status.SourceHeuristic,
		},
	}
}

func TestAcceptSkipsAlreadyFoldedEmails(t *testing.T) {
	apps := &fakeApps{}
	r := newRunner(apps, nil)

	pe := processed("e-1", time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC), status.Applied, extraction.Fields{
		Company:  ptr("Acme"),
		Position: ptr("Backend Engineer"),
		Notes:    ptr("referred by Kim"),
	})

	first, err := r.Accept(context.Background(), pe)
	if err != nil {
		t.Fatalf("first accept: %v", err)
	}
	if apps.saves != 1 {
		t.Fatalf("saves after first accept: got %d, want 1", apps.saves)
	}

	second, err := r.Accept(context.Background(), pe)
	if err != nil {
		t.Fatalf("second accept: %v", err)
	}

	if apps.saves != 1 {
		t.Errorf("reprocessing the same email saved again: %d saves", apps.saves)
	}
	if second.ID != first.ID {
		t.Errorf("record changed: got %s, want %s", second.ID, first.ID)
	}
	if *second.Notes != *first.Notes {
		t.Errorf("notes changed: %q vs %q", *second.Notes, *first.Notes)
	}
	if len(apps.history) != 1 {
		t.Errorf("history length: got %d, want 1", len(apps.history))
	}
}

func TestAcceptFoldsNewEmailIntoExistingRecord(t *testing.T) {
	apps := &fakeApps{}
	r := newRunner(apps, nil)

	e1 := processed("e-1", time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC), status.Applied, extraction.Fields{
		Company:  ptr("Acme"),
		Position: ptr("Backend Engineer"),
	})
	e2 := processed("e-2", time.Date(2026, 5, 5, 9, 0, 0, 0, time.UTC), status.Interview, extraction.Fields{
		Company: ptr("Acme"),
	})

	if _, err := r.Accept(context.Background(), e1); err != nil {
		t.Fatalf("accept e-1: %v", err)
	}
	app, err := r.Accept(context.Background(), e2)
	if err != nil {
		t.Fatalf("accept e-2: %v", err)
	}

	if apps.saves != 2 {
		t.Errorf("saves: got %d, want 2", apps.saves)
	}
	if app.Status != status.Interview {
		t.Errorf("status: got %s, want interview", app.Status)
	}
	if len(apps.history) != 2 {
		t.Errorf("history length: got %d, want 2", len(apps.history))
	}
	if len(apps.emails) != 2 {
		t.Errorf("source emails: got %d, want 2", len(apps.emails))
	}
}

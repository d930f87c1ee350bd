package classify_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/j2kenton/jobsift/internal/classify"
	"github.com/j2kenton/jobsift/internal/escalation"
	"github.com/j2kenton/jobsift/internal/extraction"
	"github.com/j2kenton/jobsift/internal/mail"
	"github.com/j2kenton/jobsift/internal/scoring"
	"github.com/j2kenton/jobsift/internal/status"
	"github.com/j2kenton/jobsift/internal/triage"
)

type fakeEscalator struct {
	result *escalation.Result
	err    error

	calls   int
	lastReq escalation.Request
}

func (f *fakeEscalator) Escalate(_ context.Context, req escalation.Request) (*escalation.Result, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func newClassifier(t *testing.T, esc classify.Escalator) *classify.Classifier {
	t.Helper()

	router, err := triage.NewRouter(0.85, 0.25)
	if err != nil {
		t.Fatalf("new router: %v", err)
	}

	return classify.NewClassifier(
		scoring.New(scoring.DefaultVocabulary()),
		status.NewDetector(status.DefaultPhrases()),
		router,
		esc,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func jobEmail() mail.RawEmail {
	return mail.RawEmail{
		ID:         "job-1",
		Subject:    "Interview at Acme",
		Body:       "Thank you for your application for the Backend Engineer position. We would like to schedule an interview.",
		Sender:     "jane@acme.com",
		ReceivedAt: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC),
	}
}

func ambiguousEmail() mail.RawEmail {
	return mail.RawEmail{
		ID:         "vague-1",
		Subject:    "Quick question",
		Sender:     "friend@gmail.com",
		Body:       "Are you free to grab lunch tomorrow?",
		ReceivedAt: time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestClassifyConfidentEmailSkipsEscalation(t *testing.T) {
	esc := &fakeEscalator{}
	c := newClassifier(t, esc)

	res, err := c.Classify(context.Background(), jobEmail())
	if err != nil {
		t.Fatalf("classify: %v", err)
	}

	if esc.calls != 0 {
		t.Errorf("escalator called %d times, want 0", esc.calls)
	}
	if res.Escalated {
		t.Error("result marked escalated")
	}
	if res.Score.Value < 0.3 {
		t.Errorf("score: got %v, expected confident local score", res.Score.Value)
	}
	if res.Status.Status != status.Interview {
		t.Errorf("status: got %s, want interview", res.Status.Status)
	}
	if res.ProcessedAt.IsZero() {
		t.Error("ProcessedAt not set")
	}
}

func TestClassifyAmbiguousEmailEscalates(t *testing.T) {
	esc := &fakeEscalator{
		result: &escalation.Result{
			IsJobRelated: true,
			Confidence:   0.9,
			Status:       "interview",
			Fields:       extraction.Fields{Company: ptr("Initech")},
			Reasoning:    "forwarded interview confirmation",
			Tier:         escalation.TierFast,
		},
	}
	c := newClassifier(t, esc)

	res, err := c.Classify(context.Background(), ambiguousEmail())
	if err != nil {
		t.Fatalf("classify: %v", err)
	}

	if esc.calls != 1 {
		t.Fatalf("escalator called %d times, want 1", esc.calls)
	}
	if esc.lastReq.Subject != "Quick question" {
		t.Errorf("request subject: got %q", esc.lastReq.Subject)
	}
	if esc.lastReq.LocalScore >= 0.3 {
		t.Errorf("request local score: got %v, want below escalation bound", esc.lastReq.LocalScore)
	}

	if !res.Escalated {
		t.Error("result not marked escalated")
	}
	if res.EscalationTier != escalation.TierFast {
		t.Errorf("tier: got %s, want fast", res.EscalationTier)
	}
	if res.Score.Value != 0.9 {
		t.Errorf("score: got %v, want superseded 0.9", res.Score.Value)
	}
	if res.Lane != triage.LaneAutoAccept {
		t.Errorf("lane: got %s, want auto_accept", res.Lane)
	}
	if res.Fields.Company == nil || *res.Fields.Company != "Initech" {
		t.Errorf("company: got %v, want Initech overlay", res.Fields.Company)
	}
	if res.Status.Status != status.Interview || res.Status.Source != status.SourceEscalation {
		t.Errorf("status: got %s from %s", res.Status.Status, res.Status.Source)
	}
}

func TestClassifyStatusAmbiguityEscalates(t *testing.T) {
	esc := &fakeEscalator{
		result: &escalation.Result{
			IsJobRelated: true,
			Confidence:   0.7,
			Status:       "interview",
			Reasoning:    "scheduling language implies an interview stage",
			Tier:         escalation.TierFast,
		},
	}
	c := newClassifier(t, esc)

	// Clearly job-related, but no stage phrase matches.
	res, err := c.Classify(context.Background(), mail.RawEmail{
		ID:         "stage-1",
		Subject:    "Your candidacy at Acme",
		Body:       "Thanks for your time today. The hiring team is reviewing Backend Engineer candidates and will follow up next week.",
		Sender:     "maria@acme.com",
		ReceivedAt: time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("classify: %v", err)
	}

	if esc.calls != 1 {
		t.Fatalf("escalator called %d times, want 1", esc.calls)
	}
	if esc.lastReq.LocalScore < 0.3 {
		t.Errorf("local score: got %v, expected a confident score at escalation time", esc.lastReq.LocalScore)
	}

	if !res.Escalated {
		t.Error("result not marked escalated")
	}
	if res.Status.Status != status.Interview || res.Status.Source != status.SourceEscalation {
		t.Errorf("status: got %s from %s, want interview from escalation", res.Status.Status, res.Status.Source)
	}
	if res.Lane != triage.LaneReview {
		t.Errorf("lane: got %s, want review", res.Lane)
	}
}

func TestClassifyEscalationNeverLowersScore(t *testing.T) {
	esc := &fakeEscalator{
		result: &escalation.Result{
			IsJobRelated: false,
			Confidence:   0.95,
			Reasoning:    "personal correspondence",
			Tier:         escalation.TierFast,
		},
	}
	c := newClassifier(t, esc)

	res, err := c.Classify(context.Background(), ambiguousEmail())
	if err != nil {
		t.Fatalf("classify: %v", err)
	}

	if !res.Escalated {
		t.Error("result not marked escalated")
	}
	if res.Score.Value >= 0.25 {
		t.Errorf("score: got %v, want untouched local score", res.Score.Value)
	}
	if res.Lane != triage.LaneDiscard {
		t.Errorf("lane: got %s, want discard", res.Lane)
	}
}

func TestClassifyEscalationFailureKeepsLocalResult(t *testing.T) {
	esc := &fakeEscalator{err: escalation.ErrUnavailable}
	withEsc := newClassifier(t, esc)
	without := newClassifier(t, nil)

	email := ambiguousEmail()

	got, err := withEsc.Classify(context.Background(), email)
	if err != nil {
		t.Fatalf("classify with failing escalator: %v", err)
	}
	want, err := without.Classify(context.Background(), email)
	if err != nil {
		t.Fatalf("classify without escalator: %v", err)
	}

	if esc.calls != 1 {
		t.Errorf("escalator called %d times, want 1", esc.calls)
	}
	if got.Escalated {
		t.Error("failed escalation marked the result escalated")
	}
	if got.Score.Value != want.Score.Value {
		t.Errorf("score: got %v, want local %v", got.Score.Value, want.Score.Value)
	}
	if got.Lane != want.Lane {
		t.Errorf("lane: got %s, want local %s", got.Lane, want.Lane)
	}
	if got.Status.Status != want.Status.Status {
		t.Errorf("status: got %s, want local %s", got.Status.Status, want.Status.Status)
	}
}

func TestClassifyUnexpectedEscalationErrorFails(t *testing.T) {
	esc := &fakeEscalator{err: errors.New("boom")}
	c := newClassifier(t, esc)

	if _, err := c.Classify(context.Background(), ambiguousEmail()); err == nil {
		t.Fatal("expected error from non-availability escalation failure")
	}
}

func TestClassifyNilEscalatorNeverEscalates(t *testing.T) {
	c := newClassifier(t, nil)

	res, err := c.Classify(context.Background(), ambiguousEmail())
	if err != nil {
		t.Fatalf("classify: %v", err)
	}

	if res.Escalated {
		t.Error("result marked escalated with nil escalator")
	}
	if res.Lane != triage.LaneDiscard {
		t.Errorf("lane: got %s, want discard", res.Lane)
	}
}

func ptr[T any](v T) *T {
	return &v
}

package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/j2kenton/jobsift/internal/classify"
	"github.com/j2kenton/jobsift/internal/escalation"
	"github.com/j2kenton/jobsift/internal/mail"
	"github.com/j2kenton/jobsift/internal/review"
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

func TestAdviseMarksReviewQueueContext(t *testing.T) {
	esc := &fakeEscalator{
		result: &escalation.Result{
			IsJobRelated: true,
			Confidence:   0.8,
			Reasoning:    "recruiter follow-up",
			Tier:         escalation.TierDeep,
		},
	}
	r := newRunner(&fakeApps{}, esc)

	item := review.Item{
		Score: 0.5,
		Verdict: classify.Verdict{
			Email: mail.RawEmail{
				Subject: "Quick question",
				Body:    "Following up on our conversation last week.",
				Sender:  "sam@acme.com",
			},
		},
	}

	res, err := r.Advise(context.Background(), item)
	if err != nil {
		t.Fatalf("advise: %v", err)
	}

	if esc.calls != 1 {
		t.Fatalf("escalator called %d times, want 1", esc.calls)
	}
	if !esc.lastReq.InReviewQueue {
		t.Error("request missing review queue hint")
	}
	if esc.lastReq.LocalScore != 0.5 {
		t.Errorf("local score: got %v, want 0.5", esc.lastReq.LocalScore)
	}
	if esc.lastReq.Subject != "Quick question" {
		t.Errorf("subject: got %q", esc.lastReq.Subject)
	}
	if res.Tier != escalation.TierDeep {
		t.Errorf("tier: got %s, want deep", res.Tier)
	}
}

func TestAdviseWithoutEscalatorIsUnavailable(t *testing.T) {
	r := newRunner(&fakeApps{}, nil)

	if _, err := r.Advise(context.Background(), review.Item{}); !errors.Is(err, escalation.ErrUnavailable) {
		t.Errorf("error: got %v, want ErrUnavailable", err)
	}
}

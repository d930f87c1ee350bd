package review_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/j2kenton/jobsift/internal/classify"
	"github.com/j2kenton/jobsift/internal/escalation"
	"github.com/j2kenton/jobsift/internal/review"
	"github.com/j2kenton/jobsift/pkg/pagination"
)

type fakeSystem struct {
	item *review.Item
}

func (f *fakeSystem) Handler(acceptor review.Acceptor, advisor review.Advisor) *review.Handler {
	return review.NewHandler(f, acceptor, advisor, discard(), pagination.Config{})
}

func (f *fakeSystem) List(
	context.Context,
	pagination.PageRequest,
	review.Filters,
) (*pagination.PageResult[review.Item], error) {
	return nil, nil
}

func (f *fakeSystem) Find(_ context.Context, id uuid.UUID) (*review.Item, error) {
	if f.item == nil || f.item.ID != id {
		return nil, review.ErrNotFound
	}
	return f.item, nil
}

func (f *fakeSystem) Enqueue(context.Context, classify.ProcessedEmail) (*review.Item, error) {
	return nil, nil
}

func (f *fakeSystem) Remove(context.Context, uuid.UUID) error { return nil }

func (f *fakeSystem) Clear(context.Context) (int, error) { return 0, nil }

type fakeAdvisor struct {
	result *escalation.Result
	err    error

	lastItem review.Item
}

func (f *fakeAdvisor) Advise(_ context.Context, item review.Item) (*escalation.Result, error) {
	f.lastItem = item
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func adviceRequest(id uuid.UUID) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/review/"+id.String()+"/advice", nil)
	req.SetPathValue("id", id.String())
	return req
}

func TestAdviceReturnsModelVerdict(t *testing.T) {
	item := review.Item{ID: uuid.New(), EmailID: "e-9", Score: 0.5}
	adv := &fakeAdvisor{
		result: &escalation.Result{
			IsJobRelated: true,
			Confidence:   0.8,
			Reasoning:    "recruiter follow-up",
			Tier:         escalation.TierDeep,
		},
	}

	h := (&fakeSystem{item: &item}).Handler(nil, adv)
	rec := httptest.NewRecorder()
	h.Advice(rec, adviceRequest(item.ID))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if adv.lastItem.EmailID != "e-9" {
		t.Errorf("advisor saw item %q, want e-9", adv.lastItem.EmailID)
	}

	var res escalation.Result
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Tier != escalation.TierDeep {
		t.Errorf("tier: got %s, want deep", res.Tier)
	}
}

func TestAdviceUnavailable(t *testing.T) {
	item := review.Item{ID: uuid.New()}
	adv := &fakeAdvisor{err: escalation.ErrUnavailable}

	h := (&fakeSystem{item: &item}).Handler(nil, adv)
	rec := httptest.NewRecorder()
	h.Advice(rec, adviceRequest(item.ID))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want 503", rec.Code)
	}
}

func TestAdviceUnknownItem(t *testing.T) {
	h := (&fakeSystem{}).Handler(nil, &fakeAdvisor{})
	rec := httptest.NewRecorder()
	h.Advice(rec, adviceRequest(uuid.New()))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
}

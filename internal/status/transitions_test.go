package status_test

import (
	"testing"

	"github.com/j2kenton/jobsift/internal/status"
)

func TestIsValidTransition(t *testing.T) {
	tests := []struct {
		name     string
		current  status.Status
		proposed status.Status
		want     bool
	}{
		{"applied to interview", status.Applied, status.Interview, true},
		{"applied to offer", status.Applied, status.Offer, true},
		{"interview to offer", status.Interview, status.Offer, true},
		{"applied to rejected", status.Applied, status.Rejected, true},
		{"interview to withdrawn", status.Interview, status.Withdrawn, true},
		{"offer to rejected", status.Offer, status.Rejected, true},
		{"offer to withdrawn", status.Offer, status.Withdrawn, true},

		{"interview back to applied", status.Interview, status.Applied, false},
		{"offer back to interview", status.Offer, status.Interview, false},
		{"offer back to applied", status.Offer, status.Applied, false},
		{"rejected to interview", status.Rejected, status.Interview, false},
		{"rejected to applied", status.Rejected, status.Applied, false},
		{"rejected to withdrawn", status.Rejected, status.Withdrawn, false},
		{"withdrawn to offer", status.Withdrawn, status.Offer, false},

		{"same status", status.Interview, status.Interview, false},
		{"unknown current accepts any stage", status.Unknown, status.Offer, true},
		{"unknown proposed rejected", status.Applied, status.Unknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := status.IsValidTransition(tt.current, tt.proposed); got != tt.want {
				t.Errorf("%s -> %s: got %v, want %v", tt.current, tt.proposed, got, tt.want)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	const threshold = 0.6

	tests := []struct {
		name      string
		current   status.Status
		candidate status.Candidate
		wantApply bool
	}{
		{
			name:      "confident forward transition applies",
			current:   status.Applied,
			candidate: status.Candidate{Status: status.Interview, Confidence: 0.9},
			wantApply: true,
		},
		{
			name:      "below threshold declined",
			current:   status.Applied,
			candidate: status.Candidate{Status: status.Interview, Confidence: 0.5},
			wantApply: false,
		},
		{
			name:      "threshold is inclusive",
			current:   status.Applied,
			candidate: status.Candidate{Status: status.Interview, Confidence: 0.6},
			wantApply: true,
		},
		{
			name:      "rejection is terminal even at full confidence",
			current:   status.Rejected,
			candidate: status.Candidate{Status: status.Interview, Confidence: 1.0},
			wantApply: false,
		},
		{
			name:      "unknown candidate never applies",
			current:   status.Applied,
			candidate: status.Candidate{Status: status.Unknown, Confidence: 1.0},
			wantApply: false,
		},
		{
			name:      "unchanged status declined",
			current:   status.Interview,
			candidate: status.Candidate{Status: status.Interview, Confidence: 0.9},
			wantApply: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := status.Evaluate(tt.current, tt.candidate, threshold)
			if got.Apply != tt.wantApply {
				t.Errorf("apply: got %v (%s), want %v", got.Apply, got.Reason, tt.wantApply)
			}
			if got.Reason == "" {
				t.Error("decision must carry a reason")
			}
		})
	}
}

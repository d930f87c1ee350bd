package triage_test

import (
	"testing"

	"github.com/j2kenton/jobsift/internal/triage"
)

func TestNewRouterValidation(t *testing.T) {
	tests := []struct {
		name      string
		autoMin   float64
		reviewMin float64
		wantErr   bool
	}{
		{"standard thresholds", 0.85, 0.25, false},
		{"review above auto", 0.5, 0.9, true},
		{"equal thresholds", 0.5, 0.5, true},
		{"auto above 1", 1.5, 0.25, true},
		{"review below 0", 0.85, -0.1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := triage.NewRouter(tt.autoMin, tt.reviewMin)
			if (err != nil) != tt.wantErr {
				t.Errorf("error: got %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRoute(t *testing.T) {
	r, err := triage.NewRouter(0.85, 0.25)
	if err != nil {
		t.Fatalf("router: %v", err)
	}

	tests := []struct {
		name       string
		confidence float64
		want       triage.Lane
	}{
		{"well above auto", 0.95, triage.LaneAutoAccept},
		{"exactly auto threshold", 0.85, triage.LaneAutoAccept},
		{"just below auto", 0.8499, triage.LaneReview},
		{"midpoint goes to review", 0.5, triage.LaneReview},
		{"exactly review threshold", 0.25, triage.LaneReview},
		{"just below review", 0.2499, triage.LaneDiscard},
		{"zero", 0, triage.LaneDiscard},
		{"full confidence", 1, triage.LaneAutoAccept},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Route(tt.confidence); got != tt.want {
				t.Errorf("route(%g): got %s, want %s", tt.confidence, got, tt.want)
			}
		})
	}
}

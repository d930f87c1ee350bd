package status_test

import (
	"testing"

	"github.com/j2kenton/jobsift/internal/status"
)

func TestDetect(t *testing.T) {
	d := status.NewDetector(status.DefaultPhrases())

	tests := []struct {
		name    string
		subject string
		body    string
		want    status.Status
	}{
		{
			name:    "application confirmation",
			subject: "Application received",
			body:    "Thank you for applying to Acme. We have received your application.",
			want:    status.Applied,
		},
		{
			name:    "interview invitation",
			subject: "Next steps",
			body:    "We would like to schedule a call and a technical assessment.",
			want:    status.Interview,
		},
		{
			name:    "offer letter",
			subject: "Congratulations!",
			body:    "We are pleased to offer you the role. Your offer letter is attached.",
			want:    status.Offer,
		},
		{
			name:    "rejection",
			subject: "Your application",
			body:    "Unfortunately, we have decided to pursue other candidates.",
			want:    status.Rejected,
		},
		{
			name:    "withdrawal confirmation",
			subject: "Application withdrawn",
			body:    "Per your request, we have withdrawn your application.",
			want:    status.Withdrawn,
		},
		{
			name:    "chinese interview invitation",
			subject: "面试邀请",
			body:    "请确认面试时间。",
			want:    status.Interview,
		},
		{
			name:    "no stage signal",
			subject: "Quarterly update",
			body:    "Here is what happened at the company this quarter.",
			want:    status.Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Detect(tt.subject, tt.body)
			if got.Status != tt.want {
				t.Errorf("status: got %s, want %s (reasoning: %s)", got.Status, tt.want, got.Reasoning)
			}
			if got.Source != status.SourceHeuristic {
				t.Errorf("source: got %s, want %s", got.Source, status.SourceHeuristic)
			}
			if got.Reasoning == "" {
				t.Error("candidate must carry reasoning")
			}
		})
	}
}

func TestDetectConfidenceScaling(t *testing.T) {
	d := status.NewDetector(status.DefaultPhrases())

	single := d.Detect("", "unfortunately we must decline")
	multi := d.Detect("", "unfortunately, we regret that we are not moving forward with other applicants")

	if single.Confidence != 0.5 {
		t.Errorf("single match confidence: got %g, want 0.5", single.Confidence)
	}
	if multi.Confidence <= single.Confidence {
		t.Errorf("more matches should raise confidence: %g <= %g", multi.Confidence, single.Confidence)
	}
	if multi.Confidence > 0.95 {
		t.Errorf("confidence must cap at 0.95: got %g", multi.Confidence)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want status.Status
	}{
		{"applied", status.Applied},
		{"INTERVIEW", status.Interview},
		{" offer ", status.Offer},
		{"rejected", status.Rejected},
		{"withdrawn", status.Withdrawn},
		{"", status.Unknown},
		{"ghosted", status.Unknown},
	}

	for _, tt := range tests {
		if got := status.Parse(tt.in); got != tt.want {
			t.Errorf("Parse(%q): got %s, want %s", tt.in, got, tt.want)
		}
	}
}

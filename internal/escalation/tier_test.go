package escalation_test

import (
	"strings"
	"testing"

	"github.com/j2kenton/jobsift/internal/escalation"
)

func TestSelectTier(t *testing.T) {
	tests := []struct {
		name string
		req  escalation.Request
		want escalation.Tier
	}{
		{
			name: "short english body",
			req: escalation.Request{
				Subject: "Following up",
				Body:    "Just checking in on my application status.",
			},
			want: escalation.TierFast,
		},
		{
			name: "review queue entry",
			req: escalation.Request{
				Subject:       "Following up",
				Body:          "Just checking in.",
				InReviewQueue: true,
			},
			want: escalation.TierDeep,
		},
		{
			name: "long body",
			req: escalation.Request{
				Subject: "Details",
				Body:    strings.Repeat("lengthy paragraph about the role. ", 200),
			},
			want: escalation.TierDeep,
		},
		{
			name: "chinese body",
			req: escalation.Request{
				Subject: "面试邀请",
				Body:    "您好，感谢您投递我们公司的职位，我们希望与您约一个面试时间。",
			},
			want: escalation.TierDeep,
		},
		{
			name: "forwarded subject",
			req: escalation.Request{
				Subject: "Fwd: Interview invitation",
				Body:    "See below.",
			},
			want: escalation.TierDeep,
		},
		{
			name: "forwarded chain marker in body",
			req: escalation.Request{
				Subject: "Thoughts?",
				Body:    "Begin forwarded message\nFrom: recruiting@acme.com",
			},
			want: escalation.TierDeep,
		},
		{
			name: "occasional accented word stays fast",
			req: escalation.Request{
				Subject: "Café chat",
				Body:    "Our recruiter suggested a quick conversation about the engineering role next week.",
			},
			want: escalation.TierFast,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := escalation.SelectTier(tt.req); got != tt.want {
				t.Errorf("SelectTier() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestUsageReport(t *testing.T) {
	var u escalation.Usage

	report := u.Report()
	if report.Fast.Calls != 0 || report.Deep.Calls != 0 {
		t.Errorf("fresh usage not empty: %+v", report)
	}
}

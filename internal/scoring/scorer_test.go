package scoring_test

import (
	"testing"

	"github.com/j2kenton/jobsift/internal/extraction"
	"github.com/j2kenton/jobsift/internal/scoring"
)

func ptr[T any](v T) *T {
	return &v
}

func approx(got, want float64) bool {
	diff := got - want
	return diff < 1e-9 && diff > -1e-9
}

func TestScoreIdentityContributions(t *testing.T) {
	s := scoring.New(scoring.Vocabulary{})

	tests := []struct {
		name   string
		fields extraction.Fields
		want   float64
	}{
		{
			name:   "no fields",
			fields: extraction.Fields{},
			want:   0,
		},
		{
			name:   "company only",
			fields: extraction.Fields{Company: ptr("Acme")},
			want:   0.2,
		},
		{
			name:   "position only",
			fields: extraction.Fields{Position: ptr("Software Engineer")},
			want:   0.2,
		},
		{
			name: "both identity fields",
			fields: extraction.Fields{
				Company:  ptr("Acme"),
				Position: ptr("Software Engineer"),
			},
			want: 0.4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Score(tt.fields, "plain text with no keywords")
			if got.Value != tt.want {
				t.Errorf("value: got %g, want %g", got.Value, tt.want)
			}
		})
	}
}

func TestScoreKeywordCapAndFloor(t *testing.T) {
	vocab := scoring.Vocabulary{
		Include: []string{"interview", "recruiter", "position", "resume", "offer", "candidate"},
	}
	s := scoring.New(vocab)

	t.Run("keyword contribution capped at 0.4", func(t *testing.T) {
		text := "interview recruiter position resume offer candidate"
		got := s.Score(extraction.Fields{}, text)

		if got.Breakdown.KeywordContribution != 0.4 {
			t.Errorf("keyword contribution: got %g, want 0.4", got.Breakdown.KeywordContribution)
		}
		if len(got.Breakdown.MatchedKeywords) != 6 {
			t.Errorf("matched: got %d, want 6", len(got.Breakdown.MatchedKeywords))
		}
	})

	t.Run("floor applied for single keyword without fields", func(t *testing.T) {
		got := s.Score(extraction.Fields{}, "we reviewed your resume")

		if !got.Breakdown.FloorApplied {
			t.Error("expected floor to apply")
		}
		if got.Value != 0.3 {
			t.Errorf("value: got %g, want 0.3", got.Value)
		}
	})

	t.Run("floor not applied when fields already clear it", func(t *testing.T) {
		fields := extraction.Fields{
			Company:  ptr("Acme"),
			Position: ptr("Engineer"),
		}
		got := s.Score(fields, "we reviewed your resume")

		if got.Breakdown.FloorApplied {
			t.Error("floor should not apply above 0.3")
		}
		// 0.4 identity + 0.1 keyword
		if !approx(got.Value, 0.5) {
			t.Errorf("value: got %g, want 0.5", got.Value)
		}
	})
}

func TestScorePenaltiesAndBonuses(t *testing.T) {
	vocab := scoring.Vocabulary{
		Include:        []string{"interview"},
		Exclude:        []string{"newsletter"},
		ContextExclude: []string{"unsubscribe"},
	}
	s := scoring.New(vocab)

	t.Run("exclusions subtract after positives", func(t *testing.T) {
		got := s.Score(extraction.Fields{}, "interview newsletter")

		// floor 0.3 - 0.2 exclusion
		if !approx(got.Value, 0.1) {
			t.Errorf("value: got %g, want 0.1", got.Value)
		}
	})

	t.Run("auxiliary fields add bonuses", func(t *testing.T) {
		fields := extraction.Fields{
			Company:      ptr("Acme"),
			Position:     ptr("Engineer"),
			ContactEmail: ptr("hr@acme.com"),
			JobURL:       ptr("https://acme.com/careers/42"),
			Salary:       ptr("$150k"),
		}
		got := s.Score(fields, "interview scheduled")

		if !approx(got.Breakdown.AuxiliaryBonus, 0.3) {
			t.Errorf("bonus: got %g, want 0.3", got.Breakdown.AuxiliaryBonus)
		}
	})
}

func TestScoreClampedToUnitInterval(t *testing.T) {
	vocab := scoring.Vocabulary{
		Include:        []string{"interview", "offer", "recruiter", "position"},
		Exclude:        []string{"newsletter", "sale", "discount"},
		ContextExclude: []string{"unsubscribe", "automated message"},
	}
	s := scoring.New(vocab)

	t.Run("never exceeds 1", func(t *testing.T) {
		fields := extraction.Fields{
			Company:      ptr("Acme"),
			Position:     ptr("Engineer"),
			ContactEmail: ptr("hr@acme.com"),
			JobURL:       ptr("https://acme.com/jobs/1"),
			Salary:       ptr("$200k"),
		}
		got := s.Score(fields, "interview offer recruiter position")

		if got.Value > 1 {
			t.Errorf("value exceeds 1: %g", got.Value)
		}
		if got.Value != 1 {
			t.Errorf("value: got %g, want 1", got.Value)
		}
	})

	t.Run("never drops below 0", func(t *testing.T) {
		text := "newsletter sale discount unsubscribe automated message"
		got := s.Score(extraction.Fields{}, text)

		if got.Value != 0 {
			t.Errorf("value: got %g, want 0", got.Value)
		}
	})
}

// A realistic recruiter email with identity, keywords, and auxiliary fields
// must clear the auto-accept threshold.
func TestScoreStrongApplicationEmail(t *testing.T) {
	s := scoring.New(scoring.DefaultVocabulary())

	fields := extraction.Fields{
		Company:      ptr("Acme"),
		Position:     ptr("Backend Engineer"),
		ContactEmail: ptr("jane@acme.com"),
		JobURL:       ptr("https://jobs.acme.com/backend-engineer"),
	}
	text := "Thank you for applying to Acme. Our recruiter will schedule your interview for the Backend Engineer position."

	got := s.Score(fields, text)
	if got.Value < 0.85 {
		t.Errorf("value: got %g, want >= 0.85", got.Value)
	}
}

func TestScoreDeterministic(t *testing.T) {
	s := scoring.New(scoring.DefaultVocabulary())
	fields := extraction.Fields{Company: ptr("Acme")}
	text := "interview with our recruiter, please unsubscribe below"

	first := s.Score(fields, text)
	for range 10 {
		if got := s.Score(fields, text); got.Value != first.Value {
			t.Fatalf("score varies across runs: %g vs %g", got.Value, first.Value)
		}
	}
}

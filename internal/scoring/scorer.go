// Package scoring converts extracted fields and raw email text into a
// bounded relevance score using deterministic additive heuristics.
package scoring

import (
	"strings"

	"github.com/j2kenton/jobsift/internal/extraction"
)

// Contribution weights. Positive contributions may sum past 1 before
// penalties apply; only the final score is clamped.
const (
	weightBothIdentity = 0.4
	weightOneIdentity  = 0.2

	keywordIncrement = 0.1
	keywordCap       = 0.4
	keywordFloor     = 0.3

	exclusionPenalty = 0.2
	contextPenalty   = 0.3

	auxiliaryBonus = 0.1
)

// Breakdown records how a score was assembled, for reasoning strings and audit.
type Breakdown struct {
	FieldContribution   float64  `json:"field_contribution"`
	KeywordContribution float64  `json:"keyword_contribution"`
	FloorApplied        bool     `json:"floor_applied"`
	ExclusionPenalty    float64  `json:"exclusion_penalty"`
	ContextPenalty      float64  `json:"context_penalty"`
	AuxiliaryBonus      float64  `json:"auxiliary_bonus"`
	MatchedKeywords     []string `json:"matched_keywords,omitempty"`
	MatchedExclusions   []string `json:"matched_exclusions,omitempty"`
	MatchedContext      []string `json:"matched_context,omitempty"`
}

// Score is a relevance score in [0,1] with its contribution breakdown.
type Score struct {
	Value     float64   `json:"value"`
	Breakdown Breakdown `json:"breakdown"`
}

// Scorer computes relevance scores against a fixed vocabulary. It is pure:
// no side effects, no network, reproducible for identical inputs.
type Scorer struct {
	vocab Vocabulary
}

// New creates a Scorer over the given vocabulary.
func New(vocab Vocabulary) *Scorer {
	return &Scorer{vocab: vocab}
}

// Score computes the relevance score for one email. Contributions are
// order-independent; the result is clamped to [0,1] only at the end.
func (s *Scorer) Score(fields extraction.Fields, rawText string) Score {
	var b Breakdown
	text := strings.ToLower(rawText)

	switch fields.IdentityCount() {
	case 2:
		b.FieldContribution = weightBothIdentity
	case 1:
		b.FieldContribution = weightOneIdentity
	}

	b.MatchedKeywords = matchAll(text, s.vocab.Include)
	b.KeywordContribution = min(float64(len(b.MatchedKeywords))*keywordIncrement, keywordCap)

	b.MatchedExclusions = matchAll(text, s.vocab.Exclude)
	b.ExclusionPenalty = float64(len(b.MatchedExclusions)) * exclusionPenalty

	b.MatchedContext = matchAll(text, s.vocab.ContextExclude)
	b.ContextPenalty = float64(len(b.MatchedContext)) * contextPenalty

	if fields.ContactEmail != nil {
		b.AuxiliaryBonus += auxiliaryBonus
	}
	if fields.JobURL != nil {
		b.AuxiliaryBonus += auxiliaryBonus
	}
	if fields.Salary != nil {
		b.AuxiliaryBonus += auxiliaryBonus
	}

	positive := b.FieldContribution + b.KeywordContribution

	// Keyword presence is a strong relevance signal even when field
	// extraction came up empty.
	if len(b.MatchedKeywords) > 0 && positive < keywordFloor {
		positive = keywordFloor
		b.FloorApplied = true
	}

	value := positive + b.AuxiliaryBonus - b.ExclusionPenalty - b.ContextPenalty

	return Score{Value: clamp(value), Breakdown: b}
}

func matchAll(text string, keywords []string) []string {
	var matched []string
	for _, kw := range keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			matched = append(matched, kw)
		}
	}
	return matched
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

package status

import (
	"fmt"
	"sort"
	"strings"
)

// Phrases maps each lifecycle stage to the phrases that indicate it.
type Phrases map[Status][]string

// DefaultPhrases returns the built-in bilingual stage vocabulary.
func DefaultPhrases() Phrases {
	return Phrases{
		Applied: {
			"thank you for applying", "application received",
			"we have received your application", "application submitted",
			"thank you for your interest", "your application to",
			"已收到您的申请", "感谢您的申请", "简历已投递",
		},
		Interview: {
			"interview", "schedule a call", "phone screen", "next round",
			"meet the team", "technical assessment", "coding challenge",
			"availability for a conversation", "online assessment",
			"面试", "笔试", "约个时间",
		},
		Offer: {
			"offer", "pleased to offer", "congratulations", "compensation package",
			"offer letter", "we would like to extend",
			"录用", "录取通知", "欢迎加入",
		},
		Rejected: {
			"unfortunately", "we regret", "not moving forward",
			"decided to pursue other candidates", "position has been filled",
			"will not be proceeding", "other applicants",
			"很遗憾", "未能通过", "不匹配",
		},
		Withdrawn: {
			"withdraw", "withdrawn your application", "cancelled your application",
			"per your request", "撤回",
		},
	}
}

// Detection weights: the first matched phrase for a stage carries the base;
// each additional match adds increment up to cap.
const (
	baseConfidence      = 0.5
	matchIncrement      = 0.15
	detectionConfidence = 0.95
)

// Detector determines the lifecycle stage an email implies using local
// phrase heuristics. It is pure; escalation for ambiguous cases is the
// caller's concern.
type Detector struct {
	phrases Phrases
	order   []Status
}

// NewDetector creates a Detector over the given stage phrases.
func NewDetector(phrases Phrases) *Detector {
	// Deterministic evaluation order regardless of map iteration.
	order := make([]Status, 0, len(phrases))
	for stage := range phrases {
		order = append(order, stage)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	return &Detector{phrases: phrases, order: order}
}

// Detect scores every stage against the email text and returns the best
// candidate. When no phrase matches, the candidate is Unknown with zero
// confidence, signalling that escalation may help.
func (d *Detector) Detect(subject, body string) Candidate {
	text := strings.ToLower(subject + "\n" + body)

	best := Candidate{Status: Unknown, Source: SourceHeuristic}
	for _, stage := range d.order {
		matched := matchPhrases(text, d.phrases[stage])
		if len(matched) == 0 {
			continue
		}

		confidence := baseConfidence + float64(len(matched)-1)*matchIncrement
		if confidence > detectionConfidence {
			confidence = detectionConfidence
		}

		if confidence > best.Confidence {
			best = Candidate{
				Status:     stage,
				Confidence: confidence,
				Reasoning:  fmt.Sprintf("matched %q", strings.Join(matched, ", ")),
				Source:     SourceHeuristic,
			}
		}
	}

	if best.Status == Unknown {
		best.Reasoning = "no stage phrases matched"
	}

	return best
}

func matchPhrases(text string, phrases []string) []string {
	var matched []string
	for _, phrase := range phrases {
		if strings.Contains(text, strings.ToLower(phrase)) {
			matched = append(matched, phrase)
		}
	}
	return matched
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

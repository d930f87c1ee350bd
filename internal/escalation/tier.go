package escalation

import (
	"strings"
	"unicode"
)

const (
	longBodyThreshold   = 4000
	nonASCIIRatioCutoff = 0.15
)

var forwardMarkers = []string{
	"fwd:",
	"fw:",
	"---------- forwarded message ----------",
	"begin forwarded message",
	"转发",
}

// SelectTier picks a model tier from request context alone. Deep handles
// content the fast tier tends to misread: non-English text, long bodies,
// forwarded chains, and emails already sitting in the review queue.
func SelectTier(req Request) Tier {
	if req.InReviewQueue {
		return TierDeep
	}
	if len(req.Body) > longBodyThreshold {
		return TierDeep
	}
	if nonASCIIRatio(req.Subject+req.Body) > nonASCIIRatioCutoff {
		return TierDeep
	}

	lower := strings.ToLower(req.Subject + "\n" + req.Body)
	for _, marker := range forwardMarkers {
		if strings.Contains(lower, marker) {
			return TierDeep
		}
	}

	return TierFast
}

func nonASCIIRatio(s string) float64 {
	if s == "" {
		return 0
	}

	var total, nonASCII int
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if r > unicode.MaxASCII {
			nonASCII++
		}
	}

	if total == 0 {
		return 0
	}
	return float64(nonASCII) / float64(total)
}

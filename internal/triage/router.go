// Package triage routes scored emails into handling lanes by confidence.
package triage

import "fmt"

// Lane is a triage destination for a scored email.
type Lane string

// Triage lanes. Boundaries are inclusive on the lower bound of each lane:
// confidence equal to the auto threshold auto-accepts, equal to the review
// threshold enters review.
const (
	LaneAutoAccept Lane = "auto_accept"
	LaneReview     Lane = "review"
	LaneDiscard    Lane = "discard"
)

// Router dispatches candidates into lanes using two configured thresholds.
type Router struct {
	autoMin   float64
	reviewMin float64
}

// NewRouter creates a Router. reviewMin must be strictly below autoMin and
// both must lie in [0,1].
func NewRouter(autoMin, reviewMin float64) (*Router, error) {
	if autoMin < 0 || autoMin > 1 || reviewMin < 0 || reviewMin > 1 {
		return nil, fmt.Errorf("thresholds must be in [0,1]: auto=%v review=%v", autoMin, reviewMin)
	}
	if reviewMin >= autoMin {
		return nil, fmt.Errorf("review threshold %v must be below auto threshold %v", reviewMin, autoMin)
	}

	return &Router{autoMin: autoMin, reviewMin: reviewMin}, nil
}

// Route returns the lane for a confidence value. Pure and total.
func (r *Router) Route(confidence float64) Lane {
	switch {
	case confidence >= r.autoMin:
		return LaneAutoAccept
	case confidence >= r.reviewMin:
		return LaneReview
	}
	return LaneDiscard
}

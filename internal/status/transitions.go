package status

// stageRank orders the forward-progress stages. Terminal stages carry no rank.
var stageRank = map[Status]int{
	Applied:   1,
	Interview: 2,
	Offer:     3,
}

// IsValidTransition reports whether an application may move from current to
// proposed. Forward progress (applied → interview → offer) is always valid,
// and any active stage may move to rejected or withdrawn. Terminal stages
// (rejected, withdrawn, and offer for backward moves) never transition to an
// earlier stage regardless of the proposal's confidence; confidence governs
// whether a transition is attempted, never whether it is permitted.
func IsValidTransition(current, proposed Status) bool {
	if !proposed.Valid() || current == proposed {
		return false
	}

	switch current {
	case Unknown:
		// A record with no established status accepts any stage.
		return true
	case Rejected, Withdrawn:
		return false
	case Offer:
		return proposed == Rejected || proposed == Withdrawn
	}

	if proposed == Rejected || proposed == Withdrawn {
		return true
	}

	return stageRank[proposed] > stageRank[current]
}

// Decision is the outcome of evaluating a proposed status change.
type Decision struct {
	Apply  bool   `json:"apply"`
	Reason string `json:"reason"`
}

// Evaluate applies the transition policy to a candidate: the proposal must
// differ from the current status, clear the update threshold, and pass the
// state machine. Rejected proposals return the reason for the audit trail.
func Evaluate(current Status, candidate Candidate, updateThreshold float64) Decision {
	switch {
	case candidate.Status == Unknown:
		return Decision{Reason: "no status detected"}
	case candidate.Status == current:
		return Decision{Reason: "status unchanged"}
	case candidate.Confidence < updateThreshold:
		return Decision{Reason: "confidence below update threshold"}
	case !IsValidTransition(current, candidate.Status):
		return Decision{Reason: "invalid transition"}
	}

	return Decision{Apply: true, Reason: "accepted"}
}

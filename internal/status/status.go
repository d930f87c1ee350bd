// Package status determines the lifecycle stage an email implies and
// validates proposed stage transitions against the application state machine.
package status

// Status is an application lifecycle stage.
type Status string

// Lifecycle stages. Applied and Interview can progress; Offer, Rejected, and
// Withdrawn are terminal for backward transitions.
const (
	Unknown   Status = ""
	Applied   Status = "applied"
	Interview Status = "interview"
	Offer     Status = "offer"
	Rejected  Status = "rejected"
	Withdrawn Status = "withdrawn"
)

// Valid reports whether s is a known lifecycle stage.
func (s Status) Valid() bool {
	switch s {
	case Applied, Interview, Offer, Rejected, Withdrawn:
		return true
	}
	return false
}

// Parse normalizes a free-form status string to a Status, or Unknown.
func Parse(s string) Status {
	switch Status(normalize(s)) {
	case Applied:
		return Applied
	case Interview:
		return Interview
	case Offer:
		return Offer
	case Rejected:
		return Rejected
	case Withdrawn:
		return Withdrawn
	}
	return Unknown
}

// Candidate is a proposed lifecycle status with its own confidence and a
// human-readable reasoning string.
type Candidate struct {
	Status     Status  `json:"status"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
	Source     Source  `json:"source"`
}

// Source identifies where a status candidate came from.
type Source string

// Candidate sources.
const (
	SourceHeuristic  Source = "heuristic"
	SourceEscalation Source = "escalation"
)

package escalation

import "errors"

var (
	// ErrUnavailable covers every escalation failure mode: network errors,
	// timeouts, and unparseable model output. Callers fall back to their
	// local classification.
	ErrUnavailable = errors.New("escalation service unavailable")
)

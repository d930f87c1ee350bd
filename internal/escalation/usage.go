package escalation

import "sync"

// TierUsage accumulates call counts and estimated spend for one tier.
type TierUsage struct {
	Calls         int     `json:"calls"`
	Failures      int     `json:"failures"`
	EstimatedCost float64 `json:"estimated_cost"`
}

// Usage tracks escalation volume across both tiers. Safe for concurrent use.
type Usage struct {
	mu   sync.Mutex
	fast TierUsage
	deep TierUsage
}

// UsageReport is a point-in-time copy of accumulated usage.
type UsageReport struct {
	Fast TierUsage `json:"fast"`
	Deep TierUsage `json:"deep"`
}

// Rough per-call cost estimates. These are budgeting aids, not billing data.
const (
	fastCallCost = 0.001
	deepCallCost = 0.015
)

func (u *Usage) record(tier Tier, failed bool) {
	u.mu.Lock()
	defer u.mu.Unlock()

	t := &u.fast
	cost := fastCallCost
	if tier == TierDeep {
		t = &u.deep
		cost = deepCallCost
	}

	t.Calls++
	t.EstimatedCost += cost
	if failed {
		t.Failures++
	}
}

// Report returns a snapshot of accumulated usage.
func (u *Usage) Report() UsageReport {
	u.mu.Lock()
	defer u.mu.Unlock()

	return UsageReport{Fast: u.fast, Deep: u.deep}
}

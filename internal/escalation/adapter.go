package escalation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/j2kenton/jobsift/internal/extraction"
	"github.com/j2kenton/jobsift/pkg/formatting"
)

// Adapter sends ambiguous emails to a language model and parses the
// structured verdict. Each call creates a fresh agent from the tier's
// config, matching how the underlying client is designed to be used.
type Adapter struct {
	fast    gaconfig.AgentConfig
	deep    gaconfig.AgentConfig
	timeout time.Duration
	usage   *Usage
	logger  *slog.Logger
}

// New constructs an Adapter with per-call timeout enforcement.
func New(fast, deep gaconfig.AgentConfig, timeout time.Duration, logger *slog.Logger) *Adapter {
	return &Adapter{
		fast:    fast,
		deep:    deep,
		timeout: timeout,
		usage:   &Usage{},
		logger:  logger.With("system", "escalation"),
	}
}

// Usage returns accumulated call volume and estimated spend.
func (a *Adapter) Usage() UsageReport {
	return a.usage.Report()
}

type verdict struct {
	IsJobRelated bool    `json:"is_job_related"`
	Confidence   float64 `json:"confidence"`
	Company      string  `json:"company"`
	Position     string  `json:"position"`
	Location     string  `json:"location"`
	Salary       string  `json:"salary"`
	ContactEmail string  `json:"contact_email"`
	Status       string  `json:"status"`
	Reasoning    string  `json:"reasoning"`
}

// Escalate classifies an email with the model tier selected from request
// context. Every failure mode returns ErrUnavailable so callers can fall
// back to local results without inspecting the cause.
func (a *Adapter) Escalate(ctx context.Context, req Request) (*Result, error) {
	tier := SelectTier(req)

	cfg := a.fast
	if tier == TierDeep {
		cfg = a.deep
	}

	cctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	res, err := a.call(cctx, &cfg, req, tier)
	a.usage.record(tier, err != nil)
	if err != nil {
		a.logger.WarnContext(
			ctx, "escalation failed",
			"tier", tier,
			"error", err,
		)
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	a.logger.InfoContext(
		ctx, "escalation complete",
		"tier", tier,
		"job_related", res.IsJobRelated,
		"confidence", res.Confidence,
	)

	return res, nil
}

func (a *Adapter) call(ctx context.Context, cfg *gaconfig.AgentConfig, req Request, tier Tier) (*Result, error) {
	ag, err := agent.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}

	resp, err := ag.Chat(ctx, composePrompt(req))
	if err != nil {
		return nil, fmt.Errorf("chat call: %w", err)
	}

	parsed, err := formatting.Parse[verdict](resp.Content())
	if err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	if parsed.Confidence < 0 || parsed.Confidence > 1 {
		return nil, fmt.Errorf("confidence %.2f out of range", parsed.Confidence)
	}

	return &Result{
		IsJobRelated: parsed.IsJobRelated,
		Confidence:   parsed.Confidence,
		Status:       parsed.Status,
		Fields:       verdictFields(parsed),
		Reasoning:    parsed.Reasoning,
		Tier:         tier,
	}, nil
}

func verdictFields(v verdict) extraction.Fields {
	var f extraction.Fields
	f.Company = optional(v.Company)
	f.Position = optional(v.Position)
	f.Location = optional(v.Location)
	f.Salary = optional(v.Salary)
	f.ContactEmail = optional(v.ContactEmail)
	return f
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func composePrompt(req Request) string {
	var b strings.Builder

	b.WriteString("You are analyzing an email to determine whether it relates to a job application.\n")
	b.WriteString("Respond with a single JSON object and nothing else, using this shape:\n")
	b.WriteString(`{"is_job_related": bool, "confidence": 0.0-1.0, "company": "", "position": "", "location": "", "salary": "", "contact_email": "", "status": "", "reasoning": ""}` + "\n")
	b.WriteString("Use empty strings for fields you cannot determine. The status field must be one of: applied, interview, offer, rejected, withdrawn, or empty.\n")
	b.WriteString("The email may be in any language; reason in that language but answer in English.\n\n")

	fmt.Fprintf(&b, "Sender: %s\n", req.Sender)
	fmt.Fprintf(&b, "Subject: %s\n\n", req.Subject)
	b.WriteString(req.Body)

	return b.String()
}

package classify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/j2kenton/jobsift/internal/extraction"
	"github.com/j2kenton/jobsift/internal/mail"
	"github.com/j2kenton/jobsift/internal/scoring"
	"github.com/j2kenton/jobsift/internal/status"
	"github.com/j2kenton/jobsift/internal/triage"
)

// KeyEmailState is the graph state key carrying the evolving verdict.
const KeyEmailState = "email_state"

// escalationBound is the local score below which the model is consulted.
// Emails at or above the bound still escalate when stage detection finds
// nothing.
const escalationBound = 0.3

// Classifier wires the analysis stages into a state graph. A nil escalator
// disables escalation entirely; low-scoring emails then route on their
// local score alone.
type Classifier struct {
	extractor *extraction.Extractor
	scorer    *scoring.Scorer
	detector  *status.Detector
	router    *triage.Router
	escalator Escalator
	logger    *slog.Logger
}

// NewClassifier assembles the workflow from its stage implementations.
func NewClassifier(
	scorer *scoring.Scorer,
	detector *status.Detector,
	router *triage.Router,
	escalator Escalator,
	logger *slog.Logger,
) *Classifier {
	return &Classifier{
		extractor: extraction.New(),
		scorer:    scorer,
		detector:  detector,
		router:    router,
		escalator: escalator,
		logger:    logger.With("system", "classify"),
	}
}

// Classify runs one email through extract → score → detect → escalate? →
// route and returns the final verdict. Escalation failure is absorbed; the
// local result stands.
func (c *Classifier) Classify(ctx context.Context, email mail.RawEmail) (*ProcessedEmail, error) {
	graph, err := c.buildGraph()
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	initial := state.New(nil)
	initial = initial.Set(KeyEmailState, ProcessedEmail{Email: email})

	final, err := graph.Execute(ctx, initial)
	if err != nil {
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	result, err := extractEmailState(final)
	if err != nil {
		return nil, err
	}

	result.ProcessedAt = time.Now().UTC()

	c.logger.InfoContext(
		ctx, "email classified",
		"email_id", result.Email.ID,
		"score", result.Score.Value,
		"lane", result.Lane,
		"status", result.Status.Status,
		"escalated", result.Escalated,
	)

	return result, nil
}

func (c *Classifier) buildGraph() (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("jobsift-classify")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("extract", c.extractNode()); err != nil {
		return nil, err
	}

	if err := graph.AddNode("score", c.scoreNode()); err != nil {
		return nil, err
	}

	if err := graph.AddNode("escalate", c.escalateNode()); err != nil {
		return nil, err
	}

	if err := graph.AddNode("detect", c.detectNode()); err != nil {
		return nil, err
	}

	if err := graph.AddNode("route", c.routeNode()); err != nil {
		return nil, err
	}

	// extract → score (unconditional)
	if err := graph.AddEdge("extract", "score", nil); err != nil {
		return nil, err
	}

	// score → detect (unconditional)
	if err := graph.AddEdge("score", "detect", nil); err != nil {
		return nil, err
	}

	// detect → escalate (when local heuristics leave ambiguity)
	if err := graph.AddEdge("detect", "escalate", c.needsEscalation); err != nil {
		return nil, err
	}

	// detect → route (when local results settle it)
	if err := graph.AddEdge("detect", "route", state.Not(c.needsEscalation)); err != nil {
		return nil, err
	}

	// escalate → route (unconditional)
	if err := graph.AddEdge("escalate", "route", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("extract"); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint("route"); err != nil {
		return nil, err
	}

	return graph, nil
}

// needsEscalation fires on an ambiguous-low relevance score, or on a
// job-relevant email whose stage detection came back empty.
func (c *Classifier) needsEscalation(s state.State) bool {
	if c.escalator == nil {
		return false
	}

	pe, err := extractEmailState(s)
	if err != nil {
		return false
	}

	if pe.Score.Value < escalationBound {
		return true
	}

	return pe.Status.Status == status.Unknown
}

func extractEmailState(s state.State) (*ProcessedEmail, error) {
	val, ok := s.Get(KeyEmailState)
	if !ok {
		return nil, fmt.Errorf("missing %s in state", KeyEmailState)
	}

	pe, ok := val.(ProcessedEmail)
	if !ok {
		return nil, fmt.Errorf("%s is not ProcessedEmail", KeyEmailState)
	}

	return &pe, nil
}

package classify

import (
	"context"
	"errors"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/j2kenton/jobsift/internal/escalation"
	"github.com/j2kenton/jobsift/internal/status"
)

func (c *Classifier) extractNode() state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		pe, err := extractEmailState(s)
		if err != nil {
			return s, fmt.Errorf("extract: %w", err)
		}

		pe.Fields = c.extractor.Extract(pe.Email.Subject, pe.Email.Body, pe.Email.Sender)

		s = s.Set(KeyEmailState, *pe)
		return s, nil
	})
}

func (c *Classifier) scoreNode() state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		pe, err := extractEmailState(s)
		if err != nil {
			return s, fmt.Errorf("score: %w", err)
		}

		pe.Score = c.scorer.Score(pe.Fields, pe.Email.Subject+"\n"+pe.Email.Body)

		s = s.Set(KeyEmailState, *pe)
		return s, nil
	})
}

// escalateNode consults the model and applies its verdict only when the
// returned confidence beats the local score and the model asserts
// job-relatedness. Unavailability leaves the local result untouched.
func (c *Classifier) escalateNode() state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		pe, err := extractEmailState(s)
		if err != nil {
			return s, fmt.Errorf("escalate: %w", err)
		}

		res, err := c.escalator.Escalate(ctx, escalation.Request{
			Subject:    pe.Email.Subject,
			Body:       pe.Email.Body,
			Sender:     pe.Email.Sender,
			LocalScore: pe.Score.Value,
		})
		if err != nil {
			if !errors.Is(err, escalation.ErrUnavailable) {
				return s, fmt.Errorf("escalate: %w", err)
			}
			c.logger.WarnContext(
				ctx, "escalation unavailable, keeping local result",
				"email_id", pe.Email.ID,
				"local_score", pe.Score.Value,
			)
			return s, nil
		}

		pe.Escalated = true
		pe.EscalationTier = res.Tier
		pe.Reasoning = res.Reasoning

		if res.IsJobRelated && res.Confidence > pe.Score.Value {
			pe.Score.Value = res.Confidence
			pe.Fields = pe.Fields.Overlay(res.Fields)
		}

		// Local detection already ran; the model's stage wins only when it
		// is more confident.
		if st := status.Parse(res.Status); st != status.Unknown {
			if pe.Status.Status == status.Unknown || res.Confidence > pe.Status.Confidence {
				pe.Status = status.Candidate{
					Status:     st,
					Confidence: res.Confidence,
					Reasoning:  res.Reasoning,
					Source:     status.SourceEscalation,
				}
			}
		}

		s = s.Set(KeyEmailState, *pe)
		return s, nil
	})
}

// detectNode runs local stage detection. Escalation, when it follows, may
// override an unknown or less confident result.
func (c *Classifier) detectNode() state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		pe, err := extractEmailState(s)
		if err != nil {
			return s, fmt.Errorf("detect: %w", err)
		}

		pe.Status = c.detector.Detect(pe.Email.Subject, pe.Email.Body)

		s = s.Set(KeyEmailState, *pe)
		return s, nil
	})
}

func (c *Classifier) routeNode() state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		pe, err := extractEmailState(s)
		if err != nil {
			return s, fmt.Errorf("route: %w", err)
		}

		pe.Lane = c.router.Route(pe.Score.Value)

		s = s.Set(KeyEmailState, *pe)
		return s, nil
	})
}

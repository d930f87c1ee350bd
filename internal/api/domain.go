package api

import (
	"fmt"

	"github.com/j2kenton/jobsift/internal/applications"
	"github.com/j2kenton/jobsift/internal/classify"
	"github.com/j2kenton/jobsift/internal/config"
	"github.com/j2kenton/jobsift/internal/escalation"
	"github.com/j2kenton/jobsift/internal/mail"
	"github.com/j2kenton/jobsift/internal/merge"
	"github.com/j2kenton/jobsift/internal/pipeline"
	"github.com/j2kenton/jobsift/internal/review"
	"github.com/j2kenton/jobsift/internal/scoring"
	"github.com/j2kenton/jobsift/internal/status"
	"github.com/j2kenton/jobsift/internal/triage"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Applications applications.System
	Review       review.System
	Runner       *pipeline.Runner
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) (*Domain, error) {
	vocab := scoring.DefaultVocabulary()
	if cfg.Pipeline.VocabularyPath != "" {
		loaded, err := scoring.LoadVocabulary(cfg.Pipeline.VocabularyPath)
		if err != nil {
			return nil, fmt.Errorf("vocabulary: %w", err)
		}
		vocab = loaded
	}

	router, err := triage.NewRouter(
		cfg.Pipeline.AutoProcessThreshold,
		cfg.Pipeline.ReviewQueueThreshold,
	)
	if err != nil {
		return nil, fmt.Errorf("triage router: %w", err)
	}

	var escalator classify.Escalator
	if cfg.Pipeline.EscalationOn() {
		escalator = escalation.New(
			cfg.Agents.Fast,
			cfg.Agents.Deep,
			cfg.Agents.TimeoutDuration(),
			runtime.Logger,
		)
	}

	classifier := classify.NewClassifier(
		scoring.New(vocab),
		status.NewDetector(status.DefaultPhrases()),
		router,
		escalator,
		runtime.Logger,
	)

	appsSystem := applications.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
		cfg.Pipeline.StatusUpdateThreshold,
	)

	reviewSystem := review.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	source := mail.NewIMAPSource(mail.IMAPConfig{
		Host:     cfg.Mail.Host,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		Mailbox:  cfg.Mail.Mailbox,
	}, runtime.Logger)

	runner := pipeline.New(
		runtime.Database.Connection(),
		source,
		classifier,
		escalator,
		merge.New(cfg.Pipeline.StatusUpdateThreshold, runtime.Logger),
		appsSystem,
		reviewSystem,
		runtime.Storage,
		pipeline.Options{
			Lookback:  cfg.Pipeline.LookbackDuration(),
			BatchSize: cfg.Pipeline.BatchSize,
			Workers:   cfg.Pipeline.Workers,
		},
		runtime.Pagination,
		runtime.Logger,
	)

	return &Domain{
		Applications: appsSystem,
		Review:       reviewSystem,
		Runner:       runner,
	}, nil
}

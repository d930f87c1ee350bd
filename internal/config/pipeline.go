package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvPipelineAutoThreshold    = "JOBSIFT_PIPELINE_AUTO_PROCESS_THRESHOLD"
	EnvPipelineReviewThreshold  = "JOBSIFT_PIPELINE_REVIEW_QUEUE_THRESHOLD"
	EnvPipelineStatusThreshold  = "JOBSIFT_PIPELINE_STATUS_UPDATE_THRESHOLD"
	EnvPipelineLookback         = "JOBSIFT_PIPELINE_LOOKBACK"
	EnvPipelineBatchSize        = "JOBSIFT_PIPELINE_BATCH_SIZE"
	EnvPipelineWorkers          = "JOBSIFT_PIPELINE_WORKERS"
	EnvPipelineVocabularyPath   = "JOBSIFT_PIPELINE_VOCABULARY_PATH"
	EnvPipelineEscalationEnable = "JOBSIFT_PIPELINE_ESCALATION_ENABLED"
)

// PipelineConfig holds triage thresholds and run bounds. Thresholds are
// inclusive lower bounds for their lanes.
type PipelineConfig struct {
	AutoProcessThreshold  float64 `toml:"auto_process_threshold"`
	ReviewQueueThreshold  float64 `toml:"review_queue_threshold"`
	StatusUpdateThreshold float64 `toml:"status_update_threshold"`
	Lookback              string  `toml:"lookback"`
	BatchSize             int     `toml:"batch_size"`
	Workers               int     `toml:"workers"`
	VocabularyPath        string  `toml:"vocabulary_path"`
	EscalationEnabled     *bool   `toml:"escalation_enabled"`
}

// LookbackDuration returns Lookback as a time.Duration.
func (c *PipelineConfig) LookbackDuration() time.Duration {
	d, _ := time.ParseDuration(c.Lookback)
	return d
}

// EscalationOn reports whether model escalation is enabled.
func (c *PipelineConfig) EscalationOn() bool {
	return c.EscalationEnabled == nil || *c.EscalationEnabled
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *PipelineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *PipelineConfig) Merge(overlay *PipelineConfig) {
	if overlay.AutoProcessThreshold != 0 {
		c.AutoProcessThreshold = overlay.AutoProcessThreshold
	}
	if overlay.ReviewQueueThreshold != 0 {
		c.ReviewQueueThreshold = overlay.ReviewQueueThreshold
	}
	if overlay.StatusUpdateThreshold != 0 {
		c.StatusUpdateThreshold = overlay.StatusUpdateThreshold
	}
	if overlay.Lookback != "" {
		c.Lookback = overlay.Lookback
	}
	if overlay.BatchSize != 0 {
		c.BatchSize = overlay.BatchSize
	}
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
	if overlay.VocabularyPath != "" {
		c.VocabularyPath = overlay.VocabularyPath
	}
	if overlay.EscalationEnabled != nil {
		c.EscalationEnabled = overlay.EscalationEnabled
	}
}

func (c *PipelineConfig) loadDefaults() {
	if c.AutoProcessThreshold == 0 {
		c.AutoProcessThreshold = 0.85
	}
	if c.ReviewQueueThreshold == 0 {
		c.ReviewQueueThreshold = 0.25
	}
	if c.StatusUpdateThreshold == 0 {
		c.StatusUpdateThreshold = 0.6
	}
	if c.Lookback == "" {
		c.Lookback = "168h"
	}
	if c.BatchSize == 0 {
		c.BatchSize = 200
	}
	if c.Workers == 0 {
		c.Workers = 4
	}
}

func (c *PipelineConfig) loadEnv() {
	setFloat := func(envVar string, target *float64) {
		if v := os.Getenv(envVar); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				*target = f
			}
		}
	}
	setInt := func(envVar string, target *int) {
		if v := os.Getenv(envVar); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*target = n
			}
		}
	}

	setFloat(EnvPipelineAutoThreshold, &c.AutoProcessThreshold)
	setFloat(EnvPipelineReviewThreshold, &c.ReviewQueueThreshold)
	setFloat(EnvPipelineStatusThreshold, &c.StatusUpdateThreshold)
	setInt(EnvPipelineBatchSize, &c.BatchSize)
	setInt(EnvPipelineWorkers, &c.Workers)

	if v := os.Getenv(EnvPipelineLookback); v != "" {
		c.Lookback = v
	}
	if v := os.Getenv(EnvPipelineVocabularyPath); v != "" {
		c.VocabularyPath = v
	}
	if v := os.Getenv(EnvPipelineEscalationEnable); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.EscalationEnabled = &b
		}
	}
}

func (c *PipelineConfig) validate() error {
	inUnit := func(name string, v float64) error {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be in [0,1]: %g", name, v)
		}
		return nil
	}

	if err := inUnit("auto_process_threshold", c.AutoProcessThreshold); err != nil {
		return err
	}
	if err := inUnit("review_queue_threshold", c.ReviewQueueThreshold); err != nil {
		return err
	}
	if err := inUnit("status_update_threshold", c.StatusUpdateThreshold); err != nil {
		return err
	}
	if c.ReviewQueueThreshold >= c.AutoProcessThreshold {
		return fmt.Errorf(
			"review_queue_threshold %g must be below auto_process_threshold %g",
			c.ReviewQueueThreshold, c.AutoProcessThreshold,
		)
	}
	if _, err := time.ParseDuration(c.Lookback); err != nil {
		return fmt.Errorf("invalid lookback: %w", err)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("batch_size must be positive: %d", c.BatchSize)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive: %d", c.Workers)
	}
	return nil
}

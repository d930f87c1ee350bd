package config

import (
	"fmt"
	"os"
	"time"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// AgentEnv names the environment variables for one agent tier.
type AgentEnv struct {
	ProviderName string
	BaseURL      string
	Token        string
	ModelName    string
}

var (
	fastAgentEnv = &AgentEnv{
		ProviderName: "JOBSIFT_AGENT_FAST_PROVIDER_NAME",
		BaseURL:      "JOBSIFT_AGENT_FAST_BASE_URL",
		Token:        "JOBSIFT_AGENT_FAST_TOKEN",
		ModelName:    "JOBSIFT_AGENT_FAST_MODEL_NAME",
	}

	deepAgentEnv = &AgentEnv{
		ProviderName: "JOBSIFT_AGENT_DEEP_PROVIDER_NAME",
		BaseURL:      "JOBSIFT_AGENT_DEEP_BASE_URL",
		Token:        "JOBSIFT_AGENT_DEEP_TOKEN",
		ModelName:    "JOBSIFT_AGENT_DEEP_MODEL_NAME",
	}
)

const EnvAgentTimeout = "JOBSIFT_AGENT_TIMEOUT"

// AgentsConfig holds both escalation tiers and the shared call timeout.
type AgentsConfig struct {
	Fast    gaconfig.AgentConfig `toml:"fast"`
	Deep    gaconfig.AgentConfig `toml:"deep"`
	Timeout string               `toml:"timeout"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *AgentsConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation
// to both tiers.
func (c *AgentsConfig) Finalize() error {
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
	if v := os.Getenv(EnvAgentTimeout); v != "" {
		c.Timeout = v
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}

	if c.Fast.Name == "" {
		c.Fast.Name = "jobsift-fast"
	}
	if c.Deep.Name == "" {
		c.Deep.Name = "jobsift-deep"
	}

	if err := finalizeAgent(&c.Fast, fastAgentEnv); err != nil {
		return fmt.Errorf("fast: %w", err)
	}
	if err := finalizeAgent(&c.Deep, deepAgentEnv); err != nil {
		return fmt.Errorf("deep: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *AgentsConfig) Merge(overlay *AgentsConfig) {
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	c.Fast.Merge(&overlay.Fast)
	c.Deep.Merge(&overlay.Deep)
}

// finalizeAgent applies the three-phase finalize pattern to a go-agents
// AgentConfig: library defaults, environment overrides, validation.
func finalizeAgent(c *gaconfig.AgentConfig, env *AgentEnv) error {
	defaults := gaconfig.DefaultAgentConfig()
	defaults.Merge(c)
	*c = defaults

	if c.Provider == nil {
		c.Provider = &gaconfig.ProviderConfig{}
	}
	if c.Provider.Options == nil {
		c.Provider.Options = make(map[string]any)
	}
	if c.Model == nil {
		c.Model = &gaconfig.ModelConfig{}
	}

	if v := os.Getenv(env.ProviderName); v != "" {
		c.Provider.Name = v
	}
	if v := os.Getenv(env.BaseURL); v != "" {
		c.Provider.BaseURL = v
	}
	if v := os.Getenv(env.Token); v != "" {
		c.Provider.Options["token"] = v
	}
	if v := os.Getenv(env.ModelName); v != "" {
		c.Model.Name = v
	}

	if c.Name == "" {
		return fmt.Errorf("name required")
	}
	if c.Provider.Name == "" {
		return fmt.Errorf("provider name required")
	}
	if c.Model == nil {
		return fmt.Errorf("model required")
	}
	return nil
}

// Package config loads the service configuration: a base TOML file, an
// optional per-environment overlay, environment variable overrides, and
// defaults, finalized in that order.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/j2kenton/jobsift/pkg/database"
	"github.com/j2kenton/jobsift/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvJobsiftEnv             = "JOBSIFT_ENV"
	EnvJobsiftShutdownTimeout = "JOBSIFT_SHUTDOWN_TIMEOUT"
	EnvJobsiftVersion         = "JOBSIFT_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "JOBSIFT_DB_HOST",
	Port:            "JOBSIFT_DB_PORT",
	Name:            "JOBSIFT_DB_NAME",
	User:            "JOBSIFT_DB_USER",
	Password:        "JOBSIFT_DB_PASSWORD",
	SSLMode:         "JOBSIFT_DB_SSL_MODE",
	MaxOpenConns:    "JOBSIFT_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "JOBSIFT_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "JOBSIFT_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "JOBSIFT_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "JOBSIFT_STORAGE_CONTAINER_NAME",
	ConnectionString: "JOBSIFT_STORAGE_CONNECTION_STRING",
}

// Config is the root configuration for the jobsift service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	API             APIConfig       `toml:"api"`
	Agents          AgentsConfig    `toml:"agents"`
	Pipeline        PipelineConfig  `toml:"pipeline"`
	Mail            MailConfig      `toml:"mail"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the JOBSIFT_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvJobsiftEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and
// environment variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Agents.Merge(&overlay.Agents)
	c.Pipeline.Merge(&overlay.Pipeline)
	c.Mail.Merge(&overlay.Mail)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Agents.Finalize(); err != nil {
		return fmt.Errorf("agents: %w", err)
	}
	if err := c.Pipeline.Finalize(); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	if err := c.Mail.Finalize(); err != nil {
		return fmt.Errorf("mail: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvJobsiftShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvJobsiftVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvJobsiftEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

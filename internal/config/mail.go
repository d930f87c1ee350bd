package config

import (
	"fmt"
	"os"
)

const (
	EnvMailHost     = "JOBSIFT_MAIL_HOST"
	EnvMailUsername = "JOBSIFT_MAIL_USERNAME"
	EnvMailPassword = "JOBSIFT_MAIL_PASSWORD"
	EnvMailMailbox  = "JOBSIFT_MAIL_MAILBOX"
)

// MailConfig holds IMAP mailbox connection settings. The password comes
// from the environment only; it has no TOML field.
type MailConfig struct {
	Host     string `toml:"host"`
	Username string `toml:"username"`
	Password string `toml:"-"`
	Mailbox  string `toml:"mailbox"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *MailConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *MailConfig) Merge(overlay *MailConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Username != "" {
		c.Username = overlay.Username
	}
	if overlay.Mailbox != "" {
		c.Mailbox = overlay.Mailbox
	}
}

func (c *MailConfig) loadDefaults() {
	if c.Mailbox == "" {
		c.Mailbox = "INBOX"
	}
}

func (c *MailConfig) loadEnv() {
	if v := os.Getenv(EnvMailHost); v != "" {
		c.Host = v
	}
	if v := os.Getenv(EnvMailUsername); v != "" {
		c.Username = v
	}
	if v := os.Getenv(EnvMailPassword); v != "" {
		c.Password = v
	}
	if v := os.Getenv(EnvMailMailbox); v != "" {
		c.Mailbox = v
	}
}

func (c *MailConfig) validate() error {
	if c.Host == "" {
		return fmt.Errorf("host required")
	}
	if c.Username == "" {
		return fmt.Errorf("username required")
	}
	return nil
}

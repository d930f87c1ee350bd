// Package mail defines the inbound email source abstraction and its IMAP
// implementation. Sources deliver raw emails; all interpretation happens
// downstream.
package mail

import (
	"context"
	"errors"
	"time"
)

// RawEmail is an unprocessed message as it arrived from the mailbox.
type RawEmail struct {
	ID         string    `json:"id"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	Sender     string    `json:"sender"`
	ReceivedAt time.Time `json:"received_at"`
	ThreadID   string    `json:"thread_id,omitempty"`
	Raw        []byte    `json:"-"`
}

// Window bounds a fetch to messages received within [Since, Before).
type Window struct {
	Since  time.Time
	Before time.Time
}

// Source yields raw emails for a time window. Implementations own their
// connection lifecycle per call.
type Source interface {
	Fetch(ctx context.Context, window Window, limit int) ([]RawEmail, error)
}

var (
	// ErrSourceUnavailable wraps connection and authentication failures.
	ErrSourceUnavailable = errors.New("mail source unavailable")
)

package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"strings"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message"
)

// IMAPConfig holds connection settings for an IMAP mailbox.
type IMAPConfig struct {
	Host     string
	Username string
	Password string
	Mailbox  string
}

// IMAPSource fetches messages over IMAP with TLS. Each Fetch call dials,
// authenticates, and logs out; no connection is held between runs.
type IMAPSource struct {
	cfg    IMAPConfig
	logger *slog.Logger
}

// NewIMAPSource constructs a source for the configured mailbox.
func NewIMAPSource(cfg IMAPConfig, logger *slog.Logger) *IMAPSource {
	return &IMAPSource{
		cfg:    cfg,
		logger: logger.With("system", "mail"),
	}
}

// Fetch retrieves up to limit messages received within the window, oldest
// first. Messages that fail body parsing are returned with an empty body
// rather than dropped; envelope data alone is often enough downstream.
func (s *IMAPSource) Fetch(ctx context.Context, window Window, limit int) ([]RawEmail, error) {
	c, err := client.DialTLS(s.cfg.Host, &tls.Config{})
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %w", ErrSourceUnavailable, s.cfg.Host, err)
	}
	defer c.Close()

	if err := c.Login(s.cfg.Username, s.cfg.Password); err != nil {
		return nil, fmt.Errorf("%w: login: %w", ErrSourceUnavailable, err)
	}
	defer c.Logout()

	mbox, err := c.Select(s.cfg.Mailbox, true)
	if err != nil {
		return nil, fmt.Errorf("%w: select %s: %w", ErrSourceUnavailable, s.cfg.Mailbox, err)
	}
	if mbox.Messages == 0 {
		return []RawEmail{}, nil
	}

	criteria := imap.NewSearchCriteria()
	criteria.Since = window.Since
	criteria.Before = window.Before

	ids, err := c.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("%w: search: %w", ErrSourceUnavailable, err)
	}
	if len(ids) == 0 {
		return []RawEmail{}, nil
	}
	if len(ids) > limit {
		ids = ids[:limit]
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchEnvelope, imap.FetchUid, section.FetchItem()}

	messages := make(chan *imap.Message, len(ids))
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqset, items, messages)
	}()

	emails := make([]RawEmail, 0, len(ids))
	for msg := range messages {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		emails = append(emails, s.convert(msg, section))
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("%w: fetch: %w", ErrSourceUnavailable, err)
	}

	s.logger.Info(
		"mailbox fetch complete",
		"mailbox", s.cfg.Mailbox,
		"count", len(emails),
	)

	return emails, nil
}

func (s *IMAPSource) convert(msg *imap.Message, section *imap.BodySectionName) RawEmail {
	email := RawEmail{
		ID: fmt.Sprintf("%d", msg.Uid),
	}

	if env := msg.Envelope; env != nil {
		email.Subject = env.Subject
		email.ReceivedAt = env.Date
		if len(env.From) > 0 {
			email.Sender = env.From[0].Address()
		}
		if env.MessageId != "" && email.ID == "0" {
			email.ID = env.MessageId
		}
		email.ThreadID = threadID(env)
	}

	body := msg.GetBody(section)
	if body == nil {
		return email
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		s.logger.Warn("read message body failed", "id", email.ID, "error", err)
		return email
	}
	email.Raw = raw

	text, err := extractText(raw)
	if err != nil {
		s.logger.Warn("parse message body failed", "id", email.ID, "error", err)
		return email
	}
	email.Body = text

	return email
}

// threadID groups replies with the message that started the thread. The
// earliest reference wins; a standalone message threads on its own ID.
func threadID(env *imap.Envelope) string {
	if env.InReplyTo != "" {
		return env.InReplyTo
	}
	return env.MessageId
}

// extractText walks the MIME tree and returns the first text/plain part,
// falling back to text/html with tags left intact.
func extractText(raw []byte) (string, error) {
	entity, err := message.Read(strings.NewReader(string(raw)))
	if err != nil && !message.IsUnknownCharset(err) {
		return "", err
	}

	var plain, html string
	walk(entity, &plain, &html)

	if plain != "" {
		return plain, nil
	}
	return html, nil
}

func walk(entity *message.Entity, plain, html *string) {
	if mr := entity.MultipartReader(); mr != nil {
		for {
			part, err := mr.NextPart()
			if err != nil {
				return
			}
			walk(part, plain, html)
			if *plain != "" {
				return
			}
		}
	}

	mediaType, _, err := mime.ParseMediaType(entity.Header.Get("Content-Type"))
	if err != nil {
		mediaType = "text/plain"
	}

	switch mediaType {
	case "text/plain":
		if *plain == "" {
			if data, err := io.ReadAll(entity.Body); err == nil {
				*plain = string(data)
			}
		}
	case "text/html":
		if *html == "" {
			if data, err := io.ReadAll(entity.Body); err == nil {
				*html = string(data)
			}
		}
	}
}

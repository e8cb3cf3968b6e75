// Package notify sends transactional email and syncs newsletter
// subscribers with the hosted mailing-list provider.
package notify

import (
	"context"
	"fmt"
	"net/http"

	"studio-site/internal/config"
	"studio-site/internal/logger"
)

// Message is a plain-text email.
type Message struct {
	To      string
	ReplyTo string
	Subject string
	Text    string
}

// Mailer delivers email.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NewMailer returns an HTTP mailer for the configured email API, or a
// mailer that only logs when no endpoint is set.
func NewMailer(cfg config.EmailConfig, log logger.Logger) Mailer {
	if cfg.Endpoint == "" {
		return &LogMailer{log: log}
	}
	return &HTTPMailer{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		from:     cfg.From,
		client:   &http.Client{},
	}
}

// HTTPMailer posts messages to a hosted email API.
type HTTPMailer struct {
	endpoint string
	apiKey   string
	from     string
	client   *http.Client
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	ReplyTo string   `json:"reply_to,omitempty"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

// Send implements Mailer.
func (m *HTTPMailer) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("send email %q: no recipient", msg.Subject)
	}
	req := sendRequest{
		From:    m.from,
		To:      []string{msg.To},
		ReplyTo: msg.ReplyTo,
		Subject: msg.Subject,
		Text:    msg.Text,
	}
	if err := postJSON(ctx, m.client, m.endpoint, m.apiKey, req); err != nil {
		return fmt.Errorf("send email %q: %w", msg.Subject, err)
	}
	return nil
}

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct {
	log logger.Logger
}

// Send implements Mailer.
func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	m.log.With(map[string]interface{}{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info("Email API not configured, message not sent")
	return nil
}

package service

import (
	"context"

	"studio-site/internal/logger"
	"studio-site/internal/notify"
)

// SettingReader reads the key/value settings.
type SettingReader interface {
	GetAll(ctx context.Context) (map[string]string, error)
}

// Notifier sends the transactional emails of the site. Sending is best
// effort: failures are logged and never returned.
type Notifier struct {
	mailer       notify.Mailer
	settings     SettingReader
	adminAddress string
	baseURL      string
	log          logger.Logger
}

// NewNotifier creates a Notifier. settings may be nil.
func NewNotifier(mailer notify.Mailer, settings SettingReader, adminAddress, baseURL string, log logger.Logger) *Notifier {
	return &Notifier{mailer: mailer, settings: settings, adminAddress: adminAddress, baseURL: baseURL, log: log}
}

// URL returns the absolute URL of a site path.
func (n *Notifier) URL(path string) string {
	if n == nil {
		return path
	}
	return n.baseURL + path
}

func (n *Notifier) siteName(ctx context.Context) string {
	if n.settings != nil {
		if values, err := n.settings.GetAll(ctx); err == nil && values["site_name"] != "" {
			return values["site_name"]
		}
	}
	return "Studio"
}

// toAdmin sends an email of the given kind to the studio inbox.
func (n *Notifier) toAdmin(ctx context.Context, kind string, data map[string]interface{}, replyTo string) {
	if n == nil {
		return
	}
	if n.adminAddress == "" {
		n.log.Debug("No admin address configured, skipping " + kind + " email")
		return
	}
	n.send(ctx, kind, n.adminAddress, data, replyTo)
}

func (n *Notifier) send(ctx context.Context, kind, to string, data map[string]interface{}, replyTo string) {
	if n == nil || n.mailer == nil || to == "" {
		return
	}
	data["SiteName"] = n.siteName(ctx)
	msg, err := notify.Compose(kind, to, data)
	if err != nil {
		n.log.Error(err, "Failed to compose email")
		return
	}
	msg.ReplyTo = replyTo
	if err := n.mailer.Send(ctx, msg); err != nil {
		n.log.With(map[string]interface{}{"kind": kind}).Warn("Email not sent: " + err.Error())
	}
}

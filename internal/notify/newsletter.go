package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"studio-site/internal/config"
)

// ErrNotConfigured is returned by a list provider without an endpoint.
var ErrNotConfigured = errors.New("mailing list provider not configured")

// Subscription is a contact pushed to the mailing list.
type Subscription struct {
	Email string
	Name  string
}

// ListProvider adds contacts to the newsletter mailing list.
type ListProvider interface {
	Subscribe(ctx context.Context, sub Subscription) error
}

// NewListProvider returns a provider for the configured endpoint. Without
// an endpoint every call fails with ErrNotConfigured.
func NewListProvider(cfg config.NewsletterConfig) ListProvider {
	if cfg.Endpoint == "" {
		return disabledList{}
	}
	return &HTTPListProvider{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		listID:   cfg.ListID,
		client:   &http.Client{},
	}
}

// HTTPListProvider posts contacts to a hosted mailing-list API.
type HTTPListProvider struct {
	endpoint string
	apiKey   string
	listID   string
	client   *http.Client
}

type contactRequest struct {
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	ListID string `json:"list_id,omitempty"`
}

// Subscribe implements ListProvider.
func (p *HTTPListProvider) Subscribe(ctx context.Context, sub Subscription) error {
	req := contactRequest{Email: sub.Email, Name: sub.Name, ListID: p.listID}
	if err := postJSON(ctx, p.client, p.endpoint, p.apiKey, req); err != nil {
		return fmt.Errorf("subscribe %s: %w", sub.Email, err)
	}
	return nil
}

type disabledList struct{}

func (disabledList) Subscribe(context.Context, Subscription) error {
	return ErrNotConfigured
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"studio-site/internal/data"
	"studio-site/internal/logger"
	"studio-site/internal/notify"
	"studio-site/internal/validate"

	"github.com/google/uuid"
)

// SubscriberRepository defines the database operations on newsletter
// subscribers.
type SubscriberRepository interface {
	List(ctx context.Context) ([]*data.Subscriber, error)
	GetByEmail(ctx context.Context, email string) (*data.Subscriber, error)
	GetByToken(ctx context.Context, token string) (*data.Subscriber, error)
	Create(ctx context.Context, subscriber *data.Subscriber) error
	SetStatus(ctx context.Context, id int64, status string) error
	MarkSynced(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

// NewsletterService keeps the local subscriber list and pushes sign-ups to
// the mailing-list provider when one is configured.
type NewsletterService struct {
	subscribers SubscriberRepository
	provider    notify.ListProvider
	log         logger.Logger
}

// NewNewsletterService creates a new NewsletterService. provider may be nil.
func NewNewsletterService(subscribers SubscriberRepository, provider notify.ListProvider, log logger.Logger) *NewsletterService {
	return &NewsletterService{subscribers: subscribers, provider: provider, log: log}
}

// Subscribe records a sign-up. The local record is always kept; a provider
// that is missing or failing leaves it unsynced. Signing up twice is not
// an error.
func (s *NewsletterService) Subscribe(ctx context.Context, in SubscribeInput) (*data.Subscriber, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	sub, err := s.subscribers.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		if sub.Status != data.SubscriberActive {
			if err := s.subscribers.SetStatus(ctx, sub.ID, data.SubscriberActive); err != nil {
				return nil, err
			}
			sub.Status = data.SubscriberActive
		}
	case errors.Is(err, data.ErrNotFound):
		sub = &data.Subscriber{
			Email:  in.Email,
			Name:   in.Name,
			Status: data.SubscriberActive,
			Token:  uuid.NewString(),
		}
		if err := s.subscribers.Create(ctx, sub); err != nil {
			return nil, fmt.Errorf("failed to store subscriber: %w", err)
		}
	default:
		return nil, err
	}

	if !sub.Synced {
		s.sync(ctx, sub)
	}
	return sub, nil
}

func (s *NewsletterService) sync(ctx context.Context, sub *data.Subscriber) {
	if s.provider == nil {
		return
	}
	err := s.provider.Subscribe(ctx, notify.Subscription{Email: sub.Email, Name: sub.Name})
	switch {
	case errors.Is(err, notify.ErrNotConfigured):
		s.log.Info("Mailing list not configured, subscriber kept locally")
	case err != nil:
		s.log.With(map[string]interface{}{"subscriber_id": sub.ID}).Warn("Mailing list sync failed: " + err.Error())
	default:
		if err := s.subscribers.MarkSynced(ctx, sub.ID); err != nil {
			s.log.Error(err, "Failed to mark subscriber synced")
			return
		}
		sub.Synced = true
	}
}

// Unsubscribe turns off the subscription behind an unsubscribe link.
func (s *NewsletterService) Unsubscribe(ctx context.Context, token string) (*data.Subscriber, error) {
	if _, err := uuid.Parse(token); err != nil {
		return nil, fmt.Errorf("invalid unsubscribe token: %w", data.ErrNotFound)
	}
	sub, err := s.subscribers.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if sub.Status == data.SubscriberUnsubscribed {
		return sub, nil
	}
	if err := s.subscribers.SetStatus(ctx, sub.ID, data.SubscriberUnsubscribed); err != nil {
		return nil, err
	}
	sub.Status = data.SubscriberUnsubscribed
	return sub, nil
}

// List returns every subscriber.
func (s *NewsletterService) List(ctx context.Context) ([]*data.Subscriber, error) {
	return s.subscribers.List(ctx)
}

// Delete removes a subscriber.
func (s *NewsletterService) Delete(ctx context.Context, id int64) error {
	return s.subscribers.Delete(ctx, id)
}

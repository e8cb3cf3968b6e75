package data

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const subscriberColumns = `id, email, name, status, synced, token, created_at`

// SubscriberRepository handles database operations for newsletter subscribers.
type SubscriberRepository struct {
	db *sqlx.DB
}

// NewSubscriberRepository creates a new SubscriberRepository.
func NewSubscriberRepository(db *sqlx.DB) *SubscriberRepository {
	return &SubscriberRepository{db: db}
}

// List returns all subscribers, newest first.
func (r *SubscriberRepository) List(ctx context.Context) ([]*Subscriber, error) {
	var subscribers []*Subscriber
	if err := r.db.SelectContext(ctx, &subscribers, `SELECT `+subscriberColumns+` FROM subscribers ORDER BY created_at DESC, id DESC`); err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	return subscribers, nil
}

// GetByEmail finds a subscriber by email address.
func (r *SubscriberRepository) GetByEmail(ctx context.Context, email string) (*Subscriber, error) {
	var subscriber Subscriber
	if err := getOne(ctx, r.db, &subscriber, `SELECT `+subscriberColumns+` FROM subscribers WHERE email = ?`, email); err != nil {
		return nil, fmt.Errorf("subscriber %q: %w", email, err)
	}
	return &subscriber, nil
}

// GetByToken finds a subscriber by unsubscribe token.
func (r *SubscriberRepository) GetByToken(ctx context.Context, token string) (*Subscriber, error) {
	var subscriber Subscriber
	if err := getOne(ctx, r.db, &subscriber, `SELECT `+subscriberColumns+` FROM subscribers WHERE token = ?`, token); err != nil {
		return nil, fmt.Errorf("subscriber token: %w", err)
	}
	return &subscriber, nil
}

// Create inserts a subscriber and fills in its ID.
func (r *SubscriberRepository) Create(ctx context.Context, subscriber *Subscriber) error {
	subscriber.CreatedAt = time.Now().UTC()
	id, err := insert(ctx, r.db, `INSERT INTO subscribers (email, name, status, synced, token, created_at)
		VALUES (:email, :name, :status, :synced, :token, :created_at)`, subscriber)
	if err != nil {
		return fmt.Errorf("failed to create subscriber: %w", err)
	}
	subscriber.ID = id
	return nil
}

// SetStatus changes a subscriber's status.
func (r *SubscriberRepository) SetStatus(ctx context.Context, id int64, status string) error {
	if err := execOne(ctx, r.db, `UPDATE subscribers SET status = ? WHERE id = ?`, status, id); err != nil {
		return fmt.Errorf("failed to set status of subscriber %d: %w", id, err)
	}
	return nil
}

// MarkSynced records that the mailing-list provider accepted the subscriber.
func (r *SubscriberRepository) MarkSynced(ctx context.Context, id int64) error {
	if err := execOne(ctx, r.db, `UPDATE subscribers SET synced = ? WHERE id = ?`, true, id); err != nil {
		return fmt.Errorf("failed to mark subscriber %d synced: %w", id, err)
	}
	return nil
}

// Delete removes a subscriber by ID.
func (r *SubscriberRepository) Delete(ctx context.Context, id int64) error {
	if err := execOne(ctx, r.db, `DELETE FROM subscribers WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete subscriber %d: %w", id, err)
	}
	return nil
}

// Count counts active subscribers.
func (r *SubscriberRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM subscribers WHERE status = ?`, SubscriberActive); err != nil {
		return 0, fmt.Errorf("failed to count subscribers: %w", err)
	}
	return n, nil
}

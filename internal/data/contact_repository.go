package data

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const contactColumns = `id, name, email, phone, company, subject, message, status, created_at, updated_at`

// ContactRepository handles database operations for contact form messages.
type ContactRepository struct {
	db *sqlx.DB
}

// NewContactRepository creates a new ContactRepository.
func NewContactRepository(db *sqlx.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// List returns all contact messages, newest first.
func (r *ContactRepository) List(ctx context.Context) ([]*Contact, error) {
	var contacts []*Contact
	if err := r.db.SelectContext(ctx, &contacts, `SELECT `+contactColumns+` FROM contacts ORDER BY created_at DESC, id DESC`); err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, nil
}

// GetByID finds a contact message by its ID.
func (r *ContactRepository) GetByID(ctx context.Context, id int64) (*Contact, error) {
	var contact Contact
	if err := getOne(ctx, r.db, &contact, `SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("contact %d: %w", id, err)
	}
	return &contact, nil
}

// Create inserts a contact message and fills in its ID and timestamps.
func (r *ContactRepository) Create(ctx context.Context, contact *Contact) error {
	now := time.Now().UTC()
	contact.CreatedAt, contact.UpdatedAt = now, now
	query := `INSERT INTO contacts (name, email, phone, company, subject, message, status, created_at, updated_at)
		VALUES (:name, :email, :phone, :company, :subject, :message, :status, :created_at, :updated_at)`
	id, err := insert(ctx, r.db, query, contact)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	contact.ID = id
	return nil
}

// Update saves changes to an existing contact message.
func (r *ContactRepository) Update(ctx context.Context, contact *Contact) error {
	contact.UpdatedAt = time.Now().UTC()
	query := `UPDATE contacts SET name = :name, email = :email, phone = :phone, company = :company,
		subject = :subject, message = :message, status = :status, updated_at = :updated_at WHERE id = :id`
	if err := namedExecOne(ctx, r.db, query, contact); err != nil {
		return fmt.Errorf("failed to update contact %d: %w", contact.ID, err)
	}
	return nil
}

// SetStatus changes the processing status of a contact message.
func (r *ContactRepository) SetStatus(ctx context.Context, id int64, status string) error {
	err := execOne(ctx, r.db, `UPDATE contacts SET status = ?, updated_at = ? WHERE id = ?`, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to set status of contact %d: %w", id, err)
	}
	return nil
}

// Delete removes a contact message by its ID.
func (r *ContactRepository) Delete(ctx context.Context, id int64) error {
	if err := execOne(ctx, r.db, `DELETE FROM contacts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete contact %d: %w", id, err)
	}
	return nil
}

// CountByStatus counts contact messages in the given status.
func (r *ContactRepository) CountByStatus(ctx context.Context, status string) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM contacts WHERE status = ?`, status); err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return n, nil
}

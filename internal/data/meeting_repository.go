package data

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const meetingColumns = `id, name, email, phone, company, topic, preferred_at, duration_minutes, message, status, created_at, updated_at`

// MeetingRepository handles database operations for booking requests.
type MeetingRepository struct {
	db *sqlx.DB
}

// NewMeetingRepository creates a new MeetingRepository.
func NewMeetingRepository(db *sqlx.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

// List returns all meetings ordered by their requested date.
func (r *MeetingRepository) List(ctx context.Context) ([]*Meeting, error) {
	var meetings []*Meeting
	if err := r.db.SelectContext(ctx, &meetings, `SELECT `+meetingColumns+` FROM meetings ORDER BY preferred_at DESC, id DESC`); err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	return meetings, nil
}

// GetByID finds a meeting by its ID.
func (r *MeetingRepository) GetByID(ctx context.Context, id int64) (*Meeting, error) {
	var meeting Meeting
	if err := getOne(ctx, r.db, &meeting, `SELECT `+meetingColumns+` FROM meetings WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("meeting %d: %w", id, err)
	}
	return &meeting, nil
}

// Create inserts a meeting and fills in its ID and timestamps.
func (r *MeetingRepository) Create(ctx context.Context, meeting *Meeting) error {
	now := time.Now().UTC()
	meeting.CreatedAt, meeting.UpdatedAt = now, now
	query := `INSERT INTO meetings (name, email, phone, company, topic, preferred_at, duration_minutes, message, status, created_at, updated_at)
		VALUES (:name, :email, :phone, :company, :topic, :preferred_at, :duration_minutes, :message, :status, :created_at, :updated_at)`
	id, err := insert(ctx, r.db, query, meeting)
	if err != nil {
		return fmt.Errorf("failed to create meeting: %w", err)
	}
	meeting.ID = id
	return nil
}

// Update saves changes to an existing meeting.
func (r *MeetingRepository) Update(ctx context.Context, meeting *Meeting) error {
	meeting.UpdatedAt = time.Now().UTC()
	query := `UPDATE meetings SET name = :name, email = :email, phone = :phone, company = :company, topic = :topic,
		preferred_at = :preferred_at, duration_minutes = :duration_minutes, message = :message, status = :status,
		updated_at = :updated_at WHERE id = :id`
	if err := namedExecOne(ctx, r.db, query, meeting); err != nil {
		return fmt.Errorf("failed to update meeting %d: %w", meeting.ID, err)
	}
	return nil
}

// Delete removes a meeting by its ID.
func (r *MeetingRepository) Delete(ctx context.Context, id int64) error {
	if err := execOne(ctx, r.db, `DELETE FROM meetings WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete meeting %d: %w", id, err)
	}
	return nil
}

// CountByStatus counts meetings in the given status.
func (r *MeetingRepository) CountByStatus(ctx context.Context, status string) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM meetings WHERE status = ?`, status); err != nil {
		return 0, fmt.Errorf("failed to count meetings: %w", err)
	}
	return n, nil
}

package data

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const commentSelect = `SELECT m.id, m.post_id, m.parent_id, m.author_name, m.author_email, m.content, m.status,
	m.is_admin_reply, m.created_at, m.updated_at, p.title AS post_title, p.slug AS post_slug
	FROM blog_comments m JOIN blog_posts p ON p.id = m.post_id`

// CommentRepository handles database operations for blog comments.
type CommentRepository struct {
	db *sqlx.DB
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(db *sqlx.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// ListByPost returns the comments of a post, oldest first. An empty status
// returns every status.
func (r *CommentRepository) ListByPost(ctx context.Context, postID int64, status string) ([]*Comment, error) {
	query := commentSelect + ` WHERE m.post_id = ?`
	args := []interface{}{postID}
	if status != "" {
		query += ` AND m.status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY m.created_at, m.id`

	var comments []*Comment
	if err := r.db.SelectContext(ctx, &comments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list comments for post %d: %w", postID, err)
	}
	return comments, nil
}

// ListAll returns comments across all posts, grouped by post and oldest
// first within a post. An empty status returns every status.
func (r *CommentRepository) ListAll(ctx context.Context, status string) ([]*Comment, error) {
	query := commentSelect
	var args []interface{}
	if status != "" {
		query += ` WHERE m.status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY m.post_id DESC, m.created_at, m.id`

	var comments []*Comment
	if err := r.db.SelectContext(ctx, &comments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// GetByID retrieves a single comment with its post title and slug.
func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*Comment, error) {
	var comment Comment
	if err := getOne(ctx, r.db, &comment, commentSelect+` WHERE m.id = ?`, id); err != nil {
		return nil, fmt.Errorf("comment %d: %w", id, err)
	}
	return &comment, nil
}

// Create inserts a comment and fills in its ID and timestamps.
func (r *CommentRepository) Create(ctx context.Context, comment *Comment) error {
	now := time.Now().UTC()
	comment.CreatedAt, comment.UpdatedAt = now, now
	query := `INSERT INTO blog_comments (post_id, parent_id, author_name, author_email, content, status, is_admin_reply, created_at, updated_at)
		VALUES (:post_id, :parent_id, :author_name, :author_email, :content, :status, :is_admin_reply, :created_at, :updated_at)`
	id, err := insert(ctx, r.db, query, comment)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	comment.ID = id
	return nil
}

// SetStatus changes the moderation status of a comment.
func (r *CommentRepository) SetStatus(ctx context.Context, id int64, status string) error {
	err := execOne(ctx, r.db, `UPDATE blog_comments SET status = ?, updated_at = ? WHERE id = ?`, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to set status of comment %d: %w", id, err)
	}
	return nil
}

// Delete removes a single comment. Its replies are kept and become orphans.
func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	if err := execOne(ctx, r.db, `DELETE FROM blog_comments WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete comment %d: %w", id, err)
	}
	return nil
}

// CountByStatus counts comments in the given status.
func (r *CommentRepository) CountByStatus(ctx context.Context, status string) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM blog_comments WHERE status = ?`, status); err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return n, nil
}

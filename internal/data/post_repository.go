package data

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

const postSelect = `SELECT p.id, p.title, p.slug, p.excerpt, p.content, p.cover_image, p.category_id, p.author_id,
	p.status, p.published_at, p.created_at, p.updated_at,
	COALESCE(c.name, '') AS category_name, COALESCE(c.slug, '') AS category_slug
	FROM blog_posts p LEFT JOIN blog_categories c ON c.id = p.category_id`

// PostFilter narrows the public post listing. A zero Limit means no limit.
type PostFilter struct {
	CategorySlug string
	Search       string
	Limit        int
	Offset       int
}

// PostRepository handles database operations for blog posts.
type PostRepository struct {
	db *sqlx.DB
}

// NewPostRepository creates a new PostRepository.
func NewPostRepository(db *sqlx.DB) *PostRepository {
	return &PostRepository{db: db}
}

// List returns every post, newest first, for the back-office.
func (r *PostRepository) List(ctx context.Context) ([]*Post, error) {
	var posts []*Post
	if err := r.db.SelectContext(ctx, &posts, postSelect+` ORDER BY p.created_at DESC, p.id DESC`); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// ListPublished returns published posts matching the filter, newest first,
// together with the total number of matches.
func (r *PostRepository) ListPublished(ctx context.Context, filter PostFilter) ([]*Post, int, error) {
	where := []string{"p.status = ?"}
	args := []interface{}{PostPublished}
	if filter.CategorySlug != "" {
		where = append(where, "c.slug = ?")
		args = append(args, filter.CategorySlug)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := containsPattern(s)
		where = append(where, "(p.title LIKE ? ESCAPE '!' OR p.excerpt LIKE ? ESCAPE '!' OR p.content LIKE ? ESCAPE '!')")
		args = append(args, like, like, like)
	}
	clause := " WHERE " + strings.Join(where, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM blog_posts p LEFT JOIN blog_categories c ON c.id = p.category_id` + clause
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count published posts: %w", err)
	}

	query := postSelect + clause + ` ORDER BY p.published_at DESC, p.id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}
	var posts []*Post
	if err := r.db.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list published posts: %w", err)
	}
	return posts, total, nil
}

// GetByID retrieves a single post by its ID.
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*Post, error) {
	var post Post
	if err := getOne(ctx, r.db, &post, postSelect+` WHERE p.id = ?`, id); err != nil {
		return nil, fmt.Errorf("post %d: %w", id, err)
	}
	return &post, nil
}

// GetBySlug retrieves a single post by its slug, whatever its status.
func (r *PostRepository) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	var post Post
	if err := getOne(ctx, r.db, &post, postSelect+` WHERE p.slug = ?`, slug); err != nil {
		return nil, fmt.Errorf("post %q: %w", slug, err)
	}
	return &post, nil
}

// Create inserts a new post and fills in its ID and timestamps.
func (r *PostRepository) Create(ctx context.Context, post *Post) error {
	now := time.Now().UTC()
	post.CreatedAt, post.UpdatedAt = now, now
	query := `INSERT INTO blog_posts (title, slug, excerpt, content, cover_image, category_id, author_id, status, published_at, created_at, updated_at)
		VALUES (:title, :slug, :excerpt, :content, :cover_image, :category_id, :author_id, :status, :published_at, :created_at, :updated_at)`
	id, err := insert(ctx, r.db, query, post)
	if err != nil {
		return fmt.Errorf("failed to execute create post query: %w", err)
	}
	post.ID = id
	return nil
}

// Update updates an existing post.
func (r *PostRepository) Update(ctx context.Context, post *Post) error {
	post.UpdatedAt = time.Now().UTC()
	query := `UPDATE blog_posts SET title = :title, slug = :slug, excerpt = :excerpt, content = :content,
		cover_image = :cover_image, category_id = :category_id, status = :status, published_at = :published_at,
		updated_at = :updated_at WHERE id = :id`
	if err := namedExecOne(ctx, r.db, query, post); err != nil {
		return fmt.Errorf("failed to update post %d: %w", post.ID, err)
	}
	return nil
}

// Delete removes a post and, through the foreign key, its comments.
func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	if err := execOne(ctx, r.db, `DELETE FROM blog_posts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete post %d: %w", id, err)
	}
	return nil
}

// CountByStatus counts posts in the given status.
func (r *PostRepository) CountByStatus(ctx context.Context, status string) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM blog_posts WHERE status = ?`, status); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return n, nil
}

// likeEscaper quotes LIKE wildcards with '!', which needs no escaping in
// either MySQL or SQLite string literals.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern returns a LIKE pattern matching s literally anywhere in
// a column. Queries using it must declare ESCAPE '!'.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

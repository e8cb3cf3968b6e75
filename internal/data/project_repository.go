package data

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const projectColumns = `id, title, slug, client, summary, image_url, link_url, position, is_published, created_at, updated_at`

// ProjectRepository handles database operations for portfolio projects.
type ProjectRepository struct {
	db *sqlx.DB
}

// NewProjectRepository creates a new ProjectRepository.
func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// List returns every project in display order.
func (r *ProjectRepository) List(ctx context.Context) ([]*Project, error) {
	var projects []*Project
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY position, id`
	if err := r.db.SelectContext(ctx, &projects, query); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// ListPublished returns the projects shown in the public portfolio.
func (r *ProjectRepository) ListPublished(ctx context.Context) ([]*Project, error) {
	var projects []*Project
	query := `SELECT ` + projectColumns + ` FROM projects WHERE is_published = ? ORDER BY position, id`
	if err := r.db.SelectContext(ctx, &projects, query, true); err != nil {
		return nil, fmt.Errorf("failed to list published projects: %w", err)
	}
	return projects, nil
}

// GetByID finds a project by its ID.
func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*Project, error) {
	var project Project
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	if err := getOne(ctx, r.db, &project, query, id); err != nil {
		return nil, fmt.Errorf("project %d: %w", id, err)
	}
	return &project, nil
}

// GetBySlug finds a project by its slug.
func (r *ProjectRepository) GetBySlug(ctx context.Context, slug string) (*Project, error) {
	var project Project
	query := `SELECT ` + projectColumns + ` FROM projects WHERE slug = ?`
	if err := getOne(ctx, r.db, &project, query, slug); err != nil {
		return nil, fmt.Errorf("project %q: %w", slug, err)
	}
	return &project, nil
}

// Create inserts a project and fills in its ID and timestamps.
func (r *ProjectRepository) Create(ctx context.Context, project *Project) error {
	now := time.Now().UTC()
	project.CreatedAt, project.UpdatedAt = now, now
	query := `INSERT INTO projects (title, slug, client, summary, image_url, link_url, position, is_published, created_at, updated_at)
		VALUES (:title, :slug, :client, :summary, :image_url, :link_url, :position, :is_published, :created_at, :updated_at)`
	id, err := insert(ctx, r.db, query, project)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	project.ID = id
	return nil
}

// Update saves changes to an existing project.
func (r *ProjectRepository) Update(ctx context.Context, project *Project) error {
	project.UpdatedAt = time.Now().UTC()
	query := `UPDATE projects SET title = :title, slug = :slug, client = :client, summary = :summary,
		image_url = :image_url, link_url = :link_url, position = :position, is_published = :is_published,
		updated_at = :updated_at WHERE id = :id`
	if err := namedExecOne(ctx, r.db, query, project); err != nil {
		return fmt.Errorf("failed to update project %d: %w", project.ID, err)
	}
	return nil
}

// Delete removes a project by its ID.
func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	if err := execOne(ctx, r.db, `DELETE FROM projects WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete project %d: %w", id, err)
	}
	return nil
}

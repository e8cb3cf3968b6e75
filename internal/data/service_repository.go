package data

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const serviceColumns = `id, title, slug, summary, description, icon, position, is_published, created_at, updated_at`

// ServiceRepository handles database operations for the studio's service offerings.
type ServiceRepository struct {
	db *sqlx.DB
}

// NewServiceRepository creates a new ServiceRepository.
func NewServiceRepository(db *sqlx.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

// List returns every service in display order.
func (r *ServiceRepository) List(ctx context.Context) ([]*Service, error) {
	var services []*Service
	query := `SELECT ` + serviceColumns + ` FROM services ORDER BY position, id`
	if err := r.db.SelectContext(ctx, &services, query); err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}

// ListPublished returns the services visible on the public site.
func (r *ServiceRepository) ListPublished(ctx context.Context) ([]*Service, error) {
	var services []*Service
	query := `SELECT ` + serviceColumns + ` FROM services WHERE is_published = ? ORDER BY position, id`
	if err := r.db.SelectContext(ctx, &services, query, true); err != nil {
		return nil, fmt.Errorf("failed to list published services: %w", err)
	}
	return services, nil
}

// GetByID finds a service by its ID.
func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (*Service, error) {
	var service Service
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = ?`
	if err := getOne(ctx, r.db, &service, query, id); err != nil {
		return nil, fmt.Errorf("service %d: %w", id, err)
	}
	return &service, nil
}

// GetBySlug finds a service by its slug.
func (r *ServiceRepository) GetBySlug(ctx context.Context, slug string) (*Service, error) {
	var service Service
	query := `SELECT ` + serviceColumns + ` FROM services WHERE slug = ?`
	if err := getOne(ctx, r.db, &service, query, slug); err != nil {
		return nil, fmt.Errorf("service %q: %w", slug, err)
	}
	return &service, nil
}

// Create inserts a service and fills in its ID and timestamps.
func (r *ServiceRepository) Create(ctx context.Context, service *Service) error {
	now := time.Now().UTC()
	service.CreatedAt, service.UpdatedAt = now, now
	query := `INSERT INTO services (title, slug, summary, description, icon, position, is_published, created_at, updated_at)
		VALUES (:title, :slug, :summary, :description, :icon, :position, :is_published, :created_at, :updated_at)`
	id, err := insert(ctx, r.db, query, service)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	service.ID = id
	return nil
}

// Update saves changes to an existing service.
func (r *ServiceRepository) Update(ctx context.Context, service *Service) error {
	service.UpdatedAt = time.Now().UTC()
	query := `UPDATE services SET title = :title, slug = :slug, summary = :summary, description = :description,
		icon = :icon, position = :position, is_published = :is_published, updated_at = :updated_at WHERE id = :id`
	if err := namedExecOne(ctx, r.db, query, service); err != nil {
		return fmt.Errorf("failed to update service %d: %w", service.ID, err)
	}
	return nil
}

// Delete removes a service by its ID.
func (r *ServiceRepository) Delete(ctx context.Context, id int64) error {
	if err := execOne(ctx, r.db, `DELETE FROM services WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete service %d: %w", id, err)
	}
	return nil
}

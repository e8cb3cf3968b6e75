package data

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const navigationColumns = `id, label, href, position, is_active, open_in_new_tab, created_at, updated_at`

// NavigationRepository handles database operations for header navigation items.
type NavigationRepository struct {
	db *sqlx.DB
}

// NewNavigationRepository creates a new NavigationRepository.
func NewNavigationRepository(db *sqlx.DB) *NavigationRepository {
	return &NavigationRepository{db: db}
}

// List returns every navigation item in display order.
func (r *NavigationRepository) List(ctx context.Context) ([]*NavigationItem, error) {
	var items []*NavigationItem
	query := `SELECT ` + navigationColumns + ` FROM navigation_items ORDER BY position, id`
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("failed to list navigation items: %w", err)
	}
	return items, nil
}

// ListActive returns the items shown in the public header.
func (r *NavigationRepository) ListActive(ctx context.Context) ([]*NavigationItem, error) {
	var items []*NavigationItem
	query := `SELECT ` + navigationColumns + ` FROM navigation_items WHERE is_active = ? ORDER BY position, id`
	if err := r.db.SelectContext(ctx, &items, query, true); err != nil {
		return nil, fmt.Errorf("failed to list active navigation items: %w", err)
	}
	return items, nil
}

// GetByID finds a navigation item by its ID.
func (r *NavigationRepository) GetByID(ctx context.Context, id int64) (*NavigationItem, error) {
	var item NavigationItem
	query := `SELECT ` + navigationColumns + ` FROM navigation_items WHERE id = ?`
	if err := getOne(ctx, r.db, &item, query, id); err != nil {
		return nil, fmt.Errorf("navigation item %d: %w", id, err)
	}
	return &item, nil
}

// Create inserts a navigation item and fills in its ID and timestamps.
func (r *NavigationRepository) Create(ctx context.Context, item *NavigationItem) error {
	now := time.Now().UTC()
	item.CreatedAt, item.UpdatedAt = now, now
	query := `INSERT INTO navigation_items (label, href, position, is_active, open_in_new_tab, created_at, updated_at)
		VALUES (:label, :href, :position, :is_active, :open_in_new_tab, :created_at, :updated_at)`
	id, err := insert(ctx, r.db, query, item)
	if err != nil {
		return fmt.Errorf("failed to create navigation item: %w", err)
	}
	item.ID = id
	return nil
}

// Update saves changes to an existing navigation item.
func (r *NavigationRepository) Update(ctx context.Context, item *NavigationItem) error {
	item.UpdatedAt = time.Now().UTC()
	query := `UPDATE navigation_items SET label = :label, href = :href, position = :position,
		is_active = :is_active, open_in_new_tab = :open_in_new_tab, updated_at = :updated_at WHERE id = :id`
	if err := namedExecOne(ctx, r.db, query, item); err != nil {
		return fmt.Errorf("failed to update navigation item %d: %w", item.ID, err)
	}
	return nil
}

// Delete removes a navigation item by its ID.
func (r *NavigationRepository) Delete(ctx context.Context, id int64) error {
	if err := execOne(ctx, r.db, `DELETE FROM navigation_items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete navigation item %d: %w", id, err)
	}
	return nil
}

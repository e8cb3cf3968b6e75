package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const categoryColumns = `id, name, slug, description, created_at`

// CategoryRepository handles database operations for blog categories.
type CategoryRepository struct {
	DB *sqlx.DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

// FindByName finds a category by name. A missing category is not an error.
func (r *CategoryRepository) FindByName(ctx context.Context, name string) (*Category, error) {
	var category Category
	err := getOne(ctx, r.DB, &category, `SELECT `+categoryColumns+` FROM blog_categories WHERE name = ?`, name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find category by name: %w", err)
	}
	return &category, nil
}

// SearchByName searches for categories by name.
func (r *CategoryRepository) SearchByName(ctx context.Context, query string) ([]*Category, error) {
	var categories []*Category
	err := r.DB.SelectContext(ctx, &categories, `SELECT `+categoryColumns+` FROM blog_categories WHERE name LIKE ? ESCAPE '!' ORDER BY name`, containsPattern(query))
	if err != nil {
		return nil, fmt.Errorf("failed to search categories: %w", err)
	}
	return categories, nil
}

// GetAll retrieves all categories ordered by name.
func (r *CategoryRepository) GetAll(ctx context.Context) ([]*Category, error) {
	var categories []*Category
	if err := r.DB.SelectContext(ctx, &categories, `SELECT `+categoryColumns+` FROM blog_categories ORDER BY name`); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// GetByID finds a category by its ID.
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*Category, error) {
	var category Category
	if err := getOne(ctx, r.DB, &category, `SELECT `+categoryColumns+` FROM blog_categories WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("category %d: %w", id, err)
	}
	return &category, nil
}

// GetBySlug finds a category by its slug.
func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	var category Category
	if err := getOne(ctx, r.DB, &category, `SELECT `+categoryColumns+` FROM blog_categories WHERE slug = ?`, slug); err != nil {
		return nil, fmt.Errorf("category %q: %w", slug, err)
	}
	return &category, nil
}

// Save creates a new category and returns its ID.
func (r *CategoryRepository) Save(ctx context.Context, category *Category) (int64, error) {
	category.CreatedAt = time.Now().UTC()
	id, err := insert(ctx, r.DB, `INSERT INTO blog_categories (name, slug, description, created_at)
		VALUES (:name, :slug, :description, :created_at)`, category)
	if err != nil {
		return 0, fmt.Errorf("failed to create category: %w", err)
	}
	category.ID = id
	return id, nil
}

// Update saves changes to an existing category.
func (r *CategoryRepository) Update(ctx context.Context, category *Category) error {
	err := namedExecOne(ctx, r.DB, `UPDATE blog_categories SET name = :name, slug = :slug, description = :description WHERE id = :id`, category)
	if err != nil {
		return fmt.Errorf("failed to update category %d: %w", category.ID, err)
	}
	return nil
}

// Delete removes a category. Posts in it keep existing without a category.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	if err := execOne(ctx, r.DB, `DELETE FROM blog_categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete category %d: %w", id, err)
	}
	return nil
}

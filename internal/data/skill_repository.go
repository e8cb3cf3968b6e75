package data

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const skillColumns = `id, name, category, level, position, created_at, updated_at`

// SkillRepository handles database operations for skills.
type SkillRepository struct {
	db *sqlx.DB
}

// NewSkillRepository creates a new SkillRepository.
func NewSkillRepository(db *sqlx.DB) *SkillRepository {
	return &SkillRepository{db: db}
}

// List returns all skills grouped by category, then display order.
func (r *SkillRepository) List(ctx context.Context) ([]*Skill, error) {
	var skills []*Skill
	query := `SELECT ` + skillColumns + ` FROM skills ORDER BY category, position, id`
	if err := r.db.SelectContext(ctx, &skills, query); err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	return skills, nil
}

// GetByID finds a skill by its ID.
func (r *SkillRepository) GetByID(ctx context.Context, id int64) (*Skill, error) {
	var skill Skill
	query := `SELECT ` + skillColumns + ` FROM skills WHERE id = ?`
	if err := getOne(ctx, r.db, &skill, query, id); err != nil {
		return nil, fmt.Errorf("skill %d: %w", id, err)
	}
	return &skill, nil
}

// Create inserts a skill and fills in its ID and timestamps.
func (r *SkillRepository) Create(ctx context.Context, skill *Skill) error {
	now := time.Now().UTC()
	skill.CreatedAt, skill.UpdatedAt = now, now
	query := `INSERT INTO skills (name, category, level, position, created_at, updated_at)
		VALUES (:name, :category, :level, :position, :created_at, :updated_at)`
	id, err := insert(ctx, r.db, query, skill)
	if err != nil {
		return fmt.Errorf("failed to create skill: %w", err)
	}
	skill.ID = id
	return nil
}

// Update saves changes to an existing skill.
func (r *SkillRepository) Update(ctx context.Context, skill *Skill) error {
	skill.UpdatedAt = time.Now().UTC()
	query := `UPDATE skills SET name = :name, category = :category, level = :level, position = :position,
		updated_at = :updated_at WHERE id = :id`
	if err := namedExecOne(ctx, r.db, query, skill); err != nil {
		return fmt.Errorf("failed to update skill %d: %w", skill.ID, err)
	}
	return nil
}

// Delete removes a skill by its ID.
func (r *SkillRepository) Delete(ctx context.Context, id int64) error {
	if err := execOne(ctx, r.db, `DELETE FROM skills WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete skill %d: %w", id, err)
	}
	return nil
}

package data

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const knowledgeColumns = `id, question, answer, keywords, category, is_active, created_at, updated_at`

// KnowledgeRepository handles database operations for the chatbot knowledge base.
type KnowledgeRepository struct {
	db *sqlx.DB
}

// NewKnowledgeRepository creates a new KnowledgeRepository.
func NewKnowledgeRepository(db *sqlx.DB) *KnowledgeRepository {
	return &KnowledgeRepository{db: db}
}

// List returns all knowledge entries.
func (r *KnowledgeRepository) List(ctx context.Context) ([]*KnowledgeEntry, error) {
	var entries []*KnowledgeEntry
	if err := r.db.SelectContext(ctx, &entries, `SELECT `+knowledgeColumns+` FROM knowledge_entries ORDER BY category, id`); err != nil {
		return nil, fmt.Errorf("failed to list knowledge entries: %w", err)
	}
	return entries, nil
}

// ListActive returns the entries the chatbot may answer from.
func (r *KnowledgeRepository) ListActive(ctx context.Context) ([]*KnowledgeEntry, error) {
	var entries []*KnowledgeEntry
	err := r.db.SelectContext(ctx, &entries, `SELECT `+knowledgeColumns+` FROM knowledge_entries WHERE is_active = ? ORDER BY id`, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list active knowledge entries: %w", err)
	}
	return entries, nil
}

// GetByID finds a knowledge entry by ID.
func (r *KnowledgeRepository) GetByID(ctx context.Context, id int64) (*KnowledgeEntry, error) {
	var entry KnowledgeEntry
	if err := getOne(ctx, r.db, &entry, `SELECT `+knowledgeColumns+` FROM knowledge_entries WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("knowledge entry %d: %w", id, err)
	}
	return &entry, nil
}

// Create inserts a knowledge entry and fills in its ID and timestamps.
func (r *KnowledgeRepository) Create(ctx context.Context, entry *KnowledgeEntry) error {
	now := time.Now().UTC()
	entry.CreatedAt, entry.UpdatedAt = now, now
	id, err := insert(ctx, r.db, `INSERT INTO knowledge_entries (question, answer, keywords, category, is_active, created_at, updated_at)
		VALUES (:question, :answer, :keywords, :category, :is_active, :created_at, :updated_at)`, entry)
	if err != nil {
		return fmt.Errorf("failed to create knowledge entry: %w", err)
	}
	entry.ID = id
	return nil
}

// Update saves changes to an existing knowledge entry.
func (r *KnowledgeRepository) Update(ctx context.Context, entry *KnowledgeEntry) error {
	entry.UpdatedAt = time.Now().UTC()
	err := namedExecOne(ctx, r.db, `UPDATE knowledge_entries SET question = :question, answer = :answer, keywords = :keywords,
		category = :category, is_active = :is_active, updated_at = :updated_at WHERE id = :id`, entry)
	if err != nil {
		return fmt.Errorf("failed to update knowledge entry %d: %w", entry.ID, err)
	}
	return nil
}

// Delete removes a knowledge entry by ID.
func (r *KnowledgeRepository) Delete(ctx context.Context, id int64) error {
	if err := execOne(ctx, r.db, `DELETE FROM knowledge_entries WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete knowledge entry %d: %w", id, err)
	}
	return nil
}

package data

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const conversationColumns = `id, session_id, question, answer, entry_id, created_at`

// ConversationRepository stores the chatbot conversation log.
type ConversationRepository struct {
	db *sqlx.DB
}

// NewConversationRepository creates a new ConversationRepository.
func NewConversationRepository(db *sqlx.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// List returns logged exchanges, newest first.
func (r *ConversationRepository) List(ctx context.Context) ([]*Conversation, error) {
	var conversations []*Conversation
	if err := r.db.SelectContext(ctx, &conversations, `SELECT `+conversationColumns+` FROM conversations ORDER BY created_at DESC, id DESC`); err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return conversations, nil
}

// ListBySession returns the exchanges of one chat session in order.
func (r *ConversationRepository) ListBySession(ctx context.Context, sessionID string) ([]*Conversation, error) {
	var conversations []*Conversation
	err := r.db.SelectContext(ctx, &conversations, `SELECT `+conversationColumns+` FROM conversations WHERE session_id = ? ORDER BY created_at, id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversation %q: %w", sessionID, err)
	}
	return conversations, nil
}

// Create logs an exchange.
func (r *ConversationRepository) Create(ctx context.Context, conversation *Conversation) error {
	conversation.CreatedAt = time.Now().UTC()
	id, err := insert(ctx, r.db, `INSERT INTO conversations (session_id, question, answer, entry_id, created_at)
		VALUES (:session_id, :question, :answer, :entry_id, :created_at)`, conversation)
	if err != nil {
		return fmt.Errorf("failed to log conversation: %w", err)
	}
	conversation.ID = id
	return nil
}

// Delete removes a logged exchange.
func (r *ConversationRepository) Delete(ctx context.Context, id int64) error {
	if err := execOne(ctx, r.db, `DELETE FROM conversations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete conversation %d: %w", id, err)
	}
	return nil
}

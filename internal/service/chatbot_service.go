package service

import (
	"context"
	"strings"

	"studio-site/internal/data"
	"studio-site/internal/logger"
	"studio-site/internal/slug"
	"studio-site/internal/validate"

	"github.com/google/uuid"
)

const (
	// MaxQuestionLength bounds a visitor message.
	MaxQuestionLength = 500

	keywordWeight  = 3
	matchThreshold = 2

	defaultGreeting = "Bonjour ! Comment puis-je vous aider ?"
	defaultFallback = "Je n'ai pas de réponse à cette question. Contactez-nous via le formulaire de contact."
)

// KnowledgeRepository defines the database operations on knowledge entries.
type KnowledgeRepository interface {
	List(ctx context.Context) ([]*data.KnowledgeEntry, error)
	ListActive(ctx context.Context) ([]*data.KnowledgeEntry, error)
	GetByID(ctx context.Context, id int64) (*data.KnowledgeEntry, error)
	Create(ctx context.Context, entry *data.KnowledgeEntry) error
	Update(ctx context.Context, entry *data.KnowledgeEntry) error
	Delete(ctx context.Context, id int64) error
}

// ConversationRepository defines the database operations on the chat log.
type ConversationRepository interface {
	List(ctx context.Context) ([]*data.Conversation, error)
	Create(ctx context.Context, conversation *data.Conversation) error
	Delete(ctx context.Context, id int64) error
}

// ChatReply is the answer given to a visitor.
type ChatReply struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer"`
	EntryID   *int64 `json:"entry_id,omitempty"`
	Matched   bool   `json:"matched"`
}

// ChatbotService answers visitor questions from the knowledge base.
type ChatbotService struct {
	entries       KnowledgeRepository
	conversations ConversationRepository
	settings      SettingReader
	cache         Cache
	log           logger.Logger
}

// NewChatbotService creates a new ChatbotService. cache and settings may be nil.
func NewChatbotService(entries KnowledgeRepository, conversations ConversationRepository, settings SettingReader, cache Cache, log logger.Logger) *ChatbotService {
	return &ChatbotService{entries: entries, conversations: conversations, settings: settings, cache: cache, log: log}
}

// Greeting returns the first message shown in the chat window.
func (s *ChatbotService) Greeting(ctx context.Context) string {
	return s.setting(ctx, "chatbot_greeting", defaultGreeting)
}

func (s *ChatbotService) setting(ctx context.Context, key, def string) string {
	if s.settings == nil {
		return def
	}
	values, err := s.settings.GetAll(ctx)
	if err != nil {
		s.log.Error(err, "Failed to read chatbot settings")
		return def
	}
	if v := strings.TrimSpace(values[key]); v != "" {
		return v
	}
	return def
}

// Ask answers message with the best matching active entry, or with the
// fallback answer. Every exchange is logged under the session ID, which is
// generated when missing or malformed.
func (s *ChatbotService) Ask(ctx context.Context, sessionID, message string) (*ChatReply, error) {
	message = strings.TrimSpace(message)
	errs := validate.Errors{}
	switch {
	case message == "":
		errs.Add("message", "Ce champ est obligatoire.")
	case len([]rune(message)) > MaxQuestionLength:
		errs.Add("message", "500 caractères maximum.")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(sessionID); err != nil {
		sessionID = uuid.NewString()
	}

	entries, err := cached(ctx, s.cache, s.log, keyKnowledge, s.entries.ListActive)
	if err != nil {
		return nil, err
	}

	reply := &ChatReply{SessionID: sessionID}
	if best := BestMatch(entries, message); best != nil {
		id := best.ID
		reply.Answer = best.Answer
		reply.EntryID = &id
		reply.Matched = true
	} else {
		reply.Answer = s.setting(ctx, "chatbot_fallback", defaultFallback)
	}

	conv := &data.Conversation{
		SessionID: sessionID,
		Question:  message,
		Answer:    reply.Answer,
		EntryID:   reply.EntryID,
	}
	if err := s.conversations.Create(ctx, conv); err != nil {
		s.log.Error(err, "Failed to log chatbot conversation")
	}
	return reply, nil
}

// BestMatch returns the entry scoring highest for message, or nil when no
// entry reaches the threshold. Each keyword found in the message is worth
// three points and each word shared with the entry question one point.
// Ties keep the first entry.
func BestMatch(entries []*data.KnowledgeEntry, message string) *data.KnowledgeEntry {
	tokens := slug.Tokens(message)
	folded := " " + strings.Join(tokens, " ") + " "
	words := make(map[string]bool, len(tokens))
	for _, w := range tokens {
		words[w] = true
	}

	var best *data.KnowledgeEntry
	bestScore := 0
	for _, e := range entries {
		score := 0
		for _, kw := range strings.Split(e.Keywords, ",") {
			kw = strings.Join(slug.Tokens(kw), " ")
			if kw != "" && strings.Contains(folded, " "+kw+" ") {
				score += keywordWeight
			}
		}
		for _, w := range slug.Tokens(e.Question) {
			if words[w] {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = e, score
		}
	}
	if bestScore < matchThreshold {
		return nil
	}
	return best
}

// --- back-office ---

// ListEntries returns every knowledge entry.
func (s *ChatbotService) ListEntries(ctx context.Context) ([]*data.KnowledgeEntry, error) {
	return s.entries.List(ctx)
}

// GetEntry returns one knowledge entry.
func (s *ChatbotService) GetEntry(ctx context.Context, id int64) (*data.KnowledgeEntry, error) {
	return s.entries.GetByID(ctx, id)
}

// CreateEntry validates and stores a knowledge entry.
func (s *ChatbotService) CreateEntry(ctx context.Context, in KnowledgeInput) (*data.KnowledgeEntry, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	entry := &data.KnowledgeEntry{}
	applyKnowledge(entry, in)
	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, s.log, keyKnowledge)
	return entry, nil
}

// UpdateEntry validates and saves a knowledge entry.
func (s *ChatbotService) UpdateEntry(ctx context.Context, id int64, in KnowledgeInput) (*data.KnowledgeEntry, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	entry, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyKnowledge(entry, in)
	if err := s.entries.Update(ctx, entry); err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, s.log, keyKnowledge)
	return entry, nil
}

// DeleteEntry removes a knowledge entry.
func (s *ChatbotService) DeleteEntry(ctx context.Context, id int64) error {
	if err := s.entries.Delete(ctx, id); err != nil {
		return err
	}
	invalidate(ctx, s.cache, s.log, keyKnowledge)
	return nil
}

func applyKnowledge(e *data.KnowledgeEntry, in KnowledgeInput) {
	e.Question = strings.TrimSpace(in.Question)
	e.Answer = strings.TrimSpace(in.Answer)
	e.Category = strings.TrimSpace(in.Category)
	e.IsActive = in.IsActive
	var kws []string
	for _, kw := range strings.Split(in.Keywords, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			kws = append(kws, kw)
		}
	}
	e.Keywords = strings.Join(kws, ", ")
}

// ListConversations returns the chat log, newest first.
func (s *ChatbotService) ListConversations(ctx context.Context) ([]*data.Conversation, error) {
	return s.conversations.List(ctx)
}

// DeleteConversation removes one logged exchange.
func (s *ChatbotService) DeleteConversation(ctx context.Context, id int64) error {
	return s.conversations.Delete(ctx, id)
}

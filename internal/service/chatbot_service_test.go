//go:build unit

package service

import (
	"context"
	"strings"
	"testing"

	"studio-site/internal/data"
	"studio-site/internal/logger"
	"studio-site/internal/validate"

	"github.com/google/uuid"
)

var knowledgeFixture = []*data.KnowledgeEntry{
	{ID: 1, Question: "Quels sont vos tarifs ?", Answer: "Nos devis sont gratuits.", Keywords: "prix, tarif, devis", IsActive: true},
	{ID: 2, Question: "Combien de temps dure un projet ?", Answer: "Six à dix semaines.", Keywords: "délai, durée", IsActive: true},
	{ID: 3, Question: "Faites-vous du référencement ?", Answer: "Oui.", Keywords: "seo", IsActive: false},
}

func TestBestMatch(t *testing.T) {
	tests := []struct {
		message string
		wantID  int64
	}{
		{message: "Quel est le PRIX d'un site ?", wantID: 1},
		{message: "Quel délai pour un site vitrine ?", wantID: 2},
		{message: "combien de temps pour un projet", wantID: 2},
		{message: "Bonjour", wantID: 0},
		{message: "", wantID: 0},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			got := BestMatch(knowledgeFixture, tt.message)
			switch {
			case tt.wantID == 0 && got != nil:
				t.Errorf("want no match; got entry %d", got.ID)
			case tt.wantID != 0 && (got == nil || got.ID != tt.wantID):
				t.Errorf("want entry %d; got %+v", tt.wantID, got)
			}
		})
	}
}

func TestChatbotService_Ask(t *testing.T) {
	ctx := context.Background()
	entries := &mockKnowledgeRepository{entries: knowledgeFixture}
	convs := &mockConversationRepository{}
	settings := mockSettings{"chatbot_fallback": "Écrivez-nous."}
	svc := NewChatbotService(entries, convs, settings, newMockCache(), logger.Nop())

	reply, err := svc.Ask(ctx, "", "Vous faites du SEO ?")
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if reply.Matched || reply.Answer != "Écrivez-nous." {
		t.Errorf("want fallback for an inactive entry; got %+v", reply)
	}
	if _, err := uuid.Parse(reply.SessionID); err != nil {
		t.Errorf("want a generated session id; got %q", reply.SessionID)
	}

	session := reply.SessionID
	reply, err = svc.Ask(ctx, session, "Un devis ?")
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if !reply.Matched || reply.EntryID == nil || *reply.EntryID != 1 || reply.SessionID != session {
		t.Errorf("want entry 1 in the same session; got %+v", reply)
	}

	if len(convs.conversations) != 2 {
		t.Errorf("want every exchange logged; got %d", len(convs.conversations))
	}
	if entries.activeCalls != 1 {
		t.Errorf("want knowledge entries read once then cached; got %d reads", entries.activeCalls)
	}

	_, err = svc.Ask(ctx, session, strings.Repeat("a", MaxQuestionLength+1))
	if errs, ok := validate.As(err); !ok || !errs.Has("message") {
		t.Errorf("want message error; got %v", err)
	}
}

func TestChatbotService_EntryWritesInvalidate(t *testing.T) {
	ctx := context.Background()
	c := newMockCache()
	entries := &mockKnowledgeRepository{}
	svc := NewChatbotService(entries, &mockConversationRepository{}, nil, c, logger.Nop())

	if reply, err := svc.Ask(ctx, "", "prix ?"); err != nil || reply.Matched {
		t.Fatalf("want fallback on empty knowledge base; got %+v, %v", reply, err)
	}
	entry, err := svc.CreateEntry(ctx, KnowledgeInput{
		Question: "Quels sont vos tarifs ?",
		Answer:   "Sur devis.",
		Keywords: " prix ,, tarif ",
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}
	if entry.Keywords != "prix, tarif" {
		t.Errorf("want normalized keywords; got %q", entry.Keywords)
	}
	reply, err := svc.Ask(ctx, "", "prix ?")
	if err != nil || !reply.Matched {
		t.Errorf("want the new entry matched after invalidation; got %+v, %v", reply, err)
	}
	if svc.Greeting(ctx) == "" {
		t.Error("want a default greeting")
	}
}

//go:build unit

package service

import (
	"context"
	"testing"
	"time"

	"studio-site/internal/data"
	"studio-site/internal/logger"
	"studio-site/internal/validate"
)

func newInboxFixture() (*InboxService, *mockContactRepository, *mockMeetingRepository, *mockMailer) {
	contacts := &mockContactRepository{}
	meetings := &mockMeetingRepository{}
	mailer := &mockMailer{}
	notifier := NewNotifier(mailer, nil, adminAddress, "https://studio.example", logger.Nop())
	svc := NewInboxService(contacts, meetings, notifier, logger.Nop())
	svc.now = func() time.Time { return time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC) }
	return svc, contacts, meetings, mailer
}

func TestInboxService_SubmitContact(t *testing.T) {
	ctx := context.Background()
	svc, contacts, _, mailer := newInboxFixture()

	c, err := svc.SubmitContact(ctx, ContactInput{
		Name:    " Jeanne ",
		Email:   "jeanne@example.com",
		Subject: "Refonte",
		Message: "Bonjour, nous cherchons un studio.",
	})
	if err != nil {
		t.Fatalf("SubmitContact failed: %v", err)
	}
	if c.Name != "Jeanne" || c.Status != data.ContactNew {
		t.Errorf("unexpected contact: %+v", c)
	}
	list, _ := svc.ListContacts(ctx)
	if len(list) != 1 {
		t.Errorf("want the contact listed; got %d", len(list))
	}
	msgs := mailer.to(adminAddress)
	if len(msgs) != 1 || msgs[0].ReplyTo != "jeanne@example.com" {
		t.Errorf("want one admin email replying to the sender; got %+v", msgs)
	}

	_, err = svc.SubmitContact(ctx, ContactInput{Name: "X", Email: "not-an-email"})
	errs, ok := validate.As(err)
	if !ok || !errs.Has("email") || !errs.Has("message") {
		t.Errorf("want email and message errors; got %v", err)
	}
	if len(contacts.contacts) != 1 {
		t.Error("invalid contact stored")
	}

	if err := svc.SetContactStatus(ctx, c.ID, "bogus"); err == nil {
		t.Error("want error for unknown status")
	}
	if err := svc.SetContactStatus(ctx, c.ID, data.ContactRead); err != nil {
		t.Errorf("SetContactStatus failed: %v", err)
	}
	if err := svc.DeleteContact(ctx, c.ID); err != nil {
		t.Fatalf("DeleteContact failed: %v", err)
	}
	if list, _ := svc.ListContacts(ctx); len(list) != 0 {
		t.Errorf("want deleted contact gone; got %d", len(list))
	}
}

func TestInboxService_RequestMeeting(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		at        time.Duration
		wantField string
	}{
		{name: "future date", at: 48 * time.Hour},
		{name: "past date", at: -time.Hour, wantField: "preferred_at"},
		{name: "now", at: 0, wantField: "preferred_at"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, meetings, mailer := newInboxFixture()
			_, err := svc.RequestMeeting(ctx, MeetingInput{
				Name:        "Paul",
				Email:       "paul@example.com",
				Topic:       "Audit",
				PreferredAt: svc.now().Add(tt.at),
			})
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("RequestMeeting failed: %v", err)
				}
				if len(meetings.meetings) != 1 || meetings.meetings[0].DurationMinutes != 30 {
					t.Errorf("want one 30 minute meeting; got %+v", meetings.meetings)
				}
				if len(mailer.to(adminAddress)) != 1 {
					t.Error("want admin notified")
				}
				return
			}
			errs, ok := validate.As(err)
			if !ok || !errs.Has(tt.wantField) {
				t.Errorf("want %s error; got %v", tt.wantField, err)
			}
			if len(meetings.meetings) != 0 {
				t.Error("invalid meeting stored")
			}
		})
	}
}

func TestInboxService_UpdateMeetingAcceptsPastDates(t *testing.T) {
	ctx := context.Background()
	svc, _, meetings, _ := newInboxFixture()
	meetings.meetings = []*data.Meeting{{ID: 1, Name: "Paul", Status: data.MeetingPending}}

	m, err := svc.UpdateMeeting(ctx, 1, MeetingInput{
		Name:            "Paul",
		Email:           "paul@example.com",
		Topic:           "Audit",
		PreferredAt:     svc.now().Add(-24 * time.Hour),
		DurationMinutes: 60,
	}, data.MeetingConfirmed)
	if err != nil {
		t.Fatalf("UpdateMeeting failed: %v", err)
	}
	if m.Status != data.MeetingConfirmed || m.DurationMinutes != 60 {
		t.Errorf("unexpected meeting: %+v", m)
	}

	_, err = svc.UpdateMeeting(ctx, 1, MeetingInput{
		Name: "Paul", Email: "paul@example.com", Topic: "Audit", PreferredAt: svc.now(), DurationMinutes: 60,
	}, "maybe")
	if errs, ok := validate.As(err); !ok || !errs.Has("status") {
		t.Errorf("want status error; got %v", err)
	}
}

package service

import (
	"context"
	"strings"
	"time"

	"studio-site/internal/data"
	"studio-site/internal/logger"
	"studio-site/internal/notify"
	"studio-site/internal/validate"
)

// ContactRepository defines the database operations on contact messages.
type ContactRepository interface {
	List(ctx context.Context) ([]*data.Contact, error)
	GetByID(ctx context.Context, id int64) (*data.Contact, error)
	Create(ctx context.Context, contact *data.Contact) error
	Update(ctx context.Context, contact *data.Contact) error
	SetStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
}

// MeetingRepository defines the database operations on meeting requests.
type MeetingRepository interface {
	List(ctx context.Context) ([]*data.Meeting, error)
	GetByID(ctx context.Context, id int64) (*data.Meeting, error)
	Create(ctx context.Context, meeting *data.Meeting) error
	Update(ctx context.Context, meeting *data.Meeting) error
	Delete(ctx context.Context, id int64) error
}

// InboxService handles contact messages and meeting requests.
type InboxService struct {
	contacts ContactRepository
	meetings MeetingRepository
	notifier *Notifier
	log      logger.Logger
	now      func() time.Time
}

// NewInboxService creates a new InboxService. notifier may be nil.
func NewInboxService(contacts ContactRepository, meetings MeetingRepository, notifier *Notifier, log logger.Logger) *InboxService {
	return &InboxService{contacts: contacts, meetings: meetings, notifier: notifier, log: log, now: time.Now}
}

// SubmitContact stores a contact message and forwards it to the studio.
func (s *InboxService) SubmitContact(ctx context.Context, in ContactInput) (*data.Contact, error) {
	in = trimContact(in)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	contact := &data.Contact{Status: data.ContactNew}
	applyContact(contact, in)
	if err := s.contacts.Create(ctx, contact); err != nil {
		return nil, err
	}
	s.notifier.toAdmin(ctx, notify.KindContactNew, map[string]interface{}{
		"Name":    contact.Name,
		"Email":   contact.Email,
		"Phone":   contact.Phone,
		"Company": contact.Company,
		"Subject": contact.Subject,
		"Message": contact.Message,
	}, contact.Email)
	return contact, nil
}

func applyContact(c *data.Contact, in ContactInput) {
	c.Name = in.Name
	c.Email = in.Email
	c.Phone = in.Phone
	c.Company = in.Company
	c.Subject = in.Subject
	c.Message = in.Message
}

func trimContact(in ContactInput) ContactInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Company = strings.TrimSpace(in.Company)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)
	return in
}

// RequestMeeting stores a booking request for a future date and forwards
// it to the studio.
func (s *InboxService) RequestMeeting(ctx context.Context, in MeetingInput) (*data.Meeting, error) {
	in = trimMeeting(in)
	if in.DurationMinutes == 0 {
		in.DurationMinutes = 30
	}
	errs := validate.Errors{}
	if err := validate.Struct(in); err != nil {
		verrs, ok := validate.As(err)
		if !ok {
			return nil, err
		}
		errs = verrs
	}
	if !in.PreferredAt.IsZero() && !in.PreferredAt.After(s.now()) {
		errs.Add("preferred_at", "Choisissez une date à venir.")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	meeting := &data.Meeting{Status: data.MeetingPending}
	applyMeeting(meeting, in)
	if err := s.meetings.Create(ctx, meeting); err != nil {
		return nil, err
	}
	s.notifier.toAdmin(ctx, notify.KindMeetingNew, map[string]interface{}{
		"Name":            meeting.Name,
		"Email":           meeting.Email,
		"Phone":           meeting.Phone,
		"Topic":           meeting.Topic,
		"PreferredAt":     meeting.PreferredAt,
		"DurationMinutes": meeting.DurationMinutes,
		"Message":         meeting.Message,
	}, meeting.Email)
	return meeting, nil
}

func trimMeeting(in MeetingInput) MeetingInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Company = strings.TrimSpace(in.Company)
	in.Topic = strings.TrimSpace(in.Topic)
	in.Message = strings.TrimSpace(in.Message)
	return in
}

func applyMeeting(m *data.Meeting, in MeetingInput) {
	m.Name = in.Name
	m.Email = in.Email
	m.Phone = in.Phone
	m.Company = in.Company
	m.Topic = in.Topic
	m.PreferredAt = in.PreferredAt.UTC()
	m.DurationMinutes = in.DurationMinutes
	m.Message = in.Message
}

// --- back-office ---

// ListContacts returns every contact message, newest first.
func (s *InboxService) ListContacts(ctx context.Context) ([]*data.Contact, error) {
	return s.contacts.List(ctx)
}

// GetContact returns one contact message.
func (s *InboxService) GetContact(ctx context.Context, id int64) (*data.Contact, error) {
	return s.contacts.GetByID(ctx, id)
}

// CreateContact records a message on behalf of a visitor, without
// notifying anyone.
func (s *InboxService) CreateContact(ctx context.Context, in ContactInput, status string) (*data.Contact, error) {
	in = trimContact(in)
	if err := validateWithStatus(in, status, data.ContactNew, data.ContactRead, data.ContactArchived); err != nil {
		return nil, err
	}
	contact := &data.Contact{Status: status}
	applyContact(contact, in)
	if err := s.contacts.Create(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// UpdateContact saves a contact message edited in the back-office.
func (s *InboxService) UpdateContact(ctx context.Context, id int64, in ContactInput, status string) (*data.Contact, error) {
	in = trimContact(in)
	if err := validateWithStatus(in, status, data.ContactNew, data.ContactRead, data.ContactArchived); err != nil {
		return nil, err
	}
	contact, err := s.contacts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyContact(contact, in)
	contact.Status = status
	if err := s.contacts.Update(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// SetContactStatus moves a message through new, read and archived.
func (s *InboxService) SetContactStatus(ctx context.Context, id int64, status string) error {
	if !oneOf(status, data.ContactNew, data.ContactRead, data.ContactArchived) {
		return validate.Errors{"status": "Valeur non autorisée."}
	}
	return s.contacts.SetStatus(ctx, id, status)
}

// DeleteContact removes a contact message.
func (s *InboxService) DeleteContact(ctx context.Context, id int64) error {
	return s.contacts.Delete(ctx, id)
}

// ListMeetings returns every meeting request.
func (s *InboxService) ListMeetings(ctx context.Context) ([]*data.Meeting, error) {
	return s.meetings.List(ctx)
}

// GetMeeting returns one meeting request.
func (s *InboxService) GetMeeting(ctx context.Context, id int64) (*data.Meeting, error) {
	return s.meetings.GetByID(ctx, id)
}

// CreateMeeting records a meeting entered by the studio. Past dates are
// accepted and nobody is notified.
func (s *InboxService) CreateMeeting(ctx context.Context, in MeetingInput, status string) (*data.Meeting, error) {
	in = trimMeeting(in)
	if err := validateWithStatus(in, status, data.MeetingPending, data.MeetingConfirmed, data.MeetingCancelled); err != nil {
		return nil, err
	}
	meeting := &data.Meeting{Status: status}
	applyMeeting(meeting, in)
	if err := s.meetings.Create(ctx, meeting); err != nil {
		return nil, err
	}
	return meeting, nil
}

// UpdateMeeting saves a meeting request edited by the studio. Past dates
// are accepted here.
func (s *InboxService) UpdateMeeting(ctx context.Context, id int64, in MeetingInput, status string) (*data.Meeting, error) {
	in = trimMeeting(in)
	if err := validateWithStatus(in, status, data.MeetingPending, data.MeetingConfirmed, data.MeetingCancelled); err != nil {
		return nil, err
	}
	meeting, err := s.meetings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyMeeting(meeting, in)
	meeting.Status = status
	if err := s.meetings.Update(ctx, meeting); err != nil {
		return nil, err
	}
	return meeting, nil
}

// DeleteMeeting removes a meeting request.
func (s *InboxService) DeleteMeeting(ctx context.Context, id int64) error {
	return s.meetings.Delete(ctx, id)
}

// validateWithStatus checks the input rules and that status is one of
// allowed, reporting both in one set of field errors.
func validateWithStatus(in interface{}, status string, allowed ...string) error {
	errs := validate.Errors{}
	if err := validate.Struct(in); err != nil {
		verrs, ok := validate.As(err)
		if !ok {
			return err
		}
		errs = verrs
	}
	if !oneOf(status, allowed...) {
		errs.Add("status", "Valeur non autorisée.")
	}
	return errs.Err()
}

func oneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

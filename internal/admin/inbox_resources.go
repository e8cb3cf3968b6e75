package admin

import (
	"context"
	"net/url"
	"strconv"

	"studio-site/internal/data"
	"studio-site/internal/service"
)

// ContactStore is the part of the inbox service behind the contacts screen.
type ContactStore interface {
	ListContacts(ctx context.Context) ([]*data.Contact, error)
	GetContact(ctx context.Context, id int64) (*data.Contact, error)
	CreateContact(ctx context.Context, in service.ContactInput, status string) (*data.Contact, error)
	UpdateContact(ctx context.Context, id int64, in service.ContactInput, status string) (*data.Contact, error)
	DeleteContact(ctx context.Context, id int64) error
}

type contactResource struct {
	store ContactStore
}

// NewContactResource manages the messages sent through the contact form.
func NewContactResource(store ContactStore) Resource {
	return &contactResource{store: store}
}

func (r *contactResource) Meta() Meta {
	return Meta{
		Slug:      "contacts",
		Title:     "Messages",
		Singular:  "message",
		Columns:   []string{"Reçu le", "Nom", "E-mail", "Sujet"},
		Filters:   contactStatuses,
		CanCreate: true,
		CanEdit:   true,
	}
}

func (r *contactResource) Fields(ctx context.Context) ([]Field, error) {
	return []Field{
		{Name: "name", Label: "Nom", Kind: KindText, Required: true},
		{Name: "email", Label: "E-mail", Kind: KindEmail, Required: true},
		{Name: "phone", Label: "Téléphone", Kind: KindText},
		{Name: "company", Label: "Société", Kind: KindText},
		{Name: "subject", Label: "Sujet", Kind: KindText},
		{Name: "message", Label: "Message", Kind: KindTextarea, Required: true},
		{Name: "status", Label: "Statut", Kind: KindSelect, Required: true, Options: contactStatuses},
	}, nil
}

func (r *contactResource) List(ctx context.Context) ([]Row, error) {
	contacts, err := r.store.ListContacts(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(contacts))
	for _, c := range contacts {
		rows = append(rows, Row{ID: c.ID, Cells: []string{dateCell(c.CreatedAt), c.Name, c.Email, c.Subject}, Status: c.Status})
	}
	return rows, nil
}

func (r *contactResource) Values(ctx context.Context, id int64) (map[string]string, error) {
	c, err := r.store.GetContact(ctx, id)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"name":    c.Name,
		"email":   c.Email,
		"phone":   c.Phone,
		"company": c.Company,
		"subject": c.Subject,
		"message": c.Message,
		"status":  c.Status,
	}, nil
}

func (r *contactResource) input(values url.Values) (service.ContactInput, string, error) {
	f := newForm(values)
	in := service.ContactInput{
		Name:    f.str("name"),
		Email:   f.str("email"),
		Phone:   f.str("phone"),
		Company: f.str("company"),
		Subject: f.str("subject"),
		Message: f.text("message"),
	}
	status := f.choice("status", contactStatuses)
	return in, status, f.check(in)
}

func (r *contactResource) Create(ctx context.Context, values url.Values) (int64, error) {
	in, status, err := r.input(values)
	if err != nil {
		return 0, err
	}
	c, err := r.store.CreateContact(ctx, in, status)
	if err != nil {
		return 0, err
	}
	return c.ID, nil
}

func (r *contactResource) Update(ctx context.Context, id int64, values url.Values) error {
	in, status, err := r.input(values)
	if err != nil {
		return err
	}
	_, err = r.store.UpdateContact(ctx, id, in, status)
	return err
}

func (r *contactResource) Delete(ctx context.Context, id int64) error {
	return r.store.DeleteContact(ctx, id)
}

// MeetingStore is the part of the inbox service behind the meetings screen.
type MeetingStore interface {
	ListMeetings(ctx context.Context) ([]*data.Meeting, error)
	GetMeeting(ctx context.Context, id int64) (*data.Meeting, error)
	CreateMeeting(ctx context.Context, in service.MeetingInput, status string) (*data.Meeting, error)
	UpdateMeeting(ctx context.Context, id int64, in service.MeetingInput, status string) (*data.Meeting, error)
	DeleteMeeting(ctx context.Context, id int64) error
}

type meetingResource struct {
	store MeetingStore
}

// NewMeetingResource manages the booking requests.
func NewMeetingResource(store MeetingStore) Resource {
	return &meetingResource{store: store}
}

func (r *meetingResource) Meta() Meta {
	return Meta{
		Slug:      "meetings",
		Title:     "Rendez-vous",
		Singular:  "rendez-vous",
		Columns:   []string{"Date souhaitée", "Nom", "E-mail", "Objet"},
		Filters:   meetingStatuses,
		CanCreate: true,
		CanEdit:   true,
	}
}

func (r *meetingResource) Fields(ctx context.Context) ([]Field, error) {
	return []Field{
		{Name: "name", Label: "Nom", Kind: KindText, Required: true},
		{Name: "email", Label: "E-mail", Kind: KindEmail, Required: true},
		{Name: "phone", Label: "Téléphone", Kind: KindText},
		{Name: "company", Label: "Société", Kind: KindText},
		{Name: "topic", Label: "Objet", Kind: KindText, Required: true},
		{Name: "preferred_at", Label: "Date souhaitée", Kind: KindDateTime, Required: true},
		{Name: "duration_minutes", Label: "Durée", Kind: KindSelect, Options: durations},
		{Name: "message", Label: "Message", Kind: KindTextarea},
		{Name: "status", Label: "Statut", Kind: KindSelect, Required: true, Options: meetingStatuses},
	}, nil
}

func (r *meetingResource) List(ctx context.Context) ([]Row, error) {
	meetings, err := r.store.ListMeetings(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(meetings))
	for _, m := range meetings {
		rows = append(rows, Row{ID: m.ID, Cells: []string{dateCell(m.PreferredAt), m.Name, m.Email, m.Topic}, Status: m.Status})
	}
	return rows, nil
}

func (r *meetingResource) Values(ctx context.Context, id int64) (map[string]string, error) {
	m, err := r.store.GetMeeting(ctx, id)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"name":             m.Name,
		"email":            m.Email,
		"phone":            m.Phone,
		"company":          m.Company,
		"topic":            m.Topic,
		"preferred_at":     dateTimeValue(m.PreferredAt),
		"duration_minutes": strconv.Itoa(m.DurationMinutes),
		"message":          m.Message,
		"status":           m.Status,
	}, nil
}

func (r *meetingResource) input(values url.Values) (service.MeetingInput, string, error) {
	f := newForm(values)
	in := service.MeetingInput{
		Name:            f.str("name"),
		Email:           f.str("email"),
		Phone:           f.str("phone"),
		Company:         f.str("company"),
		Topic:           f.str("topic"),
		PreferredAt:     f.datetime("preferred_at"),
		DurationMinutes: f.int("duration_minutes"),
		Message:         f.text("message"),
	}
	if in.DurationMinutes == 0 {
		in.DurationMinutes = 30
	}
	status := f.choice("status", meetingStatuses)
	return in, status, f.check(in)
}

func (r *meetingResource) Create(ctx context.Context, values url.Values) (int64, error) {
	in, status, err := r.input(values)
	if err != nil {
		return 0, err
	}
	m, err := r.store.CreateMeeting(ctx, in, status)
	if err != nil {
		return 0, err
	}
	return m.ID, nil
}

func (r *meetingResource) Update(ctx context.Context, id int64, values url.Values) error {
	in, status, err := r.input(values)
	if err != nil {
		return err
	}
	_, err = r.store.UpdateMeeting(ctx, id, in, status)
	return err
}

func (r *meetingResource) Delete(ctx context.Context, id int64) error {
	return r.store.DeleteMeeting(ctx, id)
}

package admin

import (
	"context"
	"net/url"
	"strconv"

	"studio-site/internal/data"
	"studio-site/internal/service"
)

// KnowledgeStore is the part of the chatbot service behind the knowledge
// base screen.
type KnowledgeStore interface {
	ListEntries(ctx context.Context) ([]*data.KnowledgeEntry, error)
	GetEntry(ctx context.Context, id int64) (*data.KnowledgeEntry, error)
	CreateEntry(ctx context.Context, in service.KnowledgeInput) (*data.KnowledgeEntry, error)
	UpdateEntry(ctx context.Context, id int64, in service.KnowledgeInput) (*data.KnowledgeEntry, error)
	DeleteEntry(ctx context.Context, id int64) error
}

type knowledgeResource struct {
	store KnowledgeStore
}

// NewKnowledgeResource manages the chatbot's question/answer pairs.
func NewKnowledgeResource(store KnowledgeStore) Resource {
	return &knowledgeResource{store: store}
}

func (r *knowledgeResource) Meta() Meta {
	return Meta{
		Slug:      "knowledge",
		Title:     "Base de connaissances",
		Singular:  "réponse",
		Columns:   []string{"Question", "Mots-clés", "Catégorie", "Active"},
		CanCreate: true,
		CanEdit:   true,
	}
}

func (r *knowledgeResource) Fields(ctx context.Context) ([]Field, error) {
	return []Field{
		{Name: "question", Label: "Question", Kind: KindText, Required: true},
		{Name: "answer", Label: "Réponse", Kind: KindTextarea, Required: true},
		{Name: "keywords", Label: "Mots-clés", Kind: KindText, Help: "Séparés par des virgules."},
		{Name: "category", Label: "Catégorie", Kind: KindText},
		{Name: "is_active", Label: "Active", Kind: KindCheckbox},
	}, nil
}

func (r *knowledgeResource) List(ctx context.Context) ([]Row, error) {
	entries, err := r.store.ListEntries(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, Row{ID: e.ID, Cells: []string{e.Question, e.Keywords, e.Category, yesNo(e.IsActive)}})
	}
	return rows, nil
}

func (r *knowledgeResource) Values(ctx context.Context, id int64) (map[string]string, error) {
	e, err := r.store.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"question":  e.Question,
		"answer":    e.Answer,
		"keywords":  e.Keywords,
		"category":  e.Category,
		"is_active": boolValue(e.IsActive),
	}, nil
}

func (r *knowledgeResource) input(values url.Values) service.KnowledgeInput {
	f := newForm(values)
	return service.KnowledgeInput{
		Question: f.str("question"),
		Answer:   f.text("answer"),
		Keywords: f.str("keywords"),
		Category: f.str("category"),
		IsActive: f.bool("is_active"),
	}
}

func (r *knowledgeResource) Create(ctx context.Context, values url.Values) (int64, error) {
	e, err := r.store.CreateEntry(ctx, r.input(values))
	if err != nil {
		return 0, err
	}
	return e.ID, nil
}

func (r *knowledgeResource) Update(ctx context.Context, id int64, values url.Values) error {
	_, err := r.store.UpdateEntry(ctx, id, r.input(values))
	return err
}

func (r *knowledgeResource) Delete(ctx context.Context, id int64) error {
	return r.store.DeleteEntry(ctx, id)
}

// ConversationStore is the part of the chatbot service behind the chat log.
type ConversationStore interface {
	ListConversations(ctx context.Context) ([]*data.Conversation, error)
	DeleteConversation(ctx context.Context, id int64) error
}

type conversationResource struct {
	store ConversationStore
}

// NewConversationResource lists the logged chatbot exchanges.
func NewConversationResource(store ConversationStore) Resource {
	return &conversationResource{store: store}
}

func (r *conversationResource) Meta() Meta {
	return Meta{
		Slug:     "conversations",
		Title:    "Conversations",
		Singular: "échange",
		Columns:  []string{"Date", "Session", "Question", "Réponse", "Entrée"},
	}
}

func (r *conversationResource) Fields(ctx context.Context) ([]Field, error) {
	return nil, nil
}

func (r *conversationResource) List(ctx context.Context) ([]Row, error) {
	conversations, err := r.store.ListConversations(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(conversations))
	for _, c := range conversations {
		session := c.SessionID
		if len(session) > 8 {
			session = session[:8]
		}
		entry := "-"
		if c.EntryID != nil {
			entry = "#" + strconv.FormatInt(*c.EntryID, 10)
		}
		rows = append(rows, Row{ID: c.ID, Cells: []string{dateCell(c.CreatedAt), session, c.Question, c.Answer, entry}})
	}
	return rows, nil
}

func (r *conversationResource) Values(ctx context.Context, id int64) (map[string]string, error) {
	return nil, ErrReadOnly
}

func (r *conversationResource) Create(ctx context.Context, values url.Values) (int64, error) {
	return 0, ErrReadOnly
}

func (r *conversationResource) Update(ctx context.Context, id int64, values url.Values) error {
	return ErrReadOnly
}

func (r *conversationResource) Delete(ctx context.Context, id int64) error {
	return r.store.DeleteConversation(ctx, id)
}

// UserStore is the part of the user service behind the users screen.
type UserStore interface {
	List(ctx context.Context) ([]*data.User, error)
	Get(ctx context.Context, id int64) (*data.User, error)
	Create(ctx context.Context, in service.UserInput) (*data.User, error)
	Update(ctx context.Context, id int64, in service.UserInput) (*data.User, error)
	Delete(ctx context.Context, id int64) error
}

type userResource struct {
	store UserStore
}

// NewUserResource manages the back-office accounts.
func NewUserResource(store UserStore) Resource {
	return &userResource{store: store}
}

func (r *userResource) Meta() Meta {
	return Meta{
		Slug:      "users",
		Title:     "Utilisateurs",
		Singular:  "utilisateur",
		Columns:   []string{"Nom", "E-mail", "Rôle", "Actif", "Dernière connexion"},
		CanCreate: true,
		CanEdit:   true,
	}
}

func (r *userResource) Fields(ctx context.Context) ([]Field, error) {
	return []Field{
		{Name: "name", Label: "Nom", Kind: KindText, Required: true},
		{Name: "email", Label: "E-mail", Kind: KindEmail, Required: true},
		{Name: "role", Label: "Rôle", Kind: KindSelect, Required: true, Options: roles},
		{Name: "password", Label: "Mot de passe", Kind: KindPassword, Help: "8 caractères minimum. Laisser vide pour conserver le mot de passe actuel."},
		{Name: "is_active", Label: "Actif", Kind: KindCheckbox},
	}, nil
}

func (r *userResource) List(ctx context.Context) ([]Row, error) {
	users, err := r.store.List(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(users))
	for _, u := range users {
		role := u.Role
		for _, o := range roles {
			if o.Value == u.Role {
				role = o.Label
			}
		}
		last := ""
		if u.LastLoginAt != nil {
			last = dateCell(*u.LastLoginAt)
		}
		rows = append(rows, Row{ID: u.ID, Cells: []string{u.Name, u.Email, role, yesNo(u.IsActive), last}})
	}
	return rows, nil
}

func (r *userResource) Values(ctx context.Context, id int64) (map[string]string, error) {
	u, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"name":      u.Name,
		"email":     u.Email,
		"role":      u.Role,
		"password":  "",
		"is_active": boolValue(u.IsActive),
	}, nil
}

func (r *userResource) input(values url.Values) service.UserInput {
	f := newForm(values)
	return service.UserInput{
		Email: f.str("email"),
		Name:  f.str("name"),
		Role:  f.str("role"),
		// Passwords keep their spaces.
		Password: values.Get("password"),
		IsActive: f.bool("is_active"),
	}
}

func (r *userResource) Create(ctx context.Context, values url.Values) (int64, error) {
	u, err := r.store.Create(ctx, r.input(values))
	if err != nil {
		return 0, err
	}
	return u.ID, nil
}

func (r *userResource) Update(ctx context.Context, id int64, values url.Values) error {
	_, err := r.store.Update(ctx, id, r.input(values))
	return err
}

func (r *userResource) Delete(ctx context.Context, id int64) error {
	return r.store.Delete(ctx, id)
}

// SubscriberStore is the part of the newsletter service behind the
// subscribers screen.
type SubscriberStore interface {
	List(ctx context.Context) ([]*data.Subscriber, error)
	Delete(ctx context.Context, id int64) error
}

type subscriberResource struct {
	store SubscriberStore
}

// NewSubscriberResource lists the newsletter sign-ups.
func NewSubscriberResource(store SubscriberStore) Resource {
	return &subscriberResource{store: store}
}

func (r *subscriberResource) Meta() Meta {
	return Meta{
		Slug:     "subscribers",
		Title:    "Abonnés",
		Singular: "abonné",
		Columns:  []string{"Inscrit le", "E-mail", "Nom", "Synchronisé"},
		Filters:  subscriberStatuses,
	}
}

func (r *subscriberResource) Fields(ctx context.Context) ([]Field, error) {
	return nil, nil
}

func (r *subscriberResource) List(ctx context.Context) ([]Row, error) {
	subs, err := r.store.List(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(subs))
	for _, s := range subs {
		rows = append(rows, Row{ID: s.ID, Cells: []string{dateCell(s.CreatedAt), s.Email, s.Name, yesNo(s.Synced)}, Status: s.Status})
	}
	return rows, nil
}

func (r *subscriberResource) Values(ctx context.Context, id int64) (map[string]string, error) {
	return nil, ErrReadOnly
}

func (r *subscriberResource) Create(ctx context.Context, values url.Values) (int64, error) {
	return 0, ErrReadOnly
}

func (r *subscriberResource) Update(ctx context.Context, id int64, values url.Values) error {
	return ErrReadOnly
}

func (r *subscriberResource) Delete(ctx context.Context, id int64) error {
	return r.store.Delete(ctx, id)
}

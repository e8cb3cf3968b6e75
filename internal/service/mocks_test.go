//go:build unit

package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"studio-site/internal/data"
	"studio-site/internal/notify"
)

func notFound(kind string, id int64) error {
	return fmt.Errorf("%s %d: %w", kind, id, data.ErrNotFound)
}

func ptr[T any](v T) *T { return &v }

// mockCache is an in-memory Cache recording every invalidated prefix.
type mockCache struct {
	mu          sync.Mutex
	items       map[string][]byte
	invalidated []string
}

var _ Cache = (*mockCache)(nil)

func newMockCache() *mockCache {
	return &mockCache{items: make(map[string][]byte)}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[key], nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *mockCache) DeletePrefix(ctx context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidated = append(m.invalidated, prefix)
	for k := range m.items {
		if strings.HasPrefix(k, prefix) {
			delete(m.items, k)
		}
	}
	return nil
}

// mockMailer records sent messages.
type mockMailer struct {
	sent []notify.Message
	err  error
}

var _ notify.Mailer = (*mockMailer)(nil)

func (m *mockMailer) Send(ctx context.Context, msg notify.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *mockMailer) to(addr string) []notify.Message {
	var out []notify.Message
	for _, msg := range m.sent {
		if msg.To == addr {
			out = append(out, msg)
		}
	}
	return out
}

type mockSettings map[string]string

var _ SettingReader = mockSettings(nil)

func (m mockSettings) GetAll(ctx context.Context) (map[string]string, error) {
	return m, nil
}

// --- site ---

type mockServiceRepository struct {
	services      []*data.Service
	listPublished int
}

var _ ServiceRepository = (*mockServiceRepository)(nil)

func (m *mockServiceRepository) List(ctx context.Context) ([]*data.Service, error) {
	return m.services, nil
}

func (m *mockServiceRepository) ListPublished(ctx context.Context) ([]*data.Service, error) {
	m.listPublished++
	var out []*data.Service
	for _, s := range m.services {
		if s.IsPublished {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockServiceRepository) GetByID(ctx context.Context, id int64) (*data.Service, error) {
	for _, s := range m.services {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, notFound("service", id)
}

func (m *mockServiceRepository) GetBySlug(ctx context.Context, slug string) (*data.Service, error) {
	for _, s := range m.services {
		if s.Slug == slug {
			return s, nil
		}
	}
	return nil, data.ErrNotFound
}

func (m *mockServiceRepository) Create(ctx context.Context, service *data.Service) error {
	service.ID = int64(len(m.services) + 1)
	m.services = append(m.services, service)
	return nil
}

func (m *mockServiceRepository) Update(ctx context.Context, service *data.Service) error {
	return nil
}

func (m *mockServiceRepository) Delete(ctx context.Context, id int64) error {
	for i, s := range m.services {
		if s.ID == id {
			m.services = append(m.services[:i], m.services[i+1:]...)
			return nil
		}
	}
	return notFound("service", id)
}

type mockSkillRepository struct{ skills []*data.Skill }

var _ SkillRepository = (*mockSkillRepository)(nil)

func (m *mockSkillRepository) List(ctx context.Context) ([]*data.Skill, error) { return m.skills, nil }
func (m *mockSkillRepository) GetByID(ctx context.Context, id int64) (*data.Skill, error) {
	return nil, notFound("skill", id)
}
func (m *mockSkillRepository) Create(ctx context.Context, skill *data.Skill) error { return nil }
func (m *mockSkillRepository) Update(ctx context.Context, skill *data.Skill) error { return nil }
func (m *mockSkillRepository) Delete(ctx context.Context, id int64) error           { return nil }

type mockProjectRepository struct{ projects []*data.Project }

var _ ProjectRepository = (*mockProjectRepository)(nil)

func (m *mockProjectRepository) List(ctx context.Context) ([]*data.Project, error) {
	return m.projects, nil
}
func (m *mockProjectRepository) ListPublished(ctx context.Context) ([]*data.Project, error) {
	return m.projects, nil
}
func (m *mockProjectRepository) GetByID(ctx context.Context, id int64) (*data.Project, error) {
	return nil, notFound("project", id)
}
func (m *mockProjectRepository) GetBySlug(ctx context.Context, slug string) (*data.Project, error) {
	return nil, data.ErrNotFound
}
func (m *mockProjectRepository) Create(ctx context.Context, project *data.Project) error { return nil }
func (m *mockProjectRepository) Update(ctx context.Context, project *data.Project) error { return nil }
func (m *mockProjectRepository) Delete(ctx context.Context, id int64) error             { return nil }

// --- blog ---

type mockPostRepository struct {
	posts []*data.Post
}

var _ PostRepository = (*mockPostRepository)(nil)
var _ PostReader = (*mockPostRepository)(nil)

func (m *mockPostRepository) List(ctx context.Context) ([]*data.Post, error) { return m.posts, nil }

func (m *mockPostRepository) ListPublished(ctx context.Context, filter data.PostFilter) ([]*data.Post, int, error) {
	var out []*data.Post
	for _, p := range m.posts {
		if p.IsPublished() && (filter.CategorySlug == "" || p.CategorySlug == filter.CategorySlug) {
			out = append(out, p)
		}
	}
	total := len(out)
	if filter.Limit > 0 {
		end := filter.Offset + filter.Limit
		if end > total {
			end = total
		}
		if filter.Offset > total {
			filter.Offset = total
		}
		out = out[filter.Offset:end]
	}
	return out, total, nil
}

func (m *mockPostRepository) GetByID(ctx context.Context, id int64) (*data.Post, error) {
	for _, p := range m.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, notFound("post", id)
}

func (m *mockPostRepository) GetBySlug(ctx context.Context, slug string) (*data.Post, error) {
	for _, p := range m.posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, data.ErrNotFound
}

func (m *mockPostRepository) Create(ctx context.Context, post *data.Post) error {
	post.ID = int64(len(m.posts) + 1)
	m.posts = append(m.posts, post)
	return nil
}

func (m *mockPostRepository) Update(ctx context.Context, post *data.Post) error { return nil }

func (m *mockPostRepository) Delete(ctx context.Context, id int64) error {
	for i, p := range m.posts {
		if p.ID == id {
			m.posts = append(m.posts[:i], m.posts[i+1:]...)
			return nil
		}
	}
	return notFound("post", id)
}

type mockCategoryRepository struct {
	categories []*data.Category
	saved      int
}

var _ CategoryRepository = (*mockCategoryRepository)(nil)

func (m *mockCategoryRepository) FindByName(ctx context.Context, name string) (*data.Category, error) {
	for _, c := range m.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, nil
}

func (m *mockCategoryRepository) GetAll(ctx context.Context) ([]*data.Category, error) {
	return m.categories, nil
}

func (m *mockCategoryRepository) GetByID(ctx context.Context, id int64) (*data.Category, error) {
	for _, c := range m.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, notFound("category", id)
}

func (m *mockCategoryRepository) GetBySlug(ctx context.Context, slug string) (*data.Category, error) {
	for _, c := range m.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, data.ErrNotFound
}

func (m *mockCategoryRepository) Save(ctx context.Context, category *data.Category) (int64, error) {
	m.saved++
	category.ID = int64(len(m.categories) + 1)
	m.categories = append(m.categories, category)
	return category.ID, nil
}

func (m *mockCategoryRepository) Update(ctx context.Context, category *data.Category) error {
	return nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id int64) error { return nil }

// --- comments ---

type mockCommentRepository struct {
	comments map[int64]*data.Comment
	nextID   int64
}

var _ CommentRepository = (*mockCommentRepository)(nil)

func newMockCommentRepository(comments ...*data.Comment) *mockCommentRepository {
	m := &mockCommentRepository{comments: make(map[int64]*data.Comment)}
	for _, c := range comments {
		m.comments[c.ID] = c
		if c.ID > m.nextID {
			m.nextID = c.ID
		}
	}
	return m
}

func (m *mockCommentRepository) sorted() []*data.Comment {
	out := make([]*data.Comment, 0, len(m.comments))
	for _, c := range m.comments {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *mockCommentRepository) ListByPost(ctx context.Context, postID int64, status string) ([]*data.Comment, error) {
	var out []*data.Comment
	for _, c := range m.sorted() {
		if c.PostID == postID && (status == "" || c.Status == status) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCommentRepository) ListAll(ctx context.Context, status string) ([]*data.Comment, error) {
	var out []*data.Comment
	for _, c := range m.sorted() {
		if status == "" || c.Status == status {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCommentRepository) GetByID(ctx context.Context, id int64) (*data.Comment, error) {
	c, ok := m.comments[id]
	if !ok {
		return nil, notFound("comment", id)
	}
	cp := *c
	return &cp, nil
}

func (m *mockCommentRepository) Create(ctx context.Context, comment *data.Comment) error {
	m.nextID++
	comment.ID = m.nextID
	cp := *comment
	m.comments[comment.ID] = &cp
	return nil
}

func (m *mockCommentRepository) SetStatus(ctx context.Context, id int64, status string) error {
	c, ok := m.comments[id]
	if !ok {
		return notFound("comment", id)
	}
	c.Status = status
	return nil
}

func (m *mockCommentRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.comments[id]; !ok {
		return notFound("comment", id)
	}
	delete(m.comments, id)
	return nil
}

// --- inbox ---

type mockContactRepository struct {
	contacts []*data.Contact
}

var _ ContactRepository = (*mockContactRepository)(nil)

func (m *mockContactRepository) List(ctx context.Context) ([]*data.Contact, error) {
	return m.contacts, nil
}

func (m *mockContactRepository) GetByID(ctx context.Context, id int64) (*data.Contact, error) {
	for _, c := range m.contacts {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, notFound("contact", id)
}

func (m *mockContactRepository) Create(ctx context.Context, contact *data.Contact) error {
	contact.ID = int64(len(m.contacts) + 1)
	m.contacts = append(m.contacts, contact)
	return nil
}

func (m *mockContactRepository) Update(ctx context.Context, contact *data.Contact) error {
	return nil
}

func (m *mockContactRepository) SetStatus(ctx context.Context, id int64, status string) error {
	c, err := m.GetByID(ctx, id)
	if err != nil {
		return err
	}
	c.Status = status
	return nil
}

func (m *mockContactRepository) Delete(ctx context.Context, id int64) error {
	for i, c := range m.contacts {
		if c.ID == id {
			m.contacts = append(m.contacts[:i], m.contacts[i+1:]...)
			return nil
		}
	}
	return notFound("contact", id)
}

type mockMeetingRepository struct {
	meetings []*data.Meeting
}

var _ MeetingRepository = (*mockMeetingRepository)(nil)

func (m *mockMeetingRepository) List(ctx context.Context) ([]*data.Meeting, error) {
	return m.meetings, nil
}

func (m *mockMeetingRepository) GetByID(ctx context.Context, id int64) (*data.Meeting, error) {
	for _, mt := range m.meetings {
		if mt.ID == id {
			return mt, nil
		}
	}
	return nil, notFound("meeting", id)
}

func (m *mockMeetingRepository) Create(ctx context.Context, meeting *data.Meeting) error {
	meeting.ID = int64(len(m.meetings) + 1)
	m.meetings = append(m.meetings, meeting)
	return nil
}

func (m *mockMeetingRepository) Update(ctx context.Context, meeting *data.Meeting) error {
	return nil
}

func (m *mockMeetingRepository) Delete(ctx context.Context, id int64) error {
	return nil
}

// --- newsletter ---

type mockSubscriberRepository struct {
	subscribers []*data.Subscriber
	synced      []int64
}

var _ SubscriberRepository = (*mockSubscriberRepository)(nil)

func (m *mockSubscriberRepository) List(ctx context.Context) ([]*data.Subscriber, error) {
	return m.subscribers, nil
}

func (m *mockSubscriberRepository) GetByEmail(ctx context.Context, email string) (*data.Subscriber, error) {
	for _, s := range m.subscribers {
		if s.Email == email {
			return s, nil
		}
	}
	return nil, data.ErrNotFound
}

func (m *mockSubscriberRepository) GetByToken(ctx context.Context, token string) (*data.Subscriber, error) {
	for _, s := range m.subscribers {
		if s.Token == token {
			return s, nil
		}
	}
	return nil, data.ErrNotFound
}

func (m *mockSubscriberRepository) Create(ctx context.Context, subscriber *data.Subscriber) error {
	subscriber.ID = int64(len(m.subscribers) + 1)
	cp := *subscriber
	m.subscribers = append(m.subscribers, &cp)
	return nil
}

func (m *mockSubscriberRepository) SetStatus(ctx context.Context, id int64, status string) error {
	for _, s := range m.subscribers {
		if s.ID == id {
			s.Status = status
			return nil
		}
	}
	return notFound("subscriber", id)
}

func (m *mockSubscriberRepository) MarkSynced(ctx context.Context, id int64) error {
	m.synced = append(m.synced, id)
	for _, s := range m.subscribers {
		if s.ID == id {
			s.Synced = true
		}
	}
	return nil
}

func (m *mockSubscriberRepository) Delete(ctx context.Context, id int64) error { return nil }

type mockListProvider struct {
	err   error
	calls []notify.Subscription
}

var _ notify.ListProvider = (*mockListProvider)(nil)

func (m *mockListProvider) Subscribe(ctx context.Context, sub notify.Subscription) error {
	m.calls = append(m.calls, sub)
	return m.err
}

// --- chatbot ---

type mockKnowledgeRepository struct {
	entries     []*data.KnowledgeEntry
	activeCalls int
}

var _ KnowledgeRepository = (*mockKnowledgeRepository)(nil)

func (m *mockKnowledgeRepository) List(ctx context.Context) ([]*data.KnowledgeEntry, error) {
	return m.entries, nil
}

func (m *mockKnowledgeRepository) ListActive(ctx context.Context) ([]*data.KnowledgeEntry, error) {
	m.activeCalls++
	var out []*data.KnowledgeEntry
	for _, e := range m.entries {
		if e.IsActive {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockKnowledgeRepository) GetByID(ctx context.Context, id int64) (*data.KnowledgeEntry, error) {
	for _, e := range m.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, notFound("knowledge entry", id)
}

func (m *mockKnowledgeRepository) Create(ctx context.Context, entry *data.KnowledgeEntry) error {
	entry.ID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockKnowledgeRepository) Update(ctx context.Context, entry *data.KnowledgeEntry) error {
	return nil
}

func (m *mockKnowledgeRepository) Delete(ctx context.Context, id int64) error { return nil }

type mockConversationRepository struct {
	conversations []*data.Conversation
}

var _ ConversationRepository = (*mockConversationRepository)(nil)

func (m *mockConversationRepository) List(ctx context.Context) ([]*data.Conversation, error) {
	return m.conversations, nil
}

func (m *mockConversationRepository) Create(ctx context.Context, conversation *data.Conversation) error {
	conversation.ID = int64(len(m.conversations) + 1)
	m.conversations = append(m.conversations, conversation)
	return nil
}

func (m *mockConversationRepository) Delete(ctx context.Context, id int64) error { return nil }

// --- users ---

type mockUserRepository struct {
	users   []*data.User
	touched []int64
	deleted []int64
}

var _ UserRepository = (*mockUserRepository)(nil)

func (m *mockUserRepository) List(ctx context.Context) ([]*data.User, error) { return m.users, nil }

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*data.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, notFound("user", id)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*data.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, data.ErrNotFound
}

func (m *mockUserRepository) Create(ctx context.Context, user *data.User) error {
	user.ID = int64(len(m.users) + 1)
	cp := *user
	m.users = append(m.users, &cp)
	return nil
}

func (m *mockUserRepository) Update(ctx context.Context, user *data.User) error {
	for i, u := range m.users {
		if u.ID == user.ID {
			cp := *user
			m.users[i] = &cp
			return nil
		}
	}
	return notFound("user", user.ID)
}

func (m *mockUserRepository) TouchLogin(ctx context.Context, id int64, at time.Time) error {
	m.touched = append(m.touched, id)
	return nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockUserRepository) CountActiveAdmins(ctx context.Context) (int, error) {
	n := 0
	for _, u := range m.users {
		if u.IsAdmin() && u.IsActive {
			n++
		}
	}
	return n, nil
}

// --- dashboard ---

type mockCounter map[string]int

var _ StatusCounter = mockCounter(nil)

func (m mockCounter) CountByStatus(ctx context.Context, status string) (int, error) {
	return m[status], nil
}

type mockSubscriberCounter int

var _ SubscriberCounter = mockSubscriberCounter(0)

func (m mockSubscriberCounter) Count(ctx context.Context) (int, error) { return int(m), nil }

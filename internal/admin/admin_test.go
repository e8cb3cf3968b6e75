//go:build unit

package admin

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"studio-site/internal/data"
	"studio-site/internal/middleware"
	"studio-site/internal/service"
	"studio-site/internal/validate"

	"github.com/google/go-cmp/cmp"
)

type mockNavigationStore struct {
	items   map[int64]*data.NavigationItem
	nextID  int64
	creates int
}

var _ NavigationStore = (*mockNavigationStore)(nil)

func newMockNavigationStore() *mockNavigationStore {
	return &mockNavigationStore{items: map[int64]*data.NavigationItem{}, nextID: 1}
}

func (m *mockNavigationStore) ListNavigation(ctx context.Context) ([]*data.NavigationItem, error) {
	var out []*data.NavigationItem
	for id := int64(1); id < m.nextID; id++ {
		if it, ok := m.items[id]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *mockNavigationStore) GetNavigation(ctx context.Context, id int64) (*data.NavigationItem, error) {
	if it, ok := m.items[id]; ok {
		return it, nil
	}
	return nil, data.ErrNotFound
}

func (m *mockNavigationStore) CreateNavigation(ctx context.Context, in service.NavigationInput) (*data.NavigationItem, error) {
	m.creates++
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	it := &data.NavigationItem{ID: m.nextID, Label: in.Label, Href: in.Href, Position: in.Position, IsActive: in.IsActive}
	m.items[it.ID] = it
	m.nextID++
	return it, nil
}

func (m *mockNavigationStore) UpdateNavigation(ctx context.Context, id int64, in service.NavigationInput) (*data.NavigationItem, error) {
	it, ok := m.items[id]
	if !ok {
		return nil, data.ErrNotFound
	}
	it.Label, it.Href, it.Position, it.IsActive = in.Label, in.Href, in.Position, in.IsActive
	return it, nil
}

func (m *mockNavigationStore) DeleteNavigation(ctx context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return data.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

type mockPostStore struct {
	created  service.PostInput
	authorID int64
	post     *data.Post
}

var _ PostStore = (*mockPostStore)(nil)

func (m *mockPostStore) ListPosts(ctx context.Context) ([]*data.Post, error) {
	return []*data.Post{m.post}, nil
}

func (m *mockPostStore) GetPost(ctx context.Context, id int64) (*data.Post, error) {
	if m.post == nil || m.post.ID != id {
		return nil, data.ErrNotFound
	}
	return m.post, nil
}

func (m *mockPostStore) CreatePost(ctx context.Context, in service.PostInput, authorID int64) (*data.Post, error) {
	m.created, m.authorID = in, authorID
	return &data.Post{ID: 42}, nil
}

func (m *mockPostStore) UpdatePost(ctx context.Context, id int64, in service.PostInput) (*data.Post, error) {
	return m.post, nil
}

func (m *mockPostStore) DeletePost(ctx context.Context, id int64) error { return nil }

func (m *mockPostStore) ListCategories(ctx context.Context) ([]*data.Category, error) {
	return []*data.Category{{ID: 3, Name: "Design"}}, nil
}

type mockMeetingStore struct {
	in     service.MeetingInput
	status string
	calls  int
}

var _ MeetingStore = (*mockMeetingStore)(nil)

func (m *mockMeetingStore) ListMeetings(ctx context.Context) ([]*data.Meeting, error) { return nil, nil }

func (m *mockMeetingStore) GetMeeting(ctx context.Context, id int64) (*data.Meeting, error) {
	return nil, data.ErrNotFound
}

func (m *mockMeetingStore) CreateMeeting(ctx context.Context, in service.MeetingInput, status string) (*data.Meeting, error) {
	m.calls++
	m.in, m.status = in, status
	return &data.Meeting{ID: 1}, nil
}

func (m *mockMeetingStore) UpdateMeeting(ctx context.Context, id int64, in service.MeetingInput, status string) (*data.Meeting, error) {
	m.calls++
	return &data.Meeting{ID: id}, nil
}

func (m *mockMeetingStore) DeleteMeeting(ctx context.Context, id int64) error { return nil }

type mockConversationStore struct {
	deleted []int64
}

var _ ConversationStore = (*mockConversationStore)(nil)

func (m *mockConversationStore) ListConversations(ctx context.Context) ([]*data.Conversation, error) {
	entry := int64(4)
	return []*data.Conversation{{ID: 1, SessionID: "0123456789abcdef", Question: "Tarifs ?", Answer: "Sur devis.", EntryID: &entry}}, nil
}

func (m *mockConversationStore) DeleteConversation(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func TestFilter(t *testing.T) {
	rows := []Row{
		{ID: 1, Cells: []string{"Été en agence", "Design"}, Status: "published"},
		{ID: 2, Cells: []string{"Refonte", "Développement"}, Status: "draft"},
		{ID: 3, Cells: []string{"Audit SEO", "Marketing"}, Status: "published"},
	}

	ids := func(rows []Row) []int64 {
		var out []int64
		for _, r := range rows {
			out = append(out, r.ID)
		}
		return out
	}

	tests := []struct {
		name string
		q    ListQuery
		want []int64
	}{
		{"empty query keeps all", ListQuery{}, []int64{1, 2, 3}},
		{"accent insensitive", ListQuery{Search: "ete"}, []int64{1}},
		{"case insensitive on any cell", ListQuery{Search: "DÉVELOPPEMENT"}, []int64{2}},
		{"status only", ListQuery{Status: "published"}, []int64{1, 3}},
		{"status and search", ListQuery{Status: "published", Search: "seo"}, []int64{3}},
		{"no match", ListQuery{Search: "absent"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ids(Filter(rows, tt.q))); diff != "" {
				t.Errorf("Filter() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	nav := NewNavigationResource(newMockNavigationStore())
	conv := NewConversationResource(&mockConversationStore{})
	reg := NewRegistry(nav, conv)

	if res, ok := reg.Get("conversations"); !ok || res != conv {
		t.Fatalf("Get(conversations) = %v, %v", res, ok)
	}
	if _, ok := reg.Get("unknown"); ok {
		t.Error("expected unknown slug to be missing")
	}

	var slugs []string
	for _, m := range reg.Menu() {
		slugs = append(slugs, m.Slug)
	}
	if diff := cmp.Diff([]string{"navigation", "conversations"}, slugs); diff != "" {
		t.Errorf("menu order mismatch (-want +got):\n%s", diff)
	}

	replacement := NewNavigationResource(newMockNavigationStore())
	reg.Register(replacement)
	if len(reg.All()) != 2 {
		t.Fatalf("want 2 resources after replacing, got %d", len(reg.All()))
	}
	if res, _ := reg.Get("navigation"); res != replacement {
		t.Error("expected the later registration to win")
	}
}

func TestNavigationResource_CreateListDelete(t *testing.T) {
	ctx := context.Background()
	res := NewNavigationResource(newMockNavigationStore())

	id, err := res.Create(ctx, url.Values{"label": {" Blog "}, "href": {"/blog"}, "position": {"3"}, "is_active": {"on"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	rows, _ := res.List(ctx)
	if len(rows) != 1 || rows[0].ID != id {
		t.Fatalf("created item missing from list: %+v", rows)
	}
	if diff := cmp.Diff([]string{"3", "Blog", "/blog", "Oui"}, rows[0].Cells); diff != "" {
		t.Errorf("cells mismatch (-want +got):\n%s", diff)
	}

	values, err := res.Values(ctx, id)
	if err != nil {
		t.Fatalf("Values: %v", err)
	}
	if values["is_active"] != "on" || values["open_in_new_tab"] != "" {
		t.Errorf("unexpected checkbox values: %v", values)
	}

	if err := res.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	rows, _ = res.List(ctx)
	if len(rows) != 0 {
		t.Errorf("deleted item still listed: %+v", rows)
	}
}

func TestNavigationResource_InvalidNumber(t *testing.T) {
	store := newMockNavigationStore()
	res := NewNavigationResource(store)

	_, err := res.Create(context.Background(), url.Values{"label": {""}, "href": {"/"}, "position": {"abc"}})
	verrs, ok := validate.As(err)
	if !ok {
		t.Fatalf("want validation errors, got %v", err)
	}
	if !verrs.Has("position") || !verrs.Has("label") {
		t.Errorf("want position and label errors, got %v", verrs)
	}
	if store.creates != 0 {
		t.Error("store must not be called when the form does not convert")
	}
}

func TestPostResource(t *testing.T) {
	catID := int64(3)
	store := &mockPostStore{post: &data.Post{ID: 9, Title: "Bonjour", CategoryID: &catID, Status: data.PostDraft}}
	res := NewPostResource(store)

	ctx := middleware.SetUserInfo(context.Background(), &middleware.UserInfo{Subject: "editor", UserID: 7})
	id, err := res.Create(ctx, url.Values{
		"title":       {"Nouvel article"},
		"content":     {"\n# Titre\n\nTexte  \n"},
		"category_id": {"3"},
		"status":      {"published"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id != 42 || store.authorID != 7 {
		t.Errorf("want id 42 by author 7, got %d by %d", id, store.authorID)
	}
	if store.created.CategoryID != 3 || store.created.Content != "# Titre\n\nTexte" {
		t.Errorf("unexpected input: %+v", store.created)
	}

	fields, err := res.Fields(ctx)
	if err != nil {
		t.Fatalf("Fields: %v", err)
	}
	var categoryOptions []Option
	for _, f := range fields {
		if f.Name == "category_id" {
			categoryOptions = f.Options
		}
	}
	want := []Option{{Value: "", Label: "Aucune"}, {Value: "3", Label: "Design"}}
	if diff := cmp.Diff(want, categoryOptions); diff != "" {
		t.Errorf("category options mismatch (-want +got):\n%s", diff)
	}

	values, _ := res.Values(ctx, 9)
	if values["category_id"] != "3" || values["status"] != data.PostDraft {
		t.Errorf("unexpected values: %v", values)
	}
	rows, _ := res.List(ctx)
	if rows[0].Status != data.PostDraft {
		t.Errorf("want row status draft, got %q", rows[0].Status)
	}
}

func TestMeetingResource(t *testing.T) {
	t.Run("decodes date and defaults duration", func(t *testing.T) {
		store := &mockMeetingStore{}
		res := NewMeetingResource(store)
		_, err := res.Create(context.Background(), url.Values{
			"name":         {"Ana"},
			"email":        {"ana@example.com"},
			"topic":        {"Refonte"},
			"preferred_at": {"2026-03-02T14:30"},
			"status":       {"confirmed"},
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		want := time.Date(2026, 3, 2, 14, 30, 0, 0, time.Local)
		if !store.in.PreferredAt.Equal(want) {
			t.Errorf("want %v, got %v", want, store.in.PreferredAt)
		}
		if store.in.DurationMinutes != 30 || store.status != data.MeetingConfirmed {
			t.Errorf("unexpected input: %+v status %q", store.in, store.status)
		}
	})

	t.Run("rejects bad date and status", func(t *testing.T) {
		store := &mockMeetingStore{}
		res := NewMeetingResource(store)
		err := res.Update(context.Background(), 1, url.Values{
			"name":         {"Ana"},
			"email":        {"ana@example.com"},
			"topic":        {"Refonte"},
			"preferred_at": {"demain"},
			"status":       {"done"},
		})
		verrs, ok := validate.As(err)
		if !ok {
			t.Fatalf("want validation errors, got %v", err)
		}
		if !verrs.Has("preferred_at") || !verrs.Has("status") {
			t.Errorf("want preferred_at and status errors, got %v", verrs)
		}
		if store.calls != 0 {
			t.Error("store must not be called")
		}
	})
}

func TestReadOnlyResources(t *testing.T) {
	ctx := context.Background()
	store := &mockConversationStore{}
	res := NewConversationResource(store)

	meta := res.Meta()
	if meta.CanCreate || meta.CanEdit {
		t.Error("conversations must be read-only")
	}
	if _, err := res.Create(ctx, url.Values{}); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Create: want ErrReadOnly, got %v", err)
	}
	if err := res.Update(ctx, 1, url.Values{}); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Update: want ErrReadOnly, got %v", err)
	}

	rows, _ := res.List(ctx)
	if diff := cmp.Diff([]string{"01234567", "Tarifs ?", "Sur devis.", "#4"}, rows[0].Cells[1:]); diff != "" {
		t.Errorf("cells mismatch (-want +got):\n%s", diff)
	}
	if err := res.Delete(ctx, 1); err != nil || len(store.deleted) != 1 {
		t.Errorf("Delete: err %v, deleted %v", err, store.deleted)
	}
}

//go:build unit

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"studio-site/internal/auth"
	"studio-site/internal/data"
	"studio-site/internal/logger"
	"studio-site/internal/service"
	"studio-site/internal/session"
	"studio-site/internal/view"
)

// mockSessionManager is an in-memory session.Manager.
type mockSessionManager struct {
	values map[string]interface{}
}

var _ session.Manager = (*mockSessionManager)(nil)

func (m *mockSessionManager) LoadAndSave(next http.Handler) http.Handler { return next }
func (m *mockSessionManager) Put(ctx context.Context, key string, val interface{}) {
	m.values[key] = val
}
func (m *mockSessionManager) GetString(ctx context.Context, key string) string {
	s, _ := m.values[key].(string)
	return s
}
func (m *mockSessionManager) GetInt64(ctx context.Context, key string) int64 {
	n, _ := m.values[key].(int64)
	return n
}
func (m *mockSessionManager) PopString(ctx context.Context, key string) string {
	s := m.GetString(ctx, key)
	delete(m.values, key)
	return s
}
func (m *mockSessionManager) RenewToken(ctx context.Context) error   { return nil }
func (m *mockSessionManager) Destroy(ctx context.Context) error      { return nil }
func (m *mockSessionManager) Remove(ctx context.Context, key string) { delete(m.values, key) }

func TestAuthorizer(t *testing.T) {
	e, err := auth.NewMemoryEnforcer()
	if err != nil {
		t.Fatalf("NewMemoryEnforcer failed: %v", err)
	}
	if err := auth.SeedDefaultPolicies(e, logger.Nop()); err != nil {
		t.Fatalf("SeedDefaultPolicies failed: %v", err)
	}

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUserInfo(r.Context())
		w.Write([]byte("hello " + user.Subject))
	})

	tests := []struct {
		name         string
		role         string
		method       string
		path         string
		wantStatus   int
		wantLocation string
	}{
		{"anonymous sees login", "", "GET", "/admin/login", http.StatusOK, ""},
		{"anonymous redirected", "", "GET", "/admin/posts?page=2", http.StatusSeeOther, "/admin/login?next=%2Fadmin%2Fposts%3Fpage%3D2"},
		{"editor on posts", auth.SubjectEditor, "POST", "/admin/posts/3", http.StatusOK, ""},
		{"editor on users", auth.SubjectEditor, "GET", "/admin/users", http.StatusForbidden, ""},
		{"admin on users", auth.SubjectAdmin, "GET", "/admin/users", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := &mockSessionManager{values: map[string]interface{}{}}
			if tt.role != "" {
				sm.values[session.KeyUserRole] = tt.role
				sm.values[session.KeyUserID] = int64(1)
			}
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rr := httptest.NewRecorder()
			Authorizer(e, sm)(ok).ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("want status %d; got %d", tt.wantStatus, rr.Code)
			}
			if tt.wantLocation != "" && rr.Header().Get("Location") != tt.wantLocation {
				t.Errorf("want redirect to %q; got %q", tt.wantLocation, rr.Header().Get("Location"))
			}
		})
	}
}

var errorTemplates = fstest.MapFS{
	"templates/layouts/base.html": {Data: []byte(`{{define "base"}}<title>{{.Site.Name}}</title>{{template "content" .}}{{end}}`)},
	"templates/pages/error.html":  {Data: []byte(`{{template "base" .}}{{define "content"}}Erreur {{.StatusCode}}: {{.StatusText}}{{end}}`)},
}

func TestError(t *testing.T) {
	v, err := view.New(errorTemplates)
	if err != nil {
		t.Fatalf("view.New failed: %v", err)
	}
	mw := Error(logger.Nop(), v)

	tests := []struct {
		name       string
		handler    AppHandler
		wantStatus int
		wantBody   string
	}{
		{
			name:       "success",
			handler:    func(w http.ResponseWriter, r *http.Request) *AppError { w.Write([]byte("ok")); return nil },
			wantStatus: http.StatusOK,
			wantBody:   "ok",
		},
		{
			name: "missing record",
			handler: func(w http.ResponseWriter, r *http.Request) *AppError {
				return Internal(data.ErrNotFound, "Chargement impossible")
			},
			wantStatus: http.StatusNotFound,
			wantBody:   "Erreur 404",
		},
		{
			name: "storage failure",
			handler: func(w http.ResponseWriter, r *http.Request) *AppError {
				return Internal(errors.New("disk full"), "Chargement impossible")
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   "Chargement impossible",
		},
		{
			name:       "panic",
			handler:    func(w http.ResponseWriter, r *http.Request) *AppError { panic("boom") },
			wantStatus: http.StatusInternalServerError,
			wantBody:   "Erreur 500",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			mw(tt.handler).ServeHTTP(rr, httptest.NewRequest("GET", "/x", nil))
			if rr.Code != tt.wantStatus {
				t.Errorf("want status %d; got %d", tt.wantStatus, rr.Code)
			}
			if !strings.Contains(rr.Body.String(), tt.wantBody) {
				t.Errorf("want body containing %q; got %q", tt.wantBody, rr.Body.String())
			}
		})
	}
}

type stubSiteLoader struct {
	info *service.SiteInfo
	err  error
}

func (s stubSiteLoader) SiteInfo(ctx context.Context) (*service.SiteInfo, error) { return s.info, s.err }

func TestSiteContext(t *testing.T) {
	var got *view.Site
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = view.SiteFromContext(r.Context())
	})

	loader := stubSiteLoader{info: &service.SiteInfo{
		Settings:   map[string]string{"site_name": "Atelier Nord", "contact_email": "bonjour@nord.example"},
		Navigation: []*data.NavigationItem{{Label: "Blog", Href: "/blog"}},
	}}
	SiteContext(loader, "https://nord.example", "G-1", logger.Nop())(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	if got.Name != "Atelier Nord" || got.ContactEmail != "bonjour@nord.example" || len(got.Navigation) != 1 {
		t.Errorf("unexpected site: %+v", got)
	}
	if !got.HasAnalytics() || got.BaseURL != "https://nord.example" {
		t.Errorf("want analytics and base url from config; got %+v", got)
	}

	failing := stubSiteLoader{err: errors.New("db down")}
	rr := httptest.NewRecorder()
	SiteContext(failing, "", "", logger.Nop())(next).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	if rr.Code != http.StatusOK || got.Name != "Studio" || got.HasAnalytics() {
		t.Errorf("want defaults when loading fails; got %+v", got)
	}
}

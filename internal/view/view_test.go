//go:build unit

package view

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"studio-site/internal/validate"
	"studio-site/web"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"templates/layouts/base.html": {Data: []byte(`{{define "base"}}<title>{{.Site.Name}}</title>{{template "content" .}}{{end}}`)},
		"templates/partials/notice.html": {Data: []byte(`{{define "notice"}}[{{.}}]{{end}}`)},
		"templates/pages/home.html": {Data: []byte(`{{template "base" .}}{{define "content"}}{{template "notice" "hi"}} {{.Title}} {{date .When}} {{label "pending"}} {{.CurrentPath}}{{end}}`)},
	}
}

func TestView_Render(t *testing.T) {
	v, err := New(testFS())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/blog", nil)
	r = r.WithContext(WithSite(r.Context(), &Site{Name: "Atelier"}))
	w := httptest.NewRecorder()

	err = v.Page(w, r, http.StatusUnprocessableEntity, "home.html", map[string]interface{}{
		"Title": "Hello",
		"When":  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("want status 422; got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"<title>Atelier</title>", "[hi]", "Hello", "01/03/2025", "En attente", "/blog"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected body to contain %q, got %s", want, body)
		}
	}
}

func TestView_MissingTemplate(t *testing.T) {
	v, err := New(testFS())
	if err != nil {
		t.Fatal(err)
	}
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	if err := v.Page(w, r, http.StatusOK, "nope.html", nil); err == nil {
		t.Error("expected an error for a missing template")
	}
	if w.Body.Len() != 0 {
		t.Error("expected nothing written on error")
	}
}

func TestSiteFromContext_Default(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	site := SiteFromContext(r.Context())
	if site == nil || site.HasAnalytics() {
		t.Errorf("expected an empty site without analytics, got %+v", site)
	}
}

func TestEmbeddedTemplates(t *testing.T) {
	v, err := New(web.TemplateFS)
	if err != nil {
		t.Fatalf("embedded templates do not parse: %v", err)
	}
	pages := []string{
		"home.html", "blog.html", "post.html", "contact.html", "reserver.html",
		"legal.html", "privacy.html", "unsubscribe.html", "error.html",
		"admin_login.html", "admin_dashboard.html", "admin_list.html",
		"admin_form.html", "admin_delete.html", "admin_comments.html",
	}
	for _, name := range pages {
		if !v.Has(name) {
			t.Errorf("missing page %s", name)
		}
	}
}

func TestFormFuncs(t *testing.T) {
	errs := validate.Errors{"email": "Adresse e-mail invalide."}
	if got := fieldError(errs, "email"); got != "Adresse e-mail invalide." {
		t.Errorf("fieldError = %q", got)
	}
	if got := fieldError(nil, "email"); got != "" {
		t.Errorf("fieldError without errors = %q", got)
	}
	if got := formValue(map[string]string{"name": "Léa"}, "name"); got != "Léa" {
		t.Errorf("formValue = %q", got)
	}
	if got := formValue(nil, "name"); got != "" {
		t.Errorf("formValue without values = %q", got)
	}
	if got := nl2br("a <b>\r\nc"); got != "a &lt;b&gt;<br>c" {
		t.Errorf("nl2br = %q", got)
	}
}

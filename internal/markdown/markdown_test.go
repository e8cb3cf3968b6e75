//go:build unit

package markdown

import (
	"strings"
	"testing"
	"time"
)

func TestRenderer_Render(t *testing.T) {
	r := NewRenderer()

	tests := []struct {
		name     string
		source   string
		contains []string
		excludes []string
	}{
		{
			name:     "headings and emphasis",
			source:   "# Title\n\nSome **bold** text.",
			contains: []string{`<h1 id="title">Title</h1>`, "<strong>bold</strong>"},
		},
		{
			name:     "gfm table",
			source:   "| a | b |\n|---|---|\n| 1 | 2 |",
			contains: []string{"<table>", "<td>1</td>"},
		},
		{
			name:     "script is stripped",
			source:   "Hello <script>alert('x')</script>",
			contains: []string{"Hello"},
			excludes: []string{"<script>"},
		},
		{
			name:     "javascript links are stripped",
			source:   "[click](javascript:alert(1))",
			excludes: []string{"javascript:"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Render(tt.source)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(string(got), want) {
					t.Errorf("expected output to contain %q, got %s", want, got)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(string(got), bad) {
					t.Errorf("expected output not to contain %q, got %s", bad, got)
				}
			}
		})
	}
}

func TestRenderer_Excerpt(t *testing.T) {
	r := NewRenderer()

	got, err := r.Excerpt("## Intro\n\nGo is a **simple** language for services.", 20)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Intro Go is a…" {
		t.Errorf("unexpected excerpt %q", got)
	}

	short, err := r.Excerpt("Short.", 20)
	if err != nil {
		t.Fatal(err)
	}
	if short != "Short." {
		t.Errorf("unexpected excerpt %q", short)
	}
}

func TestParse(t *testing.T) {
	src := "---\ntitle: Mon article\nslug: mon-article\ncategory: Design\nstatus: published\ndate: 2025-03-01T09:00:00Z\n---\n\n# Corps\n"
	doc, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Meta.Title != "Mon article" || doc.Meta.Slug != "mon-article" || doc.Meta.Category != "Design" {
		t.Errorf("unexpected meta: %+v", doc.Meta)
	}
	if !doc.Meta.Date.Equal(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected date: %v", doc.Meta.Date)
	}
	if doc.Body != "# Corps" {
		t.Errorf("unexpected body: %q", doc.Body)
	}

	plain, err := Parse(strings.NewReader("Just text"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plain.Meta.Title != "" || plain.Body != "Just text" {
		t.Errorf("unexpected document: %+v", plain)
	}
}

// Package markdown renders blog content to safe HTML and reads markdown
// files carrying YAML front matter.
package markdown

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/adrg/frontmatter"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Renderer converts markdown to sanitized HTML. It is safe for concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	strict *bluemonday.Policy
}

// NewRenderer creates a Renderer with GitHub flavoured markdown.
func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
		),
	)
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	return &Renderer{md: md, policy: policy, strict: bluemonday.StrictPolicy()}
}

// Render converts markdown source to HTML safe to embed in a page.
func (r *Renderer) Render(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes())), nil
}

// PlainText strips every tag from s and unescapes entities.
func (r *Renderer) PlainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(r.strict.Sanitize(s)))
}

// Excerpt renders source, strips it to text and cuts it to at most n runes
// on a word boundary.
func (r *Renderer) Excerpt(source string, n int) (string, error) {
	rendered, err := r.Render(source)
	if err != nil {
		return "", err
	}
	text := strings.Join(strings.Fields(r.PlainText(string(rendered))), " ")
	if utf8.RuneCountInString(text) <= n {
		return text, nil
	}
	cut := []rune(text)[:n]
	if i := strings.LastIndexByte(string(cut), ' '); i > 0 {
		return string(cut)[:i] + "…", nil
	}
	return string(cut) + "…", nil
}

// FrontMatter holds the metadata accepted at the top of an imported post.
type FrontMatter struct {
	Title    string    `yaml:"title"`
	Slug     string    `yaml:"slug"`
	Excerpt  string    `yaml:"excerpt"`
	Category string    `yaml:"category"`
	Cover    string    `yaml:"cover"`
	Status   string    `yaml:"status"`
	Date     time.Time `yaml:"date"`
}

// Document is a markdown file split into metadata and body.
type Document struct {
	Meta FrontMatter
	Body string
}

// Parse reads a markdown document. Front matter is optional.
func Parse(r io.Reader) (*Document, error) {
	var meta FrontMatter
	body, err := frontmatter.Parse(r, &meta)
	if err != nil {
		return nil, fmt.Errorf("failed to parse front matter: %w", err)
	}
	return &Document{Meta: meta, Body: strings.TrimSpace(string(body))}, nil
}

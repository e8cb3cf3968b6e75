package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"path/filepath"
)

// View represents a collection of parsed HTML templates.
type View struct {
	templates map[string]*template.Template
}

// New creates a new View by parsing all templates from the given filesystem.
// Every page is parsed together with the layouts and partials, so a page
// picks its layout by invoking it.
func New(templateFS fs.FS) (*View, error) {
	v := &View{
		templates: make(map[string]*template.Template),
	}

	layouts, err := fs.Glob(templateFS, "templates/layouts/*.html")
	if err != nil {
		return nil, err
	}
	partials, err := fs.Glob(templateFS, "templates/partials/*.html")
	if err != nil {
		return nil, err
	}
	pages, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no page templates found")
	}

	shared := append(append([]string{}, layouts...), partials...)
	for _, page := range pages {
		files := append(append([]string{}, shared...), page)
		name := filepath.Base(page)
		ts, err := template.New(name).Funcs(funcs).ParseFS(templateFS, files...)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		v.templates[name] = ts
	}

	return v, nil
}

// Has reports whether a page template exists.
func (v *View) Has(name string) bool {
	_, ok := v.templates[name]
	return ok
}

// Render executes a specific template by name. The site settings found in
// the request context are exposed to the template as .Site.
func (v *View) Render(w io.Writer, r *http.Request, name string, data map[string]interface{}) error {
	buf, err := v.execute(r, name, data)
	if err != nil {
		return err
	}
	_, err = buf.WriteTo(w)
	return err
}

// Page renders a template as a complete HTML response with the given
// status. Nothing is written when the template fails.
func (v *View) Page(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]interface{}) error {
	buf, err := v.execute(r, name, data)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}

func (v *View) execute(r *http.Request, name string, data map[string]interface{}) (*bytes.Buffer, error) {
	ts, ok := v.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %s not found", name)
	}

	if data == nil {
		data = make(map[string]interface{})
	}
	if _, ok := data["Site"]; !ok {
		data["Site"] = SiteFromContext(r.Context())
	}
	data["CurrentPath"] = r.URL.Path

	// Execute the template into a buffer first to catch any errors
	// before writing to the response writer.
	buf := new(bytes.Buffer)
	if err := ts.Execute(buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf, nil
}

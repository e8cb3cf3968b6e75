// Package admin describes the back-office screens. Each resource exposes the
// same list, form and delete surface so one set of handlers and templates can
// serve every table.
package admin

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"studio-site/internal/slug"
)

// ErrReadOnly is returned when a write is attempted on a resource whose
// records are only listed and deleted from the back-office.
var ErrReadOnly = errors.New("resource is read-only")

// FieldKind selects the form control used for a field.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindTextarea FieldKind = "textarea"
	KindMarkdown FieldKind = "markdown"
	KindNumber   FieldKind = "number"
	KindCheckbox FieldKind = "checkbox"
	KindSelect   FieldKind = "select"
	KindEmail    FieldKind = "email"
	KindURL      FieldKind = "url"
	KindDateTime FieldKind = "datetime-local"
	KindPassword FieldKind = "password"
)

// Option is a choice of a select field or a list filter.
type Option struct {
	Value string
	Label string
}

// Field is one input of a resource form.
type Field struct {
	Name     string
	Label    string
	Kind     FieldKind
	Required bool
	Options  []Option
	Help     string
	ReadOnly bool
}

// Meta describes how a resource appears in the back-office.
type Meta struct {
	Slug     string
	Title    string
	Singular string
	// Columns are the headers of Row.Cells, in order.
	Columns []string
	// Filters are the statuses the list can be narrowed to. Empty means the
	// resource has no status.
	Filters   []Option
	CanCreate bool
	CanEdit   bool
}

// Row is one line of a resource list.
type Row struct {
	ID     int64
	Cells  []string
	Status string
}

// Resource is a table managed from the back-office.
type Resource interface {
	Meta() Meta
	Fields(ctx context.Context) ([]Field, error)
	List(ctx context.Context) ([]Row, error)
	// Values returns the current form values of a record, keyed by field name.
	Values(ctx context.Context, id int64) (map[string]string, error)
	Create(ctx context.Context, form url.Values) (int64, error)
	Update(ctx context.Context, id int64, form url.Values) error
	Delete(ctx context.Context, id int64) error
}

// Registry holds the resources in menu order.
type Registry struct {
	order  []Resource
	bySlug map[string]Resource
}

// NewRegistry registers resources in the given order. A later resource with
// the same slug replaces the earlier one.
func NewRegistry(resources ...Resource) *Registry {
	r := &Registry{bySlug: make(map[string]Resource, len(resources))}
	for _, res := range resources {
		r.Register(res)
	}
	return r
}

// Register adds a resource.
func (r *Registry) Register(res Resource) {
	s := res.Meta().Slug
	if _, ok := r.bySlug[s]; ok {
		for i, existing := range r.order {
			if existing.Meta().Slug == s {
				r.order[i] = res
			}
		}
	} else {
		r.order = append(r.order, res)
	}
	r.bySlug[s] = res
}

// Get returns the resource registered under slug.
func (r *Registry) Get(slug string) (Resource, bool) {
	res, ok := r.bySlug[slug]
	return res, ok
}

// All returns the resources in menu order.
func (r *Registry) All() []Resource {
	out := make([]Resource, len(r.order))
	copy(out, r.order)
	return out
}

// Menu returns the meta of every resource in menu order.
func (r *Registry) Menu() []Meta {
	out := make([]Meta, 0, len(r.order))
	for _, res := range r.order {
		out = append(out, res.Meta())
	}
	return out
}

// ListQuery narrows a resource list.
type ListQuery struct {
	Search string
	Status string
}

// Filter keeps the rows whose status equals q.Status (when set) and with a
// cell containing q.Search, ignoring case and accents.
func Filter(rows []Row, q ListQuery) []Row {
	needle := slug.Fold(strings.TrimSpace(q.Search))
	status := strings.TrimSpace(q.Status)
	if needle == "" && status == "" {
		return rows
	}
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if status != "" && row.Status != status {
			continue
		}
		if needle != "" && !row.matches(needle) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func (r Row) matches(needle string) bool {
	for _, cell := range r.Cells {
		if strings.Contains(slug.Fold(cell), needle) {
			return true
		}
	}
	return false
}

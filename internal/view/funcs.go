package view

import (
	"fmt"
	"html/template"
	"strings"
	"time"
	"unicode/utf8"

	"studio-site/internal/validate"
)

var funcs = template.FuncMap{
	"date":       formatDate,
	"datetime":   formatDateTime,
	"isoDate":    isoDate,
	"truncate":   truncate,
	"dict":       dict,
	"add":        func(a, b int) int { return a + b },
	"label":      label,
	"hasPrefix":  strings.HasPrefix,
	"lower":      strings.ToLower,
	"fieldError": fieldError,
	"value":      formValue,
	"nl2br":      nl2br,
}

func asTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, !t.IsZero()
	default:
		return time.Time{}, false
	}
}

func formatDate(v interface{}) string {
	if t, ok := asTime(v); ok {
		return t.Format("02/01/2006")
	}
	return ""
}

func formatDateTime(v interface{}) string {
	if t, ok := asTime(v); ok {
		return t.Format("02/01/2006 15:04")
	}
	return ""
}

func isoDate(v interface{}) string {
	if t, ok := asTime(v); ok {
		return t.Format("2006-01-02")
	}
	return ""
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "…"
}

// dict builds a map from alternating keys and values, for passing several
// values to a nested template.
func dict(kv ...interface{}) (map[string]interface{}, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("dict needs an even number of arguments")
	}
	m := make(map[string]interface{}, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict key %v is not a string", kv[i])
		}
		m[key] = kv[i+1]
	}
	return m, nil
}

var labels = map[string]string{
	"draft":        "Brouillon",
	"published":    "Publié",
	"pending":      "En attente",
	"approved":     "Approuvé",
	"rejected":     "Rejeté",
	"new":          "Nouveau",
	"read":         "Lu",
	"archived":     "Archivé",
	"confirmed":    "Confirmé",
	"cancelled":    "Annulé",
	"subscribed":   "Abonné",
	"unsubscribed": "Désabonné",
	"admin":        "Administrateur",
	"editor":       "Éditeur",
}

// label returns the display name of a status or role value.
func label(s string) string {
	if l, ok := labels[s]; ok {
		return l
	}
	return s
}

// fieldError returns the validation message of a form field, or "" when
// the page carries no errors.
func fieldError(errs interface{}, field string) string {
	if e, ok := errs.(validate.Errors); ok {
		return e.Get(field)
	}
	return ""
}

// formValue returns a submitted or stored form value, or "".
func formValue(values interface{}, name string) string {
	if m, ok := values.(map[string]string); ok {
		return m[name]
	}
	return ""
}

// nl2br escapes s and keeps its line breaks.
func nl2br(s string) template.HTML {
	escaped := template.HTMLEscapeString(strings.ReplaceAll(s, "\r\n", "\n"))
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

package admin

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"studio-site/internal/data"
	"studio-site/internal/validate"
)

// DateTimeLayout is the value format of a datetime-local input.
const DateTimeLayout = "2006-01-02T15:04"

// form reads typed values out of a posted form, collecting conversion
// errors under the field name.
type form struct {
	values url.Values
	errs   validate.Errors
}

func newForm(values url.Values) *form {
	return &form{values: values, errs: validate.Errors{}}
}

func (f *form) str(name string) string {
	return strings.TrimSpace(f.values.Get(name))
}

// text keeps inner whitespace and line breaks, only trimming the ends.
func (f *form) text(name string) string {
	return strings.TrimRight(strings.TrimLeft(f.values.Get(name), "\r\n"), " \t\r\n")
}

func (f *form) int(name string) int {
	v := f.str(name)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		f.errs.Add(name, "Nombre entier attendu.")
		return 0
	}
	return n
}

func (f *form) int64(name string) int64 {
	v := f.str(name)
	if v == "" {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		f.errs.Add(name, "Nombre entier attendu.")
		return 0
	}
	return n
}

func (f *form) bool(name string) bool {
	switch strings.ToLower(f.str(name)) {
	case "", "0", "false", "off":
		return false
	default:
		return true
	}
}

func (f *form) datetime(name string) time.Time {
	v := f.str(name)
	if v == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation(DateTimeLayout, v, time.Local)
	if err != nil {
		f.errs.Add(name, "Date invalide.")
		return time.Time{}
	}
	return t
}

// check returns nil when every value converted. Otherwise it validates in as
// well, so the form shows all its errors at once, and returns the union.
func (f *form) check(in interface{}) error {
	if len(f.errs) == 0 {
		return nil
	}
	if err := validate.Struct(in); err != nil {
		verrs, ok := validate.As(err)
		if !ok {
			return err
		}
		for field, msg := range verrs {
			f.errs.Add(field, msg)
		}
	}
	return f.errs
}

func boolValue(b bool) string {
	if b {
		return "on"
	}
	return ""
}

func intValue(n int) string {
	return strconv.Itoa(n)
}

func idValue(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

func dateTimeValue(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(time.Local).Format(DateTimeLayout)
}

func dateCell(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(time.Local).Format("02/01/2006 15:04")
}

func yesNo(b bool) string {
	if b {
		return "Oui"
	}
	return "Non"
}

var (
	postStatuses = []Option{
		{Value: data.PostDraft, Label: "Brouillon"},
		{Value: data.PostPublished, Label: "Publié"},
	}
	contactStatuses = []Option{
		{Value: data.ContactNew, Label: "Nouveau"},
		{Value: data.ContactRead, Label: "Lu"},
		{Value: data.ContactArchived, Label: "Archivé"},
	}
	meetingStatuses = []Option{
		{Value: data.MeetingPending, Label: "En attente"},
		{Value: data.MeetingConfirmed, Label: "Confirmé"},
		{Value: data.MeetingCancelled, Label: "Annulé"},
	}
	subscriberStatuses = []Option{
		{Value: data.SubscriberActive, Label: "Abonné"},
		{Value: data.SubscriberUnsubscribed, Label: "Désabonné"},
	}
	roles = []Option{
		{Value: data.RoleEditor, Label: "Éditeur"},
		{Value: data.RoleAdmin, Label: "Administrateur"},
	}
	durations = []Option{
		{Value: "15", Label: "15 minutes"},
		{Value: "30", Label: "30 minutes"},
		{Value: "45", Label: "45 minutes"},
		{Value: "60", Label: "1 heure"},
		{Value: "90", Label: "1 h 30"},
	}
)

// choice returns the value of a select field, recording an error when it is
// not one of options.
func (f *form) choice(name string, options []Option) string {
	v := f.str(name)
	for _, o := range options {
		if o.Value == v {
			return v
		}
	}
	f.errs.Add(name, "Valeur non autorisée.")
	return v
}

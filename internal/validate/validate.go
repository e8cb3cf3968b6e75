// Package validate checks form structs against their `validate` tags and
// turns violations into per-field messages keyed by the `form` tag.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	keyPattern  = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("key", func(fl validator.FieldLevel) bool {
		return keyPattern.MatchString(fl.Field().String())
	})
	return v
}

// Errors maps a form field name to the message shown next to it.
type Errors map[string]string

// Error implements the error interface.
func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Get returns the message for a field, or "".
func (e Errors) Get(field string) string {
	return e[field]
}

// Has reports whether a field failed validation.
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Add records a message for a field, keeping the first one.
func (e Errors) Add(field, message string) {
	if _, ok := e[field]; !ok {
		e[field] = message
	}
}

// Err returns e as an error, or nil when it is empty.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Struct validates s. It returns nil, an Errors value, or an error when s
// cannot be validated at all.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate %T: %w", s, err)
	}
	out := make(Errors, len(verrs))
	for _, fe := range verrs {
		out.Add(fe.Field(), message(fe))
	}
	return out
}

// As extracts field errors from err.
func As(err error) (Errors, bool) {
	var verrs Errors
	if errors.As(err, &verrs) {
		return verrs, true
	}
	return nil, false
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Ce champ est obligatoire."
	case "email":
		return "Adresse e-mail invalide."
	case "url", "http_url":
		return "Adresse web invalide."
	case "slug":
		return "Lettres minuscules, chiffres et tirets uniquement."
	case "key":
		return "Lettres minuscules, chiffres et tirets bas uniquement."
	case "oneof":
		return "Valeur non autorisée."
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s caractères maximum.", fe.Param())
		}
		return fmt.Sprintf("Doit être inférieur ou égal à %s.", fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s caractères minimum.", fe.Param())
		}
		return fmt.Sprintf("Doit être supérieur ou égal à %s.", fe.Param())
	case "gte":
		return fmt.Sprintf("Doit être supérieur ou égal à %s.", fe.Param())
	case "lte":
		return fmt.Sprintf("Doit être inférieur ou égal à %s.", fe.Param())
	default:
		return "Valeur invalide."
	}
}

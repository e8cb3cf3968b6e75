package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"studio-site/internal/middleware"
	"studio-site/internal/session"
	"studio-site/internal/validate"
	"studio-site/internal/view"

	"github.com/go-chi/chi/v5"
)

// renderer renders pages with the data every layout expects: the pending
// flash notice and the signed-in user.
type renderer struct {
	view *view.View
	sm   session.Manager
}

func (rd *renderer) page(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]interface{}) *middleware.AppError {
	if data == nil {
		data = make(map[string]interface{})
	}
	data["Flash"] = session.PopFlash(r.Context(), rd.sm)
	data["User"] = middleware.GetUserInfo(r.Context())
	if err := rd.view.Page(w, r, status, name, data); err != nil {
		return &middleware.AppError{Error: err, Message: "Impossible d'afficher la page", Code: http.StatusInternalServerError}
	}
	return nil
}

func (rd *renderer) flash(r *http.Request, kind, message string) {
	session.PutFlash(r.Context(), rd.sm, kind, message)
}

// redirect answers a form post with a 303 so a reload does not repost it.
func redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// fieldErrors returns the per-field messages carried by err, if any.
func fieldErrors(err error) (validate.Errors, bool) {
	if err == nil {
		return nil, false
	}
	return validate.As(err)
}

// formValues flattens a posted form for re-displaying it.
func formValues(values url.Values) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

// idParam reads a positive numeric URL parameter.
func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id " + strconv.Quote(chi.URLParam(r, name)))
	}
	return id, nil
}

// localPath returns target when it is a path on this site, fallback otherwise.
func localPath(target, fallback string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}
	u, err := url.Parse(target)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return fallback
	}
	return target
}

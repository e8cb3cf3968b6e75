package middleware

import (
	"net/http"
	"net/url"

	"studio-site/internal/auth"
	"studio-site/internal/session"
)

// LoginPath is where anonymous visitors of the back-office are sent.
const LoginPath = "/admin/login"

// Enforcer decides whether a subject may perform an action on an object.
type Enforcer interface {
	Enforce(rvals ...interface{}) (bool, error)
}

// Authorizer creates a new middleware for authorization.
// It checks the user's permissions using Casbin based on session data.
// Anonymous visitors who are refused are redirected to the login page;
// signed-in users get a 403.
func Authorizer(e Enforcer, sm session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			userInfo := &UserInfo{Subject: auth.SubjectAnonymous}
			if role := sm.GetString(ctx, session.KeyUserRole); role != "" {
				userInfo = &UserInfo{
					Subject: role,
					UserID:  sm.GetInt64(ctx, session.KeyUserID),
					Email:   sm.GetString(ctx, session.KeyEmail),
					Name:    sm.GetString(ctx, session.KeyName),
				}
			}
			r = r.WithContext(SetUserInfo(ctx, userInfo))

			allowed, err := e.Enforce(userInfo.Subject, r.URL.Path, r.Method)
			if err != nil {
				http.Error(w, "Authorization error", http.StatusInternalServerError)
				return
			}

			if !allowed {
				if userInfo.Subject == auth.SubjectAnonymous {
					target := LoginPath + "?next=" + url.QueryEscape(r.URL.RequestURI())
					http.Redirect(w, r, target, http.StatusSeeOther)
					return
				}
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

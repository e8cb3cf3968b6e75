package session

import (
	"context"
	"net/http"
	"time"

	"studio-site/internal/config"

	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"
)

// Keys of the values stored in an admin session.
const (
	KeyUserID   = "user_id"
	KeyUserRole = "user_role"
	KeyEmail    = "user_email"
	KeyName     = "user_name"
	KeyState    = "oidc_state"
	keyFlash    = "flash"
)

// Manager is an interface that abstracts the session management implementation.
// This allows for easier testing and dependency injection.
type Manager interface {
	LoadAndSave(next http.Handler) http.Handler
	Put(ctx context.Context, key string, val interface{})
	GetString(ctx context.Context, key string) string
	GetInt64(ctx context.Context, key string) int64
	PopString(ctx context.Context, key string) string
	RenewToken(ctx context.Context) error
	Destroy(ctx context.Context) error
	Remove(ctx context.Context, key string)
}

var _ Manager = (*scs.SessionManager)(nil)

// New creates an scs session manager whose sessions live in the sessions
// table of the application database.
func New(cfg config.SessionConfig, driver string, db *sqlx.DB, secure bool) *scs.SessionManager {
	sm := scs.New()
	if driver == "mysql" {
		sm.Store = mysqlstore.New(db.DB)
	} else {
		sm.Store = sqlite3store.New(db.DB)
	}
	sm.Lifetime = time.Duration(cfg.Lifetime) * time.Hour
	if cfg.CookieName != "" {
		sm.Cookie.Name = cfg.CookieName
	}
	sm.Cookie.HttpOnly = true
	sm.Cookie.Persist = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = secure
	return sm
}

package handler

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"net/http"

	"studio-site/internal/auth"
	"studio-site/internal/data"
	"studio-site/internal/logger"
	"studio-site/internal/middleware"
	"studio-site/internal/service"
	"studio-site/internal/session"
	"studio-site/internal/view"

	"golang.org/x/oauth2"
)

// UserAuthenticator checks back-office credentials.
type UserAuthenticator interface {
	Authenticate(ctx context.Context, email, password string) (*data.User, error)
	FindActiveByEmail(ctx context.Context, email string) (*data.User, error)
}

// SSOProvider is the OIDC sign-in flow used by the back-office.
type SSOProvider interface {
	AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string
	ClaimsFromCode(ctx context.Context, code string) (*auth.Claims, error)
}

var _ SSOProvider = (*auth.Authenticator)(nil)

// AuthHandler holds the dependencies for the authentication handlers.
type AuthHandler struct {
	renderer
	users UserAuthenticator
	oidc  SSOProvider
	log   logger.Logger
}

// NewAuthHandler creates a new AuthHandler. oidc is nil when single
// sign-on is not configured.
func NewAuthHandler(users UserAuthenticator, oidc SSOProvider, v *view.View, sm session.Manager, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		renderer: renderer{view: v, sm: sm},
		users:    users,
		oidc:     oidc,
		log:      log,
	}
}

func (h *AuthHandler) loginFormHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	next := localPath(r.URL.Query().Get("next"), "/admin")
	if middleware.GetUserInfo(r.Context()).IsAuthenticated() {
		http.Redirect(w, r, next, http.StatusFound)
		return nil
	}
	return h.renderLogin(w, r, http.StatusOK, "", next, "")
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, email, next, message string) *middleware.AppError {
	return h.page(w, r, status, "admin_login.html", map[string]interface{}{
		"Email":       email,
		"Next":        next,
		"Error":       message,
		"SSOEnabled":  h.oidc != nil,
		"HideSidebar": true,
	})
}

func (h *AuthHandler) loginHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := r.ParseForm(); err != nil {
		return &middleware.AppError{Error: err, Message: "Formulaire illisible", Code: http.StatusBadRequest}
	}
	email := r.PostForm.Get("email")
	next := localPath(r.PostForm.Get("next"), "/admin")

	user, err := h.users.Authenticate(r.Context(), email, r.PostForm.Get("password"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.log.With(map[string]interface{}{"email": email}).Warn("Failed sign-in")
			return h.renderLogin(w, r, http.StatusUnauthorized, email, next, "Adresse e-mail ou mot de passe incorrect.")
		}
		return middleware.Internal(err, "Connexion impossible")
	}
	if err := h.signIn(r.Context(), user); err != nil {
		return middleware.Internal(err, "Connexion impossible")
	}
	redirect(w, r, next)
	return nil
}

// signIn starts an authenticated session for user.
func (h *AuthHandler) signIn(ctx context.Context, user *data.User) error {
	if err := h.sm.RenewToken(ctx); err != nil {
		return err
	}
	h.sm.Put(ctx, session.KeyUserID, user.ID)
	h.sm.Put(ctx, session.KeyUserRole, user.Role)
	h.sm.Put(ctx, session.KeyEmail, user.Email)
	h.sm.Put(ctx, session.KeyName, user.Name)
	session.PutFlash(ctx, h.sm, session.FlashSuccess, "Bienvenue, "+user.Name+".")
	h.log.With(map[string]interface{}{"user_id": user.ID, "role": user.Role}).Info("User signed in")
	return nil
}

// handleLogout destroys the session and returns to the public site.
func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.sm.Destroy(r.Context()); err != nil {
		h.log.Error(err, "Failed to destroy session")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleOIDCLogin redirects the user to the OIDC provider to log in.
// It uses a random 'state' string kept in the session for CSRF protection.
func (h *AuthHandler) handleOIDCLogin(w http.ResponseWriter, r *http.Request) {
	if h.oidc == nil {
		http.NotFound(w, r)
		return
	}
	state, err := randString(16)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.sm.Put(r.Context(), session.KeyState, state)
	http.Redirect(w, r, h.oidc.AuthCodeURL(state), http.StatusFound)
}

// handleOIDCCallback is the redirect URL for the OIDC provider. The
// verified email must belong to an active back-office user.
func (h *AuthHandler) handleOIDCCallback(w http.ResponseWriter, r *http.Request) {
	if h.oidc == nil {
		http.NotFound(w, r)
		return
	}
	ctx := r.Context()
	want := h.sm.PopString(ctx, session.KeyState)
	if want == "" || r.URL.Query().Get("state") != want {
		http.Error(w, "state did not match", http.StatusBadRequest)
		return
	}

	claims, err := h.oidc.ClaimsFromCode(ctx, r.URL.Query().Get("code"))
	if errors.Is(err, auth.ErrEmailNotVerified) {
		h.log.Warn("OIDC sign-in refused: email not verified by the provider")
		h.flash(r, session.FlashError, "Votre fournisseur d'identité n'a pas vérifié cette adresse e-mail.")
		redirect(w, r, middleware.LoginPath)
		return
	}
	if err != nil {
		h.log.Error(err, "OIDC sign-in failed")
		h.flash(r, session.FlashError, "La connexion unique a échoué.")
		redirect(w, r, middleware.LoginPath)
		return
	}

	user, err := h.users.FindActiveByEmail(ctx, claims.Email)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			h.log.Error(err, "Failed to look up OIDC user")
		}
		h.flash(r, session.FlashError, "Aucun compte actif ne correspond à "+claims.Email+".")
		redirect(w, r, middleware.LoginPath)
		return
	}
	if err := h.signIn(ctx, user); err != nil {
		h.log.Error(err, "Failed to start session")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusFound)
}

// randString is a helper function to generate a random string for the 'state' parameter.
func randString(nByte int) (string, error) {
	b := make([]byte, nByte)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

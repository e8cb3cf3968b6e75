package handler

import (
	"io/fs"
	"net/http"

	"studio-site/internal/logger"
	"studio-site/internal/middleware"
	"studio-site/internal/session"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RouterConfig gathers the handlers and middleware the router is built from.
type RouterConfig struct {
	Site  *SiteHandler
	Blog  *BlogHandler
	Seo   *SeoHandler
	Auth  *AuthHandler
	Admin *AdminHandler

	Session     session.Manager
	Authz       func(http.Handler) http.Handler
	SiteContext func(http.Handler) http.Handler
	Errors      func(middleware.AppHandler) http.Handler
	Static      fs.FS
	Log         logger.Logger
}

// NewRouter creates and configures a new chi router.
func NewRouter(c RouterConfig) *chi.Mux {
	r := chi.NewRouter()
	e := c.Errors

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(c.Log))
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/robots.txt", c.Seo.robotsHandler)
	r.Get("/sitemap.xml", c.Seo.sitemapHandler)
	if c.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(c.Static))))
	}

	r.Group(func(r chi.Router) {
		r.Use(c.Session.LoadAndSave)
		r.Use(c.SiteContext)
		r.NotFound(e(notFoundHandler).ServeHTTP)

		// Public site
		r.Method(http.MethodGet, "/", e(c.Site.homeHandler))
		r.Method(http.MethodGet, "/mentions-legales", e(c.Site.legalHandler))
		r.Method(http.MethodGet, "/confidentialite", e(c.Site.privacyHandler))
		r.Method(http.MethodGet, "/contact", e(c.Site.contactFormHandler))
		r.Method(http.MethodPost, "/contact", e(c.Site.contactSubmitHandler))
		r.Method(http.MethodGet, "/reserver", e(c.Site.bookingFormHandler))
		r.Method(http.MethodPost, "/reserver", e(c.Site.bookingSubmitHandler))
		r.Method(http.MethodPost, "/newsletter", e(c.Site.newsletterHandler))
		r.Method(http.MethodGet, "/newsletter/unsubscribe/{token}", e(c.Site.unsubscribeHandler))
		r.Post("/api/chat", c.Site.chatHandler)

		r.Method(http.MethodGet, "/blog", e(c.Blog.listHandler))
		r.Method(http.MethodGet, "/blog/{slug}", e(c.Blog.postHandler))
		r.Method(http.MethodPost, "/blog/{slug}/comments", e(c.Blog.commentHandler))

		// Single sign-on
		r.Get("/auth/oidc/login", c.Auth.handleOIDCLogin)
		r.Get("/auth/oidc/callback", c.Auth.handleOIDCCallback)

		// Back-office
		r.Route("/admin", func(r chi.Router) {
			r.Use(c.Authz)

			r.Method(http.MethodGet, "/login", e(c.Auth.loginFormHandler))
			r.Method(http.MethodPost, "/login", e(c.Auth.loginHandler))
			r.Post("/logout", c.Auth.handleLogout)

			r.Method(http.MethodGet, "/", e(c.Admin.dashboardHandler))
			r.Method(http.MethodGet, "/comments", e(c.Admin.commentsHandler))
			r.Method(http.MethodPost, "/comments/{id}/{action}", e(c.Admin.commentActionHandler))
			r.Method(http.MethodPost, "/posts/import", e(c.Admin.importHandler))

			r.Method(http.MethodGet, "/{resource}", e(c.Admin.listHandler))
			r.Method(http.MethodGet, "/{resource}/new", e(c.Admin.newHandler))
			r.Method(http.MethodPost, "/{resource}", e(c.Admin.createHandler))
			r.Method(http.MethodGet, "/{resource}/{id}/edit", e(c.Admin.editHandler))
			r.Method(http.MethodPost, "/{resource}/{id}", e(c.Admin.updateHandler))
			r.Method(http.MethodGet, "/{resource}/{id}/delete", e(c.Admin.deleteConfirmHandler))
			r.Method(http.MethodPost, "/{resource}/{id}/delete", e(c.Admin.deleteHandler))
		})
	})

	return r
}

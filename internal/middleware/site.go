package middleware

import (
	"context"
	"net/http"

	"studio-site/internal/logger"
	"studio-site/internal/service"
	"studio-site/internal/view"
)

// SiteLoader returns the settings and navigation of the public site.
type SiteLoader interface {
	SiteInfo(ctx context.Context) (*service.SiteInfo, error)
}

// SiteContext loads the site settings and navigation into the request
// context for the layouts. A failed load is logged and the page is served
// with defaults.
func SiteContext(loader SiteLoader, baseURL, analyticsID string, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			site := &view.Site{Name: "Studio", BaseURL: baseURL, AnalyticsID: analyticsID}
			info, err := loader.SiteInfo(r.Context())
			if err != nil {
				log.Error(err, "Failed to load site settings")
			} else {
				if name := info.Settings["site_name"]; name != "" {
					site.Name = name
				}
				site.Tagline = info.Settings["site_tagline"]
				site.ContactEmail = info.Settings["contact_email"]
				site.Phone = info.Settings["contact_phone"]
				site.Address = info.Settings["address"]
				site.Navigation = info.Navigation
			}
			next.ServeHTTP(w, r.WithContext(view.WithSite(r.Context(), site)))
		})
	}
}

package view

import (
	"context"

	"studio-site/internal/data"
)

type siteKey struct{}

// Site is the per-request data every public layout needs.
type Site struct {
	Name         string
	Tagline      string
	ContactEmail string
	Phone        string
	Address      string
	BaseURL      string
	AnalyticsID  string
	Navigation   []*data.NavigationItem
}

// HasAnalytics reports whether the analytics tag should be rendered.
func (s *Site) HasAnalytics() bool {
	return s != nil && s.AnalyticsID != ""
}

// WithSite stores the site data in ctx.
func WithSite(ctx context.Context, site *Site) context.Context {
	return context.WithValue(ctx, siteKey{}, site)
}

// SiteFromContext returns the site data stored in ctx, or an empty Site.
func SiteFromContext(ctx context.Context) *Site {
	if site, ok := ctx.Value(siteKey{}).(*Site); ok && site != nil {
		return site
	}
	return &Site{Name: "Studio"}
}

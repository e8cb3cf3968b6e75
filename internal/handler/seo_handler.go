package handler

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"

	"studio-site/internal/data"
	"studio-site/internal/logger"
)

// PublishedPosts lists the posts that belong in the sitemap.
type PublishedPosts interface {
	AllPublished(ctx context.Context) ([]*data.Post, error)
}

// SeoHandler holds dependencies for SEO-related handlers.
type SeoHandler struct {
	posts   PublishedPosts
	baseURL string
	log     logger.Logger
}

// NewSeoHandler creates a new SeoHandler. baseURL has no trailing slash.
func NewSeoHandler(posts PublishedPosts, baseURL string, log logger.Logger) *SeoHandler {
	return &SeoHandler{posts: posts, baseURL: baseURL, log: log}
}

// robotsHandler keeps crawlers out of the back-office.
func (h *SeoHandler) robotsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "User-agent: *")
	fmt.Fprintln(w, "Allow: /")
	fmt.Fprintln(w, "Disallow: /admin")
	fmt.Fprintln(w, "Disallow: /api/")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Sitemap: %s/sitemap.xml\n", h.baseURL)
}

const sitemapDateFormat = "2006-01-02"

// staticPages are the public pages that do not come from the database.
var staticPages = []string{"/", "/blog", "/contact", "/reserver", "/mentions-legales", "/confidentialite"}

type sitemapURL struct {
	XMLName xml.Name `xml:"url"`
	Loc     string   `xml:"loc"`
	LastMod string   `xml:"lastmod,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// sitemapHandler generates and serves a dynamic sitemap.xml.
func (h *SeoHandler) sitemapHandler(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.AllPublished(r.Context())
	if err != nil {
		h.log.Error(err, "Failed to retrieve posts for sitemap")
		http.Error(w, "Failed to retrieve posts for sitemap", http.StatusInternalServerError)
		return
	}

	sitemap := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  make([]sitemapURL, 0, len(staticPages)+len(posts)),
	}
	for _, path := range staticPages {
		sitemap.URLs = append(sitemap.URLs, sitemapURL{Loc: h.baseURL + path})
	}
	for _, post := range posts {
		sitemap.URLs = append(sitemap.URLs, sitemapURL{
			Loc:     h.baseURL + "/blog/" + post.Slug,
			LastMod: post.UpdatedAt.Format(sitemapDateFormat),
		})
	}

	w.Header().Set("Content-Type", "application/xml")
	w.Write([]byte(xml.Header))
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(sitemap); err != nil {
		h.log.Error(err, "Failed to generate sitemap XML")
	}
}

package handler

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"go-blog-app/internal/data"
	"go-blog-app/internal/service"
)

const sitemapDateFormat = "2006-01-02"

// SeoHandler holds dependencies for SEO-related handlers.
type SeoHandler struct {
	blog    service.BlogServicer
	baseURL string
}

// NewSeoHandler creates a new SeoHandler. baseURL is the public origin of the
// site, without a trailing slash.
func NewSeoHandler(blog service.BlogServicer, baseURL string) *SeoHandler {
	return &SeoHandler{blog: blog, baseURL: strings.TrimRight(baseURL, "/")}
}

// robotsHandler serves a static robots.txt file.
func (h *SeoHandler) robotsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "User-agent: *")
	fmt.Fprintln(w, "Allow: /")
	fmt.Fprintln(w, "Disallow: /admin/")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Sitemap: "+h.baseURL+"/sitemap.xml")
}

type sitemapURL struct {
	XMLName xml.Name `xml:"url"`
	Loc     string   `xml:"loc"`
	LastMod string   `xml:"lastmod"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// sitemapHandler generates and serves a dynamic sitemap.xml. Every visible
// article gets one entry per supported locale.
func (h *SeoHandler) sitemapHandler(w http.ResponseWriter, r *http.Request) {
	articles, err := h.blog.PublishedArticles(r.Context())
	if err != nil {
		http.Error(w, "Failed to retrieve articles for sitemap", http.StatusInternalServerError)
		return
	}

	sitemap := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  make([]sitemapURL, 0, len(articles)*len(data.Locales)+len(data.Locales)),
	}
	for _, locale := range data.Locales {
		sitemap.URLs = append(sitemap.URLs, sitemapURL{
			Loc: fmt.Sprintf("%s/%s/", h.baseURL, locale),
		})
	}
	for _, article := range articles {
		for _, locale := range data.Locales {
			sitemap.URLs = append(sitemap.URLs, sitemapURL{
				Loc:     fmt.Sprintf("%s/%s/article/%s", h.baseURL, locale, article.Slug),
				LastMod: article.UpdatedAt.Format(sitemapDateFormat),
			})
		}
	}

	w.Header().Set("Content-Type", "application/xml")
	w.Write([]byte(xml.Header))
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(sitemap); err != nil {
		http.Error(w, "Failed to generate sitemap XML", http.StatusInternalServerError)
		return
	}
}

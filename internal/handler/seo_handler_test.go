//go:build unit

package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-blog-app/internal/data"
)

func TestRobotsHandler(t *testing.T) {
	h := NewSeoHandler(&mockBlogService{}, "https://blog.example.com/")

	rec := httptest.NewRecorder()
	h.robotsHandler(rec, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))

	body := rec.Body.String()
	if !strings.Contains(body, "User-agent: *") {
		t.Error("expected a user-agent line")
	}
	if !strings.Contains(body, "Disallow: /admin/") {
		t.Error("expected the back-office to be disallowed")
	}
	if !strings.Contains(body, "Sitemap: https://blog.example.com/sitemap.xml") {
		t.Error("expected the sitemap URL with the trailing slash trimmed from the base")
	}
}

func TestSitemapHandler(t *testing.T) {
	a := data.NewArticle()
	a.ID = 1
	a.Slug = "bonjour"
	a.UpdatedAt = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	h := NewSeoHandler(&mockBlogService{articles: []*data.Article{a}}, "https://blog.example.com")

	rec := httptest.NewRecorder()
	h.sitemapHandler(rec, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/xml" {
		t.Errorf("expected application/xml, got %q", got)
	}

	body := rec.Body.String()
	// One entry per locale for the index and for the article.
	for _, locale := range data.Locales {
		if !strings.Contains(body, "https://blog.example.com/"+locale+"/</loc>") {
			t.Errorf("expected an index entry for locale %s", locale)
		}
		if !strings.Contains(body, "https://blog.example.com/"+locale+"/article/bonjour") {
			t.Errorf("expected an article entry for locale %s", locale)
		}
	}
	if !strings.Contains(body, "<lastmod>2024-06-15</lastmod>") {
		t.Error("expected the article modification date")
	}
}

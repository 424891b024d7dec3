//go:build unit

package handler

import (
	"context"
	"html/template"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"go-blog-app/internal/config"
	"go-blog-app/internal/data"
	"go-blog-app/internal/logger"
	"go-blog-app/internal/middleware"
	"go-blog-app/internal/service"
	"go-blog-app/internal/view"
	"go-blog-app/web"
)

// mockBlogService is a canned-answer implementation of service.BlogServicer.
type mockBlogService struct {
	errToReturn error
	indexPage   *service.IndexPage
	articlePage *service.ArticlePage
	category    *service.CategoryPage
	articles    []*data.Article
	categories  []*data.Category

	lastLocale string
	lastQuery  string
}

var _ service.BlogServicer = (*mockBlogService)(nil)

func (m *mockBlogService) Index(ctx context.Context, locale string, page int) (*service.IndexPage, error) {
	m.lastLocale = locale
	return m.indexPage, m.errToReturn
}

func (m *mockBlogService) Article(ctx context.Context, slug, locale string) (*service.ArticlePage, error) {
	m.lastLocale = locale
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	return m.articlePage, nil
}

func (m *mockBlogService) Category(ctx context.Context, slug, locale string, page int) (*service.CategoryPage, error) {
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	return m.category, nil
}

func (m *mockBlogService) Search(ctx context.Context, query, locale string) ([]*data.Article, []*data.Category, error) {
	m.lastQuery = query
	m.lastLocale = locale
	return m.articles, m.categories, m.errToReturn
}

func (m *mockBlogService) PublishedArticles(ctx context.Context) ([]*data.Article, error) {
	return m.articles, m.errToReturn
}

// newPublicRouter mounts the public handlers the way the server router does.
func newPublicRouter(t *testing.T, blog service.BlogServicer) *chi.Mux {
	t.Helper()
	views, err := view.New(web.TemplateFS)
	if err != nil {
		t.Fatalf("failed to parse templates: %v", err)
	}
	log := logger.New(config.LogConfig{Level: "error", Format: "json"}, io.Discard)
	errMw := middleware.Error(log, views)
	h := NewBlogHandler(blog, views, log)

	r := chi.NewRouter()
	r.Route("/{locale}", func(r chi.Router) {
		r.Use(middleware.Locale)
		r.Method(http.MethodGet, "/", errMw(h.indexHandler))
		r.Method(http.MethodGet, "/article/{slug}", errMw(h.articleHandler))
		r.Method(http.MethodGet, "/category/{slug}", errMw(h.categoryHandler))
		r.Method(http.MethodGet, "/search", errMw(h.searchHandler))
	})
	return r
}

func demoArticle(slug, title string) *data.Article {
	a := data.NewArticle()
	a.ID = 1
	a.Slug = slug
	a.IsPublished = true
	a.PublishedAt = time.Now().Add(-time.Hour)
	a.SetTitle(title, data.LocaleFR)
	return a
}

func TestIndexHandler(t *testing.T) {
	blog := &mockBlogService{
		indexPage: &service.IndexPage{
			Articles:    []*data.Article{demoArticle("bonjour", "Bonjour le monde")},
			CurrentPage: 1,
			TotalPages:  1,
		},
	}
	router := newPublicRouter(t, blog)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fr/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if blog.lastLocale != data.LocaleFR {
		t.Errorf("expected locale fr to reach the service, got %q", blog.lastLocale)
	}
	if !strings.Contains(rec.Body.String(), "Bonjour le monde") {
		t.Error("expected the article title in the response body")
	}
	if !strings.Contains(rec.Body.String(), `/fr/article/bonjour`) {
		t.Error("expected a locale-prefixed article link")
	}
}

func TestUnsupportedLocaleIs404(t *testing.T) {
	router := newPublicRouter(t, &mockBlogService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/zz/", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unsupported locale, got %d", rec.Code)
	}
}

func TestArticleHandler(t *testing.T) {
	blog := &mockBlogService{
		articlePage: &service.ArticlePage{
			Article: demoArticle("bonjour", "Bonjour le monde"),
			Body:    template.HTML("<p>rendu</p>"),
		},
	}
	router := newPublicRouter(t, blog)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fr/article/bonjour", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<p>rendu</p>") {
		t.Error("expected the rendered body to pass through unescaped")
	}
}

func TestArticleHandlerNotFound(t *testing.T) {
	router := newPublicRouter(t, &mockBlogService{errToReturn: data.ErrNotFound})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fr/article/fantome", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCategoryHandlerNotFound(t *testing.T) {
	router := newPublicRouter(t, &mockBlogService{errToReturn: data.ErrNotFound})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fr/category/inactive", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for an inactive category, got %d", rec.Code)
	}
}

func TestSearchHandlerEmptyQueryRedirects(t *testing.T) {
	blog := &mockBlogService{}
	router := newPublicRouter(t, blog)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/en/search", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/en/" {
		t.Errorf("expected redirect to /en/, got %q", got)
	}
	if blog.lastQuery != "" {
		t.Error("expected the service to be skipped for an empty query")
	}
}

func TestSearchHandler(t *testing.T) {
	blog := &mockBlogService{
		articles: []*data.Article{demoArticle("trouve", "Trouvé")},
	}
	router := newPublicRouter(t, blog)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fr/search?q=trou", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if blog.lastQuery != "trou" || blog.lastLocale != data.LocaleFR {
		t.Errorf("unexpected search arguments: %q %q", blog.lastQuery, blog.lastLocale)
	}
}

package service

import (
	"bytes"
	"context"
	"html/template"
	"math"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"go-blog-app/internal/cache"
	"go-blog-app/internal/data"
)

// PageSize is the number of articles per public listing page.
const PageSize = 10

// ArticleRepository defines the article persistence operations the services
// depend on.
type ArticleRepository interface {
	ListPublished(ctx context.Context, locale string, limit, offset int) ([]*data.Article, error)
	ListPublishedByCategory(ctx context.Context, categoryID int64, locale string, limit, offset int) ([]*data.Article, error)
	FindPublishedBySlug(ctx context.Context, slug, locale string) (*data.Article, error)
	Search(ctx context.Context, query, locale string, limit int) ([]*data.Article, error)
	CountPublished(ctx context.Context) (int, error)
	Get(ctx context.Context, id int64) (*data.Article, error)
	List(ctx context.Context) ([]*data.Article, error)
	Save(ctx context.Context, a *data.Article, flush bool) error
	Remove(ctx context.Context, a *data.Article, flush bool) error
}

// CategoryRepository defines the category persistence operations the services
// depend on.
type CategoryRepository interface {
	ListActive(ctx context.Context) ([]*data.Category, error)
	List(ctx context.Context) ([]*data.Category, error)
	FindBySlug(ctx context.Context, slug string) (*data.Category, error)
	Get(ctx context.Context, id int64) (*data.Category, error)
	Save(ctx context.Context, c *data.Category, flush bool) error
	Remove(ctx context.Context, c *data.Category, flush bool) error
}

// UserRepository defines the account persistence operations the services
// depend on.
type UserRepository interface {
	List(ctx context.Context) ([]*data.User, error)
	Get(ctx context.Context, id int64) (*data.User, error)
	FindByEmail(ctx context.Context, email string) (*data.User, error)
	Save(ctx context.Context, u *data.User, flush bool) error
	Remove(ctx context.Context, u *data.User, flush bool) error
}

// IndexPage is the public article index view model.
type IndexPage struct {
	Articles    []*data.Article
	Categories  []*data.Category
	CurrentPage int
	TotalPages  int
}

// CategoryPage is the public category listing view model.
type CategoryPage struct {
	Category    *data.Category
	Articles    []*data.Article
	CurrentPage int
}

// ArticlePage is the public article detail view model. Body holds the
// rendered, sanitized HTML for the requested locale.
type ArticlePage struct {
	Article *data.Article
	Body    template.HTML
}

// BlogServicer defines the public read operations the handlers depend on.
type BlogServicer interface {
	Index(ctx context.Context, locale string, page int) (*IndexPage, error)
	Article(ctx context.Context, slug, locale string) (*ArticlePage, error)
	Category(ctx context.Context, slug, locale string, page int) (*CategoryPage, error)
	Search(ctx context.Context, query, locale string) ([]*data.Article, []*data.Category, error)
	PublishedArticles(ctx context.Context) ([]*data.Article, error)
}

// BlogService provides the public read side of the site.
type BlogService struct {
	articles   ArticleRepository
	categories CategoryRepository
	cache      *cache.Cache
	markdown   goldmark.Markdown
	sanitizer  *bluemonday.Policy
}

// NewBlogService creates a BlogService. Article bodies are stored as authored
// (markdown or plain HTML); rendering converts markdown and strips anything
// the UGC policy disallows, with results cached per article/locale/revision.
func NewBlogService(articles ArticleRepository, categories CategoryRepository, renderCache *cache.Cache) *BlogService {
	md := goldmark.New(
		// Raw HTML passes through the renderer; the bluemonday pass right
		// after is what keeps the output safe.
		goldmark.WithRendererOptions(goldmarkhtml.WithUnsafe()),
	)
	return &BlogService{
		articles:   articles,
		categories: categories,
		cache:      renderCache,
		markdown:   md,
		sanitizer:  bluemonday.UGCPolicy(),
	}
}

// Index returns one page of the published article index plus the active
// categories for the sidebar.
func (s *BlogService) Index(ctx context.Context, locale string, page int) (*IndexPage, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * PageSize

	articles, err := s.articles.ListPublished(ctx, locale, PageSize, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.articles.CountPublished(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.categories.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	return &IndexPage{
		Articles:    articles,
		Categories:  categories,
		CurrentPage: page,
		TotalPages:  int(math.Ceil(float64(total) / float64(PageSize))),
	}, nil
}

// Article returns the published article for slug with its body rendered in
// the requested locale. Unpublished or future-dated articles yield
// data.ErrNotFound.
func (s *BlogService) Article(ctx context.Context, slug, locale string) (*ArticlePage, error) {
	article, err := s.articles.FindPublishedBySlug(ctx, slug, locale)
	if err != nil {
		return nil, err
	}
	body, err := s.renderBody(article, locale)
	if err != nil {
		return nil, err
	}
	return &ArticlePage{Article: article, Body: body}, nil
}

// Category returns one page of published articles in the category identified
// by slug. An unknown or inactive category yields data.ErrNotFound.
func (s *BlogService) Category(ctx context.Context, slug, locale string, page int) (*CategoryPage, error) {
	category, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !category.IsActive {
		return nil, data.ErrNotFound
	}

	if page < 1 {
		page = 1
	}
	offset := (page - 1) * PageSize
	articles, err := s.articles.ListPublishedByCategory(ctx, category.ID, locale, PageSize, offset)
	if err != nil {
		return nil, err
	}

	return &CategoryPage{Category: category, Articles: articles, CurrentPage: page}, nil
}

// Search returns published articles whose translation in the given locale
// matches the query, along with the active categories for the sidebar.
func (s *BlogService) Search(ctx context.Context, query, locale string) ([]*data.Article, []*data.Category, error) {
	articles, err := s.articles.Search(ctx, query, locale, PageSize)
	if err != nil {
		return nil, nil, err
	}
	categories, err := s.categories.ListActive(ctx)
	if err != nil {
		return nil, nil, err
	}
	return articles, categories, nil
}

// PublishedArticles returns every currently visible article, for the sitemap.
func (s *BlogService) PublishedArticles(ctx context.Context) ([]*data.Article, error) {
	total, err := s.articles.CountPublished(ctx)
	if err != nil {
		return nil, err
	}
	return s.articles.ListPublished(ctx, data.DefaultLocale, total, 0)
}

// renderBody converts the locale's content to sanitized HTML, consulting the
// render cache first. The cache key embeds UpdatedAt, so edits never serve a
// stale body.
func (s *BlogService) renderBody(article *data.Article, locale string) (template.HTML, error) {
	translation, ok := article.Translation(locale)
	if !ok {
		return "", nil
	}

	key := cache.RenderKey("article", article.ID, locale, article.UpdatedAt)
	if s.cache != nil {
		if cached, err := s.cache.Get(key); err == nil && cached != nil {
			return template.HTML(cached), nil
		}
	}

	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(translation.Content), &buf); err != nil {
		return "", err
	}
	safe := s.sanitizer.SanitizeBytes(buf.Bytes())

	if s.cache != nil {
		_ = s.cache.Set(key, safe, time.Hour)
	}
	return template.HTML(safe), nil
}

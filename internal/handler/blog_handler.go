package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"go-blog-app/internal/data"
	"go-blog-app/internal/logger"
	"go-blog-app/internal/middleware"
	"go-blog-app/internal/service"
	"go-blog-app/internal/view"
)

// BlogHandler holds the dependencies for the public site handlers.
type BlogHandler struct {
	blog service.BlogServicer
	view *view.View
	log  logger.Logger
}

// NewBlogHandler creates a new BlogHandler with the given dependencies.
func NewBlogHandler(blog service.BlogServicer, v *view.View, log logger.Logger) *BlogHandler {
	return &BlogHandler{blog: blog, view: v, log: log}
}

// indexHandler renders one page of the published article index.
func (h *BlogHandler) indexHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	locale := middleware.GetLocale(r.Context())
	page := queryInt(r, "page", 1)

	index, err := h.blog.Index(r.Context(), locale, page)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to load articles", Code: http.StatusInternalServerError}
	}

	payload := map[string]interface{}{
		"Locale":      locale,
		"Articles":    index.Articles,
		"Categories":  index.Categories,
		"CurrentPage": index.CurrentPage,
		"TotalPages":  index.TotalPages,
	}
	if err := h.view.Render(w, "index.html", payload); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render index", Code: http.StatusInternalServerError}
	}
	return nil
}

// articleHandler renders a single published article. Articles behind the
// publication gate answer 404 like any other missing page.
func (h *BlogHandler) articleHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	locale := middleware.GetLocale(r.Context())
	slug := chi.URLParam(r, "slug")

	page, err := h.blog.Article(r.Context(), slug, locale)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return &middleware.AppError{Error: err, Message: "Article not found", Code: http.StatusNotFound}
		}
		return &middleware.AppError{Error: err, Message: "Failed to load article", Code: http.StatusInternalServerError}
	}

	payload := map[string]interface{}{
		"Locale":  locale,
		"Article": page.Article,
		"Body":    page.Body,
	}
	if err := h.view.Render(w, "article.html", payload); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render article", Code: http.StatusInternalServerError}
	}
	return nil
}

// categoryHandler renders the published articles of one active category.
func (h *BlogHandler) categoryHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	locale := middleware.GetLocale(r.Context())
	slug := chi.URLParam(r, "slug")
	page := queryInt(r, "page", 1)

	categoryPage, err := h.blog.Category(r.Context(), slug, locale, page)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return &middleware.AppError{Error: err, Message: "Category not found", Code: http.StatusNotFound}
		}
		return &middleware.AppError{Error: err, Message: "Failed to load category", Code: http.StatusInternalServerError}
	}

	payload := map[string]interface{}{
		"Locale":      locale,
		"Category":    categoryPage.Category,
		"Articles":    categoryPage.Articles,
		"CurrentPage": categoryPage.CurrentPage,
	}
	if err := h.view.Render(w, "category.html", payload); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render category", Code: http.StatusInternalServerError}
	}
	return nil
}

// searchHandler renders the locale-scoped search results. An empty query
// redirects to the index instead of rendering an empty result page.
func (h *BlogHandler) searchHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	locale := middleware.GetLocale(r.Context())
	query := r.URL.Query().Get("q")

	if query == "" {
		http.Redirect(w, r, "/"+locale+"/", http.StatusFound)
		return nil
	}

	articles, categories, err := h.blog.Search(r.Context(), query, locale)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Search failed", Code: http.StatusInternalServerError}
	}

	payload := map[string]interface{}{
		"Locale":     locale,
		"Query":      query,
		"Articles":   articles,
		"Categories": categories,
	}
	if err := h.view.Render(w, "search.html", payload); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render search results", Code: http.StatusInternalServerError}
	}
	return nil
}

func queryInt(r *http.Request, key string, fallback int) int {
	value, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || value < 1 {
		return fallback
	}
	return value
}

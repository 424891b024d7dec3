package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"go-blog-app/internal/data"
	"go-blog-app/internal/logger"
	"go-blog-app/internal/middleware"
	"go-blog-app/internal/service"
	"go-blog-app/internal/view"
)

// publishedAtLayout matches the value of an HTML datetime-local input.
const publishedAtLayout = "2006-01-02T15:04"

// AdminHandler holds the dependencies for the back-office CRUD handlers.
type AdminHandler struct {
	admin *service.AdminService
	view  *view.View
	log   logger.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(admin *service.AdminService, v *view.View, log logger.Logger) *AdminHandler {
	return &AdminHandler{admin: admin, view: v, log: log}
}

// dashboardHandler renders the back-office landing page.
func (h *AdminHandler) dashboardHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	user := middleware.GetUserInfo(r.Context())
	payload := map[string]interface{}{
		"User": user,
	}
	if err := h.view.Render(w, "admin_dashboard.html", payload); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render dashboard", Code: http.StatusInternalServerError}
	}
	return nil
}

// Articles

func (h *AdminHandler) articleListHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	articles, err := h.admin.ListArticles(r.Context())
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to list articles", Code: http.StatusInternalServerError}
	}
	payload := map[string]interface{}{
		"Articles": articles,
		"Locale":   data.DefaultLocale,
	}
	if err := h.view.Render(w, "admin_article_list.html", payload); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render article list", Code: http.StatusInternalServerError}
	}
	return nil
}

func (h *AdminHandler) articleNewHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.renderArticleForm(w, r, nil, nil)
}

func (h *AdminHandler) articleCreateHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	form, appErr := parseArticleForm(r)
	if appErr != nil {
		return appErr
	}
	article, err := h.admin.CreateArticle(r.Context(), form)
	if err != nil {
		return h.handleArticleWriteError(w, r, nil, err)
	}
	h.log.Info(fmt.Sprintf("article %q created", article.Slug))
	http.Redirect(w, r, "/admin/articles", http.StatusFound)
	return nil
}

func (h *AdminHandler) articleEditHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	article, appErr := h.loadArticle(r)
	if appErr != nil {
		return appErr
	}
	return h.renderArticleForm(w, r, article, nil)
}

func (h *AdminHandler) articleUpdateHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	article, appErr := h.loadArticle(r)
	if appErr != nil {
		return appErr
	}
	form, appErr := parseArticleForm(r)
	if appErr != nil {
		return appErr
	}
	updated, err := h.admin.UpdateArticle(r.Context(), article.ID, form)
	if err != nil {
		return h.handleArticleWriteError(w, r, article, err)
	}
	h.log.Info(fmt.Sprintf("article %q updated", updated.Slug))
	http.Redirect(w, r, "/admin/articles", http.StatusFound)
	return nil
}

func (h *AdminHandler) articleDeleteHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := pathID(r)
	if appErr != nil {
		return appErr
	}
	if err := h.admin.DeleteArticle(r.Context(), id); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return &middleware.AppError{Error: err, Message: "Article not found", Code: http.StatusNotFound}
		}
		return &middleware.AppError{Error: err, Message: "Failed to delete article", Code: http.StatusInternalServerError}
	}
	h.log.Info(fmt.Sprintf("article %d deleted", id))
	http.Redirect(w, r, "/admin/articles", http.StatusFound)
	return nil
}

func (h *AdminHandler) loadArticle(r *http.Request) (*data.Article, *middleware.AppError) {
	id, appErr := pathID(r)
	if appErr != nil {
		return nil, appErr
	}
	article, err := h.admin.GetArticle(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, &middleware.AppError{Error: err, Message: "Article not found", Code: http.StatusNotFound}
		}
		return nil, &middleware.AppError{Error: err, Message: "Failed to load article", Code: http.StatusInternalServerError}
	}
	return article, nil
}

func (h *AdminHandler) handleArticleWriteError(w http.ResponseWriter, r *http.Request, article *data.Article, err error) *middleware.AppError {
	var verrs service.ValidationErrors
	if errors.As(err, &verrs) {
		return h.renderArticleForm(w, r, article, verrs)
	}
	if errors.Is(err, data.ErrConstraint) {
		return h.renderArticleForm(w, r, article, service.ValidationErrors{"slug": "This slug is already in use."})
	}
	if errors.Is(err, data.ErrNotFound) {
		return &middleware.AppError{Error: err, Message: "Article not found", Code: http.StatusNotFound}
	}
	return &middleware.AppError{Error: err, Message: "Failed to save article", Code: http.StatusInternalServerError}
}

func (h *AdminHandler) renderArticleForm(w http.ResponseWriter, r *http.Request, article *data.Article, verrs service.ValidationErrors) *middleware.AppError {
	categories, err := h.admin.ListCategories(r.Context())
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to list categories", Code: http.StatusInternalServerError}
	}
	users, err := h.admin.ListUsers(r.Context())
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to list users", Code: http.StatusInternalServerError}
	}
	payload := map[string]interface{}{
		"Article":    article,
		"Categories": categories,
		"Users":      users,
		"Locales":    data.Locales,
		"Errors":     verrs,
	}
	if err := h.view.Render(w, "admin_article_form.html", payload); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render article form", Code: http.StatusInternalServerError}
	}
	return nil
}

// Categories

func (h *AdminHandler) categoryListHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	categories, err := h.admin.ListCategories(r.Context())
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to list categories", Code: http.StatusInternalServerError}
	}
	payload := map[string]interface{}{
		"Categories": categories,
		"Locale":     data.DefaultLocale,
	}
	if err := h.view.Render(w, "admin_category_list.html", payload); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render category list", Code: http.StatusInternalServerError}
	}
	return nil
}

func (h *AdminHandler) categoryNewHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.renderCategoryForm(w, nil, nil)
}

func (h *AdminHandler) categoryCreateHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	form := parseCategoryForm(r)
	category, err := h.admin.CreateCategory(r.Context(), form)
	if err != nil {
		return h.handleCategoryWriteError(w, nil, err)
	}
	h.log.Info(fmt.Sprintf("category %q created", category.Slug))
	http.Redirect(w, r, "/admin/categories", http.StatusFound)
	return nil
}

func (h *AdminHandler) categoryEditHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	category, appErr := h.loadCategory(r)
	if appErr != nil {
		return appErr
	}
	return h.renderCategoryForm(w, category, nil)
}

func (h *AdminHandler) categoryUpdateHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	category, appErr := h.loadCategory(r)
	if appErr != nil {
		return appErr
	}
	form := parseCategoryForm(r)
	updated, err := h.admin.UpdateCategory(r.Context(), category.ID, form)
	if err != nil {
		return h.handleCategoryWriteError(w, category, err)
	}
	h.log.Info(fmt.Sprintf("category %q updated", updated.Slug))
	http.Redirect(w, r, "/admin/categories", http.StatusFound)
	return nil
}

func (h *AdminHandler) categoryDeleteHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := pathID(r)
	if appErr != nil {
		return appErr
	}
	if err := h.admin.DeleteCategory(r.Context(), id); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return &middleware.AppError{Error: err, Message: "Category not found", Code: http.StatusNotFound}
		}
		if errors.Is(err, data.ErrConstraint) {
			return &middleware.AppError{Error: err, Message: "Category still owns articles and cannot be deleted", Code: http.StatusConflict}
		}
		return &middleware.AppError{Error: err, Message: "Failed to delete category", Code: http.StatusInternalServerError}
	}
	h.log.Info(fmt.Sprintf("category %d deleted", id))
	http.Redirect(w, r, "/admin/categories", http.StatusFound)
	return nil
}

func (h *AdminHandler) loadCategory(r *http.Request) (*data.Category, *middleware.AppError) {
	id, appErr := pathID(r)
	if appErr != nil {
		return nil, appErr
	}
	category, err := h.admin.GetCategory(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, &middleware.AppError{Error: err, Message: "Category not found", Code: http.StatusNotFound}
		}
		return nil, &middleware.AppError{Error: err, Message: "Failed to load category", Code: http.StatusInternalServerError}
	}
	return category, nil
}

func (h *AdminHandler) handleCategoryWriteError(w http.ResponseWriter, category *data.Category, err error) *middleware.AppError {
	var verrs service.ValidationErrors
	if errors.As(err, &verrs) {
		return h.renderCategoryForm(w, category, verrs)
	}
	if errors.Is(err, data.ErrConstraint) {
		return h.renderCategoryForm(w, category, service.ValidationErrors{"slug": "This slug is already in use."})
	}
	if errors.Is(err, data.ErrNotFound) {
		return &middleware.AppError{Error: err, Message: "Category not found", Code: http.StatusNotFound}
	}
	return &middleware.AppError{Error: err, Message: "Failed to save category", Code: http.StatusInternalServerError}
}

func (h *AdminHandler) renderCategoryForm(w http.ResponseWriter, category *data.Category, verrs service.ValidationErrors) *middleware.AppError {
	payload := map[string]interface{}{
		"Category": category,
		"Locales":  data.Locales,
		"Errors":   verrs,
	}
	if err := h.view.Render(w, "admin_category_form.html", payload); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render category form", Code: http.StatusInternalServerError}
	}
	return nil
}

// Users

func (h *AdminHandler) userListHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	users, err := h.admin.ListUsers(r.Context())
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to list users", Code: http.StatusInternalServerError}
	}
	payload := map[string]interface{}{
		"Users": users,
	}
	if err := h.view.Render(w, "admin_user_list.html", payload); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render user list", Code: http.StatusInternalServerError}
	}
	return nil
}

func (h *AdminHandler) userNewHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.renderUserForm(w, nil, nil)
}

func (h *AdminHandler) userCreateHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	form := parseUserForm(r)
	user, err := h.admin.CreateUser(r.Context(), form)
	if err != nil {
		return h.handleUserWriteError(w, nil, err)
	}
	h.log.Info(fmt.Sprintf("user %q created", user.Email))
	http.Redirect(w, r, "/admin/users", http.StatusFound)
	return nil
}

func (h *AdminHandler) userEditHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	user, appErr := h.loadUser(r)
	if appErr != nil {
		return appErr
	}
	return h.renderUserForm(w, user, nil)
}

func (h *AdminHandler) userUpdateHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	user, appErr := h.loadUser(r)
	if appErr != nil {
		return appErr
	}
	form := parseUserForm(r)
	updated, err := h.admin.UpdateUser(r.Context(), user.ID, form)
	if err != nil {
		return h.handleUserWriteError(w, user, err)
	}
	h.log.Info(fmt.Sprintf("user %q updated", updated.Email))
	http.Redirect(w, r, "/admin/users", http.StatusFound)
	return nil
}

func (h *AdminHandler) userDeleteHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := pathID(r)
	if appErr != nil {
		return appErr
	}
	if err := h.admin.DeleteUser(r.Context(), id); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return &middleware.AppError{Error: err, Message: "User not found", Code: http.StatusNotFound}
		}
		if errors.Is(err, data.ErrConstraint) {
			return &middleware.AppError{Error: err, Message: "User still owns articles and cannot be deleted", Code: http.StatusConflict}
		}
		return &middleware.AppError{Error: err, Message: "Failed to delete user", Code: http.StatusInternalServerError}
	}
	h.log.Info(fmt.Sprintf("user %d deleted", id))
	http.Redirect(w, r, "/admin/users", http.StatusFound)
	return nil
}

func (h *AdminHandler) loadUser(r *http.Request) (*data.User, *middleware.AppError) {
	id, appErr := pathID(r)
	if appErr != nil {
		return nil, appErr
	}
	user, err := h.admin.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, &middleware.AppError{Error: err, Message: "User not found", Code: http.StatusNotFound}
		}
		return nil, &middleware.AppError{Error: err, Message: "Failed to load user", Code: http.StatusInternalServerError}
	}
	return user, nil
}

func (h *AdminHandler) handleUserWriteError(w http.ResponseWriter, user *data.User, err error) *middleware.AppError {
	var verrs service.ValidationErrors
	if errors.As(err, &verrs) {
		return h.renderUserForm(w, user, verrs)
	}
	if errors.Is(err, data.ErrConstraint) {
		return h.renderUserForm(w, user, service.ValidationErrors{"email": "This email is already in use."})
	}
	if errors.Is(err, data.ErrNotFound) {
		return &middleware.AppError{Error: err, Message: "User not found", Code: http.StatusNotFound}
	}
	return &middleware.AppError{Error: err, Message: "Failed to save user", Code: http.StatusInternalServerError}
}

func (h *AdminHandler) renderUserForm(w http.ResponseWriter, user *data.User, verrs service.ValidationErrors) *middleware.AppError {
	payload := map[string]interface{}{
		"User":   user,
		"Roles":  data.RoleList{data.RoleUser, data.RoleEditor, data.RoleAdmin},
		"Errors": verrs,
	}
	if err := h.view.Render(w, "admin_user_form.html", payload); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render user form", Code: http.StatusInternalServerError}
	}
	return nil
}

// Form parsing

func parseArticleForm(r *http.Request) (service.ArticleForm, *middleware.AppError) {
	form := service.ArticleForm{
		Slug:           r.FormValue("slug"),
		IsPublished:    r.FormValue("is_published") == "on",
		ImageName:      r.FormValue("image_name"),
		SeoTitle:       r.FormValue("seo_title"),
		SeoDescription: r.FormValue("seo_description"),
		SeoImage:       r.FormValue("seo_image"),
		Titles:         localeValues(r, "title"),
		Summaries:      localeValues(r, "summary"),
		Contents:       localeValues(r, "content"),
	}
	if v := r.FormValue("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return form, &middleware.AppError{Error: err, Message: "Invalid category", Code: http.StatusBadRequest}
		}
		form.CategoryID = id
	}
	if v := r.FormValue("author_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return form, &middleware.AppError{Error: err, Message: "Invalid author", Code: http.StatusBadRequest}
		}
		form.AuthorID = id
	}
	if v := r.FormValue("published_at"); v != "" {
		at, err := time.Parse(publishedAtLayout, v)
		if err != nil {
			return form, &middleware.AppError{Error: err, Message: "Invalid publication date", Code: http.StatusBadRequest}
		}
		form.PublishedAt = at
	}
	return form, nil
}

func parseCategoryForm(r *http.Request) service.CategoryForm {
	return service.CategoryForm{
		Slug:         r.FormValue("slug"),
		IsActive:     r.FormValue("is_active") == "on",
		Names:        localeValues(r, "name"),
		Descriptions: localeValues(r, "description"),
	}
}

func parseUserForm(r *http.Request) service.UserForm {
	r.ParseForm()
	return service.UserForm{
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		Roles:    r.Form["roles"],
	}
}

// localeValues collects one field per supported locale, e.g. title_fr,
// title_en and title_es for the prefix "title".
func localeValues(r *http.Request, prefix string) map[string]string {
	values := make(map[string]string, len(data.Locales))
	for _, locale := range data.Locales {
		values[locale] = r.FormValue(prefix + "_" + locale)
	}
	return values
}

func pathID(r *http.Request) (int64, *middleware.AppError) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, &middleware.AppError{Error: err, Message: "Invalid identifier", Code: http.StatusBadRequest}
	}
	return id, nil
}

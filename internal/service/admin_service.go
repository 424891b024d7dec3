package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"go-blog-app/internal/auth"
	"go-blog-app/internal/data"
	"go-blog-app/internal/slug"
)

// ErrInvalidCredentials is returned by Authenticate for an unknown email or a
// wrong password, indistinguishably.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ValidationErrors maps form field names to human-readable problems. The
// entity is not persisted when any are present.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}

// ArticleForm carries the submitted back-office fields for an article, with
// the per-locale text fields keyed by locale code.
type ArticleForm struct {
	Slug           string
	CategoryID     int64
	AuthorID       int64
	IsPublished    bool
	PublishedAt    time.Time
	ImageName      string
	SeoTitle       string
	SeoDescription string
	SeoImage       string
	Titles         map[string]string
	Summaries      map[string]string
	Contents       map[string]string
}

// CategoryForm carries the submitted back-office fields for a category.
type CategoryForm struct {
	Slug         string
	IsActive     bool
	Names        map[string]string
	Descriptions map[string]string
}

// UserForm carries the submitted back-office fields for an account. Password
// is the plain text value; it is empty when the admin left the field blank.
type UserForm struct {
	Email    string
	Password string
	Roles    []string
}

// AdminService provides the write side of the back-office.
type AdminService struct {
	articles   ArticleRepository
	categories CategoryRepository
	users      UserRepository
	sanitizer  *bluemonday.Policy
}

// NewAdminService creates an AdminService.
func NewAdminService(articles ArticleRepository, categories CategoryRepository, users UserRepository) *AdminService {
	return &AdminService{
		articles:   articles,
		categories: categories,
		users:      users,
		sanitizer:  bluemonday.UGCPolicy(),
	}
}

// Authenticate verifies an email/password pair against the user table.
func (s *AdminService) Authenticate(ctx context.Context, email, password string) (*data.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// ListArticles returns every article for the back-office index.
func (s *AdminService) ListArticles(ctx context.Context) ([]*data.Article, error) {
	return s.articles.List(ctx)
}

// GetArticle returns one article for the edit form.
func (s *AdminService) GetArticle(ctx context.Context, id int64) (*data.Article, error) {
	return s.articles.Get(ctx, id)
}

// CreateArticle validates the form, builds the article with its translations
// and commits it.
func (s *AdminService) CreateArticle(ctx context.Context, form ArticleForm) (*data.Article, error) {
	if err := s.validateArticle(form); err != nil {
		return nil, err
	}

	article := data.NewArticle()
	article.CategoryID = form.CategoryID
	article.AuthorID = form.AuthorID
	s.applyArticleForm(article, form)

	if err := s.articles.Save(ctx, article, true); err != nil {
		return nil, err
	}
	return article, nil
}

// UpdateArticle validates the form and applies it to the stored article.
// Translation writes go through the lazy get-or-create path, so a locale
// edited for the first time gains its row and repeated edits update it in
// place.
func (s *AdminService) UpdateArticle(ctx context.Context, id int64, form ArticleForm) (*data.Article, error) {
	if err := s.validateArticle(form); err != nil {
		return nil, err
	}

	article, err := s.articles.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	article.CategoryID = form.CategoryID
	article.AuthorID = form.AuthorID
	s.applyArticleForm(article, form)

	if err := s.articles.Save(ctx, article, true); err != nil {
		return nil, err
	}
	return article, nil
}

// DeleteArticle removes the article and its translations.
func (s *AdminService) DeleteArticle(ctx context.Context, id int64) error {
	article, err := s.articles.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.articles.Remove(ctx, article, true)
}

func (s *AdminService) validateArticle(form ArticleForm) error {
	problems := ValidationErrors{}
	if strings.TrimSpace(form.Titles[data.DefaultLocale]) == "" {
		problems["title"] = "the French title is required"
	}
	if form.CategoryID == 0 {
		problems["category"] = "a category is required"
	}
	if form.AuthorID == 0 {
		problems["author"] = "an author is required"
	}
	if len(problems) > 0 {
		return problems
	}
	return nil
}

func (s *AdminService) applyArticleForm(article *data.Article, form ArticleForm) {
	article.Slug = form.Slug
	if article.Slug == "" {
		article.Slug = slug.Generate(form.Titles[data.DefaultLocale])
	}
	article.IsPublished = form.IsPublished
	if !form.PublishedAt.IsZero() {
		article.PublishedAt = form.PublishedAt
	}
	if form.ImageName != "" {
		article.SetImageName(form.ImageName)
	}
	article.SeoTitle = optional(form.SeoTitle)
	article.SeoDescription = optional(form.SeoDescription)
	article.SeoImage = optional(form.SeoImage)

	for _, locale := range data.Locales {
		title := form.Titles[locale]
		summary := form.Summaries[locale]
		content := form.Contents[locale]
		if title == "" && summary == "" && content == "" {
			continue
		}
		article.SetTitle(title, locale)
		article.SetSummary(summary, locale)
		article.SetContent(s.sanitizer.Sanitize(content), locale)
	}
}

// ListCategories returns every category for the back-office index.
func (s *AdminService) ListCategories(ctx context.Context) ([]*data.Category, error) {
	return s.categories.List(ctx)
}

// GetCategory returns one category for the edit form.
func (s *AdminService) GetCategory(ctx context.Context, id int64) (*data.Category, error) {
	return s.categories.Get(ctx, id)
}

// CreateCategory validates the form and commits a new category.
func (s *AdminService) CreateCategory(ctx context.Context, form CategoryForm) (*data.Category, error) {
	if err := validateCategory(form); err != nil {
		return nil, err
	}

	category := data.NewCategory()
	applyCategoryForm(category, form)

	if err := s.categories.Save(ctx, category, true); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory validates the form and applies it to the stored category.
func (s *AdminService) UpdateCategory(ctx context.Context, id int64, form CategoryForm) (*data.Category, error) {
	if err := validateCategory(form); err != nil {
		return nil, err
	}

	category, err := s.categories.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyCategoryForm(category, form)

	if err := s.categories.Save(ctx, category, true); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes the category. A category still owning articles is
// rejected with data.ErrConstraint; the articles must be reassigned first.
func (s *AdminService) DeleteCategory(ctx context.Context, id int64) error {
	category, err := s.categories.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.categories.Remove(ctx, category, true)
}

func validateCategory(form CategoryForm) error {
	problems := ValidationErrors{}
	if strings.TrimSpace(form.Names[data.DefaultLocale]) == "" {
		problems["name"] = "the French name is required"
	}
	if len(problems) > 0 {
		return problems
	}
	return nil
}

func applyCategoryForm(category *data.Category, form CategoryForm) {
	category.Slug = form.Slug
	if category.Slug == "" {
		category.Slug = slug.Generate(form.Names[data.DefaultLocale])
	}
	category.IsActive = form.IsActive

	for _, locale := range data.Locales {
		name := form.Names[locale]
		description := form.Descriptions[locale]
		if name == "" && description == "" {
			continue
		}
		category.SetName(name, locale)
		category.SetDescription(description, locale)
	}
}

// ListUsers returns every account for the back-office index.
func (s *AdminService) ListUsers(ctx context.Context) ([]*data.User, error) {
	return s.users.List(ctx)
}

// GetUser returns one account for the edit form.
func (s *AdminService) GetUser(ctx context.Context, id int64) (*data.User, error) {
	return s.users.Get(ctx, id)
}

// CreateUser validates the form, hashes the password and commits the account.
func (s *AdminService) CreateUser(ctx context.Context, form UserForm) (*data.User, error) {
	problems := ValidationErrors{}
	if strings.TrimSpace(form.Email) == "" {
		problems["email"] = "an email address is required"
	}
	if form.Password == "" {
		problems["password"] = "a password is required"
	}
	roles, err := parseRoles(form.Roles)
	if err != nil {
		problems["roles"] = err.Error()
	}
	if len(problems) > 0 {
		return nil, problems
	}

	hash, err := auth.HashPassword(form.Password)
	if err != nil {
		return nil, err
	}
	user := &data.User{Email: form.Email, Roles: roles, Password: hash}
	if err := s.users.Save(ctx, user, true); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser applies the form to the stored account. A blank password leaves
// the existing hash untouched; a non-empty one replaces it.
func (s *AdminService) UpdateUser(ctx context.Context, id int64, form UserForm) (*data.User, error) {
	problems := ValidationErrors{}
	if strings.TrimSpace(form.Email) == "" {
		problems["email"] = "an email address is required"
	}
	roles, err := parseRoles(form.Roles)
	if err != nil {
		problems["roles"] = err.Error()
	}
	if len(problems) > 0 {
		return nil, problems
	}

	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Email = form.Email
	user.Roles = roles
	if form.Password != "" {
		hash, err := auth.HashPassword(form.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hash
	}

	if err := s.users.Save(ctx, user, true); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes the account.
func (s *AdminService) DeleteUser(ctx context.Context, id int64) error {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.users.Remove(ctx, user, true)
}

func parseRoles(values []string) (data.RoleList, error) {
	if len(values) == 0 {
		return data.RoleList{data.RoleUser}, nil
	}
	roles := make(data.RoleList, 0, len(values))
	for _, v := range values {
		role := data.Role(v)
		if !role.Valid() {
			return nil, fmt.Errorf("unknown role %q", v)
		}
		if !roles.Has(role) {
			roles = append(roles, role)
		}
	}
	return roles, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

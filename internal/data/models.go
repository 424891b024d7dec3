package data

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Supported content locales. The public site is addressed by these codes and
// every translation row carries exactly one of them.
const (
	LocaleFR = "fr"
	LocaleEN = "en"
	LocaleES = "es"
)

// DefaultLocale is used when a request carries no usable locale.
const DefaultLocale = LocaleFR

// Locales lists the supported locale codes in display order.
var Locales = []string{LocaleFR, LocaleEN, LocaleES}

// IsSupportedLocale reports whether code is one of the site locales.
func IsSupportedLocale(code string) bool {
	for _, l := range Locales {
		if l == code {
			return true
		}
	}
	return false
}

// Role is one of the closed set of authorization roles.
type Role string

const (
	RoleUser   Role = "ROLE_USER"
	RoleEditor Role = "ROLE_EDITOR"
	RoleAdmin  Role = "ROLE_ADMIN"
)

// AllRoles lists every assignable role, in ascending privilege order.
var AllRoles = []Role{RoleUser, RoleEditor, RoleAdmin}

// Valid reports whether r is a known role value.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleEditor, RoleAdmin:
		return true
	}
	return false
}

// RoleList is the set of roles granted to a user, persisted as a JSON array column.
type RoleList []Role

// Value implements driver.Valuer for the JSON roles column.
func (rl RoleList) Value() (driver.Value, error) {
	b, err := json.Marshal(rl)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for the JSON roles column.
func (rl *RoleList) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, rl)
	case string:
		return json.Unmarshal([]byte(v), rl)
	case nil:
		*rl = nil
		return nil
	}
	return fmt.Errorf("cannot scan roles from %T", src)
}

// Has reports whether the list contains the given role.
func (rl RoleList) Has(role Role) bool {
	for _, r := range rl {
		if r == role {
			return true
		}
	}
	return false
}

// User is a back-office account. Password holds the bcrypt hash, never the
// plain text value.
type User struct {
	ID       int64    `db:"id"`
	Email    string   `db:"email"`
	Roles    RoleList `db:"roles"`
	Password string   `db:"password"`
}

// CategoryTranslation is the locale-scoped name/description of a category.
// It is exclusively owned by its parent and deleted with it.
type CategoryTranslation struct {
	ID          int64     `db:"id"`
	CategoryID  int64     `db:"category_id"`
	Locale      string    `db:"locale"`
	Name        string    `db:"name"`
	Description *string   `db:"description"`
	Category    *Category `db:"-"`
}

// Category groups articles under a unique slug. Text fields live on the
// per-locale translation children.
type Category struct {
	ID           int64                  `db:"id"`
	Slug         string                 `db:"slug"`
	IsActive     bool                   `db:"is_active"`
	CreatedAt    time.Time              `db:"created_at"`
	UpdatedAt    time.Time              `db:"updated_at"`
	Translations []*CategoryTranslation `db:"-"`
	Articles     []*Article             `db:"-"`
}

// NewCategory creates a category with freshly stamped timestamps.
func NewCategory() *Category {
	now := time.Now()
	return &Category{IsActive: true, CreatedAt: now, UpdatedAt: now}
}

// Touch refreshes the modification timestamp.
func (c *Category) Touch() {
	c.UpdatedAt = time.Now()
}

// Translation returns the translation for the given locale. Matching is exact:
// there is no fallback chain.
func (c *Category) Translation(locale string) (*CategoryTranslation, bool) {
	for _, t := range c.Translations {
		if t.Locale == locale {
			return t, true
		}
	}
	return nil, false
}

// AddTranslation appends t to the collection and sets its back-reference,
// unless it is already present.
func (c *Category) AddTranslation(t *CategoryTranslation) {
	for _, existing := range c.Translations {
		if existing == t {
			return
		}
	}
	c.Translations = append(c.Translations, t)
	t.Category = c
}

// RemoveTranslation removes t from the collection. The back-reference is
// cleared only if it still points at this category.
func (c *Category) RemoveTranslation(t *CategoryTranslation) {
	for i, existing := range c.Translations {
		if existing == t {
			c.Translations = append(c.Translations[:i], c.Translations[i+1:]...)
			if t.Category == c {
				t.Category = nil
			}
			return
		}
	}
}

// translation returns the translation for locale, creating and attaching a new
// one when none exists yet. Repeated writes for the same locale reuse the same
// child, so the (category, locale) uniqueness constraint holds.
func (c *Category) translation(locale string) *CategoryTranslation {
	if t, ok := c.Translation(locale); ok {
		return t
	}
	t := &CategoryTranslation{Locale: locale, CategoryID: c.ID}
	c.AddTranslation(t)
	return t
}

// Name returns the category name for locale, or "" when no translation exists.
func (c *Category) Name(locale string) string {
	if t, ok := c.Translation(locale); ok {
		return t.Name
	}
	return ""
}

// SetName writes the name for locale, creating the translation if needed.
func (c *Category) SetName(name, locale string) {
	c.translation(locale).Name = name
	c.Touch()
}

// Description returns the category description for locale, or "" when absent.
func (c *Category) Description(locale string) string {
	if t, ok := c.Translation(locale); ok && t.Description != nil {
		return *t.Description
	}
	return ""
}

// SetDescription writes the description for locale, creating the translation
// if needed.
func (c *Category) SetDescription(description, locale string) {
	c.translation(locale).Description = &description
	c.Touch()
}

// AddArticle appends a to the category's collection and points the article
// back at this category.
func (c *Category) AddArticle(a *Article) {
	for _, existing := range c.Articles {
		if existing == a {
			return
		}
	}
	c.Articles = append(c.Articles, a)
	a.Category = c
	a.CategoryID = c.ID
}

// RemoveArticle removes a from the collection, clearing the article's
// category reference only if it still points here. The database relation is
// non-cascading: the caller must reassign or reject before deleting c.
func (c *Category) RemoveArticle(a *Article) {
	for i, existing := range c.Articles {
		if existing == a {
			c.Articles = append(c.Articles[:i], c.Articles[i+1:]...)
			if a.Category == c {
				a.Category = nil
			}
			return
		}
	}
}

// ArticleTranslation is the locale-scoped title/summary/content of an article.
// It is exclusively owned by its parent and deleted with it.
type ArticleTranslation struct {
	ID        int64    `db:"id"`
	ArticleID int64    `db:"article_id"`
	Locale    string   `db:"locale"`
	Title     string   `db:"title"`
	Summary   *string  `db:"summary"`
	Content   string   `db:"content"`
	Article   *Article `db:"-"`
}

// Article is a blog post. Visibility on the public site is computed per query
// from (IsPublished, PublishedAt <= now); a future PublishedAt keeps a
// published article hidden until that instant with no scheduler involved.
type Article struct {
	ID             int64                 `db:"id"`
	CategoryID     int64                 `db:"category_id"`
	AuthorID       int64                 `db:"author_id"`
	Slug           string                `db:"slug"`
	IsPublished    bool                  `db:"is_published"`
	PublishedAt    time.Time             `db:"published_at"`
	CreatedAt      time.Time             `db:"created_at"`
	UpdatedAt      time.Time             `db:"updated_at"`
	ImageName      *string               `db:"image_name"`
	SeoTitle       *string               `db:"seo_title"`
	SeoDescription *string               `db:"seo_description"`
	SeoImage       *string               `db:"seo_image"`
	Category       *Category             `db:"-"`
	Author         *User                 `db:"-"`
	Translations   []*ArticleTranslation `db:"-"`
}

// NewArticle creates an article with freshly stamped timestamps.
func NewArticle() *Article {
	now := time.Now()
	return &Article{CreatedAt: now, UpdatedAt: now, PublishedAt: now}
}

// Touch refreshes the modification timestamp.
func (a *Article) Touch() {
	a.UpdatedAt = time.Now()
}

// Visible reports whether the article passes the publication gate at the
// given instant.
func (a *Article) Visible(now time.Time) bool {
	return a.IsPublished && !a.PublishedAt.After(now)
}

// SetCategory assigns the owning side and keeps the inverse collection
// consistent.
func (a *Article) SetCategory(c *Category) {
	a.Category = c
	if c != nil {
		a.CategoryID = c.ID
		c.AddArticle(a)
	}
}

// SetAuthor assigns the article's author.
func (a *Article) SetAuthor(u *User) {
	a.Author = u
	if u != nil {
		a.AuthorID = u.ID
	}
}

// SetImageName replaces the stored image filename. Replacing the image counts
// as a content change, so the modification timestamp is refreshed.
func (a *Article) SetImageName(name string) {
	if a.ImageName != nil && *a.ImageName == name {
		return
	}
	a.ImageName = &name
	a.Touch()
}

// Translation returns the translation for the given locale. Matching is exact:
// requesting "en" when only "fr" exists yields no result.
func (a *Article) Translation(locale string) (*ArticleTranslation, bool) {
	for _, t := range a.Translations {
		if t.Locale == locale {
			return t, true
		}
	}
	return nil, false
}

// AddTranslation appends t to the collection and sets its back-reference,
// unless it is already present.
func (a *Article) AddTranslation(t *ArticleTranslation) {
	for _, existing := range a.Translations {
		if existing == t {
			return
		}
	}
	a.Translations = append(a.Translations, t)
	t.Article = a
}

// RemoveTranslation removes t from the collection. The back-reference is
// cleared only if it still points at this article.
func (a *Article) RemoveTranslation(t *ArticleTranslation) {
	for i, existing := range a.Translations {
		if existing == t {
			a.Translations = append(a.Translations[:i], a.Translations[i+1:]...)
			if t.Article == a {
				t.Article = nil
			}
			return
		}
	}
}

// translation returns the translation for locale, creating and attaching a new
// one when none exists yet.
func (a *Article) translation(locale string) *ArticleTranslation {
	if t, ok := a.Translation(locale); ok {
		return t
	}
	t := &ArticleTranslation{Locale: locale, ArticleID: a.ID}
	a.AddTranslation(t)
	return t
}

// Title returns the article title for locale, or "" when no translation exists.
func (a *Article) Title(locale string) string {
	if t, ok := a.Translation(locale); ok {
		return t.Title
	}
	return ""
}

// SetTitle writes the title for locale, creating the translation if needed.
func (a *Article) SetTitle(title, locale string) {
	a.translation(locale).Title = title
	a.Touch()
}

// Summary returns the article summary for locale, or "" when absent.
func (a *Article) Summary(locale string) string {
	if t, ok := a.Translation(locale); ok && t.Summary != nil {
		return *t.Summary
	}
	return ""
}

// SetSummary writes the summary for locale, creating the translation if needed.
func (a *Article) SetSummary(summary, locale string) {
	a.translation(locale).Summary = &summary
	a.Touch()
}

// Content returns the article body for locale, or "" when no translation exists.
func (a *Article) Content(locale string) string {
	if t, ok := a.Translation(locale); ok {
		return t.Content
	}
	return ""
}

// SetContent writes the body for locale, creating the translation if needed.
func (a *Article) SetContent(content, locale string) {
	a.translation(locale).Content = content
	a.Touch()
}

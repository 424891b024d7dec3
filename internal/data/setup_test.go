//go:build integration

package data

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// newTestDB creates a new in-memory SQLite database carrying the blog schema.
// The returned database is private to the test for complete isolation.
func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Connect("sqlite3", "file::memory:")
	if err != nil {
		t.Fatalf("Failed to connect to sqlite test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	schema := `
	CREATE TABLE user (
		id INTEGER PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		roles TEXT NOT NULL,
		password TEXT NOT NULL
	);

	CREATE TABLE category (
		id INTEGER PRIMARY KEY,
		slug TEXT NOT NULL UNIQUE,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE TABLE category_translation (
		id INTEGER PRIMARY KEY,
		category_id INTEGER NOT NULL,
		locale TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT,
		FOREIGN KEY (category_id) REFERENCES category(id) ON DELETE CASCADE,
		UNIQUE (category_id, locale)
	);

	CREATE TABLE article (
		id INTEGER PRIMARY KEY,
		category_id INTEGER NOT NULL,
		author_id INTEGER NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		is_published INTEGER NOT NULL DEFAULT 0,
		published_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		image_name TEXT,
		seo_title TEXT,
		seo_description TEXT,
		seo_image TEXT,
		FOREIGN KEY (category_id) REFERENCES category(id) ON DELETE RESTRICT,
		FOREIGN KEY (author_id) REFERENCES user(id) ON DELETE RESTRICT
	);

	CREATE TABLE article_translation (
		id INTEGER PRIMARY KEY,
		article_id INTEGER NOT NULL,
		locale TEXT NOT NULL,
		title TEXT NOT NULL,
		summary TEXT,
		content TEXT NOT NULL,
		FOREIGN KEY (article_id) REFERENCES article(id) ON DELETE CASCADE,
		UNIQUE (article_id, locale)
	);`
	db.MustExec(schema)

	return db
}

// newTestRepos wires the three repositories over one database and one shared
// batch, the way the server does.
func newTestRepos(t *testing.T) (*sqlx.DB, *Batch, *SQLArticleRepository, *SQLCategoryRepository, *SQLUserRepository) {
	t.Helper()
	db := newTestDB(t)
	batch := NewBatch(db)
	return db,
		batch,
		NewSQLArticleRepository(db, batch),
		NewSQLCategoryRepository(db, batch),
		NewSQLUserRepository(db, batch)
}

func mustSaveUser(t *testing.T, repo *SQLUserRepository, email string, roles RoleList) *User {
	t.Helper()
	u := &User{Email: email, Roles: roles, Password: "x"}
	if err := repo.Save(context.Background(), u, true); err != nil {
		t.Fatalf("Failed to save user %s: %v", email, err)
	}
	return u
}

func mustSaveCategory(t *testing.T, repo *SQLCategoryRepository, slug string) *Category {
	t.Helper()
	c := NewCategory()
	c.Slug = slug
	c.SetName(slug, LocaleFR)
	if err := repo.Save(context.Background(), c, true); err != nil {
		t.Fatalf("Failed to save category %s: %v", slug, err)
	}
	return c
}

// mustSaveArticle saves a published article whose publication date lies the
// given offset from now. A zero offset publishes it immediately.
func mustSaveArticle(t *testing.T, repo *SQLArticleRepository, slug string, category *Category, author *User, publishedOffset time.Duration) *Article {
	t.Helper()
	a := NewArticle()
	a.Slug = slug
	a.IsPublished = true
	a.PublishedAt = time.Now().Add(publishedOffset)
	a.SetCategory(category)
	a.SetAuthor(author)
	a.SetTitle("Titre "+slug, LocaleFR)
	a.SetContent("Contenu "+slug, LocaleFR)
	if err := repo.Save(context.Background(), a, true); err != nil {
		t.Fatalf("Failed to save article %s: %v", slug, err)
	}
	return a
}

package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const articleColumns = `id, category_id, author_id, slug, is_published, published_at,
	created_at, updated_at, image_name, seo_title, seo_description, seo_image`

// SQLArticleRepository is the sqlx-backed implementation of article persistence
// and the public read-side queries.
type SQLArticleRepository struct {
	db    *sqlx.DB
	batch *Batch
}

// NewSQLArticleRepository creates a new SQLArticleRepository. Deferred writes
// are staged on the shared batch.
func NewSQLArticleRepository(db *sqlx.DB, batch *Batch) *SQLArticleRepository {
	return &SQLArticleRepository{db: db, batch: batch}
}

// ListPublished returns published articles whose publication date has passed,
// newest first, with offset/limit pagination.
//
// The locale parameter is accepted but deliberately not applied as a filter:
// articles of every locale are returned and translations are resolved per
// display. This mirrors the long-standing behavior of the product; see
// DESIGN.md before changing it.
func (r *SQLArticleRepository) ListPublished(ctx context.Context, locale string, limit, offset int) ([]*Article, error) {
	_ = locale
	var articles []*Article
	query := `SELECT ` + articleColumns + ` FROM article
		WHERE is_published = ? AND published_at <= ?
		ORDER BY published_at DESC
		LIMIT ? OFFSET ?`
	if err := r.db.SelectContext(ctx, &articles, query, true, time.Now(), limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list published articles: %w", err)
	}
	if err := r.loadTranslations(ctx, articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// ListPublishedByCategory behaves like ListPublished, additionally filtered to
// one category. The locale parameter is unused for the same reason.
func (r *SQLArticleRepository) ListPublishedByCategory(ctx context.Context, categoryID int64, locale string, limit, offset int) ([]*Article, error) {
	_ = locale
	var articles []*Article
	query := `SELECT ` + articleColumns + ` FROM article
		WHERE is_published = ? AND published_at <= ? AND category_id = ?
		ORDER BY published_at DESC
		LIMIT ? OFFSET ?`
	if err := r.db.SelectContext(ctx, &articles, query, true, time.Now(), categoryID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list published articles by category: %w", err)
	}
	if err := r.loadTranslations(ctx, articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// FindPublishedBySlug retrieves one article by its unique slug, applying the
// same publication gate as the listings. A slug that exists but is unpublished
// or future-dated yields ErrNotFound, indistinguishable from a miss.
func (r *SQLArticleRepository) FindPublishedBySlug(ctx context.Context, slug, locale string) (*Article, error) {
	_ = locale
	var article Article
	query := `SELECT ` + articleColumns + ` FROM article
		WHERE slug = ? AND is_published = ? AND published_at <= ?`
	if err := r.db.GetContext(ctx, &article, query, slug, true, time.Now()); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find article by slug: %w", err)
	}
	if err := r.loadTranslations(ctx, []*Article{&article}); err != nil {
		return nil, err
	}
	return &article, nil
}

// Get retrieves one article by id with no visibility gate, for the back-office.
func (r *SQLArticleRepository) Get(ctx context.Context, id int64) (*Article, error) {
	var article Article
	query := `SELECT ` + articleColumns + ` FROM article WHERE id = ?`
	if err := r.db.GetContext(ctx, &article, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get article by id: %w", err)
	}
	if err := r.loadTranslations(ctx, []*Article{&article}); err != nil {
		return nil, err
	}
	return &article, nil
}

// List returns every article regardless of publication state, newest created
// first, for the back-office index.
func (r *SQLArticleRepository) List(ctx context.Context) ([]*Article, error) {
	var articles []*Article
	query := `SELECT ` + articleColumns + ` FROM article ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &articles, query); err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	if err := r.loadTranslations(ctx, articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// Search returns published, date-visible articles that carry a translation in
// the given locale whose title, content or summary contains the query as a
// substring. Results come newest first and are capped at limit; there is no
// offset. Substring matching inherits the store's collation.
func (r *SQLArticleRepository) Search(ctx context.Context, query, locale string, limit int) ([]*Article, error) {
	pattern := "%" + query + "%"
	var articles []*Article
	q := `SELECT DISTINCT a.id, a.category_id, a.author_id, a.slug, a.is_published, a.published_at,
			a.created_at, a.updated_at, a.image_name, a.seo_title, a.seo_description, a.seo_image
		FROM article a
		JOIN article_translation t ON t.article_id = a.id
		WHERE a.is_published = ? AND a.published_at <= ? AND t.locale = ?
			AND (t.title LIKE ? OR t.content LIKE ? OR t.summary LIKE ?)
		ORDER BY a.published_at DESC
		LIMIT ?`
	if err := r.db.SelectContext(ctx, &articles, q, true, time.Now(), locale, pattern, pattern, pattern, limit); err != nil {
		return nil, fmt.Errorf("failed to search articles: %w", err)
	}
	if err := r.loadTranslations(ctx, articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// CountPublished returns the number of articles passing the publication gate,
// independent of locale.
func (r *SQLArticleRepository) CountPublished(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(id) FROM article WHERE is_published = ? AND published_at <= ?`
	if err := r.db.GetContext(ctx, &count, query, true, time.Now()); err != nil {
		return 0, fmt.Errorf("failed to count published articles: %w", err)
	}
	return count, nil
}

// Save persists the article and its owned translations. With flush set the
// write commits before returning; otherwise it is staged on the batch for a
// later atomic Flush. Constraint violations (duplicate slug, duplicate
// (article, locale) pair, missing category or author) surface as ErrConstraint.
func (r *SQLArticleRepository) Save(ctx context.Context, a *Article, flush bool) error {
	op := r.saveOp(a)
	if flush {
		return runNow(ctx, r.db, op)
	}
	r.batch.add(op)
	return nil
}

// Remove deletes the article; its translations go with it through the
// cascading foreign key. Flush semantics match Save.
func (r *SQLArticleRepository) Remove(ctx context.Context, a *Article, flush bool) error {
	op := func(ctx context.Context, tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM article WHERE id = ?`, a.ID)
		return err
	}
	if flush {
		return runNow(ctx, r.db, op)
	}
	r.batch.add(op)
	return nil
}

func (r *SQLArticleRepository) saveOp(a *Article) func(ctx context.Context, tx *sqlx.Tx) error {
	return func(ctx context.Context, tx *sqlx.Tx) error {
		a.Touch()
		if a.ID == 0 {
			res, err := tx.NamedExecContext(ctx, `INSERT INTO article
				(category_id, author_id, slug, is_published, published_at, created_at, updated_at,
				 image_name, seo_title, seo_description, seo_image)
				VALUES (:category_id, :author_id, :slug, :is_published, :published_at, :created_at, :updated_at,
				 :image_name, :seo_title, :seo_description, :seo_image)`, a)
			if err != nil {
				return err
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			a.ID = id
		} else {
			if _, err := tx.NamedExecContext(ctx, `UPDATE article SET
				category_id = :category_id, author_id = :author_id, slug = :slug,
				is_published = :is_published, published_at = :published_at, updated_at = :updated_at,
				image_name = :image_name, seo_title = :seo_title,
				seo_description = :seo_description, seo_image = :seo_image
				WHERE id = :id`, a); err != nil {
				return err
			}
		}

		// New translations attached by the lazy get-or-create path have no id
		// yet; existing ones are updated in place. The unique
		// (article_id, locale) index rejects any duplicate pair.
		for _, t := range a.Translations {
			t.ArticleID = a.ID
			if t.ID == 0 {
				res, err := tx.NamedExecContext(ctx, `INSERT INTO article_translation
					(article_id, locale, title, summary, content)
					VALUES (:article_id, :locale, :title, :summary, :content)`, t)
				if err != nil {
					return err
				}
				id, err := res.LastInsertId()
				if err != nil {
					return err
				}
				t.ID = id
			} else {
				if _, err := tx.NamedExecContext(ctx, `UPDATE article_translation SET
					locale = :locale, title = :title, summary = :summary, content = :content
					WHERE id = :id`, t); err != nil {
					return err
				}
			}
		}
		return nil
	}
}

// loadTranslations fetches the translation children for the given articles in
// one query and attaches them with their back-references set.
func (r *SQLArticleRepository) loadTranslations(ctx context.Context, articles []*Article) error {
	if len(articles) == 0 {
		return nil
	}
	ids := make([]int64, len(articles))
	byID := make(map[int64]*Article, len(articles))
	for i, a := range articles {
		ids[i] = a.ID
		byID[a.ID] = a
	}

	query, args, err := sqlx.In(`SELECT id, article_id, locale, title, summary, content
		FROM article_translation WHERE article_id IN (?) ORDER BY id`, ids)
	if err != nil {
		return fmt.Errorf("failed to build translation query: %w", err)
	}
	var translations []*ArticleTranslation
	if err := r.db.SelectContext(ctx, &translations, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to load article translations: %w", err)
	}
	for _, t := range translations {
		if parent, ok := byID[t.ArticleID]; ok {
			parent.AddTranslation(t)
		}
	}
	return nil
}

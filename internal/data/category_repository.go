package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQLCategoryRepository handles database operations for categories and their
// translation children.
type SQLCategoryRepository struct {
	db    *sqlx.DB
	batch *Batch
}

// NewSQLCategoryRepository creates a new SQLCategoryRepository.
func NewSQLCategoryRepository(db *sqlx.DB, batch *Batch) *SQLCategoryRepository {
	return &SQLCategoryRepository{db: db, batch: batch}
}

// ListActive returns the categories shown on the public site, oldest first.
func (r *SQLCategoryRepository) ListActive(ctx context.Context) ([]*Category, error) {
	var categories []*Category
	query := `SELECT id, slug, is_active, created_at, updated_at FROM category
		WHERE is_active = ? ORDER BY id`
	if err := r.db.SelectContext(ctx, &categories, query, true); err != nil {
		return nil, fmt.Errorf("failed to list active categories: %w", err)
	}
	if err := r.loadTranslations(ctx, categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// List returns every category for the back-office index.
func (r *SQLCategoryRepository) List(ctx context.Context) ([]*Category, error) {
	var categories []*Category
	query := `SELECT id, slug, is_active, created_at, updated_at FROM category ORDER BY id`
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	if err := r.loadTranslations(ctx, categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// FindBySlug retrieves a category by its unique slug. Activity is not part of
// the lookup; the public handlers turn an inactive match into a 404.
func (r *SQLCategoryRepository) FindBySlug(ctx context.Context, slug string) (*Category, error) {
	var category Category
	query := `SELECT id, slug, is_active, created_at, updated_at FROM category WHERE slug = ?`
	if err := r.db.GetContext(ctx, &category, query, slug); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find category by slug: %w", err)
	}
	if err := r.loadTranslations(ctx, []*Category{&category}); err != nil {
		return nil, err
	}
	return &category, nil
}

// Get retrieves a category by id.
func (r *SQLCategoryRepository) Get(ctx context.Context, id int64) (*Category, error) {
	var category Category
	query := `SELECT id, slug, is_active, created_at, updated_at FROM category WHERE id = ?`
	if err := r.db.GetContext(ctx, &category, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category by id: %w", err)
	}
	if err := r.loadTranslations(ctx, []*Category{&category}); err != nil {
		return nil, err
	}
	return &category, nil
}

// Save persists the category and its owned translations. Flush semantics and
// error mapping match the article repository.
func (r *SQLCategoryRepository) Save(ctx context.Context, c *Category, flush bool) error {
	op := r.saveOp(c)
	if flush {
		return runNow(ctx, r.db, op)
	}
	r.batch.add(op)
	return nil
}

// Remove deletes the category and, through the cascading foreign key, its
// translations. A category that still owns articles is rejected with
// ErrConstraint: articles are never orphaned or cascade-deleted, they must be
// reassigned first.
func (r *SQLCategoryRepository) Remove(ctx context.Context, c *Category, flush bool) error {
	op := func(ctx context.Context, tx *sqlx.Tx) error {
		var owned int
		if err := tx.GetContext(ctx, &owned, `SELECT COUNT(id) FROM article WHERE category_id = ?`, c.ID); err != nil {
			return err
		}
		if owned > 0 {
			return fmt.Errorf("%w: category %q still owns %d article(s)", ErrConstraint, c.Slug, owned)
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM category WHERE id = ?`, c.ID)
		return err
	}
	if flush {
		return runNow(ctx, r.db, op)
	}
	r.batch.add(op)
	return nil
}

func (r *SQLCategoryRepository) saveOp(c *Category) func(ctx context.Context, tx *sqlx.Tx) error {
	return func(ctx context.Context, tx *sqlx.Tx) error {
		c.Touch()
		if c.ID == 0 {
			res, err := tx.NamedExecContext(ctx, `INSERT INTO category (slug, is_active, created_at, updated_at)
				VALUES (:slug, :is_active, :created_at, :updated_at)`, c)
			if err != nil {
				return err
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			c.ID = id
		} else {
			if _, err := tx.NamedExecContext(ctx, `UPDATE category SET
				slug = :slug, is_active = :is_active, updated_at = :updated_at
				WHERE id = :id`, c); err != nil {
				return err
			}
		}

		for _, t := range c.Translations {
			t.CategoryID = c.ID
			if t.ID == 0 {
				res, err := tx.NamedExecContext(ctx, `INSERT INTO category_translation
					(category_id, locale, name, description)
					VALUES (:category_id, :locale, :name, :description)`, t)
				if err != nil {
					return err
				}
				id, err := res.LastInsertId()
				if err != nil {
					return err
				}
				t.ID = id
			} else {
				if _, err := tx.NamedExecContext(ctx, `UPDATE category_translation SET
					locale = :locale, name = :name, description = :description
					WHERE id = :id`, t); err != nil {
					return err
				}
			}
		}
		return nil
	}
}

func (r *SQLCategoryRepository) loadTranslations(ctx context.Context, categories []*Category) error {
	if len(categories) == 0 {
		return nil
	}
	ids := make([]int64, len(categories))
	byID := make(map[int64]*Category, len(categories))
	for i, c := range categories {
		ids[i] = c.ID
		byID[c.ID] = c
	}

	query, args, err := sqlx.In(`SELECT id, category_id, locale, name, description
		FROM category_translation WHERE category_id IN (?) ORDER BY id`, ids)
	if err != nil {
		return fmt.Errorf("failed to build translation query: %w", err)
	}
	var translations []*CategoryTranslation
	if err := r.db.SelectContext(ctx, &translations, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to load category translations: %w", err)
	}
	for _, t := range translations {
		if parent, ok := byID[t.CategoryID]; ok {
			parent.AddTranslation(t)
		}
	}
	return nil
}

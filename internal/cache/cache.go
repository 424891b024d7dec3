package cache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"go-blog-app/internal/config"
)

// Cache is a SQLite-backed store for rendered article bodies. Keys embed the
// entity id, locale and modification timestamp, so a stale entry is simply
// never asked for again and expires via its TTL.
type Cache struct {
	db *sqlx.DB
}

// New opens the SQLite database at the configured path and ensures the cache
// table exists.
func New(cfg config.CacheConfig) (*Cache, error) {
	db, err := sqlx.Connect("sqlite", cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite cache: %w", err)
	}

	// For a cache, WAL mode is generally better for concurrency.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return nil, fmt.Errorf("failed to set WAL mode on sqlite cache: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS render_cache (
		key TEXT PRIMARY KEY,
		value BLOB,
		expires_at INTEGER
	);
	CREATE INDEX IF NOT EXISTS idx_render_cache_expires_at ON render_cache (expires_at);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// RenderKey builds the cache key for a rendered entity body.
func RenderKey(entity string, id int64, locale string, updatedAt time.Time) string {
	return fmt.Sprintf("%s:%d:%s:%d", entity, id, locale, updatedAt.Unix())
}

// Get retrieves an item. It returns nil if the item is missing or expired.
func (c *Cache) Get(key string) ([]byte, error) {
	var item struct {
		Value     []byte `db:"value"`
		ExpiresAt int64  `db:"expires_at"`
	}
	err := c.db.Get(&item, `SELECT value, expires_at FROM render_cache WHERE key = ?`, key)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // A cache miss is not an error.
		}
		return nil, fmt.Errorf("failed to get item from cache: %w", err)
	}

	if time.Now().Unix() > item.ExpiresAt {
		// Expired; drop it best effort and report a miss.
		_ = c.Delete(key)
		return nil, nil
	}

	return item.Value, nil
}

// Set stores an item with the given TTL.
func (c *Cache) Set(key string, value []byte, ttl time.Duration) error {
	expiresAt := time.Now().Add(ttl).Unix()
	_, err := c.db.Exec(`INSERT OR REPLACE INTO render_cache (key, value, expires_at) VALUES (?, ?, ?)`,
		key, value, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to set item in cache: %w", err)
	}
	return nil
}

// Delete removes an item.
func (c *Cache) Delete(key string) error {
	if _, err := c.db.Exec(`DELETE FROM render_cache WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete item from cache: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

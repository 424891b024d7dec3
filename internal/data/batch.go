package data

import (
	"context"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
)

// Batch collects deferred writes staged by the repositories so that several
// changes commit in a single transaction. If any staged change violates a
// constraint the whole batch rolls back; nothing is partially applied.
type Batch struct {
	db  *sqlx.DB
	mu  sync.Mutex
	ops []func(ctx context.Context, tx *sqlx.Tx) error
}

// NewBatch creates an empty batch bound to the given connection pool.
func NewBatch(db *sqlx.DB) *Batch {
	return &Batch{db: db}
}

func (b *Batch) add(op func(ctx context.Context, tx *sqlx.Tx) error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ops = append(b.ops, op)
}

// Len returns the number of staged operations.
func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.ops)
}

// Flush applies every staged operation inside one transaction. The staged
// list is cleared whether or not the commit succeeds; a failed batch must be
// rebuilt by the caller.
func (b *Batch) Flush(ctx context.Context) error {
	b.mu.Lock()
	ops := b.ops
	b.ops = nil
	b.mu.Unlock()

	if len(ops) == 0 {
		return nil
	}

	tx, err := b.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin batch transaction: %w", err)
	}
	for _, op := range ops {
		if err := op(ctx, tx); err != nil {
			tx.Rollback()
			return mapWriteError(err)
		}
	}
	if err := tx.Commit(); err != nil {
		return mapWriteError(err)
	}
	return nil
}

// runNow executes a single operation in its own transaction, committing
// before it returns. Used for writes requested with immediate flush.
func runNow(ctx context.Context, db *sqlx.DB, op func(ctx context.Context, tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := op(ctx, tx); err != nil {
		tx.Rollback()
		return mapWriteError(err)
	}
	if err := tx.Commit(); err != nil {
		return mapWriteError(err)
	}
	return nil
}

package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQLUserRepository handles database operations for back-office accounts.
type SQLUserRepository struct {
	db    *sqlx.DB
	batch *Batch
}

// NewSQLUserRepository creates a new SQLUserRepository.
func NewSQLUserRepository(db *sqlx.DB, batch *Batch) *SQLUserRepository {
	return &SQLUserRepository{db: db, batch: batch}
}

// List returns all users ordered by email.
func (r *SQLUserRepository) List(ctx context.Context) ([]*User, error) {
	var users []*User
	if err := r.db.SelectContext(ctx, &users, `SELECT id, email, roles, password FROM user ORDER BY email`); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Get retrieves a user by id.
func (r *SQLUserRepository) Get(ctx context.Context, id int64) (*User, error) {
	var user User
	if err := r.db.GetContext(ctx, &user, `SELECT id, email, roles, password FROM user WHERE id = ?`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

// FindByEmail retrieves a user by the unique email address. Login goes
// through here.
func (r *SQLUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	if err := r.db.GetContext(ctx, &user, `SELECT id, email, roles, password FROM user WHERE email = ?`, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return &user, nil
}

// Save persists the user. A duplicate email surfaces as ErrConstraint.
func (r *SQLUserRepository) Save(ctx context.Context, u *User, flush bool) error {
	op := func(ctx context.Context, tx *sqlx.Tx) error {
		if u.ID == 0 {
			res, err := tx.NamedExecContext(ctx, `INSERT INTO user (email, roles, password)
				VALUES (:email, :roles, :password)`, u)
			if err != nil {
				return err
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			u.ID = id
			return nil
		}
		_, err := tx.NamedExecContext(ctx, `UPDATE user SET email = :email, roles = :roles, password = :password
			WHERE id = :id`, u)
		return err
	}
	if flush {
		return runNow(ctx, r.db, op)
	}
	r.batch.add(op)
	return nil
}

// Remove deletes the user. A user still referenced as an article author is
// rejected by the foreign key and surfaces as ErrConstraint.
func (r *SQLUserRepository) Remove(ctx context.Context, u *User, flush bool) error {
	op := func(ctx context.Context, tx *sqlx.Tx) error {
		var authored int
		if err := tx.GetContext(ctx, &authored, `SELECT COUNT(id) FROM article WHERE author_id = ?`, u.ID); err != nil {
			return err
		}
		if authored > 0 {
			return fmt.Errorf("%w: user %q still authors %d article(s)", ErrConstraint, u.Email, authored)
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM user WHERE id = ?`, u.ID)
		return err
	}
	if flush {
		return runNow(ctx, r.db, op)
	}
	r.batch.add(op)
	return nil
}

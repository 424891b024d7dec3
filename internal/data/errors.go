package data

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	sqlite3 "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a lookup misses, or when the match exists but
// fails its public visibility gate. Callers surface it as a generic 404 so
// unpublished content is not distinguishable from absent content.
var ErrNotFound = errors.New("not found")

// ErrConstraint is returned when a write is rejected by the store: duplicate
// slug, duplicate (entity, locale) translation pair, missing required relation,
// or deleting a category that still owns articles. Nothing is partially
// committed when it is returned.
var ErrConstraint = errors.New("constraint violation")

// MySQL error numbers for integrity violations.
const (
	mysqlErrDuplicateEntry     = 1062
	mysqlErrRowIsReferenced    = 1451
	mysqlErrNoReferencedRow    = 1452
	mysqlErrColumnCannotBeNull = 1048
)

// mapWriteError folds driver-specific integrity errors into ErrConstraint so
// callers can test with errors.Is regardless of the configured driver.
func mapWriteError(err error) error {
	if err == nil {
		return nil
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlErrDuplicateEntry, mysqlErrRowIsReferenced, mysqlErrNoReferencedRow, mysqlErrColumnCannotBeNull:
			return fmt.Errorf("%w: %v", ErrConstraint, err)
		}
		return err
	}

	var sqErr sqlite3.Error
	if errors.As(err, &sqErr) {
		if sqErr.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("%w: %v", ErrConstraint, err)
		}
	}

	return err
}

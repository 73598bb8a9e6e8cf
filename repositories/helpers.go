package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ErrStorage is the only error kind surfaced by the repositories: connection
// failures, failed statements and constraint violations all wrap it.
var ErrStorage = errors.New("storage error")

// queryer is satisfied by *sql.Conn and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func storageError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStorage) {
		return err
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// "23503": foreign_key_violation, "23514": check_violation
		if pqErr.Constraint != "" {
			return fmt.Errorf("%w: %s: %s (constraint %s): %w", ErrStorage, op, pqErr.Code.Name(), pqErr.Constraint, err)
		}
		return fmt.Errorf("%w: %s: %s: %w", ErrStorage, op, pqErr.Code.Name(), err)
	}
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

package store

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ErrNotFound is returned when no live record matches.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a uniqueness constraint is violated.
var ErrConflict = errors.New("conflict")

// Postgres error code for unique_violation.
const uniqueViolationCode = "23505"

// live is the predicate every read query composes so that soft-deleted
// rows stay invisible to normal reads.
const live = "deleted_at IS NULL"

// translateError maps storage-level unique violations onto ErrConflict so
// that a concurrent duplicate surfaces exactly like a pre-flight one.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
		return fmt.Errorf("%w: %s", ErrConflict, pqErr.Constraint)
	}
	return err
}

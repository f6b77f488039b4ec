package repository

import (
	"errors"

	"github.com/lib/pq"
)

// ErrDuplicate is returned when an insert or update violates a unique constraint.
var ErrDuplicate = errors.New("duplicate key")

// ErrNotFound is returned by mutations that address a row that does not exist.
var ErrNotFound = errors.New("record not found")

// ErrReferenced is returned when a delete is blocked by rows that still reference the target.
var ErrReferenced = errors.New("record is still referenced")

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// translate maps driver errors onto repository sentinels.
func translate(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case uniqueViolation:
		return ErrDuplicate
	case foreignKeyViolation:
		return ErrReferenced
	}
	return err
}

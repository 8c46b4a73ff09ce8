package repo

import (
	"errors"

	"github.com/lib/pq"
)

// Typed errors surfaced by the stores. Handlers map these to HTTP statuses;
// anything else is an unexpected persistence failure.
var (
	ErrDuplicateUsername = errors.New("username already exists")
	ErrValidation        = errors.New("validation failed")
	ErrSessionNotFound   = errors.New("session not found")
)

// isUniqueViolation reports whether err is a Postgres unique-constraint violation (23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// Package repository holds the credential and todo stores. Postgres
// implementations back production; the memory implementations serve local runs
// without DATABASE_URL and tests.
package repository

import (
	"errors"

	"github.com/lib/pq"
)

// ErrNotFound is returned when no row matches, including an ownership mismatch.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when the users.email unique constraint rejects an insert.
var ErrDuplicateEmail = errors.New("email already exists")

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

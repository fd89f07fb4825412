package database

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound means the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict means a concurrent writer got there first: either a
	// versioned update matched no row or an insert hit the unique
	// constraint. Callers retry the read-modify-write once, then give up.
	ErrConflict = errors.New("concurrent update conflict")
)

// isUniqueViolation detects the unique-constraint error of both supported
// drivers (lib/pq reports SQLSTATE 23505, mattn/go-sqlite3 a constraint
// message).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "23505") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

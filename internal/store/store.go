// Package store persists the issue snapshot and the durable vocabulary pool.
// Both tables are derived caches: the snapshot is replaced wholesale on each
// refresh, and the vocabulary pool only ever grows.
package store

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// isUniqueConstraintError sniffs driver-specific unique violation messages.
// sqlite (modernc), mysql, and postgres phrase these differently and none
// expose a portable error type through database/sql.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "constraint failed") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "duplicate key")
}

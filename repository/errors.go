package repository

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrDuplicateUsername is returned when an insert collides with an existing username.
	ErrDuplicateUsername = errors.New("repository: username already exists")
	// ErrStorageUnavailable wraps any other failure of the underlying database.
	ErrStorageUnavailable = errors.New("repository: storage unavailable")
)

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

// storageErr tags err as a storage failure while keeping the driver error in the chain.
func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, op, err)
}

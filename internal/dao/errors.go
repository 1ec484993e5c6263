package dao

import (
	"database/sql"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a lookup or targeted update matches no row
	ErrNotFound = errors.New("not found")
	// ErrDuplicateKey is returned when an insert violates a unique key
	ErrDuplicateKey = errors.New("duplicate key")
)

// requireAffected returns ErrNotFound when result touched no rows
func requireAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

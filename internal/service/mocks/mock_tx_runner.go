package mocks

import (
	"context"

	"github.com/healthtrack/healthtrack-api/internal/database"
)

// TxRunner runs the callback without a real transaction. Commits counts the
// callbacks that returned nil.
type TxRunner struct {
	Commits   int
	Rollbacks int
}

func (r *TxRunner) WithTransaction(ctx context.Context, fn func(*database.Transaction) error) error {
	if err := fn(nil); err != nil {
		r.Rollbacks++
		return err
	}
	r.Commits++
	return nil
}

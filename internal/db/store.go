package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Store is what the HTTP layer depends on: every query plus transactions.
type Store interface {
	Querier
	// ExecTx runs fn inside a transaction, committing when fn returns nil.
	ExecTx(ctx context.Context, fn func(Querier) error) error
}

var _ Store = (*DB)(nil)

// ExecTx begins a transaction, hands fn a transaction-bound Queries and
// commits on success. Rollback is deferred so any error or panic undoes it.
func (db *DB) ExecTx(ctx context.Context, fn func(Querier) error) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // Rollback is ignored if Commit() succeeds

	if err := fn(db.Queries.WithTx(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// IsNotFound reports whether err means the row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxFunc is the function type executed inside a transaction.
type TxFunc func(pgx.Tx) error

// WithTransaction wraps a function in a transaction.
// Auto rollback on error or panic, auto commit on success.
func WithTransaction(ctx context.Context, pool *pgxpool.Pool, fn TxFunc) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	err = fn(tx)
	if err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// maxTxRetries bounds retries of transactions aborted by concurrent writers.
const maxTxRetries = 3

// WithRetryableTransaction runs fn in a transaction and retries it when the
// database aborts the transaction due to a serialization failure or deadlock.
// Any other error is returned to the caller unchanged; callers never observe
// a raw concurrency failure.
func WithRetryableTransaction(ctx context.Context, pool *pgxpool.Pool, fn TxFunc) error {
	var err error
	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err = WithTransaction(ctx, pool, fn)
		if err == nil || !IsRetryable(err) {
			return err
		}
	}
	return fmt.Errorf("transaction retries exhausted: %w", err)
}

// IsRetryable reports whether err is a transient transaction conflict.
// 40001 = serialization_failure, 40P01 = deadlock_detected.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

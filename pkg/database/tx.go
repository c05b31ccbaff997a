package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// TxFunc runs inside a transaction. Returning an error rolls everything back.
type TxFunc func(tx *sqlx.Tx) error

// RetryPolicy bounds retries of transient transaction failures. Zero values
// mean a single attempt with no backoff. OnRetry, when set, fires once per
// retried attempt.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
	OnRetry  func()
}

// WithinTx executes fn inside a single transaction: begin, fn, commit, with a
// full rollback on any error. Serialization failures and deadlocks are retried
// under the policy; every other error surfaces immediately. Business failures
// (validation, not-found, conflict) never reach this layer as pq errors, so
// they are never retried.
func WithinTx(ctx context.Context, db *sqlx.DB, policy RetryPolicy, fn TxFunc) error {
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = runTx(ctx, db, fn)
		if err == nil {
			return nil
		}
		if !isTransient(err) || attempt == attempts {
			return err
		}
		if policy.OnRetry != nil {
			policy.OnRetry()
		}
		if policy.Backoff > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * policy.Backoff):
			}
		}
	}
	return err
}

func runTx(ctx context.Context, db *sqlx.DB, fn TxFunc) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		tx.Rollback() //nolint:errcheck
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// isTransient reports whether the error is a retryable PostgreSQL failure:
// serialization_failure (40001) or deadlock_detected (40P01).
func isTransient(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "40001" || pqErr.Code == "40P01"
}

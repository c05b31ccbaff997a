package database

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func newTxMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestWithinTxCommitsOnSuccess(t *testing.T) {
	db, mock, cleanup := newTxMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE invoices").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := WithinTx(context.Background(), db, RetryPolicy{}, func(tx *sqlx.Tx) error {
		_, err := tx.Exec("UPDATE invoices SET status = 'PAID'")
		return err
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	db, mock, cleanup := newTxMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := WithinTx(context.Background(), db, RetryPolicy{}, func(tx *sqlx.Tx) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTxRetriesSerializationFailure(t *testing.T) {
	db, mock, cleanup := newTxMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectCommit()

	attempts := 0
	retries := 0
	err := WithinTx(context.Background(), db, RetryPolicy{Attempts: 3, OnRetry: func() { retries++ }}, func(tx *sqlx.Tx) error {
		attempts++
		if attempts == 1 {
			return &pq.Error{Code: "40001"}
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 2, attempts)
	require.Equal(t, 1, retries)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTxDoesNotRetryBusinessErrors(t *testing.T) {
	db, mock, cleanup := newTxMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectRollback()

	attempts := 0
	err := WithinTx(context.Background(), db, RetryPolicy{Attempts: 3}, func(tx *sqlx.Tx) error {
		attempts++
		return errors.New("insufficient funds")
	})
	require.Error(t, err)
	require.Equal(t, 1, attempts)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTxExhaustsAttempts(t *testing.T) {
	db, mock, cleanup := newTxMock(t)
	defer cleanup()

	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectRollback()
	}

	attempts := 0
	err := WithinTx(context.Background(), db, RetryPolicy{Attempts: 2}, func(tx *sqlx.Tx) error {
		attempts++
		return &pq.Error{Code: "40P01"}
	})
	require.Error(t, err)
	require.Equal(t, 2, attempts)
	require.NoError(t, mock.ExpectationsWereMet())
}

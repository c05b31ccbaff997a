package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-ledger-api/internal/models"
	"github.com/noah-isme/academic-ledger-api/internal/repository"
	"github.com/noah-isme/academic-ledger-api/pkg/database"
	appErrors "github.com/noah-isme/academic-ledger-api/pkg/errors"
)

func newServiceMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func newPaymentService(db *sqlx.DB) *PaymentService {
	return NewPaymentService(db, database.RetryPolicy{}, repository.NewTransactionRepository(db), repository.NewInvoiceRepository(db), nil, nil)
}

func expectInvoiceLookup(mock sqlmock.Sqlmock, invoiceID int64, studentID string, total float64) {
	rows := sqlmock.NewRows([]string{"id", "student_id", "semester_id", "issue_date", "due_date", "total_amount", "status"}).
		AddRow(invoiceID, studentID, "2025-1", time.Now(), time.Now().AddDate(0, 1, 0), total, models.InvoiceStatusPending)
	mock.ExpectQuery("SELECT id, student_id, semester_id, issue_date, due_date, total_amount, status FROM invoices WHERE id").
		WithArgs(invoiceID).
		WillReturnRows(rows)
}

func TestPaymentServicePartialPaymentLeavesInvoicePending(t *testing.T) {
	db, mock, cleanup := newServiceMock(t)
	defer cleanup()
	svc := newPaymentService(db)

	expectInvoiceLookup(mock, 10, "stu-1", 1000)
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO transactions").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT total_amount FROM invoices WHERE id = $1")).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"total_amount"}).AddRow(1000.0))
	mock.ExpectQuery("SELECT COALESCE").
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(400.0))
	mock.ExpectCommit()

	payment, err := svc.AddPayment(context.Background(), AddPaymentRequest{InvoiceID: 10, Amount: 400, Method: "CASH"})
	require.NoError(t, err)
	require.Equal(t, int64(1), payment.ID)
	require.Equal(t, "stu-1", payment.StudentID)
	require.NotEmpty(t, payment.ReferenceCode)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentServiceCoveringPaymentMarksInvoicePaid(t *testing.T) {
	db, mock, cleanup := newServiceMock(t)
	defer cleanup()
	svc := newPaymentService(db)

	expectInvoiceLookup(mock, 10, "stu-1", 1000)
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO transactions").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(2)))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT total_amount FROM invoices WHERE id = $1")).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"total_amount"}).AddRow(1000.0))
	mock.ExpectQuery("SELECT COALESCE").
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(1000.0))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE invoices SET status = $2 WHERE id = $1")).
		WithArgs(int64(10), models.InvoiceStatusPaid).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, err := svc.AddPayment(context.Background(), AddPaymentRequest{InvoiceID: 10, Amount: 600, Method: "TRANSFER", ReferenceCode: "TRX-42"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentServicePaidInvoiceStaysPaidAfterFurtherPayment(t *testing.T) {
	db, mock, cleanup := newServiceMock(t)
	defer cleanup()
	svc := newPaymentService(db)

	rows := sqlmock.NewRows([]string{"id", "student_id", "semester_id", "issue_date", "due_date", "total_amount", "status"}).
		AddRow(int64(10), "stu-1", "2025-1", time.Now(), time.Now().AddDate(0, 1, 0), 1000.0, models.InvoiceStatusPaid)
	mock.ExpectQuery("SELECT id, student_id, semester_id, issue_date, due_date, total_amount, status FROM invoices WHERE id").
		WithArgs(int64(10)).
		WillReturnRows(rows)
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO transactions").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(4)))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT total_amount FROM invoices WHERE id = $1")).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"total_amount"}).AddRow(1000.0))
	mock.ExpectQuery("SELECT COALESCE").
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(1400.0))
	// the only status write settlement ever issues keeps the invoice PAID
	mock.ExpectExec(regexp.QuoteMeta("UPDATE invoices SET status = $2 WHERE id = $1")).
		WithArgs(int64(10), models.InvoiceStatusPaid).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	payment, err := svc.AddPayment(context.Background(), AddPaymentRequest{InvoiceID: 10, Amount: 400, Method: "CASH"})
	require.NoError(t, err)
	require.Equal(t, int64(4), payment.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentServiceRollsBackWhenSettlementFails(t *testing.T) {
	db, mock, cleanup := newServiceMock(t)
	defer cleanup()
	svc := newPaymentService(db)

	expectInvoiceLookup(mock, 10, "stu-1", 1000)
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO transactions").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT total_amount FROM invoices WHERE id = $1")).
		WithArgs(int64(10)).
		WillReturnError(context.DeadlineExceeded)
	mock.ExpectRollback()

	_, err := svc.AddPayment(context.Background(), AddPaymentRequest{InvoiceID: 10, Amount: 600, Method: "CASH"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrTransaction.Code, appErr.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentServiceUnknownInvoice(t *testing.T) {
	db, mock, cleanup := newServiceMock(t)
	defer cleanup()
	svc := newPaymentService(db)

	mock.ExpectQuery("SELECT id, student_id, semester_id").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.AddPayment(context.Background(), AddPaymentRequest{InvoiceID: 99, Amount: 100, Method: "CASH"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestPaymentServiceRejectsNonPositiveAmount(t *testing.T) {
	db, _, cleanup := newServiceMock(t)
	defer cleanup()
	svc := newPaymentService(db)

	_, err := svc.AddPayment(context.Background(), AddPaymentRequest{InvoiceID: 10, Amount: 0, Method: "CASH"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-ledger-api/internal/models"
	"github.com/noah-isme/academic-ledger-api/internal/repository"
	"github.com/noah-isme/academic-ledger-api/pkg/database"
	appErrors "github.com/noah-isme/academic-ledger-api/pkg/errors"
)

func newBillingService(db *sqlx.DB) *BillingService {
	return NewBillingService(db, database.RetryPolicy{}, repository.NewStudentRepository(db), repository.NewInvoiceRepository(db), nil, nil)
}

func TestBillingServiceGeneratesOneInvoicePerEnrolledStudent(t *testing.T) {
	db, mock, cleanup := newServiceMock(t)
	defer cleanup()
	svc := newBillingService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM students WHERE status = $1 ORDER BY id")).
		WithArgs(models.StudentStatusEnrolled).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("stu-1").AddRow("stu-2"))
	for i := 1; i <= 2; i++ {
		mock.ExpectQuery("INSERT INTO invoices").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(i)))
		mock.ExpectQuery("INSERT INTO invoice_items").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(i)))
	}
	mock.ExpectCommit()

	count, err := svc.GenerateForSemester(context.Background(), GenerateInvoicesRequest{
		SemesterID: "2025-1",
		BaseAmount: 1500,
	})
	require.NoError(t, err)
	require.Equal(t, 2, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBillingServiceGenerateRollsBackWholeCohortOnFailure(t *testing.T) {
	db, mock, cleanup := newServiceMock(t)
	defer cleanup()
	svc := newBillingService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM students WHERE status = $1 ORDER BY id")).
		WithArgs(models.StudentStatusEnrolled).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("stu-1").AddRow("stu-2"))
	mock.ExpectQuery("INSERT INTO invoices").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery("INSERT INTO invoice_items").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery("INSERT INTO invoices").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := svc.GenerateForSemester(context.Background(), GenerateInvoicesRequest{
		SemesterID: "2025-1",
		BaseAmount: 1500,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrTransaction.Code, appErr.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBillingServiceGenerateWithNoEnrolledStudents(t *testing.T) {
	db, mock, cleanup := newServiceMock(t)
	defer cleanup()
	svc := newBillingService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM students WHERE status = $1 ORDER BY id")).
		WithArgs(models.StudentStatusEnrolled).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	count, err := svc.GenerateForSemester(context.Background(), GenerateInvoicesRequest{
		SemesterID: "2025-1",
		BaseAmount: 1500,
	})
	require.NoError(t, err)
	require.Equal(t, 0, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBillingServiceGenerateUsesExplicitDates(t *testing.T) {
	db, mock, cleanup := newServiceMock(t)
	defer cleanup()
	svc := newBillingService(db)

	issue := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	due := time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM students WHERE status = $1 ORDER BY id")).
		WithArgs(models.StudentStatusEnrolled).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("stu-1"))
	mock.ExpectQuery("INSERT INTO invoices").
		WithArgs("stu-1", "2025-1", issue, due, 1500.0, models.InvoiceStatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery("INSERT INTO invoice_items").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectCommit()

	count, err := svc.GenerateForSemester(context.Background(), GenerateInvoicesRequest{
		SemesterID: "2025-1",
		BaseAmount: 1500,
		IssueDate:  "2025-08-01",
		DueDate:    "2025-09-15",
	})
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBillingServiceGenerateRejectsBadDates(t *testing.T) {
	db, _, cleanup := newServiceMock(t)
	defer cleanup()
	svc := newBillingService(db)

	cases := []GenerateInvoicesRequest{
		{SemesterID: "2025-1", BaseAmount: 1500, IssueDate: "01/08/2025"},
		{SemesterID: "2025-1", BaseAmount: 1500, DueDate: "someday"},
		{SemesterID: "2025-1", BaseAmount: 1500, IssueDate: "2025-09-15", DueDate: "2025-08-01"},
	}
	for _, req := range cases {
		_, err := svc.GenerateForSemester(context.Background(), req)
		require.Error(t, err)
		appErr := appErrors.FromError(err)
		require.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	}
}

func TestBillingServiceGenerateCountSurvivesRetry(t *testing.T) {
	db, mock, cleanup := newServiceMock(t)
	defer cleanup()
	svc := NewBillingService(db, database.RetryPolicy{Attempts: 2}, repository.NewStudentRepository(db), repository.NewInvoiceRepository(db), nil, nil)

	for attempt := 1; attempt <= 2; attempt++ {
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM students WHERE status = $1 ORDER BY id")).
			WithArgs(models.StudentStatusEnrolled).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("stu-1"))
		mock.ExpectQuery("INSERT INTO invoices").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(attempt)))
		mock.ExpectQuery("INSERT INTO invoice_items").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(attempt)))
		if attempt == 1 {
			mock.ExpectCommit().WillReturnError(&pq.Error{Code: "40001"})
		} else {
			mock.ExpectCommit()
		}
	}

	count, err := svc.GenerateForSemester(context.Background(), GenerateInvoicesRequest{
		SemesterID: "2025-1",
		BaseAmount: 1500,
	})
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBillingServiceGenerateRejectsInvalidPayload(t *testing.T) {
	db, _, cleanup := newServiceMock(t)
	defer cleanup()
	svc := newBillingService(db)

	_, err := svc.GenerateForSemester(context.Background(), GenerateInvoicesRequest{BaseAmount: 1500})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

package repository

import (
	"context"
	"database/sql"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestFinanceRepositoryStudentSummariesIncludesUnbilledStudents(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewFinanceRepository(db)

	rows := sqlmock.NewRows([]string{"student_id", "student_name", "total_due", "total_paid", "balance"}).
		AddRow("stu-1", "Alice Tan", 1500.0, 900.0, 600.0).
		AddRow("stu-2", "Bob Lim", 0.0, 0.0, 0.0)
	mock.ExpectQuery("SELECT st.id AS student_id, st.full_name AS student_name").
		WillReturnRows(rows)

	summaries, err := repo.StudentSummaries(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	require.Equal(t, 600.0, summaries[0].Balance)
	require.Equal(t, 0.0, summaries[1].TotalDue)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFinanceRepositorySummaryForStudentNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewFinanceRepository(db)

	mock.ExpectQuery("SELECT st.id AS student_id").
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.SummaryForStudent(context.Background(), "ghost")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFinanceRepositoryReport(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewFinanceRepository(db)

	rows := sqlmock.NewRows([]string{"total_due", "total_paid", "transaction_count"}).
		AddRow(12000.0, 8400.0, 17)
	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	report, err := repo.Report(context.Background())
	require.NoError(t, err)
	require.Equal(t, 12000.0, report.TotalDue)
	require.Equal(t, 8400.0, report.TotalPaid)
	require.Equal(t, 17, report.TransactionCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

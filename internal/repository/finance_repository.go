package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academic-ledger-api/internal/models"
)

// FinanceRepository computes read-only financial projections. Both sums are
// produced in one grouped pass instead of per-student round trips.
type FinanceRepository struct {
	db *sqlx.DB
}

// NewFinanceRepository constructs the repository.
func NewFinanceRepository(db *sqlx.DB) *FinanceRepository {
	return &FinanceRepository{db: db}
}

const summaryColumns = `st.id AS student_id, st.full_name AS student_name,
        COALESCE(due.total_due, 0) AS total_due,
        COALESCE(paid.total_paid, 0) AS total_paid,
        COALESCE(due.total_due, 0) - COALESCE(paid.total_paid, 0) AS balance`

const summaryJoins = `FROM students st
        LEFT JOIN (SELECT student_id, SUM(total_amount) AS total_due FROM invoices GROUP BY student_id) due ON due.student_id = st.id
        LEFT JOIN (SELECT student_id, SUM(amount_paid) AS total_paid FROM transactions GROUP BY student_id) paid ON paid.student_id = st.id`

// StudentSummaries returns the due/paid/balance projection for every student.
func (r *FinanceRepository) StudentSummaries(ctx context.Context) ([]models.FinanceSummary, error) {
	query := fmt.Sprintf("SELECT %s %s ORDER BY st.id", summaryColumns, summaryJoins)
	var summaries []models.FinanceSummary
	if err := r.db.SelectContext(ctx, &summaries, query); err != nil {
		return nil, fmt.Errorf("student finance summaries: %w", err)
	}
	return summaries, nil
}

// SummaryForStudent returns the projection for a single student.
func (r *FinanceRepository) SummaryForStudent(ctx context.Context, studentID string) (*models.FinanceSummary, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE st.id = $1", summaryColumns, summaryJoins)
	var summary models.FinanceSummary
	if err := r.db.GetContext(ctx, &summary, query, studentID); err != nil {
		return nil, err
	}
	return &summary, nil
}

// Report returns fleet-wide billing totals.
func (r *FinanceRepository) Report(ctx context.Context) (*models.FinancialReport, error) {
	const query = `SELECT
        COALESCE((SELECT SUM(total_amount) FROM invoices), 0) AS total_due,
        COALESCE((SELECT SUM(amount_paid) FROM transactions), 0) AS total_paid,
        (SELECT COUNT(*) FROM transactions) AS transaction_count`
	var report models.FinancialReport
	if err := r.db.GetContext(ctx, &report, query); err != nil {
		return nil, fmt.Errorf("financial report: %w", err)
	}
	return &report, nil
}

package service

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/academic-ledger-api/internal/models"
	appErrors "github.com/noah-isme/academic-ledger-api/pkg/errors"
)

type financeRepository interface {
	StudentSummaries(ctx context.Context) ([]models.FinanceSummary, error)
	SummaryForStudent(ctx context.Context, studentID string) (*models.FinanceSummary, error)
	Report(ctx context.Context) (*models.FinancialReport, error)
}

// FinanceService serves balance projections computed live from invoices and
// transactions. Results are never cached.
type FinanceService struct {
	finance financeRepository
	metrics *MetricsService
	logger  *zap.Logger
}

// NewFinanceService constructs FinanceService.
func NewFinanceService(finance financeRepository, metrics *MetricsService, logger *zap.Logger) *FinanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FinanceService{finance: finance, metrics: metrics, logger: logger}
}

// StudentSummaries returns the per-student due/paid/balance table across all
// students, including students with no billing history.
func (s *FinanceService) StudentSummaries(ctx context.Context) ([]models.FinanceSummary, error) {
	start := time.Now()
	summaries, err := s.finance.StudentSummaries(ctx)
	s.metrics.ObserveDBQuery("finance_summaries", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute finance summaries")
	}
	for i := range summaries {
		summaries[i].Status = settlementStatus(summaries[i].Balance)
	}
	return summaries, nil
}

// StudentSummary returns a single student's due/paid/balance projection.
func (s *FinanceService) StudentSummary(ctx context.Context, studentID string) (*models.FinanceSummary, error) {
	start := time.Now()
	summary, err := s.finance.SummaryForStudent(ctx, studentID)
	s.metrics.ObserveDBQuery("finance_summary", time.Since(start))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute finance summary")
	}
	summary.Status = settlementStatus(summary.Balance)
	return summary, nil
}

// Report returns fleet-wide billing totals.
func (s *FinanceService) Report(ctx context.Context) (*models.FinancialReport, error) {
	start := time.Now()
	report, err := s.finance.Report(ctx)
	s.metrics.ObserveDBQuery("finance_report", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute financial report")
	}
	report.NetBalance = report.TotalDue - report.TotalPaid
	return report, nil
}

// settlementStatus labels a balance: fully covered balances, including
// overpayments, read as PAID.
func settlementStatus(balance float64) string {
	if balance <= 0 {
		return string(models.InvoiceStatusPaid)
	}
	return string(models.InvoiceStatusPending)
}

package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-ledger-api/internal/models"
	"github.com/noah-isme/academic-ledger-api/pkg/database"
	appErrors "github.com/noah-isme/academic-ledger-api/pkg/errors"
)

type billingStudentRepository interface {
	ListIDsByStatusTx(ctx context.Context, tx *sqlx.Tx, status models.StudentStatus) ([]string, error)
}

type invoiceRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Invoice, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Invoice, error)
	ListPendingByStudent(ctx context.Context, studentID string) ([]models.Invoice, error)
	Items(ctx context.Context, invoiceID int64) ([]models.InvoiceItem, error)
	InsertTx(ctx context.Context, tx *sqlx.Tx, invoice *models.Invoice) error
	InsertItemTx(ctx context.Context, tx *sqlx.Tx, item *models.InvoiceItem) error
}

// GenerateInvoicesRequest drives a semester billing run. Dates use the
// YYYY-MM-DD form; a missing issue date means today and a missing due date
// means thirty days after issue.
type GenerateInvoicesRequest struct {
	SemesterID string  `json:"semester_id" validate:"required"`
	BaseAmount float64 `json:"base_amount" validate:"gt=0"`
	IssueDate  string  `json:"issue_date"`
	DueDate    string  `json:"due_date"`
}

// InvoiceDetail bundles an invoice with its line items.
type InvoiceDetail struct {
	Invoice models.Invoice       `json:"invoice"`
	Items   []models.InvoiceItem `json:"items"`
}

// BillingService owns invoice generation and invoice reads. Generation runs
// the whole cohort inside one transaction, so a failure on any student leaves
// no invoices behind.
type BillingService struct {
	db        *sqlx.DB
	retry     database.RetryPolicy
	students  billingStudentRepository
	invoices  invoiceRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBillingService constructs BillingService.
func NewBillingService(db *sqlx.DB, retry database.RetryPolicy, students billingStudentRepository, invoices invoiceRepository, validate *validator.Validate, logger *zap.Logger) *BillingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BillingService{db: db, retry: retry, students: students, invoices: invoices, validator: validate, logger: logger}
}

// GenerateForSemester creates one pending invoice per actively enrolled
// student and returns the number generated. Repeated runs for the same
// semester produce additional invoices; callers decide whether to re-bill.
func (s *BillingService) GenerateForSemester(ctx context.Context, req GenerateInvoicesRequest) (int, error) {
	if err := s.validator.Struct(req); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid billing payload")
	}

	issueDate := time.Now().UTC().Truncate(24 * time.Hour)
	if req.IssueDate != "" {
		parsed, err := time.Parse("2006-01-02", req.IssueDate)
		if err != nil {
			return 0, appErrors.Clone(appErrors.ErrValidation, "issue_date must be YYYY-MM-DD")
		}
		issueDate = parsed
	}
	dueDate := issueDate.AddDate(0, 0, 30)
	if req.DueDate != "" {
		parsed, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			return 0, appErrors.Clone(appErrors.ErrValidation, "due_date must be YYYY-MM-DD")
		}
		dueDate = parsed
	}
	if dueDate.Before(issueDate) {
		return 0, appErrors.Clone(appErrors.ErrValidation, "due_date must not precede issue_date")
	}

	var count int
	err := database.WithinTx(ctx, s.db, s.retry, func(tx *sqlx.Tx) error {
		// a retried attempt starts a fresh tally
		count = 0
		studentIDs, err := s.students.ListIDsByStatusTx(ctx, tx, models.StudentStatusEnrolled)
		if err != nil {
			return fmt.Errorf("list enrolled students: %w", err)
		}

		for _, studentID := range studentIDs {
			invoice := &models.Invoice{
				StudentID:   studentID,
				SemesterID:  req.SemesterID,
				IssueDate:   issueDate,
				DueDate:     dueDate,
				TotalAmount: req.BaseAmount,
				Status:      models.InvoiceStatusPending,
			}
			if err := s.invoices.InsertTx(ctx, tx, invoice); err != nil {
				return fmt.Errorf("insert invoice for student %s: %w", studentID, err)
			}
			item := &models.InvoiceItem{
				InvoiceID:   invoice.ID,
				Description: fmt.Sprintf("Base Tuition Fee - Semester %s", req.SemesterID),
				Amount:      req.BaseAmount,
			}
			if err := s.invoices.InsertItemTx(ctx, tx, item); err != nil {
				return fmt.Errorf("insert invoice item for student %s: %w", studentID, err)
			}
			count++
		}
		return nil
	})
	if err != nil {
		s.logger.Error("invoice generation rolled back", zap.String("semester_id", req.SemesterID), zap.Error(err))
		return 0, appErrors.Wrap(err, appErrors.ErrTransaction.Code, appErrors.ErrTransaction.Status, "invoice generation failed")
	}

	s.logger.Info("invoices generated",
		zap.String("semester_id", req.SemesterID),
		zap.Int("count", count))
	return count, nil
}

// Get returns an invoice with its line items.
func (s *BillingService) Get(ctx context.Context, invoiceID int64) (*InvoiceDetail, error) {
	invoice, err := s.invoices.FindByID(ctx, invoiceID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "invoice not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load invoice")
	}
	items, err := s.invoices.Items(ctx, invoiceID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load invoice items")
	}
	return &InvoiceDetail{Invoice: *invoice, Items: items}, nil
}

// ListByStudent returns all invoices of a student, newest first.
func (s *BillingService) ListByStudent(ctx context.Context, studentID string) ([]models.Invoice, error) {
	invoices, err := s.invoices.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list invoices")
	}
	return invoices, nil
}

// ListPendingByStudent returns a student's unpaid invoices ordered by due date.
func (s *BillingService) ListPendingByStudent(ctx context.Context, studentID string) ([]models.Invoice, error) {
	invoices, err := s.invoices.ListPendingByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending invoices")
	}
	return invoices, nil
}

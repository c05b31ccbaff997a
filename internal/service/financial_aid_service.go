package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-ledger-api/internal/models"
	"github.com/noah-isme/academic-ledger-api/pkg/database"
	appErrors "github.com/noah-isme/academic-ledger-api/pkg/errors"
)

type financialAidRepository interface {
	InsertTx(ctx context.Context, tx *sqlx.Tx, aid *models.FinancialAid) error
	ListByStudent(ctx context.Context, studentID string) ([]models.FinancialAid, error)
}

type aidInvoiceReader interface {
	FindByID(ctx context.Context, id int64) (*models.Invoice, error)
}

type settler interface {
	Settle(ctx context.Context, tx *sqlx.Tx, payment *models.Transaction) error
}

// AddAidRequest grants financial aid against an invoice.
type AddAidRequest struct {
	InvoiceID   int64   `json:"invoice_id" validate:"required"`
	SemesterID  string  `json:"semester_id" validate:"required"`
	AidType     string  `json:"aid_type" validate:"required"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount" validate:"gt=0"`
}

// FinancialAidService records aid grants. Each grant writes the aid row and a
// mirror transaction atomically, so aid reduces an invoice balance exactly
// like a cash payment and can tip the invoice into PAID.
type FinancialAidService struct {
	db        *sqlx.DB
	retry     database.RetryPolicy
	aids      financialAidRepository
	invoices  aidInvoiceReader
	payments  settler
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFinancialAidService constructs FinancialAidService.
func NewFinancialAidService(db *sqlx.DB, retry database.RetryPolicy, aids financialAidRepository, invoices aidInvoiceReader, payments settler, validate *validator.Validate, logger *zap.Logger) *FinancialAidService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FinancialAidService{db: db, retry: retry, aids: aids, invoices: invoices, payments: payments, validator: validate, logger: logger}
}

// AddAid records an aid grant and applies it to the invoice in one
// transaction.
func (s *FinancialAidService) AddAid(ctx context.Context, req AddAidRequest) (*models.FinancialAid, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid financial aid payload")
	}

	invoice, err := s.invoices.FindByID(ctx, req.InvoiceID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "invoice not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load invoice")
	}

	now := time.Now().UTC()
	aid := &models.FinancialAid{
		StudentID:   invoice.StudentID,
		SemesterID:  req.SemesterID,
		InvoiceID:   req.InvoiceID,
		AidType:     req.AidType,
		Description: req.Description,
		Amount:      req.Amount,
		ApplyDate:   now,
	}

	err = database.WithinTx(ctx, s.db, s.retry, func(tx *sqlx.Tx) error {
		if err := s.aids.InsertTx(ctx, tx, aid); err != nil {
			return fmt.Errorf("insert financial aid: %w", err)
		}
		mirror := &models.Transaction{
			InvoiceID:     req.InvoiceID,
			StudentID:     invoice.StudentID,
			PaymentDate:   now,
			AmountPaid:    req.Amount,
			Method:        req.AidType,
			ReferenceCode: fmt.Sprintf("AID-%s", uuid.New().String()),
		}
		return s.payments.Settle(ctx, tx, mirror)
	})
	if err != nil {
		s.logger.Error("financial aid rolled back", zap.Int64("invoice_id", req.InvoiceID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrTransaction.Code, appErrors.ErrTransaction.Status, "financial aid application failed")
	}

	s.logger.Info("financial aid granted",
		zap.Int64("invoice_id", aid.InvoiceID),
		zap.String("student_id", aid.StudentID),
		zap.String("aid_type", aid.AidType),
		zap.Float64("amount", aid.Amount))
	return aid, nil
}

// ListByStudent returns a student's aid history.
func (s *FinancialAidService) ListByStudent(ctx context.Context, studentID string) ([]models.FinancialAid, error) {
	aids, err := s.aids.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list financial aid")
	}
	return aids, nil
}

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

type transactionRepository interface {
	InsertTx(ctx context.Context, tx *sqlx.Tx, payment *models.Transaction) error
	SumForInvoiceTx(ctx context.Context, tx *sqlx.Tx, invoiceID int64) (float64, error)
	ListByInvoice(ctx context.Context, invoiceID int64) ([]models.Transaction, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Transaction, error)
}

type paymentInvoiceRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Invoice, error)
	TotalAmountTx(ctx context.Context, tx *sqlx.Tx, invoiceID int64) (float64, error)
	MarkPaidTx(ctx context.Context, tx *sqlx.Tx, invoiceID int64) error
}

// AddPaymentRequest records a payment against an invoice. ReferenceCode is
// optional; the service assigns one when absent.
type AddPaymentRequest struct {
	InvoiceID     int64   `json:"invoice_id" validate:"required"`
	Amount        float64 `json:"amount" validate:"gt=0"`
	Method        string  `json:"method" validate:"required"`
	ReferenceCode string  `json:"reference_code"`
}

// PaymentService records payments and settles invoices. Settlement recomputes
// the paid total from the append-only transaction log on every payment, so an
// invoice flips to PAID exactly when its payments cover its total, and never
// flips back.
type PaymentService struct {
	db           *sqlx.DB
	retry        database.RetryPolicy
	transactions transactionRepository
	invoices     paymentInvoiceRepository
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewPaymentService constructs PaymentService.
func NewPaymentService(db *sqlx.DB, retry database.RetryPolicy, transactions transactionRepository, invoices paymentInvoiceRepository, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{db: db, retry: retry, transactions: transactions, invoices: invoices, validator: validate, logger: logger}
}

// AddPayment records a payment and settles the invoice in one transaction.
// Overpayment is accepted and the surplus shows up as a negative balance in
// finance summaries.
func (s *PaymentService) AddPayment(ctx context.Context, req AddPaymentRequest) (*models.Transaction, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}

	invoice, err := s.invoices.FindByID(ctx, req.InvoiceID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "invoice not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load invoice")
	}

	reference := req.ReferenceCode
	if reference == "" {
		reference = uuid.New().String()
	}

	payment := &models.Transaction{
		InvoiceID:     req.InvoiceID,
		StudentID:     invoice.StudentID,
		PaymentDate:   time.Now().UTC(),
		AmountPaid:    req.Amount,
		Method:        req.Method,
		ReferenceCode: reference,
	}

	err = database.WithinTx(ctx, s.db, s.retry, func(tx *sqlx.Tx) error {
		return s.Settle(ctx, tx, payment)
	})
	if err != nil {
		s.logger.Error("payment settlement rolled back", zap.Int64("invoice_id", req.InvoiceID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrTransaction.Code, appErrors.ErrTransaction.Status, "payment settlement failed")
	}

	s.logger.Info("payment recorded",
		zap.Int64("invoice_id", payment.InvoiceID),
		zap.String("student_id", payment.StudentID),
		zap.Float64("amount", payment.AmountPaid),
		zap.String("method", payment.Method))
	return payment, nil
}

// Settle inserts the payment and updates the invoice status inside the
// caller's transaction. Financial aid credits flow through here too, with the
// aid type standing in as the payment method.
func (s *PaymentService) Settle(ctx context.Context, tx *sqlx.Tx, payment *models.Transaction) error {
	if err := s.transactions.InsertTx(ctx, tx, payment); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	total, err := s.invoices.TotalAmountTx(ctx, tx, payment.InvoiceID)
	if err != nil {
		return fmt.Errorf("read invoice total: %w", err)
	}
	paid, err := s.transactions.SumForInvoiceTx(ctx, tx, payment.InvoiceID)
	if err != nil {
		return fmt.Errorf("sum payments: %w", err)
	}

	if paid >= total {
		if err := s.invoices.MarkPaidTx(ctx, tx, payment.InvoiceID); err != nil {
			return fmt.Errorf("mark invoice paid: %w", err)
		}
	}
	return nil
}

// ListByInvoice returns an invoice's payment history in chronological order.
func (s *PaymentService) ListByInvoice(ctx context.Context, invoiceID int64) ([]models.Transaction, error) {
	payments, err := s.transactions.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payments")
	}
	return payments, nil
}

// ListByStudent returns a student's payment history, newest first.
func (s *PaymentService) ListByStudent(ctx context.Context, studentID string) ([]models.Transaction, error) {
	payments, err := s.transactions.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payments")
	}
	return payments, nil
}

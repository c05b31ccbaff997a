package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academic-ledger-api/internal/models"
)

// TransactionRepository handles the append-only payment log. Rows are never
// updated or deleted.
type TransactionRepository struct {
	db *sqlx.DB
}

// NewTransactionRepository constructs the repository.
func NewTransactionRepository(db *sqlx.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// InsertTx appends a payment row inside the caller's transaction and fills in
// the generated ID.
func (r *TransactionRepository) InsertTx(ctx context.Context, tx *sqlx.Tx, payment *models.Transaction) error {
	const query = `INSERT INTO transactions (invoice_id, student_id, payment_date, amount_paid, method, reference_code)
        VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := tx.QueryRowxContext(ctx, query, payment.InvoiceID, payment.StudentID, payment.PaymentDate, payment.AmountPaid, payment.Method, payment.ReferenceCode).Scan(&payment.ID); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// SumForInvoiceTx sums all payments against an invoice inside the caller's
// transaction, including rows inserted earlier in the same unit.
func (r *TransactionRepository) SumForInvoiceTx(ctx context.Context, tx *sqlx.Tx, invoiceID int64) (float64, error) {
	const query = `SELECT COALESCE(SUM(amount_paid), 0) FROM transactions WHERE invoice_id = $1`
	var sum float64
	if err := tx.GetContext(ctx, &sum, query, invoiceID); err != nil {
		return 0, fmt.Errorf("sum invoice payments: %w", err)
	}
	return sum, nil
}

// ListByInvoice returns payments against an invoice, oldest first.
func (r *TransactionRepository) ListByInvoice(ctx context.Context, invoiceID int64) ([]models.Transaction, error) {
	const query = `SELECT id, invoice_id, student_id, payment_date, amount_paid, method, reference_code
        FROM transactions WHERE invoice_id = $1 ORDER BY payment_date ASC`
	var payments []models.Transaction
	if err := r.db.SelectContext(ctx, &payments, query, invoiceID); err != nil {
		return nil, fmt.Errorf("list invoice transactions: %w", err)
	}
	return payments, nil
}

// ListByStudent returns a student's payments, newest first.
func (r *TransactionRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Transaction, error) {
	const query = `SELECT id, invoice_id, student_id, payment_date, amount_paid, method, reference_code
        FROM transactions WHERE student_id = $1 ORDER BY payment_date DESC`
	var payments []models.Transaction
	if err := r.db.SelectContext(ctx, &payments, query, studentID); err != nil {
		return nil, fmt.Errorf("list student transactions: %w", err)
	}
	return payments, nil
}

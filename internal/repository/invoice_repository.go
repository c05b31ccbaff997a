package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academic-ledger-api/internal/models"
)

// InvoiceRepository handles persistence of invoices and their line items.
// The tx-scoped methods participate in a caller-owned unit of work so that
// invoice, item and settlement writes commit or roll back together.
type InvoiceRepository struct {
	db *sqlx.DB
}

// NewInvoiceRepository constructs the repository.
func NewInvoiceRepository(db *sqlx.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// FindByID returns an invoice by its ID.
func (r *InvoiceRepository) FindByID(ctx context.Context, id int64) (*models.Invoice, error) {
	const query = `SELECT id, student_id, semester_id, issue_date, due_date, total_amount, status FROM invoices WHERE id = $1`
	var invoice models.Invoice
	if err := r.db.GetContext(ctx, &invoice, query, id); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// ListByStudent returns a student's invoices, newest issue date first.
func (r *InvoiceRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Invoice, error) {
	const query = `SELECT id, student_id, semester_id, issue_date, due_date, total_amount, status
        FROM invoices WHERE student_id = $1 ORDER BY issue_date DESC`
	var invoices []models.Invoice
	if err := r.db.SelectContext(ctx, &invoices, query, studentID); err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return invoices, nil
}

// ListPendingByStudent returns a student's unpaid invoices, earliest due first.
func (r *InvoiceRepository) ListPendingByStudent(ctx context.Context, studentID string) ([]models.Invoice, error) {
	const query = `SELECT id, student_id, semester_id, issue_date, due_date, total_amount, status
        FROM invoices WHERE student_id = $1 AND status = $2 ORDER BY due_date ASC`
	var invoices []models.Invoice
	if err := r.db.SelectContext(ctx, &invoices, query, studentID, models.InvoiceStatusPending); err != nil {
		return nil, fmt.Errorf("list pending invoices: %w", err)
	}
	return invoices, nil
}

// Items returns the line items of an invoice.
func (r *InvoiceRepository) Items(ctx context.Context, invoiceID int64) ([]models.InvoiceItem, error) {
	const query = `SELECT id, invoice_id, description, amount FROM invoice_items WHERE invoice_id = $1 ORDER BY id`
	var items []models.InvoiceItem
	if err := r.db.SelectContext(ctx, &items, query, invoiceID); err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	return items, nil
}

// InsertTx inserts an invoice inside the caller's transaction and fills in
// the generated ID.
func (r *InvoiceRepository) InsertTx(ctx context.Context, tx *sqlx.Tx, invoice *models.Invoice) error {
	if invoice.Status == "" {
		invoice.Status = models.InvoiceStatusPending
	}
	const query = `INSERT INTO invoices (student_id, semester_id, issue_date, due_date, total_amount, status)
        VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := tx.QueryRowxContext(ctx, query, invoice.StudentID, invoice.SemesterID, invoice.IssueDate, invoice.DueDate, invoice.TotalAmount, invoice.Status).Scan(&invoice.ID); err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// InsertItemTx inserts a line item inside the caller's transaction.
func (r *InvoiceRepository) InsertItemTx(ctx context.Context, tx *sqlx.Tx, item *models.InvoiceItem) error {
	const query = `INSERT INTO invoice_items (invoice_id, description, amount) VALUES ($1, $2, $3) RETURNING id`
	if err := tx.QueryRowxContext(ctx, query, item.InvoiceID, item.Description, item.Amount).Scan(&item.ID); err != nil {
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

// TotalAmountTx reads an invoice's total inside the caller's transaction.
func (r *InvoiceRepository) TotalAmountTx(ctx context.Context, tx *sqlx.Tx, invoiceID int64) (float64, error) {
	const query = `SELECT total_amount FROM invoices WHERE id = $1`
	var total float64
	if err := tx.GetContext(ctx, &total, query, invoiceID); err != nil {
		return 0, fmt.Errorf("read invoice total: %w", err)
	}
	return total, nil
}

// MarkPaidTx flips the invoice status to PAID inside the caller's
// transaction. There is no reverse transition.
func (r *InvoiceRepository) MarkPaidTx(ctx context.Context, tx *sqlx.Tx, invoiceID int64) error {
	const query = `UPDATE invoices SET status = $2 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, query, invoiceID, models.InvoiceStatusPaid); err != nil {
		return fmt.Errorf("mark invoice paid: %w", err)
	}
	return nil
}

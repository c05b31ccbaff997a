package models

import "time"

// InvoiceStatus enumerates invoice settlement states. The transition
// PENDING -> PAID is monotonic: no operation reverts a paid invoice.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "PENDING"
	InvoiceStatusPaid    InvoiceStatus = "PAID"
)

// Invoice is a billing record for a student for a semester.
type Invoice struct {
	ID          int64         `db:"id" json:"id"`
	StudentID   string        `db:"student_id" json:"student_id"`
	SemesterID  string        `db:"semester_id" json:"semester_id"`
	IssueDate   time.Time     `db:"issue_date" json:"issue_date"`
	DueDate     time.Time     `db:"due_date" json:"due_date"`
	TotalAmount float64       `db:"total_amount" json:"total_amount"`
	Status      InvoiceStatus `db:"status" json:"status"`
}

// InvoiceItem is a line item within an invoice.
type InvoiceItem struct {
	ID          int64   `db:"id" json:"id"`
	InvoiceID   int64   `db:"invoice_id" json:"invoice_id"`
	Description string  `db:"description" json:"description"`
	Amount      float64 `db:"amount" json:"amount"`
}

// Transaction is an append-only payment record against an invoice. Financial
// aid is mirrored into a synthetic transaction whose method is the aid type,
// so it settles identically to a cash payment.
type Transaction struct {
	ID            int64     `db:"id" json:"id"`
	InvoiceID     int64     `db:"invoice_id" json:"invoice_id"`
	StudentID     string    `db:"student_id" json:"student_id"`
	PaymentDate   time.Time `db:"payment_date" json:"payment_date"`
	AmountPaid    float64   `db:"amount_paid" json:"amount_paid"`
	Method        string    `db:"method" json:"method"`
	ReferenceCode string    `db:"reference_code" json:"reference_code"`
}

// FinancialAid is a non-cash credit (scholarship, discount, waiver) recorded
// in its own right and applied through the payment settlement path.
type FinancialAid struct {
	ID          int64     `db:"id" json:"id"`
	StudentID   string    `db:"student_id" json:"student_id"`
	SemesterID  string    `db:"semester_id" json:"semester_id"`
	InvoiceID   int64     `db:"invoice_id" json:"invoice_id"`
	AidType     string    `db:"aid_type" json:"aid_type"`
	Description string    `db:"description" json:"description"`
	Amount      float64   `db:"amount" json:"amount"`
	ApplyDate   time.Time `db:"apply_date" json:"apply_date"`
}

// FinanceSummary is the per-student due/paid/balance projection.
type FinanceSummary struct {
	StudentID   string  `db:"student_id" json:"student_id"`
	StudentName string  `db:"student_name" json:"student_name"`
	TotalDue    float64 `db:"total_due" json:"total_due"`
	TotalPaid   float64 `db:"total_paid" json:"total_paid"`
	Balance     float64 `db:"balance" json:"balance"`
	Status      string  `db:"-" json:"status"`
}

// FinancialReport carries fleet-wide billing totals.
type FinancialReport struct {
	TotalDue         float64 `db:"total_due" json:"total_due"`
	TotalPaid        float64 `db:"total_paid" json:"total_paid"`
	NetBalance       float64 `db:"-" json:"net_balance"`
	TransactionCount int     `db:"transaction_count" json:"transaction_count"`
}

package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academic-ledger-api/internal/models"
)

// FinancialAidRepository handles persistence of financial aid records.
type FinancialAidRepository struct {
	db *sqlx.DB
}

// NewFinancialAidRepository constructs the repository.
func NewFinancialAidRepository(db *sqlx.DB) *FinancialAidRepository {
	return &FinancialAidRepository{db: db}
}

// InsertTx inserts an aid record inside the caller's transaction, so the aid
// row and its settlement effect commit or roll back together.
func (r *FinancialAidRepository) InsertTx(ctx context.Context, tx *sqlx.Tx, aid *models.FinancialAid) error {
	const query = `INSERT INTO financial_aid (student_id, semester_id, invoice_id, aid_type, description, amount, apply_date)
        VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := tx.QueryRowxContext(ctx, query, aid.StudentID, aid.SemesterID, aid.InvoiceID, aid.AidType, aid.Description, aid.Amount, aid.ApplyDate).Scan(&aid.ID); err != nil {
		return fmt.Errorf("insert financial aid: %w", err)
	}
	return nil
}

// ListByStudent returns a student's aid records, newest first.
func (r *FinancialAidRepository) ListByStudent(ctx context.Context, studentID string) ([]models.FinancialAid, error) {
	const query = `SELECT id, student_id, semester_id, invoice_id, aid_type, description, amount, apply_date
        FROM financial_aid WHERE student_id = $1 ORDER BY apply_date DESC`
	var aids []models.FinancialAid
	if err := r.db.SelectContext(ctx, &aids, query, studentID); err != nil {
		return nil, fmt.Errorf("list financial aid: %w", err)
	}
	return aids, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academic-ledger-api/internal/models"
)

// StudentRepository handles persistence of student records owned by the ledger.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByID returns a student by its ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	const query = `SELECT id, full_name, status, gpa FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// UpdateGPA writes the derived grade-point average back onto the student row.
func (r *StudentRepository) UpdateGPA(ctx context.Context, studentID string, gpa float64) error {
	const query = `UPDATE students SET gpa = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, studentID, gpa); err != nil {
		return fmt.Errorf("update student gpa: %w", err)
	}
	return nil
}

// ListIDsByStatusTx returns the IDs of students in the given status, read
// inside the caller's transaction so batch billing sees a stable cohort.
func (r *StudentRepository) ListIDsByStatusTx(ctx context.Context, tx *sqlx.Tx, status models.StudentStatus) ([]string, error) {
	const query = `SELECT id FROM students WHERE status = $1 ORDER BY id`
	var ids []string
	if err := tx.SelectContext(ctx, &ids, query, status); err != nil {
		return nil, fmt.Errorf("list students by status: %w", err)
	}
	return ids, nil
}

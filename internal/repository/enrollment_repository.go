package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/academic-ledger-api/internal/models"
	appErrors "github.com/noah-isme/academic-ledger-api/pkg/errors"
)

// pgUniqueViolation is the SQLSTATE raised by a unique-constraint breach.
const pgUniqueViolation = "23505"

// EnrollmentRepository handles persistence of enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Exists reports whether an enrollment exists for the student/subject pair.
func (r *EnrollmentRepository) Exists(ctx context.Context, studentID, subjectID string) (bool, error) {
	const query = `SELECT 1 FROM enrollments WHERE student_id = $1 AND subject_id = $2 LIMIT 1`
	var one int
	if err := r.db.GetContext(ctx, &one, query, studentID, subjectID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return true, nil
}

// Create inserts a new enrollment with the not-graded sentinel. The unique
// constraint on (student_id, subject_id) backs the application-level check;
// a violation maps to the Conflict error.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.Grade == "" {
		enrollment.Grade = models.GradeNotSet
	}
	const query = `INSERT INTO enrollments (student_id, subject_id, grade) VALUES ($1, $2, $3) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, enrollment.StudentID, enrollment.SubjectID, enrollment.Grade).Scan(&enrollment.ID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return appErrors.Clone(appErrors.ErrConflict, "student already enrolled in subject")
		}
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// FindByID returns an enrollment by its ID.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	const query = `SELECT id, student_id, subject_id, grade FROM enrollments WHERE id = $1`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// UpdateGrade overwrites the final grade of an enrollment.
func (r *EnrollmentRepository) UpdateGrade(ctx context.Context, id int64, grade string) error {
	const query = `UPDATE enrollments SET grade = $2 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, grade)
	if err != nil {
		return fmt.Errorf("update grade: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update grade: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListByStudent returns the student's enrollments joined with subject context,
// ordered by subject ID.
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID string) ([]models.EnrollmentRecord, error) {
	const query = `SELECT e.id, e.student_id, e.subject_id, s.name AS subject_name, s.credits, e.grade
        FROM enrollments e
        JOIN subjects s ON s.id = e.subject_id
        WHERE e.student_id = $1
        ORDER BY s.id`
	var records []models.EnrollmentRecord
	if err := r.db.SelectContext(ctx, &records, query, studentID); err != nil {
		return nil, fmt.Errorf("list student enrollments: %w", err)
	}
	return records, nil
}

// ListBySubject returns a subject's roster joined with student context,
// ordered by student name.
func (r *EnrollmentRepository) ListBySubject(ctx context.Context, subjectID string) ([]models.EnrollmentRecord, error) {
	const query = `SELECT e.id, e.student_id, st.full_name AS student_name, e.subject_id, s.name AS subject_name, s.credits, e.grade
        FROM enrollments e
        JOIN students st ON st.id = e.student_id
        JOIN subjects s ON s.id = e.subject_id
        WHERE e.subject_id = $1
        ORDER BY st.full_name`
	var records []models.EnrollmentRecord
	if err := r.db.SelectContext(ctx, &records, query, subjectID); err != nil {
		return nil, fmt.Errorf("list subject enrollments: %w", err)
	}
	return records, nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academic-ledger-api/internal/models"
)

// SubjectRepository handles persistence of subjects, their teaching
// assignments and prerequisite edges.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository constructs the repository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// Exists reports whether a subject exists.
func (r *SubjectRepository) Exists(ctx context.Context, id string) (bool, error) {
	const query = `SELECT 1 FROM subjects WHERE id = $1 LIMIT 1`
	var one int
	if err := r.db.GetContext(ctx, &one, query, id); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check subject: %w", err)
	}
	return true, nil
}

// FindByID returns a subject by its ID.
func (r *SubjectRepository) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	const query = `SELECT id, name, credits FROM subjects WHERE id = $1`
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, id); err != nil {
		return nil, err
	}
	return &subject, nil
}

// FindDetailByID returns a subject with its teaching assignment, if any.
func (r *SubjectRepository) FindDetailByID(ctx context.Context, id string) (*models.SubjectDetail, error) {
	subject, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &models.SubjectDetail{Subject: *subject}

	const query = `SELECT subject_id, teacher_id, room, day, time FROM teaching_assignments WHERE subject_id = $1`
	var assignment models.TeachingAssignment
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		if err == sql.ErrNoRows {
			return detail, nil
		}
		return nil, fmt.Errorf("load teaching assignment: %w", err)
	}
	detail.Assignment = &assignment
	return detail, nil
}

// List returns subjects filtered by the provided criteria.
func (r *SubjectRepository) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error) {
	base := "FROM subjects"
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(id ILIKE $%d OR name ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"id":      "id",
		"name":    "name",
		"credits": "credits",
	}
	orderBy := allowedSorts[filter.SortBy]
	if orderBy == "" {
		orderBy = "id"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT id, name, credits %s ORDER BY %s %s LIMIT %d OFFSET %d", base+clause, orderBy, order, size, offset)

	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list subjects: %w", err)
	}

	countQuery := "SELECT COUNT(*) " + base + clause
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count subjects: %w", err)
	}
	return subjects, total, nil
}

// CreateWithAssignment inserts a subject and its teaching assignment as one
// atomic unit. Failure of either insert rolls back both.
func (r *SubjectRepository) CreateWithAssignment(ctx context.Context, subject *models.Subject, assignment *models.TeachingAssignment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create subject: %w", err)
	}

	const insertSubject = `INSERT INTO subjects (id, name, credits) VALUES (:id, :name, :credits)`
	if _, err := tx.NamedExecContext(ctx, insertSubject, subject); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("insert subject: %w", err)
	}

	assignment.SubjectID = subject.ID
	const insertAssignment = `INSERT INTO teaching_assignments (subject_id, teacher_id, room, day, time)
        VALUES (:subject_id, :teacher_id, :room, :day, :time)`
	if _, err := tx.NamedExecContext(ctx, insertAssignment, assignment); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("insert teaching assignment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create subject: %w", err)
	}
	return nil
}

// UpdateWithAssignment updates a subject and its teaching assignment as one
// atomic unit. A missing assignment row is inserted instead of updated.
func (r *SubjectRepository) UpdateWithAssignment(ctx context.Context, subject *models.Subject, assignment *models.TeachingAssignment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update subject: %w", err)
	}

	const updateSubject = `UPDATE subjects SET name = :name, credits = :credits WHERE id = :id`
	if _, err := tx.NamedExecContext(ctx, updateSubject, subject); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("update subject: %w", err)
	}

	assignment.SubjectID = subject.ID
	const updateAssignment = `UPDATE teaching_assignments SET teacher_id = :teacher_id, room = :room, day = :day, time = :time
        WHERE subject_id = :subject_id`
	result, err := tx.NamedExecContext(ctx, updateAssignment, assignment)
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("update teaching assignment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("update teaching assignment: %w", err)
	}
	if affected == 0 {
		const insertAssignment = `INSERT INTO teaching_assignments (subject_id, teacher_id, room, day, time)
            VALUES (:subject_id, :teacher_id, :room, :day, :time)`
		if _, err := tx.NamedExecContext(ctx, insertAssignment, assignment); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("insert teaching assignment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update subject: %w", err)
	}
	return nil
}

// SetPrerequisites replaces the full prerequisite edge set for a subject.
// Deleting the old edges and inserting the new ones happen in one transaction,
// so a partially replaced set is never observable. An empty list clears all
// prerequisites.
func (r *SubjectRepository) SetPrerequisites(ctx context.Context, subjectID string, prereqIDs []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin set prerequisites: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM prerequisites WHERE subject_id = $1`, subjectID); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("clear prerequisites: %w", err)
	}

	const insert = `INSERT INTO prerequisites (subject_id, prerequisite_subject_id) VALUES ($1, $2)`
	for _, prereqID := range prereqIDs {
		if _, err := tx.ExecContext(ctx, insert, subjectID, prereqID); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("insert prerequisite %s: %w", prereqID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit set prerequisites: %w", err)
	}
	return nil
}

// Prerequisites returns the prerequisite subject IDs for a subject.
func (r *SubjectRepository) Prerequisites(ctx context.Context, subjectID string) ([]string, error) {
	const query = `SELECT prerequisite_subject_id FROM prerequisites WHERE subject_id = $1 ORDER BY prerequisite_subject_id`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, subjectID); err != nil {
		return nil, fmt.Errorf("list prerequisites: %w", err)
	}
	return ids, nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academic-ledger-api/internal/models"
)

// AssignmentScoreRepository handles per-assignment score rows.
type AssignmentScoreRepository struct {
	db *sqlx.DB
}

// NewAssignmentScoreRepository constructs the repository.
func NewAssignmentScoreRepository(db *sqlx.DB) *AssignmentScoreRepository {
	return &AssignmentScoreRepository{db: db}
}

// ListByEnrollment returns scores for an enrollment, newest first.
func (r *AssignmentScoreRepository) ListByEnrollment(ctx context.Context, enrollmentID int64) ([]models.AssignmentScore, error) {
	const query = `SELECT id, enrollment_id, name, score, max_score, recorded_at
        FROM assignment_scores WHERE enrollment_id = $1 ORDER BY recorded_at DESC`
	var scores []models.AssignmentScore
	if err := r.db.SelectContext(ctx, &scores, query, enrollmentID); err != nil {
		return nil, fmt.Errorf("list assignment scores: %w", err)
	}
	return scores, nil
}

// FindByID returns a score row by its ID.
func (r *AssignmentScoreRepository) FindByID(ctx context.Context, id int64) (*models.AssignmentScore, error) {
	const query = `SELECT id, enrollment_id, name, score, max_score, recorded_at FROM assignment_scores WHERE id = $1`
	var score models.AssignmentScore
	if err := r.db.GetContext(ctx, &score, query, id); err != nil {
		return nil, err
	}
	return &score, nil
}

// Create inserts a new score row.
func (r *AssignmentScoreRepository) Create(ctx context.Context, score *models.AssignmentScore) error {
	if score.RecordedAt.IsZero() {
		score.RecordedAt = time.Now().UTC()
	}
	const query = `INSERT INTO assignment_scores (enrollment_id, name, score, max_score, recorded_at)
        VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, score.EnrollmentID, score.Name, score.Score, score.MaxScore, score.RecordedAt).Scan(&score.ID); err != nil {
		return fmt.Errorf("create assignment score: %w", err)
	}
	return nil
}

// Update overwrites the name, score and max score of a score row.
func (r *AssignmentScoreRepository) Update(ctx context.Context, score *models.AssignmentScore) error {
	const query = `UPDATE assignment_scores SET name = $2, score = $3, max_score = $4 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, score.ID, score.Name, score.Score, score.MaxScore)
	if err != nil {
		return fmt.Errorf("update assignment score: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update assignment score: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a score row.
func (r *AssignmentScoreRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM assignment_scores WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete assignment score: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete assignment score: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

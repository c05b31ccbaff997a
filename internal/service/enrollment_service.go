package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-ledger-api/internal/models"
	appErrors "github.com/noah-isme/academic-ledger-api/pkg/errors"
)

type enrollmentRepository interface {
	Exists(ctx context.Context, studentID, subjectID string) (bool, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	FindByID(ctx context.Context, id int64) (*models.Enrollment, error)
	UpdateGrade(ctx context.Context, id int64, grade string) error
	ListByStudent(ctx context.Context, studentID string) ([]models.EnrollmentRecord, error)
	ListBySubject(ctx context.Context, subjectID string) ([]models.EnrollmentRecord, error)
}

type subjectChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type studentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type assignmentScoreRepository interface {
	ListByEnrollment(ctx context.Context, enrollmentID int64) ([]models.AssignmentScore, error)
	FindByID(ctx context.Context, id int64) (*models.AssignmentScore, error)
	Create(ctx context.Context, score *models.AssignmentScore) error
	Update(ctx context.Context, score *models.AssignmentScore) error
	Delete(ctx context.Context, id int64) error
}

// EnrollRequest describes enrollment creation.
type EnrollRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	SubjectID string `json:"subject_id" validate:"required"`
}

// RecordGradeRequest overwrites an enrollment's final grade. The symbol is
// upper-cased but deliberately not validated against the grade-point table.
type RecordGradeRequest struct {
	Grade string `json:"grade" validate:"required"`
}

// ScoreRequest carries an assignment score payload.
type ScoreRequest struct {
	Name     string  `json:"name" validate:"required"`
	Score    float64 `json:"score" validate:"gte=0"`
	MaxScore float64 `json:"max_score" validate:"gt=0"`
}

// EnrollmentService orchestrates enrollment and grading workflows.
type EnrollmentService struct {
	enrollments enrollmentRepository
	subjects    subjectChecker
	students    studentReader
	scores      assignmentScoreRepository
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(enrollments enrollmentRepository, subjects subjectChecker, students studentReader, scores assignmentScoreRepository, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{enrollments: enrollments, subjects: subjects, students: students, scores: scores, validator: validate, logger: logger}
}

// Enroll registers a student to a subject. A duplicate pair fails with
// Conflict both at the pre-check and, under concurrent callers, at the
// storage-level unique constraint.
func (s *EnrollmentService) Enroll(ctx context.Context, req EnrollRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}
	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	exists, err := s.subjects.Exists(ctx, req.SubjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check subject")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
	}
	enrolled, err := s.enrollments.Exists(ctx, req.StudentID, req.SubjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if enrolled {
		return nil, appErrors.Clone(appErrors.ErrConflict, "student already enrolled in subject")
	}

	enrollment := &models.Enrollment{StudentID: req.StudentID, SubjectID: req.SubjectID, Grade: models.GradeNotSet}
	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		if appErr := appErrors.FromError(err); appErr.Code == appErrors.ErrConflict.Code {
			return nil, appErr
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}
	return enrollment, nil
}

// RecordFinalGrade overwrites the final grade of an enrollment. It does not
// recompute the student's GPA; callers invoke the GPA service afterwards.
func (s *EnrollmentService) RecordFinalGrade(ctx context.Context, enrollmentID int64, req RecordGradeRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}
	grade := strings.ToUpper(strings.TrimSpace(req.Grade))
	if err := s.enrollments.UpdateGrade(ctx, enrollmentID, grade); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record grade")
	}
	return nil
}

// ListByStudent returns a student's enrollments ordered by subject ID.
func (s *EnrollmentService) ListByStudent(ctx context.Context, studentID string) ([]models.EnrollmentRecord, error) {
	records, err := s.enrollments.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	return records, nil
}

// ListBySubject returns a subject's roster ordered by student name.
func (s *EnrollmentService) ListBySubject(ctx context.Context, subjectID string) ([]models.EnrollmentRecord, error) {
	records, err := s.enrollments.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	return records, nil
}

// RecordAssignmentScore adds a score row under an enrollment. Scores must
// satisfy 0 <= score <= maxScore with maxScore > 0.
func (s *EnrollmentService) RecordAssignmentScore(ctx context.Context, enrollmentID int64, req ScoreRequest) (*models.AssignmentScore, error) {
	if err := s.validateScore(req); err != nil {
		return nil, err
	}
	if _, err := s.enrollments.FindByID(ctx, enrollmentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}

	score := &models.AssignmentScore{EnrollmentID: enrollmentID, Name: req.Name, Score: req.Score, MaxScore: req.MaxScore}
	if err := s.scores.Create(ctx, score); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record score")
	}
	return score, nil
}

// UpdateAssignmentScore overwrites a score row.
func (s *EnrollmentService) UpdateAssignmentScore(ctx context.Context, scoreID int64, req ScoreRequest) (*models.AssignmentScore, error) {
	if err := s.validateScore(req); err != nil {
		return nil, err
	}
	existing, err := s.scores.FindByID(ctx, scoreID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment score not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load score")
	}

	existing.Name = req.Name
	existing.Score = req.Score
	existing.MaxScore = req.MaxScore
	if err := s.scores.Update(ctx, existing); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update score")
	}
	return existing, nil
}

// DeleteAssignmentScore removes a score row.
func (s *EnrollmentService) DeleteAssignmentScore(ctx context.Context, scoreID int64) error {
	if err := s.scores.Delete(ctx, scoreID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "assignment score not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete score")
	}
	return nil
}

// ListAssignmentScores returns the score rows under an enrollment.
func (s *EnrollmentService) ListAssignmentScores(ctx context.Context, enrollmentID int64) ([]models.AssignmentScore, error) {
	scores, err := s.scores.ListByEnrollment(ctx, enrollmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list scores")
	}
	return scores, nil
}

func (s *EnrollmentService) validateScore(req ScoreRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid score payload")
	}
	if req.Score > req.MaxScore {
		return appErrors.Clone(appErrors.ErrValidation, "score exceeds max score")
	}
	return nil
}

package service

import (
	"context"
	"database/sql"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/academic-ledger-api/internal/models"
	appErrors "github.com/noah-isme/academic-ledger-api/pkg/errors"
)

// gradePoints is the fixed grade-to-point table. It is not configurable.
var gradePoints = map[string]float64{
	"A":  4.0,
	"B+": 3.5,
	"B":  3.0,
	"C+": 2.5,
	"C":  2.0,
	"D+": 1.5,
	"D":  1.0,
	"F":  0.0,
}

// gradePoint maps a grade symbol to its point value. Unknown symbols map to
// zero points while still carrying credit weight; that asymmetry with
// countsTowardGPA is intentional and matches the legacy behaviour.
func gradePoint(grade string) float64 {
	return gradePoints[strings.ToUpper(grade)]
}

// countsTowardGPA reports whether a grade contributes credit weight. Empty,
// not-yet-set and withdrawn grades contribute zero credits, not zero points.
func countsTowardGPA(grade string) bool {
	return grade != "" && grade != models.GradeNotSet && grade != models.GradeWithdrawn
}

// ComputeGPA derives the credit-weighted grade-point average from enrollment
// records. It is deterministic and side-effect free; an empty graded set
// yields 0.0.
func ComputeGPA(records []models.EnrollmentRecord) float64 {
	var points float64
	var totalCredits int

	for _, record := range records {
		if !countsTowardGPA(record.Grade) {
			continue
		}
		points += gradePoint(record.Grade) * float64(record.Credits)
		totalCredits += record.Credits
	}

	if totalCredits == 0 {
		return 0.0
	}
	return points / float64(totalCredits)
}

type gpaEnrollmentReader interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.EnrollmentRecord, error)
}

type gpaStudentStore interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	UpdateGPA(ctx context.Context, studentID string, gpa float64) error
}

// GPAService recomputes and persists the cached GPA on student records.
type GPAService struct {
	enrollments gpaEnrollmentReader
	students    gpaStudentStore
	logger      *zap.Logger
}

// NewGPAService constructs GPAService.
func NewGPAService(enrollments gpaEnrollmentReader, students gpaStudentStore, logger *zap.Logger) *GPAService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GPAService{enrollments: enrollments, students: students, logger: logger}
}

// CalculateAndUpdate computes the student's GPA from current enrollments and
// writes the scalar back onto the student row. Repeated calls with unchanged
// enrollments persist the same value.
func (s *GPAService) CalculateAndUpdate(ctx context.Context, studentID string) (float64, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if err == sql.ErrNoRows {
			return 0, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	records, err := s.enrollments.ListByStudent(ctx, studentID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollments")
	}

	gpa := ComputeGPA(records)
	if err := s.students.UpdateGPA(ctx, studentID, gpa); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist gpa")
	}

	s.logger.Debug("gpa updated", zap.String("student_id", studentID), zap.Float64("gpa", gpa))
	return gpa, nil
}

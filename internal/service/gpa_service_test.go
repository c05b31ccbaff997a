package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-ledger-api/internal/models"
	appErrors "github.com/noah-isme/academic-ledger-api/pkg/errors"
)

func TestComputeGPA(t *testing.T) {
	cases := []struct {
		name    string
		records []models.EnrollmentRecord
		want    float64
	}{
		{
			name: "weighted average",
			records: []models.EnrollmentRecord{
				{Grade: "A", Credits: 3},
				{Grade: "B", Credits: 3},
			},
			want: 3.5,
		},
		{
			name: "not-set and withdrawn are excluded from both sides",
			records: []models.EnrollmentRecord{
				{Grade: "A", Credits: 4},
				{Grade: models.GradeNotSet, Credits: 3},
				{Grade: models.GradeWithdrawn, Credits: 3},
			},
			want: 4.0,
		},
		{
			name: "unknown symbol carries credit weight at zero points",
			records: []models.EnrollmentRecord{
				{Grade: "A", Credits: 3},
				{Grade: "X", Credits: 3},
			},
			want: 2.0,
		},
		{
			name: "lowercase symbols resolve",
			records: []models.EnrollmentRecord{
				{Grade: "b+", Credits: 2},
			},
			want: 3.5,
		},
		{
			name:    "no enrollments",
			records: nil,
			want:    0.0,
		},
		{
			name: "only ungraded enrollments",
			records: []models.EnrollmentRecord{
				{Grade: models.GradeNotSet, Credits: 3},
			},
			want: 0.0,
		},
		{
			name: "all failing grades",
			records: []models.EnrollmentRecord{
				{Grade: "F", Credits: 3},
				{Grade: "F", Credits: 4},
			},
			want: 0.0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, ComputeGPA(tc.records), 1e-9)
		})
	}
}

type gpaEnrollmentStub struct {
	records []models.EnrollmentRecord
	err     error
}

func (s *gpaEnrollmentStub) ListByStudent(ctx context.Context, studentID string) ([]models.EnrollmentRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

type gpaStudentStub struct {
	missing   bool
	persisted []float64
}

func (s *gpaStudentStub) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s.missing {
		return nil, sql.ErrNoRows
	}
	return &models.Student{ID: id, Status: models.StudentStatusEnrolled}, nil
}

func (s *gpaStudentStub) UpdateGPA(ctx context.Context, studentID string, gpa float64) error {
	s.persisted = append(s.persisted, gpa)
	return nil
}

func TestGPAServiceCalculateAndUpdatePersistsResult(t *testing.T) {
	students := &gpaStudentStub{}
	svc := NewGPAService(&gpaEnrollmentStub{records: []models.EnrollmentRecord{
		{Grade: "A", Credits: 3},
		{Grade: "C", Credits: 3},
	}}, students, nil)

	gpa, err := svc.CalculateAndUpdate(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.InDelta(t, 3.0, gpa, 1e-9)
	require.Equal(t, []float64{3.0}, students.persisted)
}

func TestGPAServiceCalculateAndUpdateIsIdempotent(t *testing.T) {
	students := &gpaStudentStub{}
	svc := NewGPAService(&gpaEnrollmentStub{records: []models.EnrollmentRecord{
		{Grade: "B", Credits: 3},
	}}, students, nil)

	first, err := svc.CalculateAndUpdate(context.Background(), "stu-1")
	require.NoError(t, err)
	second, err := svc.CalculateAndUpdate(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	require.Equal(t, []float64{3.0, 3.0}, students.persisted)
}

func TestGPAServiceCalculateAndUpdateUnknownStudent(t *testing.T) {
	svc := NewGPAService(&gpaEnrollmentStub{}, &gpaStudentStub{missing: true}, nil)

	_, err := svc.CalculateAndUpdate(context.Background(), "ghost")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

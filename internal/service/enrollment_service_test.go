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

type enrollmentRepoStub struct {
	existing map[string]bool
	byID     map[int64]*models.Enrollment
	created  []*models.Enrollment
	grades   map[int64]string
}

func (s *enrollmentRepoStub) Exists(ctx context.Context, studentID, subjectID string) (bool, error) {
	return s.existing[studentID+"/"+subjectID], nil
}

func (s *enrollmentRepoStub) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if s.existing[enrollment.StudentID+"/"+enrollment.SubjectID] {
		return appErrors.Clone(appErrors.ErrConflict, "student already enrolled in subject")
	}
	enrollment.ID = int64(len(s.created) + 1)
	s.created = append(s.created, enrollment)
	return nil
}

func (s *enrollmentRepoStub) FindByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	if e, ok := s.byID[id]; ok {
		return e, nil
	}
	return nil, sql.ErrNoRows
}

func (s *enrollmentRepoStub) UpdateGrade(ctx context.Context, id int64, grade string) error {
	if _, ok := s.byID[id]; !ok {
		return sql.ErrNoRows
	}
	if s.grades == nil {
		s.grades = make(map[int64]string)
	}
	s.grades[id] = grade
	return nil
}

func (s *enrollmentRepoStub) ListByStudent(ctx context.Context, studentID string) ([]models.EnrollmentRecord, error) {
	return nil, nil
}

func (s *enrollmentRepoStub) ListBySubject(ctx context.Context, subjectID string) ([]models.EnrollmentRecord, error) {
	return nil, nil
}

type subjectCheckerStub struct {
	known map[string]bool
}

func (s subjectCheckerStub) Exists(ctx context.Context, id string) (bool, error) {
	return s.known[id], nil
}

type studentReaderStub struct {
	known map[string]bool
}

func (s studentReaderStub) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if !s.known[id] {
		return nil, sql.ErrNoRows
	}
	return &models.Student{ID: id, Status: models.StudentStatusEnrolled}, nil
}

type scoreRepoStub struct {
	byID    map[int64]*models.AssignmentScore
	created []*models.AssignmentScore
	updated []*models.AssignmentScore
	deleted []int64
}

func (s *scoreRepoStub) ListByEnrollment(ctx context.Context, enrollmentID int64) ([]models.AssignmentScore, error) {
	return nil, nil
}

func (s *scoreRepoStub) FindByID(ctx context.Context, id int64) (*models.AssignmentScore, error) {
	if score, ok := s.byID[id]; ok {
		return score, nil
	}
	return nil, sql.ErrNoRows
}

func (s *scoreRepoStub) Create(ctx context.Context, score *models.AssignmentScore) error {
	score.ID = int64(len(s.created) + 1)
	s.created = append(s.created, score)
	return nil
}

func (s *scoreRepoStub) Update(ctx context.Context, score *models.AssignmentScore) error {
	s.updated = append(s.updated, score)
	return nil
}

func (s *scoreRepoStub) Delete(ctx context.Context, id int64) error {
	if _, ok := s.byID[id]; !ok {
		return sql.ErrNoRows
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func newEnrollmentService(enrollments *enrollmentRepoStub, subjects subjectCheckerStub, students studentReaderStub, scores *scoreRepoStub) *EnrollmentService {
	return NewEnrollmentService(enrollments, subjects, students, scores, nil, nil)
}

func TestEnrollPersistsWithNotSetGrade(t *testing.T) {
	repo := &enrollmentRepoStub{}
	svc := newEnrollmentService(repo,
		subjectCheckerStub{known: map[string]bool{"MATH101": true}},
		studentReaderStub{known: map[string]bool{"stu-1": true}},
		&scoreRepoStub{})

	enrollment, err := svc.Enroll(context.Background(), EnrollRequest{StudentID: "stu-1", SubjectID: "MATH101"})
	require.NoError(t, err)
	assert.Equal(t, models.GradeNotSet, enrollment.Grade)
	assert.NotZero(t, enrollment.ID)
}

func TestEnrollDuplicatePairConflicts(t *testing.T) {
	repo := &enrollmentRepoStub{existing: map[string]bool{"stu-1/MATH101": true}}
	svc := newEnrollmentService(repo,
		subjectCheckerStub{known: map[string]bool{"MATH101": true}},
		studentReaderStub{known: map[string]bool{"stu-1": true}},
		&scoreRepoStub{})

	_, err := svc.Enroll(context.Background(), EnrollRequest{StudentID: "stu-1", SubjectID: "MATH101"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestEnrollUnknownSubject(t *testing.T) {
	svc := newEnrollmentService(&enrollmentRepoStub{},
		subjectCheckerStub{},
		studentReaderStub{known: map[string]bool{"stu-1": true}},
		&scoreRepoStub{})

	_, err := svc.Enroll(context.Background(), EnrollRequest{StudentID: "stu-1", SubjectID: "GHOST999"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestEnrollUnknownStudent(t *testing.T) {
	svc := newEnrollmentService(&enrollmentRepoStub{},
		subjectCheckerStub{known: map[string]bool{"MATH101": true}},
		studentReaderStub{},
		&scoreRepoStub{})

	_, err := svc.Enroll(context.Background(), EnrollRequest{StudentID: "ghost", SubjectID: "MATH101"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestRecordFinalGradeUppercasesSymbol(t *testing.T) {
	repo := &enrollmentRepoStub{byID: map[int64]*models.Enrollment{1: {ID: 1}}}
	svc := newEnrollmentService(repo, subjectCheckerStub{}, studentReaderStub{}, &scoreRepoStub{})

	err := svc.RecordFinalGrade(context.Background(), 1, RecordGradeRequest{Grade: " b+ "})
	require.NoError(t, err)
	assert.Equal(t, "B+", repo.grades[1])
}

func TestRecordFinalGradeAcceptsUnknownSymbols(t *testing.T) {
	repo := &enrollmentRepoStub{byID: map[int64]*models.Enrollment{1: {ID: 1}}}
	svc := newEnrollmentService(repo, subjectCheckerStub{}, studentReaderStub{}, &scoreRepoStub{})

	err := svc.RecordFinalGrade(context.Background(), 1, RecordGradeRequest{Grade: "Z"})
	require.NoError(t, err)
	assert.Equal(t, "Z", repo.grades[1])
}

func TestRecordFinalGradeUnknownEnrollment(t *testing.T) {
	svc := newEnrollmentService(&enrollmentRepoStub{}, subjectCheckerStub{}, studentReaderStub{}, &scoreRepoStub{})

	err := svc.RecordFinalGrade(context.Background(), 42, RecordGradeRequest{Grade: "A"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestRecordAssignmentScoreValidatesBounds(t *testing.T) {
	repo := &enrollmentRepoStub{byID: map[int64]*models.Enrollment{1: {ID: 1}}}
	scores := &scoreRepoStub{}
	svc := newEnrollmentService(repo, subjectCheckerStub{}, studentReaderStub{}, scores)

	_, err := svc.RecordAssignmentScore(context.Background(), 1, ScoreRequest{Name: "Quiz 1", Score: 11, MaxScore: 10})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.RecordAssignmentScore(context.Background(), 1, ScoreRequest{Name: "Quiz 1", Score: -1, MaxScore: 10})
	require.Error(t, err)

	_, err = svc.RecordAssignmentScore(context.Background(), 1, ScoreRequest{Name: "Quiz 1", Score: 5, MaxScore: 0})
	require.Error(t, err)

	score, err := svc.RecordAssignmentScore(context.Background(), 1, ScoreRequest{Name: "Quiz 1", Score: 10, MaxScore: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), score.EnrollmentID)
	require.Len(t, scores.created, 1)
}

func TestUpdateAssignmentScoreUnknownID(t *testing.T) {
	svc := newEnrollmentService(&enrollmentRepoStub{}, subjectCheckerStub{}, studentReaderStub{}, &scoreRepoStub{})

	_, err := svc.UpdateAssignmentScore(context.Background(), 7, ScoreRequest{Name: "Quiz", Score: 5, MaxScore: 10})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

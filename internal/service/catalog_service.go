package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-ledger-api/internal/models"
	appErrors "github.com/noah-isme/academic-ledger-api/pkg/errors"
)

const catalogCachePattern = "catalog:*"

type subjectRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
	FindByID(ctx context.Context, id string) (*models.Subject, error)
	FindDetailByID(ctx context.Context, id string) (*models.SubjectDetail, error)
	List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error)
	CreateWithAssignment(ctx context.Context, subject *models.Subject, assignment *models.TeachingAssignment) error
	UpdateWithAssignment(ctx context.Context, subject *models.Subject, assignment *models.TeachingAssignment) error
	SetPrerequisites(ctx context.Context, subjectID string, prereqIDs []string) error
	Prerequisites(ctx context.Context, subjectID string) ([]string, error)
}

// CreateSubjectRequest describes the payload for adding a subject together
// with its teaching assignment.
type CreateSubjectRequest struct {
	ID        string `json:"id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Credits   int    `json:"credits" validate:"required,gt=0"`
	TeacherID string `json:"teacher_id" validate:"required"`
	Room      string `json:"room"`
	Day       string `json:"day"`
	Time      string `json:"time"`
}

// UpdateSubjectRequest describes the payload for updating a subject and its
// teaching assignment.
type UpdateSubjectRequest struct {
	Name      string `json:"name" validate:"required"`
	Credits   int    `json:"credits" validate:"required,gt=0"`
	TeacherID string `json:"teacher_id" validate:"required"`
	Room      string `json:"room"`
	Day       string `json:"day"`
	Time      string `json:"time"`
}

// SetPrerequisitesRequest carries the full replacement edge set. An empty
// list clears all prerequisites.
type SetPrerequisitesRequest struct {
	PrerequisiteIDs []string `json:"prerequisite_ids"`
}

// CatalogService orchestrates course-catalog workflows.
type CatalogService struct {
	subjects  subjectRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCatalogService constructs CatalogService.
func NewCatalogService(subjects subjectRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{subjects: subjects, cache: cache, validator: validate, logger: logger}
}

// AddSubject creates the subject row and its teaching assignment as one
// atomic unit.
func (s *CatalogService) AddSubject(ctx context.Context, req CreateSubjectRequest) (*models.SubjectDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}
	exists, err := s.subjects.Exists(ctx, req.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check subject")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "subject already exists")
	}

	subject := &models.Subject{ID: req.ID, Name: req.Name, Credits: req.Credits}
	assignment := &models.TeachingAssignment{TeacherID: req.TeacherID, Room: req.Room, Day: req.Day, Time: req.Time}
	if err := s.subjects.CreateWithAssignment(ctx, subject, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrTransaction.Code, appErrors.ErrTransaction.Status, "failed to create subject")
	}
	s.invalidateCache(ctx)

	return &models.SubjectDetail{Subject: *subject, Assignment: assignment}, nil
}

// UpdateSubjectAndAssignment updates both halves of the subject aggregate as
// one atomic unit, inserting the assignment when none exists yet.
func (s *CatalogService) UpdateSubjectAndAssignment(ctx context.Context, subjectID string, req UpdateSubjectRequest) (*models.SubjectDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}
	exists, err := s.subjects.Exists(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check subject")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
	}

	subject := &models.Subject{ID: subjectID, Name: req.Name, Credits: req.Credits}
	assignment := &models.TeachingAssignment{TeacherID: req.TeacherID, Room: req.Room, Day: req.Day, Time: req.Time}
	if err := s.subjects.UpdateWithAssignment(ctx, subject, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrTransaction.Code, appErrors.ErrTransaction.Status, "failed to update subject")
	}
	s.invalidateCache(ctx)

	return &models.SubjectDetail{Subject: *subject, Assignment: assignment}, nil
}

// SetPrerequisites atomically replaces the prerequisite set of a subject.
// Self references and cycles are not rejected.
func (s *CatalogService) SetPrerequisites(ctx context.Context, subjectID string, req SetPrerequisitesRequest) error {
	exists, err := s.subjects.Exists(ctx, subjectID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check subject")
	}
	if !exists {
		return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
	}

	if err := s.subjects.SetPrerequisites(ctx, subjectID, req.PrerequisiteIDs); err != nil {
		return appErrors.Wrap(err, appErrors.ErrTransaction.Code, appErrors.ErrTransaction.Status, "failed to replace prerequisites")
	}
	s.invalidateCache(ctx)
	return nil
}

// Get returns a subject with its teaching assignment.
func (s *CatalogService) Get(ctx context.Context, subjectID string) (*models.SubjectDetail, error) {
	detail, err := s.subjects.FindDetailByID(ctx, subjectID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	return detail, nil
}

// Prerequisites returns the prerequisite IDs of a subject.
func (s *CatalogService) Prerequisites(ctx context.Context, subjectID string) ([]string, error) {
	exists, err := s.subjects.Exists(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check subject")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
	}
	ids, err := s.subjects.Prerequisites(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list prerequisites")
	}
	return ids, nil
}

type subjectListPayload struct {
	Subjects []models.Subject `json:"subjects"`
	Total    int              `json:"total"`
}

// List returns subjects with pagination metadata, optionally served from the
// read cache. The boolean reports whether the cache answered the request.
func (s *CatalogService) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, *models.Pagination, bool, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}

	cacheKey := fmt.Sprintf("catalog:subjects:%s:%s:%s:%d:%d", filter.Search, filter.SortBy, filter.SortOrder, page, size)
	if s.cache.Enabled() {
		var cached subjectListPayload
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return cached.Subjects, &models.Pagination{Page: page, PageSize: size, TotalCount: cached.Total}, true, nil
		}
	}

	subjects, total, err := s.subjects.List(ctx, filter)
	if err != nil {
		return nil, nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}

	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, cacheKey, subjectListPayload{Subjects: subjects, Total: total}, 0)
	}

	return subjects, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, false, nil
}

func (s *CatalogService) invalidateCache(ctx context.Context) {
	if !s.cache.Enabled() {
		return
	}
	if err := s.cache.Invalidate(ctx, catalogCachePattern); err != nil {
		s.logger.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}

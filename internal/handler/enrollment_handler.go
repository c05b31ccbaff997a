package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-ledger-api/internal/service"
	appErrors "github.com/noah-isme/academic-ledger-api/pkg/errors"
	"github.com/noah-isme/academic-ledger-api/pkg/response"
)

// EnrollmentHandler handles enrollment, grading and GPA endpoints.
type EnrollmentHandler struct {
	service *service.EnrollmentService
	gpa     *service.GPAService
}

// NewEnrollmentHandler constructs an enrollment handler.
func NewEnrollmentHandler(svc *service.EnrollmentService, gpa *service.GPAService) *EnrollmentHandler {
	return &EnrollmentHandler{service: svc, gpa: gpa}
}

func enrollmentID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid enrollment id")
	}
	return id, nil
}

func scoreID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid score id")
	}
	return id, nil
}

// Enroll godoc
// @Summary Enroll a student in a subject
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body service.EnrollRequest true "Enrollment payload"
// @Success 201 {object} response.Envelope
// @Router /enrollments [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req service.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	enrollment, err := h.service.Enroll(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}

// RecordGrade godoc
// @Summary Record the final grade of an enrollment
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param id path int true "Enrollment ID"
// @Param payload body service.RecordGradeRequest true "Grade payload"
// @Success 204
// @Router /enrollments/{id}/grade [put]
func (h *EnrollmentHandler) RecordGrade(c *gin.Context) {
	id, err := enrollmentID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.RecordGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.service.RecordFinalGrade(c.Request.Context(), id, req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListByStudent godoc
// @Summary List a student's enrollments
// @Tags Enrollments
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/enrollments [get]
func (h *EnrollmentHandler) ListByStudent(c *gin.Context) {
	records, err := h.service.ListByStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// ListBySubject godoc
// @Summary List a subject's roster
// @Tags Enrollments
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /subjects/{id}/enrollments [get]
func (h *EnrollmentHandler) ListBySubject(c *gin.Context) {
	records, err := h.service.ListBySubject(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// RecalculateGPA godoc
// @Summary Recompute and persist a student's GPA
// @Tags Enrollments
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/gpa [post]
func (h *EnrollmentHandler) RecalculateGPA(c *gin.Context) {
	gpa, err := h.gpa.CalculateAndUpdate(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"student_id": c.Param("id"), "gpa": gpa}, nil)
}

// ListScores godoc
// @Summary List assignment scores under an enrollment
// @Tags Enrollments
// @Produce json
// @Param id path int true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id}/scores [get]
func (h *EnrollmentHandler) ListScores(c *gin.Context) {
	id, err := enrollmentID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	scores, err := h.service.ListAssignmentScores(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, scores, nil)
}

// AddScore godoc
// @Summary Record an assignment score
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param id path int true "Enrollment ID"
// @Param payload body service.ScoreRequest true "Score payload"
// @Success 201 {object} response.Envelope
// @Router /enrollments/{id}/scores [post]
func (h *EnrollmentHandler) AddScore(c *gin.Context) {
	id, err := enrollmentID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	score, err := h.service.RecordAssignmentScore(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, score)
}

// UpdateScore godoc
// @Summary Update an assignment score
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param id path int true "Score ID"
// @Param payload body service.ScoreRequest true "Score payload"
// @Success 200 {object} response.Envelope
// @Router /scores/{id} [put]
func (h *EnrollmentHandler) UpdateScore(c *gin.Context) {
	id, err := scoreID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	score, err := h.service.UpdateAssignmentScore(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, score, nil)
}

// DeleteScore godoc
// @Summary Delete an assignment score
// @Tags Enrollments
// @Produce json
// @Param id path int true "Score ID"
// @Success 204
// @Router /scores/{id} [delete]
func (h *EnrollmentHandler) DeleteScore(c *gin.Context) {
	id, err := scoreID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.DeleteAssignmentScore(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

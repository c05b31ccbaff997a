package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-ledger-api/internal/service"
	"github.com/noah-isme/academic-ledger-api/pkg/response"
)

// FinanceHandler handles balance summary and report endpoints.
type FinanceHandler struct {
	service *service.FinanceService
}

// NewFinanceHandler constructs a finance handler.
func NewFinanceHandler(svc *service.FinanceService) *FinanceHandler {
	return &FinanceHandler{service: svc}
}

// Summaries godoc
// @Summary Per-student due/paid/balance table
// @Tags Finance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /finance/summaries [get]
func (h *FinanceHandler) Summaries(c *gin.Context) {
	summaries, err := h.service.StudentSummaries(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summaries, nil)
}

// StudentSummary godoc
// @Summary A single student's due/paid/balance projection
// @Tags Finance
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/finance [get]
func (h *FinanceHandler) StudentSummary(c *gin.Context) {
	summary, err := h.service.StudentSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Report godoc
// @Summary Fleet-wide billing totals
// @Tags Finance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /finance/report [get]
func (h *FinanceHandler) Report(c *gin.Context) {
	report, err := h.service.Report(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

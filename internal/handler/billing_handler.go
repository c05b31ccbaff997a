package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-ledger-api/internal/service"
	appErrors "github.com/noah-isme/academic-ledger-api/pkg/errors"
	"github.com/noah-isme/academic-ledger-api/pkg/response"
)

// BillingHandler handles invoice endpoints.
type BillingHandler struct {
	service *service.BillingService
}

// NewBillingHandler constructs a billing handler.
func NewBillingHandler(svc *service.BillingService) *BillingHandler {
	return &BillingHandler{service: svc}
}

func invoiceID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid invoice id")
	}
	return id, nil
}

// Generate godoc
// @Summary Generate semester invoices for all enrolled students
// @Tags Billing
// @Accept json
// @Produce json
// @Param payload body service.GenerateInvoicesRequest true "Billing run payload"
// @Success 201 {object} response.Envelope
// @Router /invoices/generate [post]
func (h *BillingHandler) Generate(c *gin.Context) {
	var req service.GenerateInvoicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	count, err := h.service.GenerateForSemester(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"semester_id": req.SemesterID, "generated": count})
}

// Get godoc
// @Summary Get an invoice with line items
// @Tags Billing
// @Produce json
// @Param id path int true "Invoice ID"
// @Success 200 {object} response.Envelope
// @Router /invoices/{id} [get]
func (h *BillingHandler) Get(c *gin.Context) {
	id, err := invoiceID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	detail, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// ListByStudent godoc
// @Summary List a student's invoices
// @Tags Billing
// @Produce json
// @Param id path string true "Student ID"
// @Param status query string false "Filter: pending"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/invoices [get]
func (h *BillingHandler) ListByStudent(c *gin.Context) {
	studentID := c.Param("id")
	if c.Query("status") == "pending" {
		invoices, err := h.service.ListPendingByStudent(c.Request.Context(), studentID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, invoices, nil)
		return
	}
	invoices, err := h.service.ListByStudent(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, invoices, nil)
}

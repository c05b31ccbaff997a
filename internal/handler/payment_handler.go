package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-ledger-api/internal/service"
	appErrors "github.com/noah-isme/academic-ledger-api/pkg/errors"
	"github.com/noah-isme/academic-ledger-api/pkg/response"
)

// PaymentHandler handles payment and financial aid endpoints.
type PaymentHandler struct {
	payments *service.PaymentService
	aid      *service.FinancialAidService
}

// NewPaymentHandler constructs a payment handler.
func NewPaymentHandler(payments *service.PaymentService, aid *service.FinancialAidService) *PaymentHandler {
	return &PaymentHandler{payments: payments, aid: aid}
}

// AddPayment godoc
// @Summary Record a payment against an invoice
// @Tags Payments
// @Accept json
// @Produce json
// @Param payload body service.AddPaymentRequest true "Payment payload"
// @Success 201 {object} response.Envelope
// @Router /payments [post]
func (h *PaymentHandler) AddPayment(c *gin.Context) {
	var req service.AddPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	payment, err := h.payments.AddPayment(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, payment)
}

// ListByInvoice godoc
// @Summary List an invoice's payments
// @Tags Payments
// @Produce json
// @Param id path int true "Invoice ID"
// @Success 200 {object} response.Envelope
// @Router /invoices/{id}/payments [get]
func (h *PaymentHandler) ListByInvoice(c *gin.Context) {
	id, err := invoiceID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	payments, err := h.payments.ListByInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payments, nil)
}

// ListByStudent godoc
// @Summary List a student's payments
// @Tags Payments
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/payments [get]
func (h *PaymentHandler) ListByStudent(c *gin.Context) {
	payments, err := h.payments.ListByStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payments, nil)
}

// AddAid godoc
// @Summary Grant financial aid against an invoice
// @Tags Payments
// @Accept json
// @Produce json
// @Param payload body service.AddAidRequest true "Financial aid payload"
// @Success 201 {object} response.Envelope
// @Router /financial-aid [post]
func (h *PaymentHandler) AddAid(c *gin.Context) {
	var req service.AddAidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	aid, err := h.aid.AddAid(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, aid)
}

// ListAidByStudent godoc
// @Summary List a student's financial aid grants
// @Tags Payments
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/financial-aid [get]
func (h *PaymentHandler) ListAidByStudent(c *gin.Context) {
	aids, err := h.aid.ListByStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, aids, nil)
}

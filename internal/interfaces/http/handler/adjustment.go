package handler

import (
	"github.com/gin-gonic/gin"
	inventoryapp "github.com/pharmstock/backend/internal/application/inventory"
)

// AdjustmentHandler handles stock adjustment API endpoints
type AdjustmentHandler struct {
	BaseHandler
	adjustmentService *inventoryapp.AdjustmentService
}

// NewAdjustmentHandler creates a new AdjustmentHandler
func NewAdjustmentHandler(adjustmentService *inventoryapp.AdjustmentService) *AdjustmentHandler {
	return &AdjustmentHandler{adjustmentService: adjustmentService}
}

// Return records a customer return against a settled invoice
func (h *AdjustmentHandler) Return(c *gin.Context) {
	var req inventoryapp.ReturnAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	adjustment, err := h.adjustmentService.Return(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, adjustment)
}

// WriteOff writes stock off as DAMAGE, EXPIRED or LOST
func (h *AdjustmentHandler) WriteOff(c *gin.Context) {
	var req inventoryapp.WriteOffAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	adjustment, err := h.adjustmentService.WriteOff(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, adjustment)
}

// Found books stock discovered outside the records
func (h *AdjustmentHandler) Found(c *gin.Context) {
	var req inventoryapp.FoundAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	adjustment, err := h.adjustmentService.Found(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, adjustment)
}

// Correct applies a signed balance correction
func (h *AdjustmentHandler) Correct(c *gin.Context) {
	var req inventoryapp.CorrectionAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	adjustment, err := h.adjustmentService.Correct(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, adjustment)
}

// ListByInvoice returns the adjustments recorded against an invoice
func (h *AdjustmentHandler) ListByInvoice(c *gin.Context) {
	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	adjustments, err := h.adjustmentService.ListByInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, adjustments)
}

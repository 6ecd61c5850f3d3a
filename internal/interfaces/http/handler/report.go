package handler

import (
	"github.com/gin-gonic/gin"
	reportapp "github.com/pharmstock/backend/internal/application/report"
)

// ReportHandler handles profit and loss report API endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.Service
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.Service) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// ProfitLoss computes the profit and loss report for the requested
// window and filters
func (h *ReportHandler) ProfitLoss(c *gin.Context) {
	var req reportapp.Request
	if err := c.ShouldBindQuery(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	report, err := h.reportService.ProfitLoss(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, report)
}

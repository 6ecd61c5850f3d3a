package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	inventoryapp "github.com/pharmstock/backend/internal/application/inventory"
)

// StockHandler handles stock intake and batch query API endpoints
type StockHandler struct {
	BaseHandler
	stockService        *inventoryapp.StockService
	defaultExpiryWindow time.Duration
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *inventoryapp.StockService, defaultExpiryWindow time.Duration) *StockHandler {
	return &StockHandler{
		stockService:        stockService,
		defaultExpiryWindow: defaultExpiryWindow,
	}
}

// Intake receives stock into a new batch
func (h *StockHandler) Intake(c *gin.Context) {
	var req inventoryapp.StockIntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	batch, err := h.stockService.Intake(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, batch)
}

// AvailableBatches returns a product's batches with stock on hand,
// earliest expiry first
func (h *StockHandler) AvailableBatches(c *gin.Context) {
	productID, err := parseIDParam(c, "product_id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	batches, err := h.stockService.AvailableBatches(c.Request.Context(), productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, batches)
}

// BatchesByProduct returns all of a product's batches, empty ones
// included
func (h *StockHandler) BatchesByProduct(c *gin.Context) {
	productID, err := parseIDParam(c, "product_id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	batches, err := h.stockService.BatchesByProduct(c.Request.Context(), productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, batches)
}

// ExpiringBatches returns batches expiring within the requested number
// of days
func (h *StockHandler) ExpiringBatches(c *gin.Context) {
	window := h.defaultExpiryWindow
	if daysParam := c.Query("days"); daysParam != "" {
		days, err := strconv.Atoi(daysParam)
		if err != nil || days < 0 {
			h.BadRequest(c, "Invalid days parameter")
			return
		}
		window = time.Duration(days) * 24 * time.Hour
	}

	batches, err := h.stockService.ExpiringBatches(c.Request.Context(), window)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, batches)
}

// Ledger returns a batch's movement journal in insertion order
func (h *StockHandler) Ledger(c *gin.Context) {
	batchID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return
	}

	entries, err := h.stockService.Ledger(c.Request.Context(), batchID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entries)
}

// Reconcile compares a batch's stored balance against the balance
// recomputed from its ledger
func (h *StockHandler) Reconcile(c *gin.Context) {
	batchID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return
	}

	result, err := h.stockService.Reconcile(c.Request.Context(), batchID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

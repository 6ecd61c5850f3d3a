package router

import (
	"github.com/gin-gonic/gin"
	"github.com/pharmstock/backend/internal/interfaces/http/handler"
)

// Handlers bundles every API handler for route registration
type Handlers struct {
	Product    *handler.ProductHandler
	Category   *handler.CategoryHandler
	Customer   *handler.CustomerHandler
	Seller     *handler.SellerHandler
	Stock      *handler.StockHandler
	Adjustment *handler.AdjustmentHandler
	Invoice    *handler.InvoiceHandler
	Report     *handler.ReportHandler
}

// RegisterRoutes implements RouteRegistrar
func (h Handlers) RegisterRoutes(rg *gin.RouterGroup) {
	catalog := rg.Group("/catalog")
	catalog.POST("/products", h.Product.Create)
	catalog.GET("/products", h.Product.List)
	catalog.GET("/products/code/:code", h.Product.GetByCode)
	catalog.GET("/products/:id", h.Product.GetByID)
	catalog.PUT("/products/:id", h.Product.Update)
	catalog.PUT("/products/:id/prices", h.Product.SetPrices)
	catalog.POST("/products/:id/deactivate", h.Product.Deactivate)

	catalog.POST("/categories", h.Category.Create)
	catalog.GET("/categories", h.Category.List)
	catalog.GET("/categories/:id", h.Category.GetByID)
	catalog.PUT("/categories/:id/name", h.Category.Rename)

	partner := rg.Group("/partner")
	partner.POST("/customers", h.Customer.Create)
	partner.GET("/customers", h.Customer.List)
	partner.GET("/customers/:id", h.Customer.GetByID)
	partner.PUT("/customers/:id", h.Customer.Update)

	partner.POST("/sellers", h.Seller.Create)
	partner.GET("/sellers", h.Seller.List)
	partner.GET("/sellers/:id", h.Seller.GetByID)
	partner.POST("/sellers/:id/deactivate", h.Seller.Deactivate)

	inventory := rg.Group("/inventory")
	inventory.POST("/stock/intake", h.Stock.Intake)
	inventory.GET("/products/:product_id/batches", h.Stock.BatchesByProduct)
	inventory.GET("/products/:product_id/batches/available", h.Stock.AvailableBatches)
	inventory.GET("/batches/expiring", h.Stock.ExpiringBatches)
	inventory.GET("/batches/:id/ledger", h.Stock.Ledger)
	inventory.GET("/batches/:id/reconcile", h.Stock.Reconcile)

	inventory.POST("/adjustments/return", h.Adjustment.Return)
	inventory.POST("/adjustments/write-off", h.Adjustment.WriteOff)
	inventory.POST("/adjustments/found", h.Adjustment.Found)
	inventory.POST("/adjustments/correction", h.Adjustment.Correct)

	billing := rg.Group("/billing")
	billing.POST("/invoices", h.Invoice.Create)
	billing.GET("/invoices", h.Invoice.List)
	billing.GET("/invoices/number/:number", h.Invoice.GetByNumber)
	billing.GET("/invoices/:id", h.Invoice.GetByID)
	billing.POST("/invoices/:id/confirm", h.Invoice.Confirm)
	billing.POST("/invoices/:id/payments", h.Invoice.ApplyPayment)
	billing.POST("/invoices/:id/cancel", h.Invoice.Cancel)
	billing.GET("/invoices/:id/adjustments", h.Adjustment.ListByInvoice)
	billing.POST("/quotations/:id/convert", h.Invoice.ConvertQuotation)

	reports := rg.Group("/reports")
	reports.GET("/profit-loss", h.Report.ProfitLoss)
}

package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest creates a catalog product. Prices are optional at
// creation; a product without a trade price bills at cost.
type CreateProductRequest struct {
	Code        string          `json:"code" binding:"required,min=1,max=50"`
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Unit        string          `json:"unit" binding:"required,min=1,max=20"`
	Description string          `json:"description"`
	CategoryID  *uuid.UUID      `json:"category_id"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	TPRate      decimal.Decimal `json:"tp_rate"`
	SalesPrice  decimal.Decimal `json:"sales_price"`
}

// UpdateProductRequest updates a product's basic information
type UpdateProductRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Description string `json:"description"`
}

// SetPricesRequest replaces the product's three price points
type SetPricesRequest struct {
	CostPrice  decimal.Decimal `json:"cost_price"`
	TPRate     decimal.Decimal `json:"tp_rate"`
	SalesPrice decimal.Decimal `json:"sales_price"`
}

// ProductListFilter filters the product list
type ProductListFilter struct {
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	Search     string     `form:"search"`
	CategoryID *uuid.UUID `form:"category_id"`
	Status     *string    `form:"status"`
}

// ProductResponse is the read model of a product
type ProductResponse struct {
	ID          uuid.UUID       `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	CategoryID  *uuid.UUID      `json:"category_id,omitempty"`
	Unit        string          `json:"unit"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	TPRate      decimal.Decimal `json:"tp_rate"`
	SalesPrice  decimal.Decimal `json:"sales_price"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreateCategoryRequest creates a product category
type CreateCategoryRequest struct {
	Code        string `json:"code" binding:"required,min=1,max=50"`
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description"`
}

// CategoryResponse is the read model of a category
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToProductResponse converts a product to its response
func ToProductResponse(product *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:          product.ID,
		Code:        product.Code,
		Name:        product.Name,
		Description: product.Description,
		CategoryID:  product.CategoryID,
		Unit:        product.Unit,
		CostPrice:   product.CostPrice,
		TPRate:      product.TPRate,
		SalesPrice:  product.SalesPrice,
		Status:      string(product.Status),
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

// ToProductResponses converts products to responses
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for idx := range products {
		responses = append(responses, ToProductResponse(&products[idx]))
	}
	return responses
}

// ToCategoryResponse converts a category to its response
func ToCategoryResponse(category *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          category.ID,
		Code:        category.Code,
		Name:        category.Name,
		Description: category.Description,
		Status:      string(category.Status),
		CreatedAt:   category.CreatedAt,
	}
}

// ToCategoryResponses converts categories to responses
func ToCategoryResponses(categories []catalog.Category) []CategoryResponse {
	responses := make([]CategoryResponse, 0, len(categories))
	for idx := range categories {
		responses = append(responses, ToCategoryResponse(&categories[idx]))
	}
	return responses
}

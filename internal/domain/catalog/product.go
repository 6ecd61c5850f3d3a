package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusInactive     ProductStatus = "inactive"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

// Product represents a pharmaceutical product/SKU in the catalog.
// It carries the three-price model: CostPrice is the internal accounting
// cost, TPRate is the trade price actually billed to customers, and
// SalesPrice is the printed MRP. The three are independent fields.
type Product struct {
	shared.BaseAggregateRoot
	Code        string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index"`
	Unit        string          `gorm:"type:varchar(20);not null"`             // Base unit (e.g., "pcs", "strip", "bottle")
	CostPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Accounting cost per unit
	TPRate      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Trade price billed to customers
	SalesPrice  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Maximum retail price (reference)
	Status      ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(code, name, unit string) (*Product, error) {
	if err := validateProductCode(code); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if unit == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Unit:              unit,
		CostPrice:         decimal.Zero,
		TPRate:            decimal.Zero,
		SalesPrice:        decimal.Zero,
		Status:            ProductStatusActive,
	}, nil
}

// SetPrices sets the three price points of the product
func (p *Product) SetPrices(costPrice, tpRate, salesPrice decimal.Decimal) error {
	if costPrice.IsNegative() || tpRate.IsNegative() || salesPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}

	p.CostPrice = costPrice
	p.TPRate = tpRate
	p.SalesPrice = salesPrice
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetCategory assigns the product to a category
func (p *Product) SetCategory(categoryID uuid.UUID) {
	p.CategoryID = &categoryID
	p.UpdatedAt = time.Now()
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Deactivate marks the product as inactive
func (p *Product) Deactivate() {
	p.Status = ProductStatusInactive
	p.UpdatedAt = time.Now()
}

// IsActive returns true if the product is active
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// BillingRate returns the trade price used on invoices.
// Falls back to the cost price when no trade price has been configured.
func (p *Product) BillingRate() decimal.Decimal {
	if p.TPRate.GreaterThan(decimal.Zero) {
		return p.TPRate
	}
	return p.CostPrice
}

func validateProductCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_PRODUCT_CODE", "Product code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_PRODUCT_CODE", "Product code cannot exceed 50 characters")
	}
	return nil
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

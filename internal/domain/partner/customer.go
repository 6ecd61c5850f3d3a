package partner

import (
	"time"

	"github.com/pharmstock/backend/internal/domain/shared"
)

// Customer represents a customer the pharmacy bills.
// Invoices snapshot the customer name at creation; this record is the
// filter dimension for customer-level profit reporting.
type Customer struct {
	shared.BaseAggregateRoot
	Name    string `gorm:"type:varchar(200);not null"`
	Phone   string `gorm:"type:varchar(30)"`
	Address string `gorm:"type:varchar(500)"`
	Active  bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer
func NewCustomer(name string) (*Customer, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	return &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Active:            true,
	}, nil
}

// Update updates customer contact details
func (c *Customer) Update(name, phone, address string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	c.Name = name
	c.Phone = phone
	c.Address = address
	c.UpdatedAt = time.Now()
	return nil
}

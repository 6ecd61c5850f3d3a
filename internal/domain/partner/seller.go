package partner

import (
	"time"

	"github.com/pharmstock/backend/internal/domain/shared"
)

// Seller represents a sales employee credited on invoices.
// Like Customer, it exists as a snapshot source and a reporting dimension.
type Seller struct {
	shared.BaseAggregateRoot
	Name   string `gorm:"type:varchar(200);not null"`
	Phone  string `gorm:"type:varchar(30)"`
	Active bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Seller) TableName() string {
	return "sellers"
}

// NewSeller creates a new seller
func NewSeller(name string) (*Seller, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_SELLER_NAME", "Seller name cannot be empty")
	}
	return &Seller{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Active:            true,
	}, nil
}

// Deactivate marks the seller as inactive
func (s *Seller) Deactivate() {
	s.Active = false
	s.UpdatedAt = time.Now()
}

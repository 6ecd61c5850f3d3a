package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/partner"
)

// CreateCustomerRequest creates a customer
type CreateCustomerRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Phone   string `json:"phone" binding:"max=30"`
	Address string `json:"address" binding:"max=500"`
}

// UpdateCustomerRequest updates a customer's contact details
type UpdateCustomerRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Phone   string `json:"phone" binding:"max=30"`
	Address string `json:"address" binding:"max=500"`
}

// CreateSellerRequest creates a seller
type CreateSellerRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=200"`
	Phone string `json:"phone" binding:"max=30"`
}

// CustomerResponse is the read model of a customer
type CustomerResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// SellerResponse is the read model of a seller
type SellerResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// ToCustomerResponse converts a customer to its response
func ToCustomerResponse(customer *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        customer.ID,
		Name:      customer.Name,
		Phone:     customer.Phone,
		Address:   customer.Address,
		Active:    customer.Active,
		CreatedAt: customer.CreatedAt,
	}
}

// ToCustomerResponses converts customers to responses
func ToCustomerResponses(customers []partner.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, 0, len(customers))
	for idx := range customers {
		responses = append(responses, ToCustomerResponse(&customers[idx]))
	}
	return responses
}

// ToSellerResponse converts a seller to its response
func ToSellerResponse(seller *partner.Seller) SellerResponse {
	return SellerResponse{
		ID:        seller.ID,
		Name:      seller.Name,
		Phone:     seller.Phone,
		Active:    seller.Active,
		CreatedAt: seller.CreatedAt,
	}
}

// ToSellerResponses converts sellers to responses
func ToSellerResponses(sellers []partner.Seller) []SellerResponse {
	responses := make([]SellerResponse, 0, len(sellers))
	for idx := range sellers {
		responses = append(responses, ToSellerResponse(&sellers[idx]))
	}
	return responses
}

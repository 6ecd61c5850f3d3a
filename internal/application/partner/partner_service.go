package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/partner"
	"github.com/pharmstock/backend/internal/domain/shared"
)

// CustomerService manages customers, the billing side of every invoice
type CustomerService struct {
	customerRepo partner.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo partner.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	customer, err := partner.NewCustomer(req.Name)
	if err != nil {
		return nil, err
	}
	customer.Phone = req.Phone
	customer.Address = req.Address

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Update updates a customer's contact details
func (s *CustomerService) Update(ctx context.Context, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if err := customer.Update(req.Name, req.Phone, req.Address); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID returns a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// List returns customers matching the search
func (s *CustomerService) List(ctx context.Context, page, pageSize int, search string) ([]CustomerResponse, error) {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}
	filter.Search = search
	filter.OrderBy = "name"
	filter.OrderDir = "asc"

	customers, err := s.customerRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToCustomerResponses(customers), nil
}

// SellerService manages the sales employees credited on invoices
type SellerService struct {
	sellerRepo partner.SellerRepository
}

// NewSellerService creates a new seller service
func NewSellerService(sellerRepo partner.SellerRepository) *SellerService {
	return &SellerService{sellerRepo: sellerRepo}
}

// Create creates a new seller
func (s *SellerService) Create(ctx context.Context, req CreateSellerRequest) (*SellerResponse, error) {
	seller, err := partner.NewSeller(req.Name)
	if err != nil {
		return nil, err
	}
	seller.Phone = req.Phone

	if err := s.sellerRepo.Save(ctx, seller); err != nil {
		return nil, err
	}

	response := ToSellerResponse(seller)
	return &response, nil
}

// Deactivate marks a seller as inactive
func (s *SellerService) Deactivate(ctx context.Context, sellerID uuid.UUID) (*SellerResponse, error) {
	seller, err := s.sellerRepo.FindByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	seller.Deactivate()
	if err := s.sellerRepo.Save(ctx, seller); err != nil {
		return nil, err
	}

	response := ToSellerResponse(seller)
	return &response, nil
}

// GetByID returns a seller by ID
func (s *SellerService) GetByID(ctx context.Context, sellerID uuid.UUID) (*SellerResponse, error) {
	seller, err := s.sellerRepo.FindByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	response := ToSellerResponse(seller)
	return &response, nil
}

// List returns all sellers
func (s *SellerService) List(ctx context.Context) ([]SellerResponse, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 0 // sellers are few; return them all
	filter.OrderBy = "name"
	filter.OrderDir = "asc"

	sellers, err := s.sellerRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToSellerResponses(sellers), nil
}

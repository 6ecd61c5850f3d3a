package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/billing"
	"github.com/pharmstock/backend/internal/domain/catalog"
	"github.com/pharmstock/backend/internal/domain/inventory"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Cache is the interface the report service uses to memoize computed
// reports. Reports are reporting views, not transactional participants;
// a short TTL of staleness is acceptable.
type Cache interface {
	// Get returns the cached payload for the key, or found=false
	Get(ctx context.Context, key string) (payload []byte, found bool, err error)
	// Set stores the payload under the key for the TTL
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}

// Service computes profit and loss reports. It reads outside any write
// transaction and tolerates eventually-consistent data.
type Service struct {
	invoiceRepo    billing.InvoiceRepository
	adjustmentRepo inventory.StockAdjustmentRepository
	batchRepo      inventory.BatchLotRepository
	productRepo    catalog.ProductRepository
	categoryRepo   catalog.CategoryRepository
	cache          Cache
	cacheTTL       time.Duration
	logger         *zap.Logger
}

// NewService creates a new report Service
func NewService(
	invoiceRepo billing.InvoiceRepository,
	adjustmentRepo inventory.StockAdjustmentRepository,
	batchRepo inventory.BatchLotRepository,
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	logger *zap.Logger,
) *Service {
	return &Service{
		invoiceRepo:    invoiceRepo,
		adjustmentRepo: adjustmentRepo,
		batchRepo:      batchRepo,
		productRepo:    productRepo,
		categoryRepo:   categoryRepo,
		logger:         logger,
	}
}

// WithCache enables report memoization with the given TTL
func (s *Service) WithCache(cache Cache, ttl time.Duration) *Service {
	s.cache = cache
	s.cacheTTL = ttl
	return s
}

// ProfitLoss computes the profit and loss report for the requested
// window and filters
func (s *Service) ProfitLoss(ctx context.Context, req Request) (*ProfitLossReport, error) {
	if req.Window == "" {
		req.Window = WindowAll
	}
	if !req.Window.IsValid() {
		return nil, shared.NewDomainError("INVALID_WINDOW", "Invalid report window")
	}

	window := ResolveWindow(req.Window, time.Now(), req.CustomStart, req.CustomEnd)
	cacheKey := s.cacheKey(req, window)

	if s.cache != nil {
		if payload, found, err := s.cache.Get(ctx, cacheKey); err == nil && found {
			var cached ProfitLossReport
			if err := json.Unmarshal(payload, &cached); err == nil {
				return &cached, nil
			}
		} else if err != nil {
			// Cache trouble degrades to a recompute, never an error
			s.logger.Debug("report cache read failed", zap.Error(err))
		}
	}

	input, err := s.loadInput(ctx, window)
	if err != nil {
		return nil, err
	}

	filter := Filter{
		CustomerID: req.CustomerID,
		SellerID:   req.SellerID,
		ProductID:  req.ProductID,
		CategoryID: req.CategoryID,
	}
	result := Compute(*input, filter, window)

	if s.cache != nil {
		if payload, err := json.Marshal(result); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL); err != nil {
				s.logger.Debug("report cache write failed", zap.Error(err))
			}
		}
	}

	return result, nil
}

// loadInput gathers everything the pure aggregator reads
func (s *Service) loadInput(ctx context.Context, window Window) (*Input, error) {
	invoices, err := s.invoiceRepo.FindSettledInWindow(ctx, window.Start, window.End)
	if err != nil {
		return nil, err
	}

	adjustmentFilter := shared.DefaultFilter()
	adjustmentFilter.PageSize = 0 // unpaged: the report needs every adjustment in the window
	adjustments, err := s.adjustmentRepo.FindByDateRange(ctx, window.Start, window.End, adjustmentFilter)
	if err != nil {
		return nil, err
	}

	batchCosts := make(map[uuid.UUID]decimal.Decimal)
	for idx := range adjustments {
		batchID := adjustments[idx].BatchID
		if _, ok := batchCosts[batchID]; ok {
			continue
		}
		batch, err := s.batchRepo.FindByID(ctx, batchID)
		if err != nil {
			return nil, err
		}
		batchCosts[batchID] = batch.UnitCost
	}

	productIDs := make([]uuid.UUID, 0, len(adjustments))
	seen := make(map[uuid.UUID]bool)
	for idx := range adjustments {
		productID := adjustments[idx].ProductID
		if !seen[productID] {
			seen[productID] = true
			productIDs = append(productIDs, productID)
		}
	}
	productCategories := make(map[uuid.UUID]uuid.UUID)
	if len(productIDs) > 0 {
		products, err := s.productRepo.FindByIDs(ctx, productIDs)
		if err != nil {
			return nil, err
		}
		for idx := range products {
			if products[idx].CategoryID != nil {
				productCategories[products[idx].ID] = *products[idx].CategoryID
			}
		}
	}

	categoryNames := make(map[uuid.UUID]string)
	categories, err := s.categoryRepo.FindAll(ctx, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	for idx := range categories {
		categoryNames[categories[idx].ID] = categories[idx].Name
	}

	return &Input{
		Invoices:          invoices,
		Adjustments:       adjustments,
		BatchCosts:        batchCosts,
		ProductCategories: productCategories,
		CategoryNames:     categoryNames,
	}, nil
}

func (s *Service) cacheKey(req Request, window Window) string {
	idOrDash := func(id *uuid.UUID) string {
		if id == nil {
			return "-"
		}
		return id.String()
	}
	return fmt.Sprintf("report:pl:%s:%d:%d:%s:%s:%s:%s",
		req.Window,
		window.Start.Unix(), window.End.Unix(),
		idOrDash(req.CustomerID), idOrDash(req.SellerID),
		idOrDash(req.ProductID), idOrDash(req.CategoryID),
	)
}

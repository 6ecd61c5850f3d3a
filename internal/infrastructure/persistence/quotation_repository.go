package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/billing"
	"github.com/pharmstock/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormQuotationRepository implements billing.QuotationRepository using GORM
type GormQuotationRepository struct {
	db *gorm.DB
}

// NewGormQuotationRepository creates a new GORM quotation repository
func NewGormQuotationRepository(db *gorm.DB) *GormQuotationRepository {
	return &GormQuotationRepository{db: db}
}

// FindByID finds a quotation with its lines
func (r *GormQuotationRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Quotation, error) {
	var quotation billing.Quotation
	err := r.db.WithContext(ctx).Preload("Lines").First(&quotation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &quotation, nil
}

// FindAll finds quotations matching the filter
func (r *GormQuotationRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[billing.Quotation], error) {
	var total int64
	countQuery := applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&billing.Quotation{}), filter, "quotation_number", "customer_name")
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, err
	}

	var quotations []billing.Quotation
	query := applyFilter(
		r.db.WithContext(ctx).Preload("Lines"), filter, "quotation_number", "customer_name")
	if err := query.Find(&quotations).Error; err != nil {
		return nil, err
	}

	page, pageSize := filter.Page, filter.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = len(quotations)
		if pageSize == 0 {
			pageSize = 1
		}
	}
	paginated := shared.NewPaginated(quotations, total, page, pageSize)
	return &paginated, nil
}

// Save persists the quotation and its lines
func (r *GormQuotationRepository) Save(ctx context.Context, quotation *billing.Quotation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(quotation).Error; err != nil {
			return err
		}
		if err := tx.Where("quotation_id = ?", quotation.ID).Delete(&billing.QuotationLine{}).Error; err != nil {
			return err
		}
		if len(quotation.Lines) > 0 {
			if err := tx.Create(&quotation.Lines).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// NextQuotationNumber generates the next sequential quotation number in
// the form QUO-<year>-<seq>
func (r *GormQuotationRepository) NextQuotationNumber(ctx context.Context) (string, error) {
	return nextDocumentNumber(ctx, r.db, &billing.Quotation{}, "quotation_number", "QUO")
}

// Ensure GormQuotationRepository implements billing.QuotationRepository
var _ billing.QuotationRepository = (*GormQuotationRepository)(nil)

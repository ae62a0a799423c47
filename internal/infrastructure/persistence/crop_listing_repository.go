package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/farm"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCropListingRepository implements farm.CropListingRepository using GORM
type GormCropListingRepository struct {
	db *gorm.DB
}

// NewGormCropListingRepository creates a new GormCropListingRepository
func NewGormCropListingRepository(db *gorm.DB) *GormCropListingRepository {
	return &GormCropListingRepository{db: db}
}

// FindByCode finds a crop listing by its listing code
func (r *GormCropListingRepository) FindByCode(ctx context.Context, listingCode string) (*farm.CropListing, error) {
	var model models.CropListingModel
	if err := r.db.WithContext(ctx).
		Where("listing_code = ?", listingCode).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("crop listing", listingCode)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActiveByBatchCode returns the active listing for a batch
func (r *GormCropListingRepository) FindActiveByBatchCode(ctx context.Context, batchCode string) (*farm.CropListing, error) {
	var model models.CropListingModel
	if err := r.db.WithContext(ctx).
		Where("batch_code = ? AND status = ?", batchCode, farm.ListingStatusActive).
		Order("listed_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("crop listing", batchCode)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByFarmer lists a farmer's crop listings with paging
func (r *GormCropListingRepository) FindByFarmer(ctx context.Context, farmerID string, filter shared.Filter) ([]farm.CropListing, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CropListingModel{}).Where("farmer_id = ?", farmerID)
	if status, ok := filter.Filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.CropListingModel
	if err := applyPaging(query, filter, CropListingSortFields, "listed_at").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	listings := make([]farm.CropListing, len(rows))
	for i := range rows {
		listings[i] = *rows[i].ToDomain()
	}
	return listings, total, nil
}

// Save inserts a new crop listing
func (r *GormCropListingRepository) Save(ctx context.Context, l *farm.CropListing) error {
	if err := r.db.WithContext(ctx).Create(models.CropListingModelFromDomain(l)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// SaveWithLock updates the listing with optimistic locking (version check)
func (r *GormCropListingRepository) SaveWithLock(ctx context.Context, l *farm.CropListing) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		next, err := updateWithVersion(tx, &models.CropListingModel{}, l.ID, l.Version, now, map[string]any{
			"status":       l.Status,
			"sold_to":      l.SoldTo,
			"sold_at":      l.SoldAt,
			"price_per_kg": l.PricePerKg,
			"quantity":     l.Quantity,
		})
		if err != nil {
			return err
		}
		l.Version = next
		l.UpdatedAt = now
		return nil
	})
}

package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/traceability"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBatchRepository implements traceability.BatchRepository using GORM
type GormBatchRepository struct {
	db *gorm.DB
}

// NewGormBatchRepository creates a new GormBatchRepository
func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

func preloadBatch(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Payments").
		Preload("Delivery").
		Preload("Packaging").
		Preload("Registration").
		Preload("Listing").
		Preload("Proposal").
		Preload("Shipment").
		Preload("Inspection").
		Preload("Fees").
		Preload("Release").
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("at ASC")
		})
}

func (r *GormBatchRepository) findOne(ctx context.Context, key string, query string, args ...any) (*traceability.Batch, error) {
	var model models.BatchModel
	if err := preloadBatch(r.db.WithContext(ctx)).
		Where(query, args...).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("batch", key)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a batch and all of its child records by batch code
func (r *GormBatchRepository) FindByCode(ctx context.Context, batchCode string) (*traceability.Batch, error) {
	return r.findOne(ctx, batchCode, "batch_code = ?", batchCode)
}

// FindByTransactionCode finds the batch a lot transaction was accepted for
func (r *GormBatchRepository) FindByTransactionCode(ctx context.Context, transactionCode string) (*traceability.Batch, error) {
	return r.findOne(ctx, transactionCode, "transaction_code = ?", transactionCode)
}

// FindByRegistrationCode finds the batch behind a warehouse registration
func (r *GormBatchRepository) FindByRegistrationCode(ctx context.Context, registrationCode string) (*traceability.Batch, error) {
	sub := r.db.Model(&models.WarehouseRegistrationModel{}).
		Select("batch_code").
		Where("registration_code = ?", registrationCode)
	return r.findOne(ctx, registrationCode, "batch_code IN (?)", sub)
}

// Find lists batches matching q with paging
func (r *GormBatchRepository) Find(ctx context.Context, q traceability.BatchQuery, filter shared.Filter) ([]traceability.Batch, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.BatchModel{})
	if q.FarmerID != "" {
		query = query.Where("farmer_id = ?", q.FarmerID)
	}
	if q.BuyerID != "" {
		query = query.Where("buyer_id = ?", q.BuyerID)
	}
	if q.ExporterID != "" {
		query = query.Where("exporter_id = ?", q.ExporterID)
	}
	if len(q.Stages) > 0 {
		query = query.Where("stage IN ?", q.Stages)
	}
	if q.Registered {
		query = query.Where("batch_code IN (?)",
			r.db.Model(&models.WarehouseRegistrationModel{}).Select("batch_code"))
	}
	if q.Listed || q.ListingOpenAt != nil {
		listings := r.db.Model(&models.MarketplaceListingModel{}).Select("batch_code")
		if q.ListingOpenAt != nil {
			listings = listings.Where("expires_at > ?", *q.ListingOpenAt)
		}
		query = query.Where("batch_code IN (?)", listings)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.BatchModel
	if err := preloadBatch(applyPaging(query, filter, BatchSortFields, "created_at")).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	batches := make([]traceability.Batch, len(rows))
	for i := range rows {
		batches[i] = *rows[i].ToDomain()
	}
	return batches, total, nil
}

// FindWithLapsedWindows returns batches whose storage or listing window has
// passed while the stored status is still active. Only batches still held in
// the warehouse count for storage, and only listed ones for listings.
func (r *GormBatchRepository) FindWithLapsedWindows(ctx context.Context, now time.Time, limit int) ([]traceability.Batch, error) {
	db := r.db.WithContext(ctx)
	lapsedStorage := db.Model(&models.WarehouseRegistrationModel{}).
		Select("batch_code").
		Where("status = ? AND storage_expiry_date <= ?", traceability.StorageStatusActive, now)
	lapsedListing := db.Model(&models.MarketplaceListingModel{}).
		Select("batch_code").
		Where("status = ? AND expires_at <= ?", traceability.ListingStatusActive, now)

	var rows []models.BatchModel
	if err := preloadBatch(db).
		Where("(stage IN ? AND batch_code IN (?)) OR (stage = ? AND batch_code IN (?))",
			[]traceability.Stage{traceability.StageWarehouseRegistered, traceability.StageMarketplaceListed}, lapsedStorage,
			traceability.StageMarketplaceListed, lapsedListing).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	batches := make([]traceability.Batch, len(rows))
	for i := range rows {
		batches[i] = *rows[i].ToDomain()
	}
	return batches, nil
}

// Save inserts a newly harvested batch with its history
func (r *GormBatchRepository) Save(ctx context.Context, b *traceability.Batch) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.BatchModelFromDomain(b)
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return shared.ErrAlreadyExists
			}
			return err
		}
		return saveBatchChildren(tx, model)
	})
}

// SaveWithLock updates the batch only if the stored version still matches,
// then upserts its child records. Payments and history rows are never updated.
func (r *GormBatchRepository) SaveWithLock(ctx context.Context, b *traceability.Batch) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		next, err := updateWithVersion(tx, &models.BatchModel{}, b.ID, b.Version, now, map[string]any{
			"stage":             b.Stage,
			"buyer_id":          b.BuyerID,
			"transaction_code":  b.TransactionCode,
			"exporter_id":       b.ExporterID,
			"compliance_status": b.ComplianceStatus,
			"storage_location":  b.StorageLocation,
			"withdrawn_reason":  b.WithdrawnReason,
		})
		if err != nil {
			return err
		}
		if err := saveBatchChildren(tx, models.BatchModelFromDomain(b)); err != nil {
			return err
		}
		b.Version = next
		b.UpdatedAt = now
		return nil
	})
}

func saveBatchChildren(tx *gorm.DB, m *models.BatchModel) error {
	if len(m.Payments) > 0 {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&m.Payments).Error; err != nil {
			return err
		}
	}
	if len(m.History) > 0 {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&m.History).Error; err != nil {
			return err
		}
	}

	var children []any
	if m.Delivery != nil {
		children = append(children, m.Delivery)
	}
	if m.Packaging != nil {
		children = append(children, m.Packaging)
	}
	if m.Registration != nil {
		children = append(children, m.Registration)
	}
	if m.Listing != nil {
		children = append(children, m.Listing)
	}
	if m.Proposal != nil {
		children = append(children, m.Proposal)
	}
	if m.Shipment != nil {
		children = append(children, m.Shipment)
	}
	if m.Inspection != nil {
		children = append(children, m.Inspection)
	}
	if m.Fees != nil {
		children = append(children, m.Fees)
	}
	if m.Release != nil {
		children = append(children, m.Release)
	}
	for _, child := range children {
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(child).Error; err != nil {
			return err
		}
	}
	return nil
}

package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/compliance"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormComplianceRepository implements compliance.Repository using GORM
type GormComplianceRepository struct {
	db *gorm.DB
}

// NewGormComplianceRepository creates a new GormComplianceRepository
func NewGormComplianceRepository(db *gorm.DB) *GormComplianceRepository {
	return &GormComplianceRepository{db: db}
}

// Save appends a compliance record
func (r *GormComplianceRepository) Save(ctx context.Context, rec *compliance.Record) error {
	if err := r.db.WithContext(ctx).Create(models.ComplianceRecordModelFromDomain(rec)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// SaveWithLock persists a review with optimistic locking (version check)
func (r *GormComplianceRepository) SaveWithLock(ctx context.Context, rec *compliance.Record) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		next, err := updateWithVersion(tx, &models.ComplianceRecordModel{}, rec.ID, rec.Version, now, map[string]any{
			"status":       rec.Status,
			"decision":     rec.Decision,
			"reviewed_by":  rec.ReviewedBy,
			"review_notes": rec.ReviewNotes,
			"reviewed_at":  rec.ReviewedAt,
		})
		if err != nil {
			return err
		}
		rec.Version = next
		rec.UpdatedAt = now
		return nil
	})
}

// FindByCode finds a record by its record code
func (r *GormComplianceRepository) FindByCode(ctx context.Context, recordCode string) (*compliance.Record, error) {
	var model models.ComplianceRecordModel
	if err := r.db.WithContext(ctx).
		Where("record_code = ?", recordCode).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("compliance record", recordCode)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindLatestForPlot returns the most recently received record for a farmer's plot
func (r *GormComplianceRepository) FindLatestForPlot(ctx context.Context, farmerID, plotID string) (*compliance.Record, error) {
	var model models.ComplianceRecordModel
	if err := r.db.WithContext(ctx).
		Where("farmer_id = ? AND plot_id = ?", farmerID, plotID).
		Order("received_at DESC").
		Order("created_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("compliance record", farmerID+"/"+plotID)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Find lists records matching q with paging
func (r *GormComplianceRepository) Find(ctx context.Context, q compliance.Query, filter shared.Filter) ([]compliance.Record, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ComplianceRecordModel{})
	if q.FarmerID != "" {
		query = query.Where("farmer_id = ?", q.FarmerID)
	}
	if q.PlotID != "" {
		query = query.Where("plot_id = ?", q.PlotID)
	}
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ComplianceRecordModel
	if err := applyPaging(query, filter, ComplianceSortFields, "received_at").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	records := make([]compliance.Record, len(rows))
	for i := range rows {
		records[i] = *rows[i].ToDomain()
	}
	return records, total, nil
}

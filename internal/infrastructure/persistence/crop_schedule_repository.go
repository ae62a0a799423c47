package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/farm"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCropScheduleRepository implements farm.CropScheduleRepository using GORM
type GormCropScheduleRepository struct {
	db *gorm.DB
}

// NewGormCropScheduleRepository creates a new GormCropScheduleRepository
func NewGormCropScheduleRepository(db *gorm.DB) *GormCropScheduleRepository {
	return &GormCropScheduleRepository{db: db}
}

// FindByCode finds a crop schedule by its schedule code
func (r *GormCropScheduleRepository) FindByCode(ctx context.Context, scheduleCode string) (*farm.CropSchedule, error) {
	var model models.CropScheduleModel
	if err := r.db.WithContext(ctx).
		Where("schedule_code = ?", scheduleCode).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("crop schedule", scheduleCode)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByFarmer lists a farmer's schedules with paging
func (r *GormCropScheduleRepository) FindByFarmer(ctx context.Context, farmerID string, filter shared.Filter) ([]farm.CropSchedule, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CropScheduleModel{}).Where("farmer_id = ?", farmerID)
	if status, ok := filter.Filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.CropScheduleModel
	if err := applyPaging(query, filter, CropScheduleSortFields, "created_at").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	schedules := make([]farm.CropSchedule, len(rows))
	for i := range rows {
		schedules[i] = *rows[i].ToDomain()
	}
	return schedules, total, nil
}

// FindByFarmerAndStatus returns every schedule of the farmer in the given status
func (r *GormCropScheduleRepository) FindByFarmerAndStatus(ctx context.Context, farmerID string, status farm.ScheduleStatus) ([]farm.CropSchedule, error) {
	var rows []models.CropScheduleModel
	if err := r.db.WithContext(ctx).
		Where("farmer_id = ? AND status = ?", farmerID, status).
		Order("expected_harvest_date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	schedules := make([]farm.CropSchedule, len(rows))
	for i := range rows {
		schedules[i] = *rows[i].ToDomain()
	}
	return schedules, nil
}

// NextScheduleCode returns the next sequential code such as SCH-011
func (r *GormCropScheduleRepository) NextScheduleCode(ctx context.Context) (string, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CropScheduleModel{}).Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("SCH-%03d", count+1), nil
}

// Save inserts a new crop schedule
func (r *GormCropScheduleRepository) Save(ctx context.Context, s *farm.CropSchedule) error {
	model := models.CropScheduleModelFromDomain(s)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// SaveWithLock updates the schedule with optimistic locking (version check)
func (r *GormCropScheduleRepository) SaveWithLock(ctx context.Context, s *farm.CropSchedule) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		next, err := updateWithVersion(tx, &models.CropScheduleModel{}, s.ID, s.Version, now, map[string]any{
			"status":         s.Status,
			"market_status":  s.MarketStatus,
			"batch_code":     s.BatchCode,
			"actual_yield":   s.ActualYield,
			"quality_grade":  s.QualityGrade,
			"harvest_date":   s.HarvestDate,
			"expected_yield": s.ExpectedYield,
			"notes":          s.Notes,
		})
		if err != nil {
			return err
		}
		s.Version = next
		s.UpdatedAt = now
		return nil
	})
}

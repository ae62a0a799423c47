package persistence

import (
	"context"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/farm"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/traceability"
	"gorm.io/gorm"
)

// GormHarvestStore commits a harvest: the schedule update and the minted
// batch land in one transaction or not at all.
type GormHarvestStore struct {
	db *gorm.DB
}

// NewGormHarvestStore creates a new GormHarvestStore
func NewGormHarvestStore(db *gorm.DB) *GormHarvestStore {
	return &GormHarvestStore{db: db}
}

// CommitHarvest saves the harvested schedule with its version check and
// inserts the batch
func (s *GormHarvestStore) CommitHarvest(ctx context.Context, schedule *farm.CropSchedule, batch *traceability.Batch) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := NewGormCropScheduleRepository(tx).SaveWithLock(ctx, schedule); err != nil {
			return err
		}
		return NewGormBatchRepository(tx).Save(ctx, batch)
	})
}

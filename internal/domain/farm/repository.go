package farm

import (
	"context"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
)

// CropScheduleRepository persists crop schedules
type CropScheduleRepository interface {
	FindByCode(ctx context.Context, scheduleCode string) (*CropSchedule, error)
	FindByFarmer(ctx context.Context, farmerID string, filter shared.Filter) ([]CropSchedule, int64, error)
	FindByFarmerAndStatus(ctx context.Context, farmerID string, status ScheduleStatus) ([]CropSchedule, error)
	NextScheduleCode(ctx context.Context) (string, error)
	Save(ctx context.Context, s *CropSchedule) error
	// SaveWithLock updates s only if the stored version still equals s.Version,
	// then bumps the version
	SaveWithLock(ctx context.Context, s *CropSchedule) error
}

// CropListingRepository persists farmer crop listings
type CropListingRepository interface {
	FindByCode(ctx context.Context, listingCode string) (*CropListing, error)
	FindActiveByBatchCode(ctx context.Context, batchCode string) (*CropListing, error)
	FindByFarmer(ctx context.Context, farmerID string, filter shared.Filter) ([]CropListing, int64, error)
	Save(ctx context.Context, l *CropListing) error
	SaveWithLock(ctx context.Context, l *CropListing) error
}

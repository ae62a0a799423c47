package compliance

import (
	"context"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
)

// Query narrows compliance record listings
type Query struct {
	FarmerID string
	PlotID   string
	Status   RecordStatus
}

// Repository persists compliance records. There is no delete.
type Repository interface {
	Save(ctx context.Context, r *Record) error
	SaveWithLock(ctx context.Context, r *Record) error
	FindByCode(ctx context.Context, recordCode string) (*Record, error)
	FindLatestForPlot(ctx context.Context, farmerID, plotID string) (*Record, error)
	Find(ctx context.Context, q Query, filter shared.Filter) ([]Record, int64, error)
}

package farm

import (
	"context"
	"errors"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/farm"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
	"go.uber.org/zap"
)

// Service handles the farmer-side schedule and listing collections
type Service struct {
	schedules farm.CropScheduleRepository
	listings  farm.CropListingRepository
	clock     shared.Clock
	logger    *zap.Logger
}

// NewService creates the farm service
func NewService(schedules farm.CropScheduleRepository, listings farm.CropListingRepository, clock shared.Clock, logger *zap.Logger) *Service {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{schedules: schedules, listings: listings, clock: clock, logger: logger.Named("farm")}
}

// CreateSchedule plans a schedule in planned status
func (s *Service) CreateSchedule(ctx context.Context, req CreateScheduleRequest) (*ScheduleResponse, error) {
	planting, err := parseOptionalDate("plantingDate", req.PlantingDate)
	if err != nil {
		return nil, err
	}
	expected, err := parseOptionalDate("expectedHarvestDate", req.ExpectedHarvestDate)
	if err != nil {
		return nil, err
	}
	code := req.ScheduleID
	if code == "" {
		if code, err = s.schedules.NextScheduleCode(ctx); err != nil {
			return nil, err
		}
	}

	schedule, err := farm.NewCropSchedule(farm.NewCropScheduleInput{
		ScheduleCode:        code,
		FarmerID:            req.FarmerID,
		PlotID:              req.PlotID,
		CropType:            req.CropType,
		Variety:             req.Variety,
		PlantingArea:        req.PlantingArea,
		PlantingDate:        planting,
		ExpectedHarvestDate: expected,
		ExpectedYield:       req.ExpectedYield,
		Notes:               req.Notes,
	}, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.schedules.Save(ctx, schedule); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewPreconditionError("schedule %s already exists", code)
		}
		return nil, err
	}
	resp := ToScheduleResponse(schedule)
	return &resp, nil
}

// AdvanceSchedule moves a schedule one status forward
func (s *Service) AdvanceSchedule(ctx context.Context, scheduleID string, req AdvanceScheduleRequest) (*ScheduleResponse, error) {
	schedule, err := s.schedules.FindByCode(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	from := schedule.Status
	if err := schedule.Advance(farm.ScheduleStatus(req.Status), s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.schedules.SaveWithLock(ctx, schedule); err != nil {
		return nil, err
	}
	s.logger.Debug("schedule advanced",
		zap.String("schedule_id", schedule.ScheduleCode),
		zap.String("from", string(from)),
		zap.String("to", string(schedule.Status)))
	resp := ToScheduleResponse(schedule)
	return &resp, nil
}

// ListSchedules returns a farmer's schedules
func (s *Service) ListSchedules(ctx context.Context, farmerID string, q ListQuery) (shared.Paginated[ScheduleResponse], error) {
	if farmerID == "" {
		return shared.Paginated[ScheduleResponse]{}, shared.NewValidationError("farmerId is required")
	}
	filter := q.filter()
	items, total, err := s.schedules.FindByFarmer(ctx, farmerID, filter)
	if err != nil {
		return shared.Paginated[ScheduleResponse]{}, err
	}
	out := make([]ScheduleResponse, len(items))
	for i := range items {
		out[i] = ToScheduleResponse(&items[i])
	}
	return shared.NewPaginated(out, total, filter.Page, filter.PageSize), nil
}

// CreateListing offers a harvested schedule's produce to buyers and marks the
// schedule listed. One active listing per batch.
func (s *Service) CreateListing(ctx context.Context, req CreateListingRequest) (*ListingResponse, error) {
	schedule, err := s.schedules.FindByCode(ctx, req.ScheduleID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	qty := req.Quantity
	if qty.IsZero() {
		qty = schedule.ActualYield
	}
	listing, err := farm.NewCropListing(schedule, qty, req.PricePerKg, req.Currency, now)
	if err != nil {
		return nil, err
	}
	existing, err := s.listings.FindActiveByBatchCode(ctx, schedule.BatchCode)
	switch {
	case err == nil:
		return nil, shared.NewPreconditionError("batch %s already has active listing %s", schedule.BatchCode, existing.ListingCode)
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}

	if err := s.listings.Save(ctx, listing); err != nil {
		return nil, err
	}
	if err := schedule.MarkListed(now); err != nil {
		return nil, err
	}
	if err := s.schedules.SaveWithLock(ctx, schedule); err != nil {
		// the listing is already stored
		s.logger.Warn("marking schedule listed failed",
			zap.String("schedule_id", schedule.ScheduleCode),
			zap.String("batch_code", schedule.BatchCode),
			zap.Error(err))
	}
	resp := ToListingResponse(listing)
	return &resp, nil
}

// ListListings returns a farmer's crop listings
func (s *Service) ListListings(ctx context.Context, farmerID string, q ListQuery) (shared.Paginated[ListingResponse], error) {
	if farmerID == "" {
		return shared.Paginated[ListingResponse]{}, shared.NewValidationError("farmerId is required")
	}
	filter := q.filter()
	items, total, err := s.listings.FindByFarmer(ctx, farmerID, filter)
	if err != nil {
		return shared.Paginated[ListingResponse]{}, err
	}
	out := make([]ListingResponse, len(items))
	for i := range items {
		out[i] = ToListingResponse(&items[i])
	}
	return shared.NewPaginated(out, total, filter.Page, filter.PageSize), nil
}

// HarvestAlerts lists the farmer's schedules that are ready to harvest,
// computed against the clock at read time
func (s *Service) HarvestAlerts(ctx context.Context, farmerID string) ([]HarvestAlertResponse, error) {
	if farmerID == "" {
		return nil, shared.NewValidationError("farmerId is required")
	}
	ready, err := s.schedules.FindByFarmerAndStatus(ctx, farmerID, farm.ScheduleStatusReadyForHarvest)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	out := make([]HarvestAlertResponse, 0, len(ready))
	for i := range ready {
		if alert, ok := farm.NewHarvestAlert(&ready[i], now); ok {
			out = append(out, toHarvestAlertResponse(alert))
		}
	}
	return out, nil
}

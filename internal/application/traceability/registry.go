package traceability

import (
	"context"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/traceability"
)

// RegistryService serves the buyer and exporter read models. Every derived
// status and countdown is computed from the clock at read time.
type RegistryService struct {
	batches traceability.BatchRepository
	clock   shared.Clock
}

// NewRegistryService creates the registry read service
func NewRegistryService(batches traceability.BatchRepository, clock shared.Clock) *RegistryService {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &RegistryService{batches: batches, clock: clock}
}

// BuyerWarehouseProducts lists the buyer's registered stock
func (s *RegistryService) BuyerWarehouseProducts(ctx context.Context, buyerID string, q ListQuery) (shared.Paginated[WarehouseProductResponse], error) {
	if buyerID == "" {
		return shared.Paginated[WarehouseProductResponse]{}, shared.NewValidationError("buyerId is required")
	}
	filter := q.filter("updated_at")
	items, total, err := s.batches.Find(ctx, traceability.BatchQuery{BuyerID: buyerID, Registered: true}, filter)
	if err != nil {
		return shared.Paginated[WarehouseProductResponse]{}, err
	}

	now := s.clock.Now()
	out := make([]WarehouseProductResponse, 0, len(items))
	for i := range items {
		b := &items[i]
		if b.Registration == nil {
			continue
		}
		qty := b.ActualYield
		if b.Delivery != nil {
			qty = b.Delivery.ActualWeight
		}
		out = append(out, WarehouseProductResponse{
			RegistrationResponse: *toRegistrationResponse(b.Registration, now),
			BatchCode:            b.BatchCode,
			CropType:             b.CropType,
			QualityGrade:         b.QualityGrade,
			Quantity:             qty,
			LifecycleStage:       string(b.Stage),
		})
	}
	return shared.NewPaginated(out, total, filter.Page, filter.PageSize), nil
}

// BuyerMarketplaceListings lists every listing the buyer created
func (s *RegistryService) BuyerMarketplaceListings(ctx context.Context, buyerID string, q ListQuery) (shared.Paginated[ListingResponse], error) {
	if buyerID == "" {
		return shared.Paginated[ListingResponse]{}, shared.NewValidationError("buyerId is required")
	}
	return s.listings(ctx, traceability.BatchQuery{BuyerID: buyerID, Listed: true}, q)
}

// ExporterActiveListings lists every buyer's listing still open to exporters
func (s *RegistryService) ExporterActiveListings(ctx context.Context, q ListQuery) (shared.Paginated[ListingResponse], error) {
	now := s.clock.Now()
	return s.listings(ctx, traceability.BatchQuery{
		Stages:        []traceability.Stage{traceability.StageMarketplaceListed},
		ListingOpenAt: &now,
	}, q)
}

func (s *RegistryService) listings(ctx context.Context, query traceability.BatchQuery, q ListQuery) (shared.Paginated[ListingResponse], error) {
	filter := q.filter("updated_at")
	items, total, err := s.batches.Find(ctx, query, filter)
	if err != nil {
		return shared.Paginated[ListingResponse]{}, err
	}
	now := s.clock.Now()
	out := make([]ListingResponse, 0, len(items))
	for i := range items {
		if l := toListingResponse(items[i].Listing, now); l != nil {
			out = append(out, *l)
		}
	}
	return shared.NewPaginated(out, total, filter.Page, filter.PageSize), nil
}

package farm

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ListingStatus of a farmer crop listing
type ListingStatus string

const (
	ListingStatusActive ListingStatus = "active"
	ListingStatusSold   ListingStatus = "sold"
)

// CropListing offers a harvested batch to buyers on the farmer marketplace
type CropListing struct {
	shared.BaseAggregateRoot
	ListingCode  string
	FarmerID     string
	ScheduleCode string
	BatchCode    string
	CropType     string
	QualityGrade string
	Quantity     decimal.Decimal
	PricePerKg   decimal.Decimal
	Currency     string
	Status       ListingStatus
	SoldTo       string
	SoldAt       *time.Time
	ListedAt     time.Time
}

// NewCropListing lists produce from a harvested schedule
func NewCropListing(s *CropSchedule, quantity, pricePerKg decimal.Decimal, currency string, now time.Time) (*CropListing, error) {
	if s.Status != ScheduleStatusHarvested || s.BatchCode == "" {
		return nil, shared.NewPreconditionError("schedule %s must be harvested before listing", s.ScheduleCode)
	}
	if !quantity.IsPositive() {
		return nil, shared.NewValidationError("quantity must be greater than zero")
	}
	if quantity.GreaterThan(s.ActualYield) {
		return nil, shared.NewValidationError("quantity %s exceeds harvested yield %s", quantity, s.ActualYield)
	}
	if !pricePerKg.IsPositive() {
		return nil, shared.NewValidationError("pricePerKg must be greater than zero")
	}
	if currency == "" {
		currency = "USD"
	}

	return &CropListing{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		ListingCode:       fmt.Sprintf("CL-%d-%s", now.Unix(), uuid.NewString()[:6]),
		FarmerID:          s.FarmerID,
		ScheduleCode:      s.ScheduleCode,
		BatchCode:         s.BatchCode,
		CropType:          s.CropType,
		QualityGrade:      s.QualityGrade,
		Quantity:          quantity,
		PricePerKg:        pricePerKg,
		Currency:          currency,
		Status:            ListingStatusActive,
		ListedAt:          now,
	}, nil
}

// MarkSold records the lot winner against the listing
func (l *CropListing) MarkSold(buyerID string, now time.Time) {
	if l.Status == ListingStatusSold {
		return
	}
	l.Status = ListingStatusSold
	l.SoldTo = buyerID
	at := now
	l.SoldAt = &at
	l.Touch(now)
}

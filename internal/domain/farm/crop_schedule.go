package farm

import (
	"fmt"
	"strings"
	"time"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ScheduleStatus is the pre-harvest part of the batch lifecycle
type ScheduleStatus string

const (
	ScheduleStatusPlanned         ScheduleStatus = "planned"
	ScheduleStatusPlanted         ScheduleStatus = "planted"
	ScheduleStatusGrowing         ScheduleStatus = "growing"
	ScheduleStatusReadyForHarvest ScheduleStatus = "ready_for_harvest"
	ScheduleStatusHarvested       ScheduleStatus = "harvested"
)

// IsValid checks if the status is a known value
func (s ScheduleStatus) IsValid() bool {
	switch s {
	case ScheduleStatusPlanned, ScheduleStatusPlanted, ScheduleStatusGrowing,
		ScheduleStatusReadyForHarvest, ScheduleStatusHarvested:
		return true
	}
	return false
}

func (s ScheduleStatus) String() string {
	return string(s)
}

// CanTransitionTo allows only the immediate successor
func (s ScheduleStatus) CanTransitionTo(target ScheduleStatus) bool {
	switch s {
	case ScheduleStatusPlanned:
		return target == ScheduleStatusPlanted
	case ScheduleStatusPlanted:
		return target == ScheduleStatusGrowing
	case ScheduleStatusGrowing:
		return target == ScheduleStatusReadyForHarvest
	case ScheduleStatusReadyForHarvest:
		return target == ScheduleStatusHarvested
	default:
		return false
	}
}

// MarketStatus tracks whether harvested produce is on the farmer marketplace
type MarketStatus string

const (
	MarketStatusNotListed MarketStatus = "not_listed"
	MarketStatusListed    MarketStatus = "listed"
)

// CropSchedule is a planned or in-progress planting on one plot
type CropSchedule struct {
	shared.BaseAggregateRoot
	ScheduleCode        string
	FarmerID            string
	PlotID              string
	CropType            string
	Variety             string
	PlantingArea        decimal.Decimal
	PlantingDate        time.Time
	ExpectedHarvestDate time.Time
	ExpectedYield       decimal.Decimal
	Status              ScheduleStatus
	MarketStatus        MarketStatus
	BatchCode           string
	ActualYield         decimal.Decimal
	QualityGrade        string
	HarvestDate         *time.Time
	Notes               string
}

// NewCropScheduleInput carries the fields needed to plan a schedule
type NewCropScheduleInput struct {
	ScheduleCode        string
	FarmerID            string
	PlotID              string
	CropType            string
	Variety             string
	PlantingArea        decimal.Decimal
	PlantingDate        time.Time
	ExpectedHarvestDate time.Time
	ExpectedYield       decimal.Decimal
	Notes               string
}

// NewCropSchedule validates and creates a schedule in planned status
func NewCropSchedule(in NewCropScheduleInput, now time.Time) (*CropSchedule, error) {
	switch {
	case strings.TrimSpace(in.ScheduleCode) == "":
		return nil, shared.NewValidationError("scheduleId is required")
	case strings.TrimSpace(in.FarmerID) == "":
		return nil, shared.NewValidationError("farmerId is required")
	case strings.TrimSpace(in.PlotID) == "":
		return nil, shared.NewValidationError("plotId is required")
	case strings.TrimSpace(in.CropType) == "":
		return nil, shared.NewValidationError("cropType is required")
	case in.ExpectedYield.IsNegative():
		return nil, shared.NewValidationError("expectedYield cannot be negative")
	case in.PlantingArea.IsNegative():
		return nil, shared.NewValidationError("plantingArea cannot be negative")
	}
	if !in.PlantingDate.IsZero() && !in.ExpectedHarvestDate.IsZero() &&
		in.ExpectedHarvestDate.Before(in.PlantingDate) {
		return nil, shared.NewValidationError("expectedHarvestDate cannot precede plantingDate")
	}

	return &CropSchedule{
		BaseAggregateRoot:   shared.NewBaseAggregateRoot(now),
		ScheduleCode:        strings.TrimSpace(in.ScheduleCode),
		FarmerID:            strings.TrimSpace(in.FarmerID),
		PlotID:              strings.TrimSpace(in.PlotID),
		CropType:            strings.TrimSpace(in.CropType),
		Variety:             in.Variety,
		PlantingArea:        in.PlantingArea,
		PlantingDate:        in.PlantingDate,
		ExpectedHarvestDate: in.ExpectedHarvestDate,
		ExpectedYield:       in.ExpectedYield,
		Status:              ScheduleStatusPlanned,
		MarketStatus:        MarketStatusNotListed,
		Notes:               in.Notes,
	}, nil
}

// Advance moves the schedule to the next pre-harvest status.
// Harvesting goes through Harvest because it mints the batch.
func (s *CropSchedule) Advance(target ScheduleStatus, now time.Time) error {
	if !target.IsValid() {
		return shared.NewValidationError("unknown schedule status %q", target)
	}
	if target == ScheduleStatusHarvested {
		return shared.NewValidationError("use the harvest operation to record a harvest")
	}
	if !s.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.CodeInvalidStage,
			fmt.Sprintf("schedule %s cannot move from %s to %s", s.ScheduleCode, s.Status, target))
	}
	s.Status = target
	s.Touch(now)
	return nil
}

// Harvest records the harvest and binds the minted batch code. It succeeds
// exactly once, from ready_for_harvest.
func (s *CropSchedule) Harvest(batchCode string, actualYield decimal.Decimal, qualityGrade string, harvestDate, now time.Time) error {
	if s.Status != ScheduleStatusReadyForHarvest {
		return shared.NewDomainError(shared.CodeInvalidStage,
			fmt.Sprintf("schedule %s is %s, harvest requires %s", s.ScheduleCode, s.Status, ScheduleStatusReadyForHarvest))
	}
	if !actualYield.IsPositive() {
		return shared.NewValidationError("actualYield must be greater than zero")
	}
	if strings.TrimSpace(qualityGrade) == "" {
		return shared.NewValidationError("qualityGrade is required")
	}
	if harvestDate.IsZero() {
		return shared.NewValidationError("harvestDate is required")
	}
	if batchCode == "" {
		return shared.NewValidationError("batch code must be minted before harvest is recorded")
	}

	s.Status = ScheduleStatusHarvested
	s.BatchCode = batchCode
	s.ActualYield = actualYield
	s.QualityGrade = qualityGrade
	hd := harvestDate
	s.HarvestDate = &hd
	s.Touch(now)
	return nil
}

// MarkListed flips the market status once produce is offered
func (s *CropSchedule) MarkListed(now time.Time) error {
	if s.Status != ScheduleStatusHarvested {
		return shared.NewPreconditionError("schedule %s must be harvested before listing", s.ScheduleCode)
	}
	if s.MarketStatus == MarketStatusListed {
		return nil
	}
	s.MarketStatus = MarketStatusListed
	s.Touch(now)
	return nil
}

// HarvestAlertEligible reports whether the schedule drives a harvest alert
func (s *CropSchedule) HarvestAlertEligible() bool {
	return s.Status == ScheduleStatusReadyForHarvest
}

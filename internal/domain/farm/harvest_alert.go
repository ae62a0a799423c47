package farm

import (
	"fmt"
	"time"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
)

// HarvestAlert is a farmer-facing read model for schedules ready to harvest
type HarvestAlert struct {
	ScheduleCode        string
	FarmerID            string
	PlotID              string
	CropType            string
	Variety             string
	ExpectedHarvestDate time.Time
	DaysUntilHarvest    int
	Overdue             bool
	Priority            string
	Message             string
}

// NewHarvestAlert derives the alert for s at now. ok is false when the
// schedule is not ready for harvest.
func NewHarvestAlert(s *CropSchedule, now time.Time) (alert HarvestAlert, ok bool) {
	if !s.HarvestAlertEligible() {
		return HarvestAlert{}, false
	}

	alert = HarvestAlert{
		ScheduleCode:        s.ScheduleCode,
		FarmerID:            s.FarmerID,
		PlotID:              s.PlotID,
		CropType:            s.CropType,
		Variety:             s.Variety,
		ExpectedHarvestDate: s.ExpectedHarvestDate,
		Priority:            "medium",
	}
	if s.ExpectedHarvestDate.IsZero() {
		alert.Message = fmt.Sprintf("%s on plot %s is ready for harvest", s.CropType, s.PlotID)
		return alert, true
	}

	alert.DaysUntilHarvest = shared.DaysUntil(now, s.ExpectedHarvestDate)
	switch {
	case now.After(s.ExpectedHarvestDate):
		alert.Overdue = true
		alert.Priority = "high"
		alert.Message = fmt.Sprintf("%s on plot %s is past its expected harvest date", s.CropType, s.PlotID)
	case alert.DaysUntilHarvest <= 3:
		alert.Priority = "high"
		alert.Message = fmt.Sprintf("%s on plot %s should be harvested within %d day(s)", s.CropType, s.PlotID, alert.DaysUntilHarvest)
	default:
		alert.Message = fmt.Sprintf("%s on plot %s is ready, expected harvest in %d days", s.CropType, s.PlotID, alert.DaysUntilHarvest)
	}
	return alert, true
}

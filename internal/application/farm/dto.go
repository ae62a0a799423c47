package farm

import (
	"time"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/farm"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CreateScheduleRequest plans a new crop schedule. The schedule ID is
// generated when omitted.
type CreateScheduleRequest struct {
	ScheduleID          string          `json:"scheduleId"`
	FarmerID            string          `json:"farmerId" binding:"required"`
	PlotID              string          `json:"plotId" binding:"required"`
	CropType            string          `json:"cropType" binding:"required"`
	Variety             string          `json:"variety"`
	PlantingArea        decimal.Decimal `json:"plantingArea"`
	PlantingDate        string          `json:"plantingDate"`
	ExpectedHarvestDate string          `json:"expectedHarvestDate"`
	ExpectedYield       decimal.Decimal `json:"expectedYield"`
	Notes               string          `json:"notes"`
}

// AdvanceScheduleRequest moves a schedule to its next status
type AdvanceScheduleRequest struct {
	Status string `json:"status" binding:"required,oneof=planted growing ready_for_harvest"`
}

// CreateListingRequest lists a harvested schedule's produce for buyers
type CreateListingRequest struct {
	ScheduleID string          `json:"scheduleId" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity"`
	PricePerKg decimal.Decimal `json:"pricePerKg" binding:"decimal_gt0"`
	Currency   string          `json:"currency"`
}

// ListQuery carries pagination for farmer collections
type ListQuery struct {
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

func (q ListQuery) filter() shared.Filter {
	f := shared.DefaultFilter()
	if q.Page > 0 {
		f.Page = q.Page
	}
	if q.PageSize > 0 {
		f.PageSize = q.PageSize
	}
	if q.Status != "" {
		f.Filters = map[string]any{"status": q.Status}
	}
	return f.Normalize()
}

// ScheduleResponse is the API view of a crop schedule
type ScheduleResponse struct {
	ScheduleID          string          `json:"scheduleId"`
	FarmerID            string          `json:"farmerId"`
	PlotID              string          `json:"plotId"`
	CropType            string          `json:"cropType"`
	Variety             string          `json:"variety,omitempty"`
	PlantingArea        decimal.Decimal `json:"plantingArea"`
	PlantingDate        *time.Time      `json:"plantingDate,omitempty"`
	ExpectedHarvestDate *time.Time      `json:"expectedHarvestDate,omitempty"`
	ExpectedYield       decimal.Decimal `json:"expectedYield"`
	Status              string          `json:"status"`
	MarketStatus        string          `json:"marketStatus"`
	BatchCode           string          `json:"batchCode,omitempty"`
	ActualYield         decimal.Decimal `json:"actualYield"`
	QualityGrade        string          `json:"qualityGrade,omitempty"`
	HarvestDate         *time.Time      `json:"harvestDate,omitempty"`
	Notes               string          `json:"notes,omitempty"`
	Version             int             `json:"version"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}

// ToScheduleResponse converts a schedule to its API view
func ToScheduleResponse(s *farm.CropSchedule) ScheduleResponse {
	return ScheduleResponse{
		ScheduleID:          s.ScheduleCode,
		FarmerID:            s.FarmerID,
		PlotID:              s.PlotID,
		CropType:            s.CropType,
		Variety:             s.Variety,
		PlantingArea:        s.PlantingArea,
		PlantingDate:        optionalTime(s.PlantingDate),
		ExpectedHarvestDate: optionalTime(s.ExpectedHarvestDate),
		ExpectedYield:       s.ExpectedYield,
		Status:              string(s.Status),
		MarketStatus:        string(s.MarketStatus),
		BatchCode:           s.BatchCode,
		ActualYield:         s.ActualYield,
		QualityGrade:        s.QualityGrade,
		HarvestDate:         s.HarvestDate,
		Notes:               s.Notes,
		Version:             s.Version,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
}

// ListingResponse is the API view of a farmer crop listing
type ListingResponse struct {
	ListingID    string          `json:"listingId"`
	FarmerID     string          `json:"farmerId"`
	ScheduleID   string          `json:"scheduleId"`
	BatchCode    string          `json:"batchCode"`
	CropType     string          `json:"cropType"`
	QualityGrade string          `json:"qualityGrade,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	PricePerKg   decimal.Decimal `json:"pricePerKg"`
	Currency     string          `json:"currency"`
	Status       string          `json:"status"`
	SoldTo       string          `json:"soldTo,omitempty"`
	SoldAt       *time.Time      `json:"soldAt,omitempty"`
	ListedAt     time.Time       `json:"listedAt"`
}

// ToListingResponse converts a crop listing to its API view
func ToListingResponse(l *farm.CropListing) ListingResponse {
	return ListingResponse{
		ListingID:    l.ListingCode,
		FarmerID:     l.FarmerID,
		ScheduleID:   l.ScheduleCode,
		BatchCode:    l.BatchCode,
		CropType:     l.CropType,
		QualityGrade: l.QualityGrade,
		Quantity:     l.Quantity,
		PricePerKg:   l.PricePerKg,
		Currency:     l.Currency,
		Status:       string(l.Status),
		SoldTo:       l.SoldTo,
		SoldAt:       l.SoldAt,
		ListedAt:     l.ListedAt,
	}
}

// HarvestAlertResponse is one schedule ready to harvest
type HarvestAlertResponse struct {
	ScheduleID          string     `json:"scheduleId"`
	FarmerID            string     `json:"farmerId"`
	PlotID              string     `json:"plotId"`
	CropType            string     `json:"cropType"`
	Variety             string     `json:"variety,omitempty"`
	ExpectedHarvestDate *time.Time `json:"expectedHarvestDate,omitempty"`
	DaysUntilHarvest    int        `json:"daysUntilHarvest"`
	Overdue             bool       `json:"overdue"`
	Priority            string     `json:"priority"`
	Message             string     `json:"message"`
}

func toHarvestAlertResponse(a farm.HarvestAlert) HarvestAlertResponse {
	return HarvestAlertResponse{
		ScheduleID:          a.ScheduleCode,
		FarmerID:            a.FarmerID,
		PlotID:              a.PlotID,
		CropType:            a.CropType,
		Variety:             a.Variety,
		ExpectedHarvestDate: optionalTime(a.ExpectedHarvestDate),
		DaysUntilHarvest:    a.DaysUntilHarvest,
		Overdue:             a.Overdue,
		Priority:            a.Priority,
		Message:             a.Message,
	}
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func parseOptionalDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, shared.NewValidationError("%s must be an ISO-8601 date", field)
}

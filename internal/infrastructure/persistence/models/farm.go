package models

import (
	"time"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/farm"
	"github.com/shopspring/decimal"
)

// CropScheduleModel is the persistence model for the CropSchedule aggregate
type CropScheduleModel struct {
	AggregateModel
	ScheduleCode        string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	FarmerID            string              `gorm:"type:varchar(100);not null;index"`
	PlotID              string              `gorm:"type:varchar(100);not null;index"`
	CropType            string              `gorm:"type:varchar(100);not null"`
	Variety             string              `gorm:"type:varchar(100)"`
	PlantingArea        decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	PlantingDate        time.Time           `gorm:"not null"`
	ExpectedHarvestDate time.Time           `gorm:"not null;index"`
	ExpectedYield       decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	Status              farm.ScheduleStatus `gorm:"type:varchar(30);not null;index"`
	MarketStatus        farm.MarketStatus   `gorm:"type:varchar(20);not null"`
	BatchCode           string              `gorm:"type:varchar(200);index"`
	ActualYield         decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	QualityGrade        string              `gorm:"type:varchar(50)"`
	HarvestDate         *time.Time
	Notes               string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CropScheduleModel) TableName() string {
	return "crop_schedules"
}

// ToDomain converts the persistence model to a domain CropSchedule
func (m *CropScheduleModel) ToDomain() *farm.CropSchedule {
	return &farm.CropSchedule{
		BaseAggregateRoot:   m.ToAggregateRoot(),
		ScheduleCode:        m.ScheduleCode,
		FarmerID:            m.FarmerID,
		PlotID:              m.PlotID,
		CropType:            m.CropType,
		Variety:             m.Variety,
		PlantingArea:        m.PlantingArea,
		PlantingDate:        m.PlantingDate,
		ExpectedHarvestDate: m.ExpectedHarvestDate,
		ExpectedYield:       m.ExpectedYield,
		Status:              m.Status,
		MarketStatus:        m.MarketStatus,
		BatchCode:           m.BatchCode,
		ActualYield:         m.ActualYield,
		QualityGrade:        m.QualityGrade,
		HarvestDate:         m.HarvestDate,
		Notes:               m.Notes,
	}
}

// FromDomain populates the persistence model from a domain CropSchedule
func (m *CropScheduleModel) FromDomain(s *farm.CropSchedule) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.ScheduleCode = s.ScheduleCode
	m.FarmerID = s.FarmerID
	m.PlotID = s.PlotID
	m.CropType = s.CropType
	m.Variety = s.Variety
	m.PlantingArea = s.PlantingArea
	m.PlantingDate = s.PlantingDate
	m.ExpectedHarvestDate = s.ExpectedHarvestDate
	m.ExpectedYield = s.ExpectedYield
	m.Status = s.Status
	m.MarketStatus = s.MarketStatus
	m.BatchCode = s.BatchCode
	m.ActualYield = s.ActualYield
	m.QualityGrade = s.QualityGrade
	m.HarvestDate = s.HarvestDate
	m.Notes = s.Notes
}

// CropScheduleModelFromDomain creates a new persistence model from a domain CropSchedule
func CropScheduleModelFromDomain(s *farm.CropSchedule) *CropScheduleModel {
	m := &CropScheduleModel{}
	m.FromDomain(s)
	return m
}

// CropListingModel is the persistence model for a farmer crop listing
type CropListingModel struct {
	AggregateModel
	ListingCode  string             `gorm:"type:varchar(50);not null;uniqueIndex"`
	FarmerID     string             `gorm:"type:varchar(100);not null;index"`
	ScheduleCode string             `gorm:"type:varchar(50);not null"`
	BatchCode    string             `gorm:"type:varchar(200);not null;index"`
	CropType     string             `gorm:"type:varchar(100);not null"`
	QualityGrade string             `gorm:"type:varchar(50)"`
	Quantity     decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	PricePerKg   decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	Currency     string             `gorm:"type:varchar(3);not null"`
	Status       farm.ListingStatus `gorm:"type:varchar(20);not null;index"`
	SoldTo       string             `gorm:"type:varchar(100)"`
	SoldAt       *time.Time
	ListedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CropListingModel) TableName() string {
	return "crop_listings"
}

// ToDomain converts the persistence model to a domain CropListing
func (m *CropListingModel) ToDomain() *farm.CropListing {
	return &farm.CropListing{
		BaseAggregateRoot: m.ToAggregateRoot(),
		ListingCode:       m.ListingCode,
		FarmerID:          m.FarmerID,
		ScheduleCode:      m.ScheduleCode,
		BatchCode:         m.BatchCode,
		CropType:          m.CropType,
		QualityGrade:      m.QualityGrade,
		Quantity:          m.Quantity,
		PricePerKg:        m.PricePerKg,
		Currency:          m.Currency,
		Status:            m.Status,
		SoldTo:            m.SoldTo,
		SoldAt:            m.SoldAt,
		ListedAt:          m.ListedAt,
	}
}

// FromDomain populates the persistence model from a domain CropListing
func (m *CropListingModel) FromDomain(l *farm.CropListing) {
	m.FromDomainAggregateRoot(l.BaseAggregateRoot)
	m.ListingCode = l.ListingCode
	m.FarmerID = l.FarmerID
	m.ScheduleCode = l.ScheduleCode
	m.BatchCode = l.BatchCode
	m.CropType = l.CropType
	m.QualityGrade = l.QualityGrade
	m.Quantity = l.Quantity
	m.PricePerKg = l.PricePerKg
	m.Currency = l.Currency
	m.Status = l.Status
	m.SoldTo = l.SoldTo
	m.SoldAt = l.SoldAt
	m.ListedAt = l.ListedAt
}

// CropListingModelFromDomain creates a new persistence model from a domain CropListing
func CropListingModelFromDomain(l *farm.CropListing) *CropListingModel {
	m := &CropListingModel{}
	m.FromDomain(l)
	return m
}

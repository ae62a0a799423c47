package models

import (
	"time"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/compliance"
)

// ComplianceRecordModel is the persistence model for an EUDR compliance record
type ComplianceRecordModel struct {
	AggregateModel
	RecordCode        string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	FarmerID          string                `gorm:"type:varchar(100);not null;index:idx_compliance_farmer_plot,priority:1"`
	PlotID            string                `gorm:"type:varchar(100);not null;index:idx_compliance_farmer_plot,priority:2"`
	LandMappingID     string                `gorm:"type:varchar(100)"`
	GPSCoordinates    string                `gorm:"type:varchar(200)"`
	DeforestationRisk string                `gorm:"type:varchar(50)"`
	ComplianceStatus  compliance.EUDRStatus `gorm:"type:varchar(30);not null"`
	CutoffDate        *time.Time
	InspectorID       string                  `gorm:"type:varchar(100)"`
	ReceivedAt        time.Time               `gorm:"not null;index"`
	Status            compliance.RecordStatus `gorm:"type:varchar(20);not null;index"`
	Decision          compliance.Decision     `gorm:"type:varchar(20)"`
	ReviewedBy        string                  `gorm:"type:varchar(100)"`
	ReviewNotes       string                  `gorm:"type:text"`
	ReviewedAt        *time.Time
}

// TableName returns the table name for GORM
func (ComplianceRecordModel) TableName() string {
	return "compliance_records"
}

// ToDomain converts the persistence model to a domain compliance Record
func (m *ComplianceRecordModel) ToDomain() *compliance.Record {
	return &compliance.Record{
		BaseAggregateRoot: m.ToAggregateRoot(),
		RecordCode:        m.RecordCode,
		FarmerID:          m.FarmerID,
		PlotID:            m.PlotID,
		LandMappingID:     m.LandMappingID,
		GPSCoordinates:    m.GPSCoordinates,
		DeforestationRisk: m.DeforestationRisk,
		ComplianceStatus:  m.ComplianceStatus,
		CutoffDate:        m.CutoffDate,
		InspectorID:       m.InspectorID,
		ReceivedAt:        m.ReceivedAt,
		Status:            m.Status,
		Decision:          m.Decision,
		ReviewedBy:        m.ReviewedBy,
		ReviewNotes:       m.ReviewNotes,
		ReviewedAt:        m.ReviewedAt,
	}
}

// FromDomain populates the persistence model from a domain compliance Record
func (m *ComplianceRecordModel) FromDomain(r *compliance.Record) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.RecordCode = r.RecordCode
	m.FarmerID = r.FarmerID
	m.PlotID = r.PlotID
	m.LandMappingID = r.LandMappingID
	m.GPSCoordinates = r.GPSCoordinates
	m.DeforestationRisk = r.DeforestationRisk
	m.ComplianceStatus = r.ComplianceStatus
	m.CutoffDate = r.CutoffDate
	m.InspectorID = r.InspectorID
	m.ReceivedAt = r.ReceivedAt
	m.Status = r.Status
	m.Decision = r.Decision
	m.ReviewedBy = r.ReviewedBy
	m.ReviewNotes = r.ReviewNotes
	m.ReviewedAt = r.ReviewedAt
}

// ComplianceRecordModelFromDomain creates a new persistence model from a domain Record
func ComplianceRecordModelFromDomain(r *compliance.Record) *ComplianceRecordModel {
	m := &ComplianceRecordModel{}
	m.FromDomain(r)
	return m
}

package compliance

import (
	"time"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/compliance"
)

// EUDRData is the deforestation part of a land inspector submission
type EUDRData struct {
	ComplianceStatus  string     `json:"complianceStatus"`
	DeforestationRisk string     `json:"deforestationRisk"`
	CutoffDate        *time.Time `json:"cutoffDate"`
}

// SubmitRequest is the land inspector's compliance upload
type SubmitRequest struct {
	FarmerID       string   `json:"farmerId"`
	PlotID         string   `json:"plotId"`
	LandMappingID  string   `json:"landMappingId"`
	GPSCoordinates string   `json:"gpsCoordinates"`
	InspectorID    string   `json:"inspectorId"`
	EUDRData       EUDRData `json:"eudrData"`
}

// ReviewRequest is the DDGOTS decision on a record
type ReviewRequest struct {
	Decision   string `json:"decision" binding:"required,oneof=approve reject"`
	ReviewedBy string `json:"reviewedBy" binding:"required"`
	Notes      string `json:"notes"`
}

// SubmitResult acknowledges a stored submission
type SubmitResult struct {
	Stored   bool           `json:"stored"`
	RecordID string         `json:"recordId"`
	Record   RecordResponse `json:"record"`
}

// RecordResponse is the API view of a compliance record
type RecordResponse struct {
	RecordID          string     `json:"recordId"`
	FarmerID          string     `json:"farmerId"`
	PlotID            string     `json:"plotId"`
	LandMappingID     string     `json:"landMappingId,omitempty"`
	GPSCoordinates    string     `json:"gpsCoordinates,omitempty"`
	DeforestationRisk string     `json:"deforestationRisk,omitempty"`
	ComplianceStatus  string     `json:"complianceStatus"`
	CutoffDate        *time.Time `json:"cutoffDate,omitempty"`
	InspectorID       string     `json:"inspectorId,omitempty"`
	ReceivedAt        time.Time  `json:"receivedAt"`
	Status            string     `json:"status"`
	Decision          string     `json:"decision,omitempty"`
	ReviewedBy        string     `json:"reviewedBy,omitempty"`
	ReviewNotes       string     `json:"reviewNotes,omitempty"`
	ReviewedAt        *time.Time `json:"reviewedAt,omitempty"`
}

// ToRecordResponse converts a domain record to its API view
func ToRecordResponse(r *compliance.Record) RecordResponse {
	return RecordResponse{
		RecordID:          r.RecordCode,
		FarmerID:          r.FarmerID,
		PlotID:            r.PlotID,
		LandMappingID:     r.LandMappingID,
		GPSCoordinates:    r.GPSCoordinates,
		DeforestationRisk: r.DeforestationRisk,
		ComplianceStatus:  string(r.ComplianceStatus),
		CutoffDate:        r.CutoffDate,
		InspectorID:       r.InspectorID,
		ReceivedAt:        r.ReceivedAt,
		Status:            string(r.Status),
		Decision:          string(r.Decision),
		ReviewedBy:        r.ReviewedBy,
		ReviewNotes:       r.ReviewNotes,
		ReviewedAt:        r.ReviewedAt,
	}
}

// ListFilter narrows the regulator's record listing
type ListFilter struct {
	FarmerID string
	PlotID   string
	Status   string
	Page     int
	PageSize int
}

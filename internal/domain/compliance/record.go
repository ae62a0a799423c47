// Package compliance holds land-mapping and EUDR compliance snapshots
// submitted by land inspectors and reviewed by DDGOTS.
package compliance

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
)

// EUDRStatus is the deforestation-regulation status of land or a batch
type EUDRStatus string

const (
	EUDRCompliant    EUDRStatus = "EUDR_COMPLIANT"
	EUDRPending      EUDRStatus = "pending"
	EUDRNonCompliant EUDRStatus = "non_compliant"
)

// IsValid checks if the status is a known value
func (s EUDRStatus) IsValid() bool {
	switch s {
	case EUDRCompliant, EUDRPending, EUDRNonCompliant:
		return true
	}
	return false
}

// RecordStatus tracks review progress
type RecordStatus string

const (
	RecordStatusReceived RecordStatus = "received"
	RecordStatusReviewed RecordStatus = "reviewed"
	RecordStatusApproved RecordStatus = "approved"
)

// Decision is the DDGOTS review outcome
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// Record is a compliance snapshot for one farmer plot. It is never deleted.
type Record struct {
	shared.BaseAggregateRoot
	RecordCode        string
	FarmerID          string
	PlotID            string
	LandMappingID     string
	GPSCoordinates    string
	DeforestationRisk string
	ComplianceStatus  EUDRStatus
	CutoffDate        *time.Time
	InspectorID       string
	ReceivedAt        time.Time
	Status            RecordStatus
	Decision          Decision
	ReviewedBy        string
	ReviewNotes       string
	ReviewedAt        *time.Time
}

// Submission is what a land inspector sends
type Submission struct {
	FarmerID          string
	PlotID            string
	LandMappingID     string
	GPSCoordinates    string
	InspectorID       string
	ComplianceStatus  string
	DeforestationRisk string
	CutoffDate        *time.Time
}

// NewRecord validates a submission and stores it as received
func NewRecord(sub Submission, now time.Time) (*Record, error) {
	if strings.TrimSpace(sub.FarmerID) == "" {
		return nil, shared.NewValidationError("farmerId is required")
	}
	if strings.TrimSpace(sub.PlotID) == "" {
		return nil, shared.NewValidationError("plotId is required")
	}
	if strings.TrimSpace(sub.ComplianceStatus) == "" {
		return nil, shared.NewValidationError("eudrData.complianceStatus is required")
	}
	status := EUDRStatus(strings.TrimSpace(sub.ComplianceStatus))
	if !status.IsValid() {
		return nil, shared.NewValidationError("eudrData.complianceStatus %q is not one of EUDR_COMPLIANT, pending, non_compliant", sub.ComplianceStatus)
	}

	return &Record{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		RecordCode:        fmt.Sprintf("CMP-%d-%s", now.UnixMilli(), strings.ToUpper(uuid.NewString()[:6])),
		FarmerID:          strings.TrimSpace(sub.FarmerID),
		PlotID:            strings.TrimSpace(sub.PlotID),
		LandMappingID:     sub.LandMappingID,
		GPSCoordinates:    sub.GPSCoordinates,
		DeforestationRisk: sub.DeforestationRisk,
		ComplianceStatus:  status,
		CutoffDate:        sub.CutoffDate,
		InspectorID:       sub.InspectorID,
		ReceivedAt:        now,
		Status:            RecordStatusReceived,
	}, nil
}

// Review applies the DDGOTS decision. A record is reviewed once.
func (r *Record) Review(decision Decision, reviewer, notes string, now time.Time) error {
	if decision != DecisionApprove && decision != DecisionReject {
		return shared.NewValidationError("decision must be approve or reject")
	}
	if strings.TrimSpace(reviewer) == "" {
		return shared.NewValidationError("reviewedBy is required")
	}
	if r.Status != RecordStatusReceived {
		return shared.NewPreconditionError("compliance record %s was already %s", r.RecordCode, r.Status)
	}

	if decision == DecisionApprove {
		r.Status = RecordStatusApproved
	} else {
		r.Status = RecordStatusReviewed
	}
	r.Decision = decision
	r.ReviewedBy = reviewer
	r.ReviewNotes = notes
	at := now
	r.ReviewedAt = &at
	r.Touch(now)
	return nil
}

// BatchStatus is the status a batch harvested from this plot inherits.
// Only an approved record can make a batch EUDR_COMPLIANT.
func (r *Record) BatchStatus() EUDRStatus {
	switch {
	case r.Decision == DecisionReject:
		return EUDRNonCompliant
	case r.Status == RecordStatusApproved:
		return r.ComplianceStatus
	case r.ComplianceStatus == EUDRNonCompliant:
		return EUDRNonCompliant
	default:
		return EUDRPending
	}
}

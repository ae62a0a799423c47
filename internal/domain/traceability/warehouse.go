package traceability

import (
	"time"

	"github.com/google/uuid"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// VarianceTolerance is the inclusive weight tolerance for delivery acceptance
var VarianceTolerance = decimal.NewFromInt(5)

// StorageWindow is the fixed storage period of a warehouse registration
const StorageWindow = 30 * 24 * time.Hour

// AcceptanceStatus of a warehouse delivery
type AcceptanceStatus string

const (
	AcceptanceAccepted       AcceptanceStatus = "ACCEPTED"
	AcceptanceVarianceReview AcceptanceStatus = "VARIANCE_REVIEW"
)

// EvaluateVariance returns actual − declared and the acceptance status
func EvaluateVariance(declared, actual decimal.Decimal) (decimal.Decimal, AcceptanceStatus) {
	variance := actual.Sub(declared)
	if variance.Abs().LessThanOrEqual(VarianceTolerance) {
		return variance, AcceptanceAccepted
	}
	return variance, AcceptanceVarianceReview
}

// WarehouseDeliveryRecord is the quality and quantity inspection at intake
type WarehouseDeliveryRecord struct {
	ID               uuid.UUID
	TransactionCode  string
	BatchCode        string
	WarehouseID      string
	DeclaredWeight   decimal.Decimal
	ActualWeight     decimal.Decimal
	Variance         decimal.Decimal
	AcceptanceStatus AcceptanceStatus
	QualityGrade     string
	ApprovalCode     string
	InspectedBy      string
	DeliveredAt      time.Time
}

// DeliveryInput carries a warehouse intake request
type DeliveryInput struct {
	TransactionCode string
	WarehouseID     string
	DeclaredWeight  decimal.Decimal
	ActualWeight    decimal.Decimal
	QualityGrade    string
	InspectedBy     string
}

func newDeliveryRecord(batchCode string, in DeliveryInput, now time.Time) (*WarehouseDeliveryRecord, error) {
	if !in.DeclaredWeight.IsPositive() {
		return nil, shared.NewValidationError("declaredWeight must be greater than zero")
	}
	if !in.ActualWeight.IsPositive() {
		return nil, shared.NewValidationError("actualWeight must be greater than zero")
	}
	variance, status := EvaluateVariance(in.DeclaredWeight, in.ActualWeight)
	rec := &WarehouseDeliveryRecord{
		ID:               uuid.New(),
		TransactionCode:  in.TransactionCode,
		BatchCode:        batchCode,
		WarehouseID:      in.WarehouseID,
		DeclaredWeight:   in.DeclaredWeight,
		ActualWeight:     in.ActualWeight,
		Variance:         variance,
		AcceptanceStatus: status,
		QualityGrade:     in.QualityGrade,
		InspectedBy:      in.InspectedBy,
		DeliveredAt:      now,
	}
	if status == AcceptanceAccepted {
		rec.ApprovalCode = newCode("WHA", now)
	}
	return rec, nil
}

// PackagingApproval is the QR batch approval issued for accepted deliveries
type PackagingApproval struct {
	ID            uuid.UUID
	ApprovalCode  string
	BatchCode     string
	QRCode        string
	PackageCount  int
	PackagingType string
	ApprovedBy    string
	ApprovedAt    time.Time
}

// StorageStatus of a warehouse registration
type StorageStatus string

const (
	StorageStatusActive  StorageStatus = "active"
	StorageStatusExpired StorageStatus = "expired"
)

// WarehouseRegistration is the buyer's storage slot. Its window is fixed at
// creation and never edited.
type WarehouseRegistration struct {
	ID                uuid.UUID
	RegistrationCode  string
	BatchCode         string
	WarehouseID       string
	BuyerID           string
	StorageStartDate  time.Time
	StorageExpiryDate time.Time
	// Status is the persisted status. Readers use StatusAt; the sweep
	// writes expired here once the window has passed.
	Status           StorageStatus
	ExpiryNotifiedAt *time.Time
}

func newWarehouseRegistration(batchCode, warehouseID, buyerID string, now time.Time) *WarehouseRegistration {
	return &WarehouseRegistration{
		ID:                uuid.New(),
		RegistrationCode:  newCode("WHR", now),
		BatchCode:         batchCode,
		WarehouseID:       warehouseID,
		BuyerID:           buyerID,
		StorageStartDate:  now,
		StorageExpiryDate: now.Add(StorageWindow),
		Status:            StorageStatusActive,
	}
}

// StatusAt derives the storage status at now
func (r *WarehouseRegistration) StatusAt(now time.Time) StorageStatus {
	if now.Before(r.StorageExpiryDate) {
		return StorageStatusActive
	}
	return StorageStatusExpired
}

// DaysRemaining is the ceiling of days left in the window, never negative
func (r *WarehouseRegistration) DaysRemaining(now time.Time) int {
	return max(0, shared.DaysUntil(now, r.StorageExpiryDate))
}

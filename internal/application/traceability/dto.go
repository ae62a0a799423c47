package traceability

import (
	"strings"
	"time"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// HarvestRequest records the harvest against a ready schedule
type HarvestRequest struct {
	ActualYield      decimal.Decimal `json:"actualYield" binding:"decimal_gt0"`
	QualityGrade     string          `json:"qualityGrade" binding:"required"`
	HarvestDate      string          `json:"harvestDate" binding:"required"`
	GPSCoordinates   string          `json:"gpsCoordinates"`
	StorageLocation  string          `json:"storageLocation"`
	ComplianceStatus string          `json:"complianceStatus"`
	CropVariety      string          `json:"cropVariety"`
	Actor            string          `json:"-"`
}

// ProposeLotRequest is a buyer's bid to acquire a harvested batch
type ProposeLotRequest struct {
	BuyerID    string          `json:"buyerId" binding:"required"`
	OfferPrice decimal.Decimal `json:"offerPrice"`
	Actor      string          `json:"-"`
}

// FarmerConfirmationRequest is the farmer's acknowledgement of a payment
type FarmerConfirmationRequest struct {
	Confirmed bool   `json:"confirmed"`
	Method    string `json:"method"`
}

// ConfirmPaymentRequest is the buyer's payment to the farmer
type ConfirmPaymentRequest struct {
	TransactionCode    string                    `json:"transactionCode" binding:"required"`
	Amount             decimal.Decimal           `json:"amount" binding:"decimal_gt0"`
	Currency           string                    `json:"currency"`
	PaymentMethod      string                    `json:"paymentMethod"`
	PaymentReference   string                    `json:"paymentReference"`
	FarmerConfirmation FarmerConfirmationRequest `json:"farmerConfirmation"`
	Actor              string                    `json:"-"`
}

// WarehouseDeliveryRequest is the warehouse intake inspection
type WarehouseDeliveryRequest struct {
	TransactionCode string          `json:"transactionCode" binding:"required"`
	WarehouseID     string          `json:"warehouseId" binding:"required"`
	DeclaredWeight  decimal.Decimal `json:"declaredWeight" binding:"decimal_gt0"`
	ActualWeight    decimal.Decimal `json:"actualWeight" binding:"decimal_gt0"`
	QualityGrade    string          `json:"qualityGrade"`
	InspectedBy     string          `json:"inspectedBy"`
	Actor           string          `json:"-"`
}

// QRBatchApprovalRequest approves packaging for an accepted delivery
type QRBatchApprovalRequest struct {
	BatchCode     string `json:"batchCode" binding:"required"`
	PackageCount  int    `json:"packageCount" binding:"required,gt=0"`
	PackagingType string `json:"packagingType"`
	ApprovedBy    string `json:"approvedBy"`
	Actor         string `json:"-"`
}

// ProductRegistrationRequest opens the buyer's storage window
type ProductRegistrationRequest struct {
	BatchCode   string `json:"batchCode" binding:"required"`
	WarehouseID string `json:"warehouseId"`
	Actor       string `json:"-"`
}

// MarketplaceListingRequest offers a registered batch to exporters. Either
// the registration id or the batch code identifies the batch.
type MarketplaceListingRequest struct {
	RegistrationID string          `json:"registrationId"`
	BatchCode      string          `json:"batchCode"`
	PricePerKg     decimal.Decimal `json:"pricePerKg" binding:"decimal_gt0"`
	Quantity       decimal.Decimal `json:"quantity"`
	Currency       string          `json:"currency"`
	Actor          string          `json:"-"`
}

// ExportProposalRequest accepts an exporter offer on the open listing
type ExportProposalRequest struct {
	ExporterID   string          `json:"exporterId" binding:"required"`
	OfferedPrice decimal.Decimal `json:"offeredPrice" binding:"decimal_gt0"`
	Quantity     decimal.Decimal `json:"quantity"`
	Actor        string          `json:"-"`
}

// DeliveryAuthorizationRequest releases the stock to the exporter
type DeliveryAuthorizationRequest struct {
	BatchCode    string `json:"batchCode" binding:"required"`
	AuthorizedBy string `json:"authorizedBy" binding:"required"`
	Actor        string `json:"-"`
}

// DeliveryInitiationRequest records dispatch
type DeliveryInitiationRequest struct {
	BatchCode     string `json:"batchCode" binding:"required"`
	VehicleNumber string `json:"vehicleNumber" binding:"required"`
	DriverName    string `json:"driverName"`
	Actor         string `json:"-"`
}

// ReceiptConfirmationRequest is the exporter's receipt of the shipment
type ReceiptConfirmationRequest struct {
	BatchCode      string          `json:"batchCode" binding:"required"`
	ReceivedWeight decimal.Decimal `json:"receivedWeight" binding:"decimal_gt0"`
	ReceivedBy     string          `json:"receivedBy"`
	Actor          string          `json:"-"`
}

// ExportPaymentRequest is the exporter's payment to the buyer
type ExportPaymentRequest struct {
	BatchCode        string          `json:"batchCode" binding:"required"`
	Amount           decimal.Decimal `json:"amount" binding:"decimal_gt0"`
	Currency         string          `json:"currency"`
	PaymentMethod    string          `json:"paymentMethod"`
	PaymentReference string          `json:"paymentReference"`
	Actor            string          `json:"-"`
}

// PortInspectionRequest assigns a port inspector
type PortInspectionRequest struct {
	BatchCode    string     `json:"batchCode" binding:"required"`
	InspectorID  string     `json:"inspectorId" binding:"required"`
	Port         string     `json:"port" binding:"required"`
	ScheduledFor *time.Time `json:"scheduledFor"`
	Actor        string     `json:"-"`
}

// InspectionReportRequest is the port inspector's result
type InspectionReportRequest struct {
	BatchCode string `json:"batchCode" binding:"required"`
	Result    string `json:"result" binding:"required,oneof=PASSED FAILED"`
	Findings  string `json:"findings"`
	Actor     string `json:"-"`
}

// FeeIntimationRequest assesses the regulatory fees. Omitted components
// fall back to the configured defaults.
type FeeIntimationRequest struct {
	BatchCode        string           `json:"batchCode" binding:"required"`
	ProcessingFee    *decimal.Decimal `json:"processingFee"`
	ExportFee        *decimal.Decimal `json:"exportFee"`
	InspectionFee    *decimal.Decimal `json:"inspectionFee"`
	DocumentationFee *decimal.Decimal `json:"documentationFee"`
	Currency         string           `json:"currency"`
	Actor            string           `json:"-"`
}

// FeePaymentRequest settles the assessment
type FeePaymentRequest struct {
	BatchCode        string          `json:"batchCode" binding:"required"`
	PaymentReference string          `json:"paymentReference" binding:"required"`
	Amount           decimal.Decimal `json:"amount"`
	Actor            string          `json:"-"`
}

// DocumentReleaseRequest issues the export documents
type DocumentReleaseRequest struct {
	BatchCode  string `json:"batchCode" binding:"required"`
	ReleasedBy string `json:"releasedBy" binding:"required"`
	Actor      string `json:"-"`
}

// WithdrawRequest pulls a batch out of the chain
type WithdrawRequest struct {
	Reason string `json:"reason" binding:"required"`
	Actor  string `json:"actor"`
}

// ListQuery is the paging shared by the registry read models
type ListQuery struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

func (q ListQuery) filter(orderBy string) shared.Filter {
	f := shared.DefaultFilter()
	f.Page, f.PageSize = q.Page, q.PageSize
	f.OrderBy = orderBy
	return f.Normalize()
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// parseDate accepts RFC 3339 timestamps and plain calendar dates
func parseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, shared.NewValidationError("%s must be a date (YYYY-MM-DD) or RFC 3339 timestamp", field)
}

func actorOr(actor, fallback string) string {
	if actor != "" {
		return actor
	}
	return fallback
}

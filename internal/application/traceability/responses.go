package traceability

import (
	"time"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/traceability"
	"github.com/shopspring/decimal"
)

// StepResponse is returned by every lifecycle operation: the batch's stage
// after the step plus the record the step wrote
type StepResponse[T any] struct {
	BatchCode      string `json:"batchCode"`
	LifecycleStage string `json:"lifecycleStage"`
	Version        int    `json:"version"`
	Record         T      `json:"record"`
}

func newStep[T any](b *traceability.Batch, record T) *StepResponse[T] {
	return &StepResponse[T]{
		BatchCode:      b.BatchCode,
		LifecycleStage: string(b.Stage),
		Version:        b.Version,
		Record:         record,
	}
}

// BatchResponse is the API view of a batch without its child records
type BatchResponse struct {
	BatchCode        string          `json:"batchCode"`
	ScheduleID       string          `json:"scheduleId,omitempty"`
	FarmerID         string          `json:"farmerId"`
	PlotID           string          `json:"plotId,omitempty"`
	CropType         string          `json:"cropType"`
	CropVariety      string          `json:"cropVariety,omitempty"`
	ActualYield      decimal.Decimal `json:"actualYield"`
	QualityGrade     string          `json:"qualityGrade"`
	HarvestDate      time.Time       `json:"harvestDate"`
	GPSCoordinates   string          `json:"gpsCoordinates,omitempty"`
	StorageLocation  string          `json:"storageLocation,omitempty"`
	ComplianceStatus string          `json:"complianceStatus"`
	LifecycleStage   string          `json:"lifecycleStage"`
	BuyerID          string          `json:"buyerId,omitempty"`
	TransactionCode  string          `json:"transactionCode,omitempty"`
	ExporterID       string          `json:"exporterId,omitempty"`
	WithdrawnReason  string          `json:"withdrawnReason,omitempty"`
	Version          int             `json:"version"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// ToBatchResponse converts a batch to its API view
func ToBatchResponse(b *traceability.Batch) BatchResponse {
	return BatchResponse{
		BatchCode:        b.BatchCode,
		ScheduleID:       b.ScheduleCode,
		FarmerID:         b.FarmerID,
		PlotID:           b.PlotID,
		CropType:         b.CropType,
		CropVariety:      b.CropVariety,
		ActualYield:      b.ActualYield,
		QualityGrade:     b.QualityGrade,
		HarvestDate:      b.HarvestDate,
		GPSCoordinates:   b.GPSCoordinates,
		StorageLocation:  b.StorageLocation,
		ComplianceStatus: string(b.ComplianceStatus),
		LifecycleStage:   string(b.Stage),
		BuyerID:          b.BuyerID,
		TransactionCode:  b.TransactionCode,
		ExporterID:       b.ExporterID,
		WithdrawnReason:  b.WithdrawnReason,
		Version:          b.Version,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

// ScheduleSummary is the schedule state returned with a harvest
type ScheduleSummary struct {
	ScheduleID   string `json:"scheduleId"`
	Status       string `json:"status"`
	MarketStatus string `json:"marketStatus"`
	BatchCode    string `json:"batchCode"`
	Version      int    `json:"version"`
}

// HarvestResponse is the minted batch plus the schedule it closed
type HarvestResponse struct {
	Batch                BatchResponse   `json:"batch"`
	Schedule             ScheduleSummary `json:"schedule"`
	HarvestAlertEligible bool            `json:"harvestAlertEligible"`
}

// LotResponse is the outcome of a lot proposal that won
type LotResponse struct {
	traceability.LotOutcome
	BatchCode      string `json:"batchCode"`
	BuyerID        string `json:"buyerId"`
	LifecycleStage string `json:"lifecycleStage"`
}

// PaymentResponse is the API view of a payment record
type PaymentResponse struct {
	PaymentCode        string                          `json:"paymentCode"`
	Kind               string                          `json:"kind"`
	TransactionCode    string                          `json:"transactionCode"`
	PayerID            string                          `json:"payerId,omitempty"`
	Amount             decimal.Decimal                 `json:"amount"`
	Currency           string                          `json:"currency"`
	PaymentMethod      string                          `json:"paymentMethod,omitempty"`
	PaymentReference   string                          `json:"paymentReference,omitempty"`
	FarmerConfirmation traceability.FarmerConfirmation `json:"farmerConfirmation"`
	Status             string                          `json:"status"`
	ConfirmedAt        time.Time                       `json:"confirmedAt"`
}

func toPaymentResponse(p *traceability.PaymentRecord) *PaymentResponse {
	if p == nil {
		return nil
	}
	return &PaymentResponse{
		PaymentCode:        p.PaymentCode,
		Kind:               string(p.Kind),
		TransactionCode:    p.TransactionCode,
		PayerID:            p.PayerID,
		Amount:             p.Amount,
		Currency:           p.Currency,
		PaymentMethod:      p.Method,
		PaymentReference:   p.Reference,
		FarmerConfirmation: p.FarmerConfirmation,
		Status:             p.Status,
		ConfirmedAt:        p.ConfirmedAt,
	}
}

// DeliveryResponse is the API view of the warehouse intake
type DeliveryResponse struct {
	TransactionCode  string          `json:"transactionCode"`
	WarehouseID      string          `json:"warehouseId"`
	DeclaredWeight   decimal.Decimal `json:"declaredWeight"`
	ActualWeight     decimal.Decimal `json:"actualWeight"`
	Variance         decimal.Decimal `json:"variance"`
	AcceptanceStatus string          `json:"acceptanceStatus"`
	QualityGrade     string          `json:"qualityGrade"`
	ApprovalCode     string          `json:"approvalCode,omitempty"`
	InspectedBy      string          `json:"inspectedBy,omitempty"`
	DeliveredAt      time.Time       `json:"deliveredAt"`
}

func toDeliveryResponse(d *traceability.WarehouseDeliveryRecord) *DeliveryResponse {
	if d == nil {
		return nil
	}
	return &DeliveryResponse{
		TransactionCode:  d.TransactionCode,
		WarehouseID:      d.WarehouseID,
		DeclaredWeight:   d.DeclaredWeight,
		ActualWeight:     d.ActualWeight,
		Variance:         d.Variance,
		AcceptanceStatus: string(d.AcceptanceStatus),
		QualityGrade:     d.QualityGrade,
		ApprovalCode:     d.ApprovalCode,
		InspectedBy:      d.InspectedBy,
		DeliveredAt:      d.DeliveredAt,
	}
}

// PackagingResponse is the QR batch approval
type PackagingResponse struct {
	ApprovalCode  string    `json:"approvalCode"`
	QRCode        string    `json:"qrCode"`
	PackageCount  int       `json:"packageCount"`
	PackagingType string    `json:"packagingType"`
	ApprovedBy    string    `json:"approvedBy,omitempty"`
	ApprovedAt    time.Time `json:"approvedAt"`
}

func toPackagingResponse(p *traceability.PackagingApproval) *PackagingResponse {
	if p == nil {
		return nil
	}
	return &PackagingResponse{
		ApprovalCode:  p.ApprovalCode,
		QRCode:        p.QRCode,
		PackageCount:  p.PackageCount,
		PackagingType: p.PackagingType,
		ApprovedBy:    p.ApprovedBy,
		ApprovedAt:    p.ApprovedAt,
	}
}

// RegistrationResponse is a warehouse registration with its derived window
type RegistrationResponse struct {
	RegistrationID    string    `json:"registrationId"`
	WarehouseID       string    `json:"warehouseId"`
	BuyerID           string    `json:"buyerId"`
	StorageStartDate  time.Time `json:"storageStartDate"`
	StorageExpiryDate time.Time `json:"storageExpiryDate"`
	StorageStatus     string    `json:"storageStatus"`
	DaysRemaining     int       `json:"daysRemaining"`
}

func toRegistrationResponse(r *traceability.WarehouseRegistration, now time.Time) *RegistrationResponse {
	if r == nil {
		return nil
	}
	return &RegistrationResponse{
		RegistrationID:    r.RegistrationCode,
		WarehouseID:       r.WarehouseID,
		BuyerID:           r.BuyerID,
		StorageStartDate:  r.StorageStartDate,
		StorageExpiryDate: r.StorageExpiryDate,
		StorageStatus:     string(r.StatusAt(now)),
		DaysRemaining:     r.DaysRemaining(now),
	}
}

// ListingResponse is a marketplace listing with its derived window
type ListingResponse struct {
	ListingID      string          `json:"listingId"`
	RegistrationID string          `json:"registrationId"`
	BatchCode      string          `json:"batchCode"`
	BuyerID        string          `json:"buyerId"`
	CropType       string          `json:"cropType"`
	QualityGrade   string          `json:"qualityGrade"`
	PricePerKg     decimal.Decimal `json:"pricePerKg"`
	Quantity       decimal.Decimal `json:"quantity"`
	Currency       string          `json:"currency"`
	ListedAt       time.Time       `json:"listedAt"`
	ExpiresAt      time.Time       `json:"expiresAt"`
	ListingStatus  string          `json:"listingStatus"`
	DaysRemaining  int             `json:"daysRemaining"`
}

func toListingResponse(l *traceability.MarketplaceListing, now time.Time) *ListingResponse {
	if l == nil {
		return nil
	}
	return &ListingResponse{
		ListingID:      l.ListingCode,
		RegistrationID: l.RegistrationCode,
		BatchCode:      l.BatchCode,
		BuyerID:        l.BuyerID,
		CropType:       l.CropType,
		QualityGrade:   l.QualityGrade,
		PricePerKg:     l.PricePerKg,
		Quantity:       l.Quantity,
		Currency:       l.Currency,
		ListedAt:       l.ListedAt,
		ExpiresAt:      l.ExpiresAt,
		ListingStatus:  string(l.StatusAt(now)),
		DaysRemaining:  l.DaysRemaining(now),
	}
}

// ProposalResponse is the accepted export proposal
type ProposalResponse struct {
	ProposalID   string          `json:"proposalId"`
	ListingID    string          `json:"listingId"`
	ExporterID   string          `json:"exporterId"`
	OfferedPrice decimal.Decimal `json:"offeredPrice"`
	Quantity     decimal.Decimal `json:"quantity"`
	Status       string          `json:"status"`
	AcceptedAt   time.Time       `json:"acceptedAt"`
}

func toProposalResponse(p *traceability.ExportProposal) *ProposalResponse {
	if p == nil {
		return nil
	}
	return &ProposalResponse{
		ProposalID:   p.ProposalCode,
		ListingID:    p.ListingCode,
		ExporterID:   p.ExporterID,
		OfferedPrice: p.OfferedPrice,
		Quantity:     p.Quantity,
		Status:       p.Status,
		AcceptedAt:   p.AcceptedAt,
	}
}

// ShipmentResponse tracks the warehouse to exporter handover
type ShipmentResponse struct {
	AuthorizationCode string           `json:"authorizationCode"`
	AuthorizedBy      string           `json:"authorizedBy"`
	AuthorizedAt      time.Time        `json:"authorizedAt"`
	VehicleNumber     string           `json:"vehicleNumber,omitempty"`
	DriverName        string           `json:"driverName,omitempty"`
	InitiatedAt       *time.Time       `json:"initiatedAt,omitempty"`
	ReceivedWeight    *decimal.Decimal `json:"receivedWeight,omitempty"`
	ReceivedBy        string           `json:"receivedBy,omitempty"`
	ReceivedAt        *time.Time       `json:"receivedAt,omitempty"`
}

func toShipmentResponse(s *traceability.Shipment) *ShipmentResponse {
	if s == nil {
		return nil
	}
	resp := &ShipmentResponse{
		AuthorizationCode: s.AuthorizationCode,
		AuthorizedBy:      s.AuthorizedBy,
		AuthorizedAt:      s.AuthorizedAt,
		VehicleNumber:     s.VehicleNumber,
		DriverName:        s.DriverName,
		InitiatedAt:       s.InitiatedAt,
		ReceivedBy:        s.ReceivedBy,
		ReceivedAt:        s.ReceivedAt,
	}
	if s.ReceivedAt != nil {
		w := s.ReceivedWeight
		resp.ReceivedWeight = &w
	}
	return resp
}

// InspectionResponse is the port inspection and its report
type InspectionResponse struct {
	InspectionID string     `json:"inspectionId"`
	InspectorID  string     `json:"inspectorId"`
	Port         string     `json:"port"`
	ScheduledFor *time.Time `json:"scheduledFor,omitempty"`
	AssignedAt   time.Time  `json:"assignedAt"`
	Result       string     `json:"result,omitempty"`
	Findings     string     `json:"findings,omitempty"`
	SubmittedAt  *time.Time `json:"submittedAt,omitempty"`
}

func toInspectionResponse(p *traceability.PortInspection) *InspectionResponse {
	if p == nil {
		return nil
	}
	return &InspectionResponse{
		InspectionID: p.InspectionCode,
		InspectorID:  p.InspectorID,
		Port:         p.Port,
		ScheduledFor: p.ScheduledFor,
		AssignedAt:   p.AssignedAt,
		Result:       string(p.Result),
		Findings:     p.Findings,
		SubmittedAt:  p.SubmittedAt,
	}
}

// FeeResponse is the fee assessment and its settlement
type FeeResponse struct {
	AssessmentID     string          `json:"assessmentId"`
	ExporterID       string          `json:"exporterId,omitempty"`
	ProcessingFee    decimal.Decimal `json:"processingFee"`
	ExportFee        decimal.Decimal `json:"exportFee"`
	InspectionFee    decimal.Decimal `json:"inspectionFee"`
	DocumentationFee decimal.Decimal `json:"documentationFee"`
	TotalFees        decimal.Decimal `json:"totalFees"`
	Currency         string          `json:"currency"`
	IntimatedAt      time.Time       `json:"intimatedAt"`
	PaidAt           *time.Time      `json:"paidAt,omitempty"`
	PaymentReference string          `json:"paymentReference,omitempty"`
}

func toFeeResponse(f *traceability.FeeAssessment) *FeeResponse {
	if f == nil {
		return nil
	}
	return &FeeResponse{
		AssessmentID:     f.AssessmentCode,
		ExporterID:       f.ExporterID,
		ProcessingFee:    f.Components.ProcessingFee,
		ExportFee:        f.Components.ExportFee,
		InspectionFee:    f.Components.InspectionFee,
		DocumentationFee: f.Components.DocumentationFee,
		TotalFees:        f.TotalFees,
		Currency:         f.Currency,
		IntimatedAt:      f.IntimatedAt,
		PaidAt:           f.PaidAt,
		PaymentReference: f.PaymentReference,
	}
}

// ReleaseResponse lists the issued certificates
type ReleaseResponse struct {
	ReleaseID  string            `json:"releaseId"`
	Documents  map[string]string `json:"documents"`
	ReleasedBy string            `json:"releasedBy"`
	ReleasedAt time.Time         `json:"releasedAt"`
	ArchiveKey string            `json:"archiveKey,omitempty"`
}

func toReleaseResponse(r *traceability.DocumentRelease) *ReleaseResponse {
	if r == nil {
		return nil
	}
	return &ReleaseResponse{
		ReleaseID:  r.ReleaseCode,
		Documents:  r.Documents,
		ReleasedBy: r.ReleasedBy,
		ReleasedAt: r.ReleasedAt,
		ArchiveKey: r.ArchiveKey,
	}
}

// TransitionResponse is one row of stage history
type TransitionResponse struct {
	From  string    `json:"from"`
	To    string    `json:"to"`
	Actor string    `json:"actor,omitempty"`
	Note  string    `json:"note,omitempty"`
	At    time.Time `json:"at"`
}

// TraceResponse is the end-to-end view of a batch
type TraceResponse struct {
	BatchResponse
	Payment       *PaymentResponse      `json:"payment,omitempty"`
	Delivery      *DeliveryResponse     `json:"delivery,omitempty"`
	Packaging     *PackagingResponse    `json:"packaging,omitempty"`
	Registration  *RegistrationResponse `json:"registration,omitempty"`
	Listing       *ListingResponse      `json:"listing,omitempty"`
	Proposal      *ProposalResponse     `json:"proposal,omitempty"`
	Shipment      *ShipmentResponse     `json:"shipment,omitempty"`
	ExportPayment *PaymentResponse      `json:"exportPayment,omitempty"`
	Inspection    *InspectionResponse   `json:"inspection,omitempty"`
	Fees          *FeeResponse          `json:"fees,omitempty"`
	Release       *ReleaseResponse      `json:"release,omitempty"`
	History       []TransitionResponse  `json:"history"`
}

// ToTraceResponse renders b with every record it owns
func ToTraceResponse(b *traceability.Batch, now time.Time) TraceResponse {
	history := make([]TransitionResponse, len(b.History))
	for i, h := range b.History {
		history[i] = TransitionResponse{From: string(h.From), To: string(h.To), Actor: h.Actor, Note: h.Note, At: h.At}
	}
	return TraceResponse{
		BatchResponse: ToBatchResponse(b),
		Payment:       toPaymentResponse(b.Payment),
		Delivery:      toDeliveryResponse(b.Delivery),
		Packaging:     toPackagingResponse(b.Packaging),
		Registration:  toRegistrationResponse(b.Registration, now),
		Listing:       toListingResponse(b.Listing, now),
		Proposal:      toProposalResponse(b.Proposal),
		Shipment:      toShipmentResponse(b.Shipment),
		ExportPayment: toPaymentResponse(b.ExportPayment),
		Inspection:    toInspectionResponse(b.Inspection),
		Fees:          toFeeResponse(b.Fees),
		Release:       toReleaseResponse(b.Release),
		History:       history,
	}
}

// WarehouseProductResponse is a stored batch as its buyer sees it
type WarehouseProductResponse struct {
	RegistrationResponse
	BatchCode      string          `json:"batchCode"`
	CropType       string          `json:"cropType"`
	QualityGrade   string          `json:"qualityGrade"`
	Quantity       decimal.Decimal `json:"quantity"`
	LifecycleStage string          `json:"lifecycleStage"`
}

package traceability

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/compliance"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StageTransition is one row of a batch's audit history
type StageTransition struct {
	ID        uuid.UUID
	BatchCode string
	From      Stage
	To        Stage
	Actor     string
	Note      string
	At        time.Time
}

// Batch is a harvested, uniquely coded unit of commodity tracked end to end.
// It owns every downstream record keyed by its batch code.
type Batch struct {
	shared.BaseAggregateRoot
	BatchCode        string
	ScheduleCode     string
	FarmerID         string
	PlotID           string
	CropType         string
	CropVariety      string
	ActualYield      decimal.Decimal
	QualityGrade     string
	HarvestDate      time.Time
	GPSCoordinates   string
	StorageLocation  string
	ComplianceStatus compliance.EUDRStatus
	Stage            Stage
	BuyerID          string
	TransactionCode  string
	ExporterID       string
	WithdrawnReason  string

	Payment       *PaymentRecord
	Delivery      *WarehouseDeliveryRecord
	Packaging     *PackagingApproval
	Registration  *WarehouseRegistration
	Listing       *MarketplaceListing
	Proposal      *ExportProposal
	Shipment      *Shipment
	ExportPayment *PaymentRecord
	Inspection    *PortInspection
	Fees          *FeeAssessment
	Release       *DocumentRelease
	History       []StageTransition
}

// HarvestInput is the harvest recorded against a ready schedule
type HarvestInput struct {
	ScheduleCode     string
	FarmerID         string
	PlotID           string
	CropType         string
	CropVariety      string
	ActualYield      decimal.Decimal
	QualityGrade     string
	HarvestDate      time.Time
	GPSCoordinates   string
	StorageLocation  string
	ComplianceStatus compliance.EUDRStatus
	Actor            string
}

// NewHarvestedBatch mints the batch code and creates the batch at harvested
func NewHarvestedBatch(in HarvestInput, now time.Time) (*Batch, error) {
	switch {
	case in.FarmerID == "":
		return nil, shared.NewValidationError("farmerId is required")
	case strings.TrimSpace(in.CropType) == "":
		return nil, shared.NewValidationError("cropType is required")
	case !in.ActualYield.IsPositive():
		return nil, shared.NewValidationError("actualYield must be greater than zero")
	case strings.TrimSpace(in.QualityGrade) == "":
		return nil, shared.NewValidationError("qualityGrade is required")
	case in.HarvestDate.IsZero():
		return nil, shared.NewValidationError("harvestDate is required")
	}
	status := in.ComplianceStatus
	if status == "" {
		status = compliance.EUDRPending
	}
	if !status.IsValid() {
		return nil, shared.NewValidationError("complianceStatus %q is not recognised", status)
	}

	b := &Batch{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		BatchCode:         MintBatchCode(in.CropType, now, in.FarmerID),
		ScheduleCode:      in.ScheduleCode,
		FarmerID:          in.FarmerID,
		PlotID:            in.PlotID,
		CropType:          in.CropType,
		CropVariety:       in.CropVariety,
		ActualYield:       in.ActualYield,
		QualityGrade:      in.QualityGrade,
		HarvestDate:       in.HarvestDate,
		GPSCoordinates:    in.GPSCoordinates,
		StorageLocation:   in.StorageLocation,
		ComplianceStatus:  status,
		Stage:             StageReadyForHarvest,
	}
	if err := b.advance(StageHarvested, in.Actor, "batch minted", now); err != nil {
		return nil, err
	}
	return b, nil
}

// advance is the single place a batch changes stage
func (b *Batch) advance(to Stage, actor, note string, now time.Time) error {
	if !b.Stage.CanTransitionTo(to) {
		return stageError("move to "+string(to), b.BatchCode, b.Stage, to)
	}
	from := b.Stage
	b.Stage = to
	b.History = append(b.History, StageTransition{
		ID:        uuid.New(),
		BatchCode: b.BatchCode,
		From:      from,
		To:        to,
		Actor:     actor,
		Note:      note,
		At:        now,
	})
	b.Touch(now)
	b.AddDomainEvent(NewStageChangedEvent(b, from, to, actor, now))
	return nil
}

func (b *Batch) require(op string, stage Stage) error {
	if b.Stage != stage {
		return stageError(op, b.BatchCode, b.Stage, stage)
	}
	return nil
}

// AcceptLot binds the ledger winner to the batch
func (b *Batch) AcceptLot(tx *LotTransaction, actor string, now time.Time) error {
	if err := b.require("accept lot", StageHarvested); err != nil {
		return err
	}
	if tx == nil || tx.BatchCode != b.BatchCode {
		return shared.NewPreconditionError("lot transaction does not belong to batch %s", b.BatchCode)
	}
	b.BuyerID = tx.BuyerID
	b.TransactionCode = tx.TransactionCode
	return b.advance(StageLotAccepted, actor, tx.TransactionCode, now)
}

// ConfirmPayment records the buyer's payment to the farmer
func (b *Batch) ConfirmPayment(in PaymentInput, actor string, now time.Time) (*PaymentRecord, error) {
	if err := b.require("confirm payment", StageLotAccepted); err != nil {
		return nil, err
	}
	if in.TransactionCode != "" && in.TransactionCode != b.TransactionCode {
		return nil, shared.NewValidationError("transactionCode %s does not match batch %s", in.TransactionCode, b.BatchCode)
	}
	in.TransactionCode = b.TransactionCode
	rec, err := newPaymentRecord(PaymentKindLot, b.BatchCode, b.BuyerID, in, now)
	if err != nil {
		return nil, err
	}
	b.Payment = rec
	return rec, b.advance(StagePaymentConfirmed, actor, rec.PaymentCode, now)
}

// RegisterDelivery records the warehouse intake inspection
func (b *Batch) RegisterDelivery(in DeliveryInput, actor string, now time.Time) (*WarehouseDeliveryRecord, error) {
	if err := b.require("register warehouse delivery", StagePaymentConfirmed); err != nil {
		return nil, err
	}
	if in.TransactionCode != "" && in.TransactionCode != b.TransactionCode {
		return nil, shared.NewValidationError("transactionCode %s does not match batch %s", in.TransactionCode, b.BatchCode)
	}
	in.TransactionCode = b.TransactionCode
	if in.QualityGrade == "" {
		in.QualityGrade = b.QualityGrade
	}
	rec, err := newDeliveryRecord(b.BatchCode, in, now)
	if err != nil {
		return nil, err
	}
	b.Delivery = rec
	return rec, b.advance(StageWarehouseDelivered, actor, string(rec.AcceptanceStatus), now)
}

// ApprovePackaging issues the QR batch approval. It records the approval
// without changing stage.
func (b *Batch) ApprovePackaging(packageCount int, packagingType, approvedBy string, now time.Time) (*PackagingApproval, error) {
	if err := b.require("approve QR batch", StageWarehouseDelivered); err != nil {
		return nil, err
	}
	if packageCount <= 0 {
		return nil, shared.NewValidationError("packageCount must be greater than zero")
	}
	if b.Delivery == nil || b.Delivery.AcceptanceStatus != AcceptanceAccepted {
		return nil, shared.NewPreconditionError("delivery for batch %s is under variance review", b.BatchCode)
	}
	if b.Packaging != nil {
		return nil, shared.NewPreconditionError("batch %s packaging already approved as %s", b.BatchCode, b.Packaging.ApprovalCode)
	}
	if packagingType == "" {
		packagingType = "jute_bag"
	}
	b.Packaging = &PackagingApproval{
		ID:            uuid.New(),
		ApprovalCode:  b.Delivery.ApprovalCode,
		BatchCode:     b.BatchCode,
		QRCode:        "AGT-QR-" + b.BatchCode,
		PackageCount:  packageCount,
		PackagingType: packagingType,
		ApprovedBy:    approvedBy,
		ApprovedAt:    now,
	}
	b.Touch(now)
	return b.Packaging, nil
}

// RegisterProduct opens the fixed storage window for the buyer
func (b *Batch) RegisterProduct(warehouseID, actor string, now time.Time) (*WarehouseRegistration, error) {
	if err := b.require("register warehouse product", StageWarehouseDelivered); err != nil {
		return nil, err
	}
	if warehouseID == "" && b.Delivery != nil {
		warehouseID = b.Delivery.WarehouseID
	}
	if warehouseID == "" {
		return nil, shared.NewValidationError("warehouseId is required")
	}
	reg := newWarehouseRegistration(b.BatchCode, warehouseID, b.BuyerID, now)
	b.Registration = reg
	return reg, b.advance(StageWarehouseRegistered, actor, reg.RegistrationCode, now)
}

// CreateListing offers the stored batch to exporters. The listing must
// close no later than the storage window.
func (b *Batch) CreateListing(in ListingInput, actor string, now time.Time) (*MarketplaceListing, error) {
	if err := b.require("create marketplace listing", StageWarehouseRegistered); err != nil {
		return nil, err
	}
	if !in.PricePerKg.IsPositive() {
		return nil, shared.NewValidationError("pricePerKg must be greater than zero")
	}
	available := b.ActualYield
	if b.Delivery != nil {
		available = b.Delivery.ActualWeight
	}
	qty := in.Quantity
	if qty.IsZero() {
		qty = available
	}
	if qty.IsNegative() || qty.GreaterThan(available) {
		return nil, shared.NewValidationError("quantity must be between 0 and %s", available)
	}
	expiresAt := now.Add(ListingWindow)
	if b.Registration == nil || expiresAt.After(b.Registration.StorageExpiryDate) {
		return nil, shared.NewPreconditionError("listing for batch %s would outlive its storage window", b.BatchCode)
	}
	currency := in.Currency
	if currency == "" {
		currency = "USD"
	}

	listing := &MarketplaceListing{
		ID:               uuid.New(),
		ListingCode:      newCode("MKT", now),
		RegistrationCode: b.Registration.RegistrationCode,
		BatchCode:        b.BatchCode,
		BuyerID:          b.BuyerID,
		CropType:         b.CropType,
		QualityGrade:     b.QualityGrade,
		PricePerKg:       in.PricePerKg,
		Quantity:         qty,
		Currency:         currency,
		ListedAt:         now,
		ExpiresAt:        expiresAt,
		Status:           ListingStatusActive,
	}
	b.Listing = listing
	return listing, b.advance(StageMarketplaceListed, actor, listing.ListingCode, now)
}

// AcceptExportProposal accepts an exporter's offer on the open listing
func (b *Batch) AcceptExportProposal(in ProposalInput, actor string, now time.Time) (*ExportProposal, error) {
	if err := b.require("accept export proposal", StageMarketplaceListed); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.ExporterID) == "" {
		return nil, shared.NewValidationError("exporterId is required")
	}
	if !in.OfferedPrice.IsPositive() {
		return nil, shared.NewValidationError("offeredPrice must be greater than zero")
	}
	if b.Listing.StatusAt(now) == ListingStatusExpired {
		return nil, shared.NewPreconditionError("listing %s expired at %s", b.Listing.ListingCode, b.Listing.ExpiresAt.Format(time.RFC3339))
	}
	qty := in.Quantity
	if qty.IsZero() {
		qty = b.Listing.Quantity
	}
	if qty.IsNegative() || qty.GreaterThan(b.Listing.Quantity) {
		return nil, shared.NewValidationError("quantity must be between 0 and %s", b.Listing.Quantity)
	}

	p := &ExportProposal{
		ID:           uuid.New(),
		ProposalCode: newCode("EXP", now),
		ListingCode:  b.Listing.ListingCode,
		BatchCode:    b.BatchCode,
		ExporterID:   strings.TrimSpace(in.ExporterID),
		OfferedPrice: in.OfferedPrice,
		Quantity:     qty,
		Status:       ProposalStatusAccepted,
		AcceptedAt:   now,
	}
	b.Proposal = p
	b.ExporterID = p.ExporterID
	return p, b.advance(StageExportProposalAccepted, actor, p.ProposalCode, now)
}

// AuthorizeDelivery is the warehouse's release authorisation to the exporter
func (b *Batch) AuthorizeDelivery(authorizedBy, actor string, now time.Time) (*Shipment, error) {
	if err := b.require("authorize delivery", StageExportProposalAccepted); err != nil {
		return nil, err
	}
	if strings.TrimSpace(authorizedBy) == "" {
		return nil, shared.NewValidationError("authorizedBy is required")
	}
	b.Shipment = &Shipment{
		ID:                uuid.New(),
		BatchCode:         b.BatchCode,
		AuthorizationCode: newCode("DLA", now),
		AuthorizedBy:      authorizedBy,
		AuthorizedAt:      now,
	}
	return b.Shipment, b.advance(StageDeliveryAuthorized, actor, b.Shipment.AuthorizationCode, now)
}

// InitiateDelivery records dispatch of the authorised shipment
func (b *Batch) InitiateDelivery(vehicleNumber, driverName, actor string, now time.Time) (*Shipment, error) {
	if err := b.require("initiate delivery", StageDeliveryAuthorized); err != nil {
		return nil, err
	}
	if strings.TrimSpace(vehicleNumber) == "" {
		return nil, shared.NewValidationError("vehicleNumber is required")
	}
	at := now
	b.Shipment.VehicleNumber = vehicleNumber
	b.Shipment.DriverName = driverName
	b.Shipment.InitiatedAt = &at
	return b.Shipment, b.advance(StageDeliveryInitiated, actor, vehicleNumber, now)
}

// CompleteReceipt records the exporter's receipt of the shipment
func (b *Batch) CompleteReceipt(receivedWeight decimal.Decimal, receivedBy, actor string, now time.Time) (*Shipment, error) {
	if err := b.require("complete receipt", StageDeliveryInitiated); err != nil {
		return nil, err
	}
	if !receivedWeight.IsPositive() {
		return nil, shared.NewValidationError("receivedWeight must be greater than zero")
	}
	if receivedBy == "" {
		receivedBy = b.ExporterID
	}
	at := now
	b.Shipment.ReceivedWeight = receivedWeight
	b.Shipment.ReceivedBy = receivedBy
	b.Shipment.ReceivedAt = &at
	return b.Shipment, b.advance(StageReceiptCompleted, actor, receivedWeight.String(), now)
}

// ConfirmExportPayment records the exporter's payment to the buyer
func (b *Batch) ConfirmExportPayment(in PaymentInput, actor string, now time.Time) (*PaymentRecord, error) {
	if err := b.require("confirm export payment", StageReceiptCompleted); err != nil {
		return nil, err
	}
	in.TransactionCode = b.Proposal.ProposalCode
	rec, err := newPaymentRecord(PaymentKindExport, b.BatchCode, b.ExporterID, in, now)
	if err != nil {
		return nil, err
	}
	b.ExportPayment = rec
	return rec, b.advance(StageExportPaymentConfirmed, actor, rec.PaymentCode, now)
}

// AssignPortInspection schedules the port inspector for the batch
func (b *Batch) AssignPortInspection(inspectorID, port string, scheduledFor *time.Time, actor string, now time.Time) (*PortInspection, error) {
	if err := b.require("assign port inspection", StageExportPaymentConfirmed); err != nil {
		return nil, err
	}
	if strings.TrimSpace(inspectorID) == "" {
		return nil, shared.NewValidationError("inspectorId is required")
	}
	if strings.TrimSpace(port) == "" {
		return nil, shared.NewValidationError("port is required")
	}
	b.Inspection = &PortInspection{
		ID:             uuid.New(),
		InspectionCode: newCode("PIN", now),
		BatchCode:      b.BatchCode,
		InspectorID:    inspectorID,
		Port:           port,
		ScheduledFor:   scheduledFor,
		AssignedAt:     now,
	}
	return b.Inspection, b.advance(StagePortInspectionAssigned, actor, b.Inspection.InspectionCode, now)
}

// SubmitInspectionReport records the port inspector's result
func (b *Batch) SubmitInspectionReport(result InspectionResult, findings, actor string, now time.Time) (*PortInspection, error) {
	if err := b.require("submit inspection report", StagePortInspectionAssigned); err != nil {
		return nil, err
	}
	if !result.IsValid() {
		return nil, shared.NewValidationError("result must be PASSED or FAILED")
	}
	at := now
	b.Inspection.Result = result
	b.Inspection.Findings = findings
	b.Inspection.SubmittedAt = &at
	return b.Inspection, b.advance(StageInspectionReportSubmitted, actor, string(result), now)
}

// IntimateFees assesses the four regulatory fees. A failed inspection blocks
// fee intimation; such batches can only be withdrawn.
func (b *Batch) IntimateFees(fees FeeComponents, currency, actor string, now time.Time) (*FeeAssessment, error) {
	if err := b.require("intimate fees", StageInspectionReportSubmitted); err != nil {
		return nil, err
	}
	if b.Inspection == nil || b.Inspection.Result != InspectionPassed {
		return nil, shared.NewPreconditionError("batch %s did not pass port inspection", b.BatchCode)
	}
	if err := fees.validate(); err != nil {
		return nil, err
	}
	if currency == "" {
		currency = "USD"
	}
	b.Fees = &FeeAssessment{
		ID:             uuid.New(),
		AssessmentCode: newCode("FEE", now),
		BatchCode:      b.BatchCode,
		ExporterID:     b.ExporterID,
		Components:     fees,
		TotalFees:      fees.Total(),
		Currency:       currency,
		IntimatedAt:    now,
	}
	return b.Fees, b.advance(StageFeeIntimated, actor, b.Fees.TotalFees.String(), now)
}

// PayFees settles the assessment. A non-zero amount must match totalFees.
func (b *Batch) PayFees(reference string, amount decimal.Decimal, actor string, now time.Time) (*FeeAssessment, error) {
	if err := b.require("pay fees", StageFeeIntimated); err != nil {
		return nil, err
	}
	if strings.TrimSpace(reference) == "" {
		return nil, shared.NewValidationError("paymentReference is required")
	}
	if !amount.IsZero() && !amount.Equal(b.Fees.TotalFees) {
		return nil, shared.NewValidationError("amount %s does not match totalFees %s", amount, b.Fees.TotalFees)
	}
	at := now
	b.Fees.PaidAt = &at
	b.Fees.PaymentReference = reference
	return b.Fees, b.advance(StageFeePaid, actor, reference, now)
}

// ReleaseDocuments issues the export documents and closes the lifecycle
func (b *Batch) ReleaseDocuments(releasedBy, actor string, now time.Time) (*DocumentRelease, error) {
	if err := b.require("release documents", StageFeePaid); err != nil {
		return nil, err
	}
	if strings.TrimSpace(releasedBy) == "" {
		return nil, shared.NewValidationError("releasedBy is required")
	}
	b.Release = newDocumentRelease(b.BatchCode, releasedBy, now)
	return b.Release, b.advance(StageDocumentsReleased, actor, b.Release.ReleaseCode, now)
}

// Withdraw pulls the batch out of the chain for good
func (b *Batch) Withdraw(reason, actor string, now time.Time) error {
	if strings.TrimSpace(reason) == "" {
		return shared.NewValidationError("reason is required")
	}
	if !b.Stage.CanTransitionTo(StageWithdrawn) {
		return shared.NewDomainError(shared.CodeInvalidStage,
			"cannot withdraw: batch "+b.BatchCode+" is "+string(b.Stage))
	}
	b.WithdrawnReason = reason
	return b.advance(StageWithdrawn, actor, reason, now)
}

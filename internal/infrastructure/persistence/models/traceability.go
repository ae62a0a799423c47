package models

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/compliance"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/traceability"
	"github.com/shopspring/decimal"
)

// LotTransactionModel is a lot ledger entry. The unique batch_code index is
// what makes lot acquisition first-come-first-serve.
type LotTransactionModel struct {
	ID              uuid.UUID              `gorm:"type:uuid;primary_key"`
	TransactionCode string                 `gorm:"type:varchar(50);not null;uniqueIndex"`
	BatchCode       string                 `gorm:"type:varchar(200);not null;uniqueIndex"`
	BuyerID         string                 `gorm:"type:varchar(100);not null;index"`
	Status          traceability.LotStatus `gorm:"type:varchar(20);not null"`
	OfferPrice      decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	AcceptedAt      time.Time              `gorm:"not null"`
}

// TableName returns the table name for GORM
func (LotTransactionModel) TableName() string {
	return "lot_transactions"
}

// ToDomain converts the persistence model to a domain LotTransaction
func (m *LotTransactionModel) ToDomain() *traceability.LotTransaction {
	return &traceability.LotTransaction{
		ID:              m.ID,
		TransactionCode: m.TransactionCode,
		BatchCode:       m.BatchCode,
		BuyerID:         m.BuyerID,
		Status:          m.Status,
		OfferPrice:      m.OfferPrice,
		AcceptedAt:      m.AcceptedAt,
	}
}

// LotTransactionModelFromDomain creates a new persistence model from a domain LotTransaction
func LotTransactionModelFromDomain(tx *traceability.LotTransaction) *LotTransactionModel {
	return &LotTransactionModel{
		ID:              tx.ID,
		TransactionCode: tx.TransactionCode,
		BatchCode:       tx.BatchCode,
		BuyerID:         tx.BuyerID,
		Status:          tx.Status,
		OfferPrice:      tx.OfferPrice,
		AcceptedAt:      tx.AcceptedAt,
	}
}

// BatchModel is the persistence model for the Batch aggregate root. Child
// records hang off batch_code.
type BatchModel struct {
	AggregateModel
	BatchCode        string                `gorm:"type:varchar(200);not null;uniqueIndex"`
	ScheduleCode     string                `gorm:"type:varchar(50);index"`
	FarmerID         string                `gorm:"type:varchar(100);not null;index"`
	PlotID           string                `gorm:"type:varchar(100)"`
	CropType         string                `gorm:"type:varchar(100);not null"`
	CropVariety      string                `gorm:"type:varchar(100)"`
	ActualYield      decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	QualityGrade     string                `gorm:"type:varchar(50);not null"`
	HarvestDate      time.Time             `gorm:"not null"`
	GPSCoordinates   string                `gorm:"type:varchar(200)"`
	StorageLocation  string                `gorm:"type:varchar(200)"`
	ComplianceStatus compliance.EUDRStatus `gorm:"type:varchar(30);not null"`
	Stage            traceability.Stage    `gorm:"type:varchar(40);not null;index"`
	BuyerID          string                `gorm:"type:varchar(100);index"`
	TransactionCode  string                `gorm:"type:varchar(50);index"`
	ExporterID       string                `gorm:"type:varchar(100);index"`
	WithdrawnReason  string                `gorm:"type:text"`

	Payments     []BatchPaymentModel         `gorm:"foreignKey:BatchCode;references:BatchCode"`
	Delivery     *WarehouseDeliveryModel     `gorm:"foreignKey:BatchCode;references:BatchCode"`
	Packaging    *PackagingApprovalModel     `gorm:"foreignKey:BatchCode;references:BatchCode"`
	Registration *WarehouseRegistrationModel `gorm:"foreignKey:BatchCode;references:BatchCode"`
	Listing      *MarketplaceListingModel    `gorm:"foreignKey:BatchCode;references:BatchCode"`
	Proposal     *ExportProposalModel        `gorm:"foreignKey:BatchCode;references:BatchCode"`
	Shipment     *ShipmentModel              `gorm:"foreignKey:BatchCode;references:BatchCode"`
	Inspection   *PortInspectionModel        `gorm:"foreignKey:BatchCode;references:BatchCode"`
	Fees         *FeeAssessmentModel         `gorm:"foreignKey:BatchCode;references:BatchCode"`
	Release      *DocumentReleaseModel       `gorm:"foreignKey:BatchCode;references:BatchCode"`
	History      []BatchStageTransitionModel `gorm:"foreignKey:BatchCode;references:BatchCode"`
}

// TableName returns the table name for GORM
func (BatchModel) TableName() string {
	return "batches"
}

// ToDomain converts the persistence model and its loaded children to a domain Batch
func (m *BatchModel) ToDomain() *traceability.Batch {
	b := &traceability.Batch{
		BaseAggregateRoot: m.ToAggregateRoot(),
		BatchCode:         m.BatchCode,
		ScheduleCode:      m.ScheduleCode,
		FarmerID:          m.FarmerID,
		PlotID:            m.PlotID,
		CropType:          m.CropType,
		CropVariety:       m.CropVariety,
		ActualYield:       m.ActualYield,
		QualityGrade:      m.QualityGrade,
		HarvestDate:       m.HarvestDate,
		GPSCoordinates:    m.GPSCoordinates,
		StorageLocation:   m.StorageLocation,
		ComplianceStatus:  m.ComplianceStatus,
		Stage:             m.Stage,
		BuyerID:           m.BuyerID,
		TransactionCode:   m.TransactionCode,
		ExporterID:        m.ExporterID,
		WithdrawnReason:   m.WithdrawnReason,
	}
	for i := range m.Payments {
		p := m.Payments[i].ToDomain()
		switch p.Kind {
		case traceability.PaymentKindLot:
			b.Payment = p
		case traceability.PaymentKindExport:
			b.ExportPayment = p
		}
	}
	if m.Delivery != nil {
		b.Delivery = m.Delivery.ToDomain()
	}
	if m.Packaging != nil {
		b.Packaging = m.Packaging.ToDomain()
	}
	if m.Registration != nil {
		b.Registration = m.Registration.ToDomain()
	}
	if m.Listing != nil {
		b.Listing = m.Listing.ToDomain()
	}
	if m.Proposal != nil {
		b.Proposal = m.Proposal.ToDomain()
	}
	if m.Shipment != nil {
		b.Shipment = m.Shipment.ToDomain()
	}
	if m.Inspection != nil {
		b.Inspection = m.Inspection.ToDomain()
	}
	if m.Fees != nil {
		b.Fees = m.Fees.ToDomain()
	}
	if m.Release != nil {
		b.Release = m.Release.ToDomain()
	}
	history := make([]traceability.StageTransition, len(m.History))
	for i := range m.History {
		history[i] = m.History[i].ToDomain()
	}
	sort.SliceStable(history, func(i, j int) bool { return history[i].At.Before(history[j].At) })
	b.History = history
	return b
}

// FromDomain populates the persistence model and its children from a domain Batch
func (m *BatchModel) FromDomain(b *traceability.Batch) {
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	m.BatchCode = b.BatchCode
	m.ScheduleCode = b.ScheduleCode
	m.FarmerID = b.FarmerID
	m.PlotID = b.PlotID
	m.CropType = b.CropType
	m.CropVariety = b.CropVariety
	m.ActualYield = b.ActualYield
	m.QualityGrade = b.QualityGrade
	m.HarvestDate = b.HarvestDate
	m.GPSCoordinates = b.GPSCoordinates
	m.StorageLocation = b.StorageLocation
	m.ComplianceStatus = b.ComplianceStatus
	m.Stage = b.Stage
	m.BuyerID = b.BuyerID
	m.TransactionCode = b.TransactionCode
	m.ExporterID = b.ExporterID
	m.WithdrawnReason = b.WithdrawnReason

	m.Payments = nil
	for _, p := range []*traceability.PaymentRecord{b.Payment, b.ExportPayment} {
		if p != nil {
			m.Payments = append(m.Payments, *BatchPaymentModelFromDomain(p))
		}
	}
	m.Delivery = nil
	if b.Delivery != nil {
		m.Delivery = WarehouseDeliveryModelFromDomain(b.Delivery)
	}
	m.Packaging = nil
	if b.Packaging != nil {
		m.Packaging = PackagingApprovalModelFromDomain(b.Packaging)
	}
	m.Registration = nil
	if b.Registration != nil {
		m.Registration = WarehouseRegistrationModelFromDomain(b.Registration)
	}
	m.Listing = nil
	if b.Listing != nil {
		m.Listing = MarketplaceListingModelFromDomain(b.Listing)
	}
	m.Proposal = nil
	if b.Proposal != nil {
		m.Proposal = ExportProposalModelFromDomain(b.Proposal)
	}
	m.Shipment = nil
	if b.Shipment != nil {
		m.Shipment = ShipmentModelFromDomain(b.Shipment)
	}
	m.Inspection = nil
	if b.Inspection != nil {
		m.Inspection = PortInspectionModelFromDomain(b.Inspection)
	}
	m.Fees = nil
	if b.Fees != nil {
		m.Fees = FeeAssessmentModelFromDomain(b.Fees)
	}
	m.Release = nil
	if b.Release != nil {
		m.Release = DocumentReleaseModelFromDomain(b.Release)
	}
	m.History = make([]BatchStageTransitionModel, len(b.History))
	for i, h := range b.History {
		m.History[i] = *BatchStageTransitionModelFromDomain(h)
	}
}

// BatchModelFromDomain creates a new persistence model from a domain Batch
func BatchModelFromDomain(b *traceability.Batch) *BatchModel {
	m := &BatchModel{}
	m.FromDomain(b)
	return m
}

// BatchPaymentModel stores both the farmer lot payment and the exporter payment.
// Rows are insert-only.
type BatchPaymentModel struct {
	ID                 uuid.UUID                `gorm:"type:uuid;primary_key"`
	PaymentCode        string                   `gorm:"type:varchar(50);not null;uniqueIndex"`
	Kind               traceability.PaymentKind `gorm:"type:varchar(10);not null;uniqueIndex:idx_batch_payment_kind,priority:2"`
	TransactionCode    string                   `gorm:"type:varchar(50);not null;index"`
	BatchCode          string                   `gorm:"type:varchar(200);not null;uniqueIndex:idx_batch_payment_kind,priority:1"`
	PayerID            string                   `gorm:"type:varchar(100)"`
	Amount             decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	Currency           string                   `gorm:"type:varchar(3);not null"`
	Method             string                   `gorm:"type:varchar(50)"`
	Reference          string                   `gorm:"type:varchar(100)"`
	FarmerConfirmed    bool                     `gorm:"not null"`
	ConfirmationMethod string                   `gorm:"type:varchar(50)"`
	Status             string                   `gorm:"type:varchar(30);not null"`
	ConfirmedAt        time.Time                `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BatchPaymentModel) TableName() string {
	return "batch_payments"
}

// ToDomain converts the persistence model to a domain PaymentRecord
func (m *BatchPaymentModel) ToDomain() *traceability.PaymentRecord {
	return &traceability.PaymentRecord{
		ID:              m.ID,
		PaymentCode:     m.PaymentCode,
		Kind:            m.Kind,
		TransactionCode: m.TransactionCode,
		BatchCode:       m.BatchCode,
		PayerID:         m.PayerID,
		Amount:          m.Amount,
		Currency:        m.Currency,
		Method:          m.Method,
		Reference:       m.Reference,
		FarmerConfirmation: traceability.FarmerConfirmation{
			Confirmed: m.FarmerConfirmed,
			Method:    m.ConfirmationMethod,
		},
		Status:      m.Status,
		ConfirmedAt: m.ConfirmedAt,
	}
}

// BatchPaymentModelFromDomain creates a new persistence model from a domain PaymentRecord
func BatchPaymentModelFromDomain(p *traceability.PaymentRecord) *BatchPaymentModel {
	return &BatchPaymentModel{
		ID:                 p.ID,
		PaymentCode:        p.PaymentCode,
		Kind:               p.Kind,
		TransactionCode:    p.TransactionCode,
		BatchCode:          p.BatchCode,
		PayerID:            p.PayerID,
		Amount:             p.Amount,
		Currency:           p.Currency,
		Method:             p.Method,
		Reference:          p.Reference,
		FarmerConfirmed:    p.FarmerConfirmation.Confirmed,
		ConfirmationMethod: p.FarmerConfirmation.Method,
		Status:             p.Status,
		ConfirmedAt:        p.ConfirmedAt,
	}
}

// WarehouseDeliveryModel is the warehouse intake inspection
type WarehouseDeliveryModel struct {
	ID               uuid.UUID                     `gorm:"type:uuid;primary_key"`
	TransactionCode  string                        `gorm:"type:varchar(50);not null;index"`
	BatchCode        string                        `gorm:"type:varchar(200);not null;uniqueIndex"`
	WarehouseID      string                        `gorm:"type:varchar(100);index"`
	DeclaredWeight   decimal.Decimal               `gorm:"type:decimal(18,4);not null"`
	ActualWeight     decimal.Decimal               `gorm:"type:decimal(18,4);not null"`
	Variance         decimal.Decimal               `gorm:"type:decimal(18,4);not null"`
	AcceptanceStatus traceability.AcceptanceStatus `gorm:"type:varchar(20);not null"`
	QualityGrade     string                        `gorm:"type:varchar(50)"`
	ApprovalCode     string                        `gorm:"type:varchar(50);index"`
	InspectedBy      string                        `gorm:"type:varchar(100)"`
	DeliveredAt      time.Time                     `gorm:"not null"`
}

// TableName returns the table name for GORM
func (WarehouseDeliveryModel) TableName() string {
	return "warehouse_deliveries"
}

// ToDomain converts the persistence model to a domain WarehouseDeliveryRecord
func (m *WarehouseDeliveryModel) ToDomain() *traceability.WarehouseDeliveryRecord {
	return &traceability.WarehouseDeliveryRecord{
		ID:               m.ID,
		TransactionCode:  m.TransactionCode,
		BatchCode:        m.BatchCode,
		WarehouseID:      m.WarehouseID,
		DeclaredWeight:   m.DeclaredWeight,
		ActualWeight:     m.ActualWeight,
		Variance:         m.Variance,
		AcceptanceStatus: m.AcceptanceStatus,
		QualityGrade:     m.QualityGrade,
		ApprovalCode:     m.ApprovalCode,
		InspectedBy:      m.InspectedBy,
		DeliveredAt:      m.DeliveredAt,
	}
}

// WarehouseDeliveryModelFromDomain creates a new persistence model from a domain record
func WarehouseDeliveryModelFromDomain(d *traceability.WarehouseDeliveryRecord) *WarehouseDeliveryModel {
	return &WarehouseDeliveryModel{
		ID:               d.ID,
		TransactionCode:  d.TransactionCode,
		BatchCode:        d.BatchCode,
		WarehouseID:      d.WarehouseID,
		DeclaredWeight:   d.DeclaredWeight,
		ActualWeight:     d.ActualWeight,
		Variance:         d.Variance,
		AcceptanceStatus: d.AcceptanceStatus,
		QualityGrade:     d.QualityGrade,
		ApprovalCode:     d.ApprovalCode,
		InspectedBy:      d.InspectedBy,
		DeliveredAt:      d.DeliveredAt,
	}
}

// PackagingApprovalModel is the QR batch approval
type PackagingApprovalModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	ApprovalCode  string    `gorm:"type:varchar(50);not null;index"`
	BatchCode     string    `gorm:"type:varchar(200);not null;uniqueIndex"`
	QRCode        string    `gorm:"type:varchar(250);not null"`
	PackageCount  int       `gorm:"not null"`
	PackagingType string    `gorm:"type:varchar(50)"`
	ApprovedBy    string    `gorm:"type:varchar(100)"`
	ApprovedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PackagingApprovalModel) TableName() string {
	return "packaging_approvals"
}

// ToDomain converts the persistence model to a domain PackagingApproval
func (m *PackagingApprovalModel) ToDomain() *traceability.PackagingApproval {
	return &traceability.PackagingApproval{
		ID:            m.ID,
		ApprovalCode:  m.ApprovalCode,
		BatchCode:     m.BatchCode,
		QRCode:        m.QRCode,
		PackageCount:  m.PackageCount,
		PackagingType: m.PackagingType,
		ApprovedBy:    m.ApprovedBy,
		ApprovedAt:    m.ApprovedAt,
	}
}

// PackagingApprovalModelFromDomain creates a new persistence model from a domain PackagingApproval
func PackagingApprovalModelFromDomain(p *traceability.PackagingApproval) *PackagingApprovalModel {
	return &PackagingApprovalModel{
		ID:            p.ID,
		ApprovalCode:  p.ApprovalCode,
		BatchCode:     p.BatchCode,
		QRCode:        p.QRCode,
		PackageCount:  p.PackageCount,
		PackagingType: p.PackagingType,
		ApprovedBy:    p.ApprovedBy,
		ApprovedAt:    p.ApprovedAt,
	}
}

// WarehouseRegistrationModel is the buyer storage slot
type WarehouseRegistrationModel struct {
	ID                uuid.UUID                  `gorm:"type:uuid;primary_key"`
	RegistrationCode  string                     `gorm:"type:varchar(50);not null;uniqueIndex"`
	BatchCode         string                     `gorm:"type:varchar(200);not null;uniqueIndex"`
	WarehouseID       string                     `gorm:"type:varchar(100);not null"`
	BuyerID           string                     `gorm:"type:varchar(100);not null;index"`
	StorageStartDate  time.Time                  `gorm:"not null"`
	StorageExpiryDate time.Time                  `gorm:"not null;index"`
	Status            traceability.StorageStatus `gorm:"type:varchar(20);not null;index"`
	ExpiryNotifiedAt  *time.Time
}

// TableName returns the table name for GORM
func (WarehouseRegistrationModel) TableName() string {
	return "warehouse_registrations"
}

// ToDomain converts the persistence model to a domain WarehouseRegistration
func (m *WarehouseRegistrationModel) ToDomain() *traceability.WarehouseRegistration {
	return &traceability.WarehouseRegistration{
		ID:                m.ID,
		RegistrationCode:  m.RegistrationCode,
		BatchCode:         m.BatchCode,
		WarehouseID:       m.WarehouseID,
		BuyerID:           m.BuyerID,
		StorageStartDate:  m.StorageStartDate,
		StorageExpiryDate: m.StorageExpiryDate,
		Status:            m.Status,
		ExpiryNotifiedAt:  m.ExpiryNotifiedAt,
	}
}

// WarehouseRegistrationModelFromDomain creates a new persistence model from a domain registration
func WarehouseRegistrationModelFromDomain(r *traceability.WarehouseRegistration) *WarehouseRegistrationModel {
	return &WarehouseRegistrationModel{
		ID:                r.ID,
		RegistrationCode:  r.RegistrationCode,
		BatchCode:         r.BatchCode,
		WarehouseID:       r.WarehouseID,
		BuyerID:           r.BuyerID,
		StorageStartDate:  r.StorageStartDate,
		StorageExpiryDate: r.StorageExpiryDate,
		Status:            r.Status,
		ExpiryNotifiedAt:  r.ExpiryNotifiedAt,
	}
}

// MarketplaceListingModel is the buyer listing offered to exporters
type MarketplaceListingModel struct {
	ID               uuid.UUID                  `gorm:"type:uuid;primary_key"`
	ListingCode      string                     `gorm:"type:varchar(50);not null;uniqueIndex"`
	RegistrationCode string                     `gorm:"type:varchar(50);not null"`
	BatchCode        string                     `gorm:"type:varchar(200);not null;uniqueIndex"`
	BuyerID          string                     `gorm:"type:varchar(100);not null;index"`
	CropType         string                     `gorm:"type:varchar(100);not null"`
	QualityGrade     string                     `gorm:"type:varchar(50)"`
	PricePerKg       decimal.Decimal            `gorm:"type:decimal(18,4);not null"`
	Quantity         decimal.Decimal            `gorm:"type:decimal(18,4);not null"`
	Currency         string                     `gorm:"type:varchar(3);not null"`
	ListedAt         time.Time                  `gorm:"not null"`
	ExpiresAt        time.Time                  `gorm:"not null;index"`
	Status           traceability.ListingStatus `gorm:"type:varchar(20);not null;index"`
	ExpiryNotifiedAt *time.Time
}

// TableName returns the table name for GORM
func (MarketplaceListingModel) TableName() string {
	return "marketplace_listings"
}

// ToDomain converts the persistence model to a domain MarketplaceListing
func (m *MarketplaceListingModel) ToDomain() *traceability.MarketplaceListing {
	return &traceability.MarketplaceListing{
		ID:               m.ID,
		ListingCode:      m.ListingCode,
		RegistrationCode: m.RegistrationCode,
		BatchCode:        m.BatchCode,
		BuyerID:          m.BuyerID,
		CropType:         m.CropType,
		QualityGrade:     m.QualityGrade,
		PricePerKg:       m.PricePerKg,
		Quantity:         m.Quantity,
		Currency:         m.Currency,
		ListedAt:         m.ListedAt,
		ExpiresAt:        m.ExpiresAt,
		Status:           m.Status,
		ExpiryNotifiedAt: m.ExpiryNotifiedAt,
	}
}

// MarketplaceListingModelFromDomain creates a new persistence model from a domain listing
func MarketplaceListingModelFromDomain(l *traceability.MarketplaceListing) *MarketplaceListingModel {
	return &MarketplaceListingModel{
		ID:               l.ID,
		ListingCode:      l.ListingCode,
		RegistrationCode: l.RegistrationCode,
		BatchCode:        l.BatchCode,
		BuyerID:          l.BuyerID,
		CropType:         l.CropType,
		QualityGrade:     l.QualityGrade,
		PricePerKg:       l.PricePerKg,
		Quantity:         l.Quantity,
		Currency:         l.Currency,
		ListedAt:         l.ListedAt,
		ExpiresAt:        l.ExpiresAt,
		Status:           l.Status,
		ExpiryNotifiedAt: l.ExpiryNotifiedAt,
	}
}

// ExportProposalModel is the accepted exporter offer
type ExportProposalModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	ProposalCode string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	ListingCode  string          `gorm:"type:varchar(50);not null"`
	BatchCode    string          `gorm:"type:varchar(200);not null;uniqueIndex"`
	ExporterID   string          `gorm:"type:varchar(100);not null;index"`
	OfferedPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Status       string          `gorm:"type:varchar(20);not null"`
	AcceptedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ExportProposalModel) TableName() string {
	return "export_proposals"
}

// ToDomain converts the persistence model to a domain ExportProposal
func (m *ExportProposalModel) ToDomain() *traceability.ExportProposal {
	return &traceability.ExportProposal{
		ID:           m.ID,
		ProposalCode: m.ProposalCode,
		ListingCode:  m.ListingCode,
		BatchCode:    m.BatchCode,
		ExporterID:   m.ExporterID,
		OfferedPrice: m.OfferedPrice,
		Quantity:     m.Quantity,
		Status:       m.Status,
		AcceptedAt:   m.AcceptedAt,
	}
}

// ExportProposalModelFromDomain creates a new persistence model from a domain proposal
func ExportProposalModelFromDomain(p *traceability.ExportProposal) *ExportProposalModel {
	return &ExportProposalModel{
		ID:           p.ID,
		ProposalCode: p.ProposalCode,
		ListingCode:  p.ListingCode,
		BatchCode:    p.BatchCode,
		ExporterID:   p.ExporterID,
		OfferedPrice: p.OfferedPrice,
		Quantity:     p.Quantity,
		Status:       p.Status,
		AcceptedAt:   p.AcceptedAt,
	}
}

// ShipmentModel tracks the warehouse to exporter handover
type ShipmentModel struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key"`
	BatchCode         string          `gorm:"type:varchar(200);not null;uniqueIndex"`
	AuthorizationCode string          `gorm:"type:varchar(50);not null"`
	AuthorizedBy      string          `gorm:"type:varchar(100);not null"`
	AuthorizedAt      time.Time       `gorm:"not null"`
	VehicleNumber     string          `gorm:"type:varchar(50)"`
	DriverName        string          `gorm:"type:varchar(100)"`
	ReceivedWeight    decimal.Decimal `gorm:"type:decimal(18,4)"`
	ReceivedBy        string          `gorm:"type:varchar(100)"`
	InitiatedAt       *time.Time
	ReceivedAt        *time.Time
}

// TableName returns the table name for GORM
func (ShipmentModel) TableName() string {
	return "shipments"
}

// ToDomain converts the persistence model to a domain Shipment
func (m *ShipmentModel) ToDomain() *traceability.Shipment {
	return &traceability.Shipment{
		ID:                m.ID,
		BatchCode:         m.BatchCode,
		AuthorizationCode: m.AuthorizationCode,
		AuthorizedBy:      m.AuthorizedBy,
		AuthorizedAt:      m.AuthorizedAt,
		VehicleNumber:     m.VehicleNumber,
		DriverName:        m.DriverName,
		InitiatedAt:       m.InitiatedAt,
		ReceivedWeight:    m.ReceivedWeight,
		ReceivedBy:        m.ReceivedBy,
		ReceivedAt:        m.ReceivedAt,
	}
}

// ShipmentModelFromDomain creates a new persistence model from a domain Shipment
func ShipmentModelFromDomain(s *traceability.Shipment) *ShipmentModel {
	return &ShipmentModel{
		ID:                s.ID,
		BatchCode:         s.BatchCode,
		AuthorizationCode: s.AuthorizationCode,
		AuthorizedBy:      s.AuthorizedBy,
		AuthorizedAt:      s.AuthorizedAt,
		VehicleNumber:     s.VehicleNumber,
		DriverName:        s.DriverName,
		InitiatedAt:       s.InitiatedAt,
		ReceivedWeight:    s.ReceivedWeight,
		ReceivedBy:        s.ReceivedBy,
		ReceivedAt:        s.ReceivedAt,
	}
}

// PortInspectionModel is the pre-shipment port inspection
type PortInspectionModel struct {
	ID             uuid.UUID                     `gorm:"type:uuid;primary_key"`
	InspectionCode string                        `gorm:"type:varchar(50);not null;uniqueIndex"`
	BatchCode      string                        `gorm:"type:varchar(200);not null;uniqueIndex"`
	InspectorID    string                        `gorm:"type:varchar(100);not null;index"`
	Port           string                        `gorm:"type:varchar(100);not null"`
	AssignedAt     time.Time                     `gorm:"not null"`
	Result         traceability.InspectionResult `gorm:"type:varchar(10)"`
	Findings       string                        `gorm:"type:text"`
	ScheduledFor   *time.Time
	SubmittedAt    *time.Time
}

// TableName returns the table name for GORM
func (PortInspectionModel) TableName() string {
	return "port_inspections"
}

// ToDomain converts the persistence model to a domain PortInspection
func (m *PortInspectionModel) ToDomain() *traceability.PortInspection {
	return &traceability.PortInspection{
		ID:             m.ID,
		InspectionCode: m.InspectionCode,
		BatchCode:      m.BatchCode,
		InspectorID:    m.InspectorID,
		Port:           m.Port,
		ScheduledFor:   m.ScheduledFor,
		AssignedAt:     m.AssignedAt,
		Result:         m.Result,
		Findings:       m.Findings,
		SubmittedAt:    m.SubmittedAt,
	}
}

// PortInspectionModelFromDomain creates a new persistence model from a domain PortInspection
func PortInspectionModelFromDomain(p *traceability.PortInspection) *PortInspectionModel {
	return &PortInspectionModel{
		ID:             p.ID,
		InspectionCode: p.InspectionCode,
		BatchCode:      p.BatchCode,
		InspectorID:    p.InspectorID,
		Port:           p.Port,
		ScheduledFor:   p.ScheduledFor,
		AssignedAt:     p.AssignedAt,
		Result:         p.Result,
		Findings:       p.Findings,
		SubmittedAt:    p.SubmittedAt,
	}
}

// FeeAssessmentModel is the fee intimation and its settlement
type FeeAssessmentModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	AssessmentCode   string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	BatchCode        string          `gorm:"type:varchar(200);not null;uniqueIndex"`
	ExporterID       string          `gorm:"type:varchar(100);index"`
	ProcessingFee    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ExportFee        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	InspectionFee    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DocumentationFee decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalFees        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Currency         string          `gorm:"type:varchar(3);not null"`
	IntimatedAt      time.Time       `gorm:"not null"`
	PaymentReference string          `gorm:"type:varchar(100)"`
	PaidAt           *time.Time
}

// TableName returns the table name for GORM
func (FeeAssessmentModel) TableName() string {
	return "fee_assessments"
}

// ToDomain converts the persistence model to a domain FeeAssessment
func (m *FeeAssessmentModel) ToDomain() *traceability.FeeAssessment {
	return &traceability.FeeAssessment{
		ID:             m.ID,
		AssessmentCode: m.AssessmentCode,
		BatchCode:      m.BatchCode,
		ExporterID:     m.ExporterID,
		Components: traceability.FeeComponents{
			ProcessingFee:    m.ProcessingFee,
			ExportFee:        m.ExportFee,
			InspectionFee:    m.InspectionFee,
			DocumentationFee: m.DocumentationFee,
		},
		TotalFees:        m.TotalFees,
		Currency:         m.Currency,
		IntimatedAt:      m.IntimatedAt,
		PaidAt:           m.PaidAt,
		PaymentReference: m.PaymentReference,
	}
}

// FeeAssessmentModelFromDomain creates a new persistence model from a domain FeeAssessment
func FeeAssessmentModelFromDomain(f *traceability.FeeAssessment) *FeeAssessmentModel {
	return &FeeAssessmentModel{
		ID:               f.ID,
		AssessmentCode:   f.AssessmentCode,
		BatchCode:        f.BatchCode,
		ExporterID:       f.ExporterID,
		ProcessingFee:    f.Components.ProcessingFee,
		ExportFee:        f.Components.ExportFee,
		InspectionFee:    f.Components.InspectionFee,
		DocumentationFee: f.Components.DocumentationFee,
		TotalFees:        f.TotalFees,
		Currency:         f.Currency,
		IntimatedAt:      f.IntimatedAt,
		PaymentReference: f.PaymentReference,
		PaidAt:           f.PaidAt,
	}
}

// DocumentReleaseModel is the terminal export document release
type DocumentReleaseModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	ReleaseCode   string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	BatchCode     string    `gorm:"type:varchar(200);not null;uniqueIndex"`
	DocumentsJSON string    `gorm:"column:documents;type:text;not null"`
	ReleasedBy    string    `gorm:"type:varchar(100);not null"`
	ReleasedAt    time.Time `gorm:"not null"`
	ArchiveKey    string    `gorm:"type:varchar(300)"`
}

// TableName returns the table name for GORM
func (DocumentReleaseModel) TableName() string {
	return "document_releases"
}

// ToDomain converts the persistence model to a domain DocumentRelease
func (m *DocumentReleaseModel) ToDomain() *traceability.DocumentRelease {
	r := &traceability.DocumentRelease{
		ID:          m.ID,
		ReleaseCode: m.ReleaseCode,
		BatchCode:   m.BatchCode,
		ReleasedBy:  m.ReleasedBy,
		ReleasedAt:  m.ReleasedAt,
		ArchiveKey:  m.ArchiveKey,
		Documents:   map[string]string{},
	}
	if m.DocumentsJSON != "" {
		_ = json.Unmarshal([]byte(m.DocumentsJSON), &r.Documents)
	}
	return r
}

// DocumentReleaseModelFromDomain creates a new persistence model from a domain DocumentRelease
func DocumentReleaseModelFromDomain(r *traceability.DocumentRelease) *DocumentReleaseModel {
	m := &DocumentReleaseModel{
		ID:            r.ID,
		ReleaseCode:   r.ReleaseCode,
		BatchCode:     r.BatchCode,
		DocumentsJSON: "{}",
		ReleasedBy:    r.ReleasedBy,
		ReleasedAt:    r.ReleasedAt,
		ArchiveKey:    r.ArchiveKey,
	}
	if raw, err := json.Marshal(r.Documents); err == nil {
		m.DocumentsJSON = string(raw)
	}
	return m
}

// BatchStageTransitionModel is one row of a batch audit trail. Rows are insert-only.
type BatchStageTransitionModel struct {
	ID        uuid.UUID          `gorm:"type:uuid;primary_key"`
	BatchCode string             `gorm:"type:varchar(200);not null;index"`
	FromStage traceability.Stage `gorm:"column:from_stage;type:varchar(40);not null"`
	ToStage   traceability.Stage `gorm:"column:to_stage;type:varchar(40);not null"`
	Actor     string             `gorm:"type:varchar(100)"`
	Note      string             `gorm:"type:text"`
	At        time.Time          `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (BatchStageTransitionModel) TableName() string {
	return "batch_stage_transitions"
}

// ToDomain converts the persistence model to a domain StageTransition
func (m *BatchStageTransitionModel) ToDomain() traceability.StageTransition {
	return traceability.StageTransition{
		ID:        m.ID,
		BatchCode: m.BatchCode,
		From:      m.FromStage,
		To:        m.ToStage,
		Actor:     m.Actor,
		Note:      m.Note,
		At:        m.At,
	}
}

// BatchStageTransitionModelFromDomain creates a new persistence model from a domain StageTransition
func BatchStageTransitionModelFromDomain(t traceability.StageTransition) *BatchStageTransitionModel {
	return &BatchStageTransitionModel{
		ID:        t.ID,
		BatchCode: t.BatchCode,
		FromStage: t.From,
		ToStage:   t.To,
		Actor:     t.Actor,
		Note:      t.Note,
		At:        t.At,
	}
}

// TraceabilityModels lists every model AutoMigrate must create for the
// traceability context
func TraceabilityModels() []any {
	return []any{
		&LotTransactionModel{},
		&BatchModel{},
		&BatchPaymentModel{},
		&WarehouseDeliveryModel{},
		&PackagingApprovalModel{},
		&WarehouseRegistrationModel{},
		&MarketplaceListingModel{},
		&ExportProposalModel{},
		&ShipmentModel{},
		&PortInspectionModel{},
		&FeeAssessmentModel{},
		&DocumentReleaseModel{},
		&BatchStageTransitionModel{},
	}
}

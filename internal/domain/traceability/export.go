package traceability

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExportProposal is the exporter offer accepted for a listing
type ExportProposal struct {
	ID           uuid.UUID
	ProposalCode string
	ListingCode  string
	BatchCode    string
	ExporterID   string
	OfferedPrice decimal.Decimal
	Quantity     decimal.Decimal
	Status       string
	AcceptedAt   time.Time
}

// ProposalStatusAccepted is the only status a stored proposal carries
const ProposalStatusAccepted = "accepted"

// ProposalInput carries an export proposal acceptance request
type ProposalInput struct {
	ExporterID   string
	OfferedPrice decimal.Decimal
	Quantity     decimal.Decimal
}

// Shipment tracks the warehouse → exporter handover
type Shipment struct {
	ID                uuid.UUID
	BatchCode         string
	AuthorizationCode string
	AuthorizedBy      string
	AuthorizedAt      time.Time
	VehicleNumber     string
	DriverName        string
	InitiatedAt       *time.Time
	ReceivedWeight    decimal.Decimal
	ReceivedBy        string
	ReceivedAt        *time.Time
}

package notification

import (
	"time"

	"github.com/google/uuid"
)

// Type classifies what happened
type Type string

const (
	TypeBatchHarvested         Type = "batch_harvested"
	TypeLotAccepted            Type = "lot_accepted"
	TypeLotSoldOut             Type = "lot_sold_out"
	TypePaymentConfirmed       Type = "payment_confirmed"
	TypeWarehouseDelivered     Type = "warehouse_delivered"
	TypePackagingApproved      Type = "packaging_approved"
	TypeWarehouseRegistered    Type = "warehouse_registered"
	TypeMarketplaceListed      Type = "marketplace_listed"
	TypeExportProposalAccepted Type = "export_proposal_accepted"
	TypeDeliveryAuthorized     Type = "delivery_authorized"
	TypeDeliveryInitiated      Type = "delivery_initiated"
	TypeReceiptCompleted       Type = "receipt_completed"
	TypeExportPaymentConfirmed Type = "export_payment_confirmed"
	TypePortInspectionAssigned Type = "port_inspection_assigned"
	TypeInspectionReported     Type = "inspection_report_submitted"
	TypeFeeIntimated           Type = "fee_intimated"
	TypeFeePaid                Type = "fee_paid"
	TypeDocumentsReleased      Type = "documents_released"
	TypeBatchWithdrawn         Type = "batch_withdrawn"
	TypeComplianceReceived     Type = "compliance_received"
	TypeComplianceReviewed     Type = "compliance_reviewed"
	TypeStorageExpired         Type = "storage_expired"
	TypeListingExpired         Type = "listing_expired"
)

// Payload is what a workflow step hands to the dispatcher
type Payload struct {
	Type        Type
	EntityType  string
	EntityID    string
	BatchCode   string
	RecipientID string // empty means every holder of the role
	Title       string
	Message     string
	Data        map[string]any
}

// Notification is the persisted record of one dispatch to one role
type Notification struct {
	ID          uuid.UUID
	Role        Role
	RecipientID string
	Type        Type
	EntityType  string
	EntityID    string
	BatchCode   string
	Title       string
	Message     string
	Data        map[string]any
	CreatedAt   time.Time
}

// NewNotification builds the record for role from payload
func NewNotification(role Role, p Payload, now time.Time) *Notification {
	return &Notification{
		ID:          uuid.New(),
		Role:        role,
		RecipientID: p.RecipientID,
		Type:        p.Type,
		EntityType:  p.EntityType,
		EntityID:    p.EntityID,
		BatchCode:   p.BatchCode,
		Title:       p.Title,
		Message:     p.Message,
		Data:        p.Data,
		CreatedAt:   now,
	}
}

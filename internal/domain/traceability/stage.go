package traceability

import (
	"fmt"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
)

// Stage is a batch lifecycle stage
type Stage string

const (
	StagePlanned                   Stage = "planned"
	StagePlanted                   Stage = "planted"
	StageGrowing                   Stage = "growing"
	StageReadyForHarvest           Stage = "ready_for_harvest"
	StageHarvested                 Stage = "harvested"
	StageLotAccepted               Stage = "lot_accepted"
	StagePaymentConfirmed          Stage = "payment_confirmed"
	StageWarehouseDelivered        Stage = "warehouse_delivered"
	StageWarehouseRegistered       Stage = "warehouse_registered"
	StageMarketplaceListed         Stage = "marketplace_listed"
	StageExportProposalAccepted    Stage = "export_proposal_accepted"
	StageDeliveryAuthorized        Stage = "delivery_authorized"
	StageDeliveryInitiated         Stage = "delivery_initiated"
	StageReceiptCompleted          Stage = "receipt_completed"
	StageExportPaymentConfirmed    Stage = "export_payment_confirmed"
	StagePortInspectionAssigned    Stage = "port_inspection_assigned"
	StageInspectionReportSubmitted Stage = "inspection_report_submitted"
	StageFeeIntimated              Stage = "fee_intimated"
	StageFeePaid                   Stage = "fee_paid"
	StageDocumentsReleased         Stage = "documents_released"

	// StageWithdrawn is the terminal exit for batches pulled from the chain
	StageWithdrawn Stage = "withdrawn"
)

// Lifecycle lists the forward stages in order
var Lifecycle = []Stage{
	StagePlanned,
	StagePlanted,
	StageGrowing,
	StageReadyForHarvest,
	StageHarvested,
	StageLotAccepted,
	StagePaymentConfirmed,
	StageWarehouseDelivered,
	StageWarehouseRegistered,
	StageMarketplaceListed,
	StageExportProposalAccepted,
	StageDeliveryAuthorized,
	StageDeliveryInitiated,
	StageReceiptCompleted,
	StageExportPaymentConfirmed,
	StagePortInspectionAssigned,
	StageInspectionReportSubmitted,
	StageFeeIntimated,
	StageFeePaid,
	StageDocumentsReleased,
}

// transitions is the complete table of allowed moves
var transitions = map[Stage][]Stage{
	StagePlanned:                   {StagePlanted},
	StagePlanted:                   {StageGrowing},
	StageGrowing:                   {StageReadyForHarvest},
	StageReadyForHarvest:           {StageHarvested},
	StageHarvested:                 {StageLotAccepted, StageWithdrawn},
	StageLotAccepted:               {StagePaymentConfirmed, StageWithdrawn},
	StagePaymentConfirmed:          {StageWarehouseDelivered, StageWithdrawn},
	StageWarehouseDelivered:        {StageWarehouseRegistered, StageWithdrawn},
	StageWarehouseRegistered:       {StageMarketplaceListed, StageWithdrawn},
	StageMarketplaceListed:         {StageExportProposalAccepted, StageWithdrawn},
	StageExportProposalAccepted:    {StageDeliveryAuthorized, StageWithdrawn},
	StageDeliveryAuthorized:        {StageDeliveryInitiated, StageWithdrawn},
	StageDeliveryInitiated:         {StageReceiptCompleted, StageWithdrawn},
	StageReceiptCompleted:          {StageExportPaymentConfirmed, StageWithdrawn},
	StageExportPaymentConfirmed:    {StagePortInspectionAssigned, StageWithdrawn},
	StagePortInspectionAssigned:    {StageInspectionReportSubmitted, StageWithdrawn},
	StageInspectionReportSubmitted: {StageFeeIntimated, StageWithdrawn},
	StageFeeIntimated:              {StageFeePaid, StageWithdrawn},
	StageFeePaid:                   {StageDocumentsReleased, StageWithdrawn},
	StageDocumentsReleased:         nil,
	StageWithdrawn:                 nil,
}

// IsValid checks if the stage is a known value
func (s Stage) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Stage) String() string {
	return string(s)
}

// Index is the position of s in Lifecycle, or -1 for withdrawn and unknown stages
func (s Stage) Index() int {
	for i, st := range Lifecycle {
		if st == s {
			return i
		}
	}
	return -1
}

// IsTerminal reports whether no further transition exists
func (s Stage) IsTerminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// CanTransitionTo checks the transition table
func (s Stage) CanTransitionTo(target Stage) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the stages reachable from s
func (s Stage) AllowedTransitions() []Stage {
	return append([]Stage(nil), transitions[s]...)
}

// stageError is the precondition failure for an operation attempted at the wrong stage
func stageError(op, batchCode string, current, required Stage) *shared.DomainError {
	return shared.NewDomainError(shared.CodeInvalidStage,
		fmt.Sprintf("cannot %s: batch %s is %s, requires %s", op, batchCode, current, required))
}

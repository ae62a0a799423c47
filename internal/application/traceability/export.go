package traceability

import (
	"context"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/notification"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/traceability"
)

// AcceptExportProposal binds an exporter to the open listing
func (s *WorkflowService) AcceptExportProposal(ctx context.Context, batchCode string, req ExportProposalRequest) (*StepResponse[*ProposalResponse], notification.Receipt, error) {
	b, err := s.batches.FindByCode(ctx, batchCode)
	if err != nil {
		return nil, nil, err
	}
	p, err := b.AcceptExportProposal(traceability.ProposalInput{
		ExporterID:   req.ExporterID,
		OfferedPrice: req.OfferedPrice,
		Quantity:     req.Quantity,
	}, actorOr(req.Actor, "buyer:"+b.BuyerID), s.clock.Now())
	if err != nil {
		return nil, nil, err
	}
	if err := s.commit(ctx, b); err != nil {
		return nil, nil, err
	}

	receipt := s.notify(ctx, b, notification.Payload{
		Type:     notification.TypeExportProposalAccepted,
		EntityID: p.ProposalCode,
		Title:    "Export proposal accepted",
		Message:  "Exporter " + p.ExporterID + " acquires batch " + b.BatchCode + " at " + p.OfferedPrice.String(),
		Data: map[string]any{
			"proposalId":   p.ProposalCode,
			"exporterId":   p.ExporterID,
			"offeredPrice": p.OfferedPrice.String(),
			"quantity":     p.Quantity.String(),
		},
	}, notification.RoleExporter, notification.RoleBuyer, notification.RoleRegulatorDDGOTS)
	return newStep(b, toProposalResponse(p)), receipt, nil
}

// AuthorizeDelivery records the warehouse's release of stock to the exporter
func (s *WorkflowService) AuthorizeDelivery(ctx context.Context, req DeliveryAuthorizationRequest) (*StepResponse[*ShipmentResponse], notification.Receipt, error) {
	b, err := s.batches.FindByCode(ctx, req.BatchCode)
	if err != nil {
		return nil, nil, err
	}
	sh, err := b.AuthorizeDelivery(req.AuthorizedBy, actorOr(req.Actor, req.AuthorizedBy), s.clock.Now())
	if err != nil {
		return nil, nil, err
	}
	if err := s.commit(ctx, b); err != nil {
		return nil, nil, err
	}

	receipt := s.notify(ctx, b, notification.Payload{
		Type:     notification.TypeDeliveryAuthorized,
		EntityID: sh.AuthorizationCode,
		Title:    "Delivery authorized",
		Message:  "Batch " + b.BatchCode + " released for delivery to exporter " + b.ExporterID,
		Data:     map[string]any{"authorizationCode": sh.AuthorizationCode, "authorizedBy": sh.AuthorizedBy},
	}, notification.RoleExporter, notification.RoleWarehouse)
	return newStep(b, toShipmentResponse(sh)), receipt, nil
}

// InitiateDelivery records the dispatch vehicle
func (s *WorkflowService) InitiateDelivery(ctx context.Context, req DeliveryInitiationRequest) (*StepResponse[*ShipmentResponse], notification.Receipt, error) {
	b, err := s.batches.FindByCode(ctx, req.BatchCode)
	if err != nil {
		return nil, nil, err
	}
	sh, err := b.InitiateDelivery(req.VehicleNumber, req.DriverName, actorOr(req.Actor, "warehouse"), s.clock.Now())
	if err != nil {
		return nil, nil, err
	}
	if err := s.commit(ctx, b); err != nil {
		return nil, nil, err
	}

	receipt := s.notify(ctx, b, notification.Payload{
		Type:     notification.TypeDeliveryInitiated,
		EntityID: sh.AuthorizationCode,
		Title:    "Delivery dispatched",
		Message:  "Batch " + b.BatchCode + " dispatched on vehicle " + sh.VehicleNumber,
		Data:     map[string]any{"vehicleNumber": sh.VehicleNumber, "driverName": sh.DriverName},
	}, notification.RoleExporter, notification.RoleBuyer)
	return newStep(b, toShipmentResponse(sh)), receipt, nil
}

// CompleteReceipt records the exporter's receipt of the shipment
func (s *WorkflowService) CompleteReceipt(ctx context.Context, req ReceiptConfirmationRequest) (*StepResponse[*ShipmentResponse], notification.Receipt, error) {
	b, err := s.batches.FindByCode(ctx, req.BatchCode)
	if err != nil {
		return nil, nil, err
	}
	sh, err := b.CompleteReceipt(req.ReceivedWeight, req.ReceivedBy, actorOr(req.Actor, "exporter:"+b.ExporterID), s.clock.Now())
	if err != nil {
		return nil, nil, err
	}
	if err := s.commit(ctx, b); err != nil {
		return nil, nil, err
	}

	receipt := s.notify(ctx, b, notification.Payload{
		Type:     notification.TypeReceiptCompleted,
		EntityID: sh.AuthorizationCode,
		Title:    "Shipment received",
		Message:  "Exporter " + b.ExporterID + " received " + sh.ReceivedWeight.String() + " kg of batch " + b.BatchCode,
		Data:     map[string]any{"receivedWeight": sh.ReceivedWeight.String(), "receivedBy": sh.ReceivedBy},
	}, notification.RoleBuyer, notification.RoleWarehouse, notification.RoleRegulatorDDGOTS)
	return newStep(b, toShipmentResponse(sh)), receipt, nil
}

// ConfirmExportPayment records the exporter's payment to the buyer
func (s *WorkflowService) ConfirmExportPayment(ctx context.Context, req ExportPaymentRequest) (*StepResponse[*PaymentResponse], notification.Receipt, error) {
	b, err := s.batches.FindByCode(ctx, req.BatchCode)
	if err != nil {
		return nil, nil, err
	}
	rec, err := b.ConfirmExportPayment(traceability.PaymentInput{
		Amount:    req.Amount,
		Currency:  req.Currency,
		Method:    req.PaymentMethod,
		Reference: req.PaymentReference,
	}, actorOr(req.Actor, "exporter:"+b.ExporterID), s.clock.Now())
	if err != nil {
		return nil, nil, err
	}
	if err := s.commit(ctx, b); err != nil {
		return nil, nil, err
	}

	receipt := s.notify(ctx, b, notification.Payload{
		Type:     notification.TypeExportPaymentConfirmed,
		EntityID: rec.PaymentCode,
		Title:    "Export payment confirmed",
		Message:  "Exporter " + b.ExporterID + " paid " + rec.Amount.String() + " " + rec.Currency + " for batch " + b.BatchCode,
		Data: map[string]any{
			"paymentCode": rec.PaymentCode,
			"amount":      rec.Amount.String(),
			"currency":    rec.Currency,
		},
	}, notification.RoleBuyer, notification.RoleRegulatorDDGAF)
	return newStep(b, toPaymentResponse(rec)), receipt, nil
}

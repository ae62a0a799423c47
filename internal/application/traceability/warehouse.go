package traceability

import (
	"context"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/notification"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/traceability"
)

// ConfirmPayment records the buyer's payment to the farmer for an accepted lot
func (s *WorkflowService) ConfirmPayment(ctx context.Context, req ConfirmPaymentRequest) (*StepResponse[*PaymentResponse], notification.Receipt, error) {
	b, err := s.batches.FindByTransactionCode(ctx, req.TransactionCode)
	if err != nil {
		return nil, nil, err
	}
	rec, err := b.ConfirmPayment(traceability.PaymentInput{
		TransactionCode: req.TransactionCode,
		Amount:          req.Amount,
		Currency:        req.Currency,
		Method:          req.PaymentMethod,
		Reference:       req.PaymentReference,
		FarmerConfirmation: traceability.FarmerConfirmation{
			Confirmed: req.FarmerConfirmation.Confirmed,
			Method:    req.FarmerConfirmation.Method,
		},
	}, actorOr(req.Actor, "buyer:"+b.BuyerID), s.clock.Now())
	if err != nil {
		return nil, nil, err
	}
	if err := s.commit(ctx, b); err != nil {
		return nil, nil, err
	}

	receipt := s.notify(ctx, b, notification.Payload{
		Type:     notification.TypePaymentConfirmed,
		EntityID: rec.PaymentCode,
		Title:    "Payment confirmed",
		Message:  "Buyer " + b.BuyerID + " paid " + rec.Amount.String() + " " + rec.Currency + " for batch " + b.BatchCode,
		Data: map[string]any{
			"paymentCode":     rec.PaymentCode,
			"transactionCode": rec.TransactionCode,
			"amount":          rec.Amount.String(),
			"currency":        rec.Currency,
		},
	}, notification.RoleRegulatorDDGAF, notification.RoleLandInspector)
	return newStep(b, toPaymentResponse(rec)), receipt, nil
}

// RegisterWarehouseDelivery records the intake inspection and its variance
func (s *WorkflowService) RegisterWarehouseDelivery(ctx context.Context, req WarehouseDeliveryRequest) (*StepResponse[*DeliveryResponse], notification.Receipt, error) {
	b, err := s.batches.FindByTransactionCode(ctx, req.TransactionCode)
	if err != nil {
		return nil, nil, err
	}
	rec, err := b.RegisterDelivery(traceability.DeliveryInput{
		TransactionCode: req.TransactionCode,
		WarehouseID:     req.WarehouseID,
		DeclaredWeight:  req.DeclaredWeight,
		ActualWeight:    req.ActualWeight,
		QualityGrade:    req.QualityGrade,
		InspectedBy:     req.InspectedBy,
	}, actorOr(req.Actor, "warehouse:"+req.WarehouseID), s.clock.Now())
	if err != nil {
		return nil, nil, err
	}
	if err := s.commit(ctx, b); err != nil {
		return nil, nil, err
	}

	receipt := s.notify(ctx, b, notification.Payload{
		Type:    notification.TypeWarehouseDelivered,
		Title:   "Delivered to warehouse",
		Message: "Batch " + b.BatchCode + " received at " + rec.WarehouseID + ": " + string(rec.AcceptanceStatus),
		Data: map[string]any{
			"warehouseId":      rec.WarehouseID,
			"variance":         rec.Variance.String(),
			"acceptanceStatus": string(rec.AcceptanceStatus),
		},
	}, notification.RoleBuyer, notification.RoleRegulatorDDGOTS)
	return newStep(b, toDeliveryResponse(rec)), receipt, nil
}

// ApproveQRBatch issues the packaging approval for an accepted delivery. The
// stage does not change.
func (s *WorkflowService) ApproveQRBatch(ctx context.Context, req QRBatchApprovalRequest) (*StepResponse[*PackagingResponse], notification.Receipt, error) {
	b, err := s.batches.FindByCode(ctx, req.BatchCode)
	if err != nil {
		return nil, nil, err
	}
	approvedBy := actorOr(req.ApprovedBy, req.Actor)
	rec, err := b.ApprovePackaging(req.PackageCount, req.PackagingType, approvedBy, s.clock.Now())
	if err != nil {
		return nil, nil, err
	}
	if err := s.commit(ctx, b); err != nil {
		return nil, nil, err
	}

	receipt := s.notify(ctx, b, notification.Payload{
		Type:     notification.TypePackagingApproved,
		EntityID: rec.ApprovalCode,
		Title:    "QR batch approved",
		Message:  "Packaging approved for batch " + b.BatchCode,
		Data: map[string]any{
			"approvalCode": rec.ApprovalCode,
			"qrCode":       rec.QRCode,
			"packageCount": rec.PackageCount,
		},
	}, notification.RoleBuyer, notification.RoleRegulatorDDGOTS)
	return newStep(b, toPackagingResponse(rec)), receipt, nil
}

// RegisterWarehouseProduct opens the buyer's 30 day storage window
func (s *WorkflowService) RegisterWarehouseProduct(ctx context.Context, req ProductRegistrationRequest) (*StepResponse[*RegistrationResponse], notification.Receipt, error) {
	b, err := s.batches.FindByCode(ctx, req.BatchCode)
	if err != nil {
		return nil, nil, err
	}
	now := s.clock.Now()
	reg, err := b.RegisterProduct(req.WarehouseID, actorOr(req.Actor, "warehouse:"+req.WarehouseID), now)
	if err != nil {
		return nil, nil, err
	}
	if err := s.commit(ctx, b); err != nil {
		return nil, nil, err
	}

	receipt := s.notify(ctx, b, notification.Payload{
		Type:     notification.TypeWarehouseRegistered,
		EntityID: reg.RegistrationCode,
		Title:    "Product registered in warehouse",
		Message:  "Batch " + b.BatchCode + " stored until " + reg.StorageExpiryDate.Format("2006-01-02"),
		Data: map[string]any{
			"registrationId":    reg.RegistrationCode,
			"warehouseId":       reg.WarehouseID,
			"storageExpiryDate": reg.StorageExpiryDate,
		},
	}, notification.RoleBuyer)
	return newStep(b, toRegistrationResponse(reg, now)), receipt, nil
}

// CreateMarketplaceListing offers a registered batch to every exporter
func (s *WorkflowService) CreateMarketplaceListing(ctx context.Context, req MarketplaceListingRequest) (*StepResponse[*ListingResponse], notification.Receipt, error) {
	var (
		b   *traceability.Batch
		err error
	)
	switch {
	case req.RegistrationID != "":
		b, err = s.batches.FindByRegistrationCode(ctx, req.RegistrationID)
	case req.BatchCode != "":
		b, err = s.batches.FindByCode(ctx, req.BatchCode)
	default:
		err = shared.NewValidationError("registrationId or batchCode is required")
	}
	if err != nil {
		return nil, nil, err
	}

	now := s.clock.Now()
	listing, err := b.CreateListing(traceability.ListingInput{
		PricePerKg: req.PricePerKg,
		Quantity:   req.Quantity,
		Currency:   req.Currency,
	}, actorOr(req.Actor, "buyer:"+b.BuyerID), now)
	if err != nil {
		return nil, nil, err
	}
	if err := s.commit(ctx, b); err != nil {
		return nil, nil, err
	}

	receipt := s.notify(ctx, b, notification.Payload{
		Type:     notification.TypeMarketplaceListed,
		EntityID: listing.ListingCode,
		Title:    "New marketplace listing",
		Message:  b.CropType + " " + b.QualityGrade + " listed at " + listing.PricePerKg.String() + " " + listing.Currency + "/kg",
		Data: map[string]any{
			"listingId":  listing.ListingCode,
			"buyerId":    listing.BuyerID,
			"cropType":   listing.CropType,
			"pricePerKg": listing.PricePerKg.String(),
			"quantity":   listing.Quantity.String(),
			"expiresAt":  listing.ExpiresAt,
		},
	}, notification.RoleExporter)
	return newStep(b, toListingResponse(listing, now)), receipt, nil
}

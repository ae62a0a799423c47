package traceability

import (
	"context"
	"errors"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/notification"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/traceability"
	"go.uber.org/zap"
)

// ProposeLot lets a buyer acquire a harvested batch. The ledger decides the
// winner with a single insert-if-absent; every later proposal from another
// buyer gets a SoldOutError naming the holder.
func (s *WorkflowService) ProposeLot(ctx context.Context, batchCode string, req ProposeLotRequest) (*LotResponse, notification.Receipt, error) {
	b, err := s.batches.FindByCode(ctx, batchCode)
	if err != nil {
		return nil, nil, err
	}
	if b.Stage != traceability.StageHarvested && b.TransactionCode == "" {
		return nil, nil, shared.NewDomainError(shared.CodeInvalidStage,
			"cannot accept lot: batch "+b.BatchCode+" is "+string(b.Stage)+", requires "+string(traceability.StageHarvested))
	}

	candidate, err := traceability.NewLotTransaction(b.BatchCode, req.BuyerID, req.OfferPrice, s.clock.Now())
	if err != nil {
		return nil, nil, err
	}
	winner, won, err := s.ledger.Claim(ctx, candidate)
	if err != nil {
		s.logFailure("lot claim failed", err, b)
		return nil, nil, err
	}
	if won {
		s.recordLot(ctx, b, true)
	}

	if winner.BuyerID != candidate.BuyerID {
		s.recordLot(ctx, b, false)
		s.logger.Info("lot proposal lost",
			zap.String("batch_code", b.BatchCode),
			zap.String("buyer_id", candidate.BuyerID),
			zap.String("winning_buyer", winner.BuyerID))
		s.notifyLoser(ctx, b, candidate.BuyerID, winner.BuyerID)
		return nil, nil, traceability.NewSoldOutError(b.BatchCode, winner.BuyerID)
	}

	if b.Stage == traceability.StageHarvested {
		if err := s.acceptLot(ctx, b, winner, actorOr(req.Actor, "buyer:"+winner.BuyerID)); err != nil {
			return nil, nil, err
		}
	} else if b.TransactionCode != winner.TransactionCode {
		return nil, nil, shared.NewPreconditionError("batch %s is %s and not bound to transaction %s",
			b.BatchCode, b.Stage, winner.TransactionCode)
	}

	receipt := s.notify(ctx, b, notification.Payload{
		Type:     notification.TypeLotAccepted,
		EntityID: winner.TransactionCode,
		Title:    "Lot accepted",
		Message:  "Buyer " + winner.BuyerID + " acquired batch " + b.BatchCode,
		Data: map[string]any{
			"transactionCode": winner.TransactionCode,
			"buyerId":         winner.BuyerID,
			"offerPrice":      winner.OfferPrice.String(),
		},
	}, notification.RoleBuyer, notification.RoleLandInspector, notification.RoleRegulatorDDGOTS)

	return &LotResponse{
		LotOutcome:     traceability.LotOutcome{Accepted: true, TransactionCode: winner.TransactionCode},
		BatchCode:      b.BatchCode,
		BuyerID:        winner.BuyerID,
		LifecycleStage: string(b.Stage),
	}, receipt, nil
}

// acceptLot advances b for the ledger winner. A concurrent writer that
// already bound the same transaction counts as success.
func (s *WorkflowService) acceptLot(ctx context.Context, b *traceability.Batch, winner *traceability.LotTransaction, actor string) error {
	if err := b.AcceptLot(winner, actor, s.clock.Now()); err != nil {
		return err
	}
	if err := s.commit(ctx, b); err != nil {
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			return err
		}
		current, ferr := s.batches.FindByCode(ctx, b.BatchCode)
		if ferr != nil || current.TransactionCode != winner.TransactionCode {
			return err
		}
		*b = *current
		return nil
	}
	s.markCropListingSold(ctx, b.BatchCode, winner.BuyerID)
	return nil
}

// markCropListingSold closes the farmer's listing for the batch. The lot is
// already bound, so failures are only logged.
func (s *WorkflowService) markCropListingSold(ctx context.Context, batchCode, buyerID string) {
	if s.cropListings == nil {
		return
	}
	listing, err := s.cropListings.FindActiveByBatchCode(ctx, batchCode)
	if errors.Is(err, shared.ErrNotFound) {
		return
	}
	if err == nil {
		listing.MarkSold(buyerID, s.clock.Now())
		err = s.cropListings.SaveWithLock(ctx, listing)
	}
	if err != nil {
		s.logger.Warn("marking crop listing sold failed",
			zap.String("batch_code", batchCode),
			zap.String("buyer_id", buyerID),
			zap.Error(err))
	}
}

func (s *WorkflowService) notifyLoser(ctx context.Context, b *traceability.Batch, loser, winner string) {
	p := notification.Payload{
		Type:        notification.TypeLotSoldOut,
		EntityType:  traceability.AggregateTypeBatch,
		EntityID:    b.BatchCode,
		BatchCode:   b.BatchCode,
		RecipientID: loser,
		Title:       "Lot sold out",
		Message:     "Batch " + b.BatchCode + " was acquired by buyer " + winner,
		Data: map[string]any{
			"batchCode":    b.BatchCode,
			"reason":       traceability.ReasonSoldOut,
			"winningBuyer": winner,
		},
	}
	notification.NotifyAll(ctx, s.dispatcher, p, notification.RoleBuyer)
}

func (s *WorkflowService) recordLot(ctx context.Context, b *traceability.Batch, won bool) {
	if s.lots != nil {
		s.lots.RecordLotProposal(ctx, b.CropType, won)
	}
}

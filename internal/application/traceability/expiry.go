package traceability

import (
	"context"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/notification"
	"go.uber.org/zap"
)

// SweepResult summarises one expiry sweep
type SweepResult struct {
	Scanned         int `json:"scanned"`
	StorageExpired  int `json:"storageExpired"`
	ListingsExpired int `json:"listingsExpired"`
	Failed          int `json:"failed"`
}

// SweepExpired persists expired status on windows that have lapsed and tells
// the owning buyer once. Read paths derive status on their own; the sweep only
// makes it durable. Batches that fail to save are retried on the next run.
func (s *WorkflowService) SweepExpired(ctx context.Context, limit int) (SweepResult, error) {
	now := s.clock.Now()
	batches, err := s.batches.FindWithLapsedWindows(ctx, now, limit)
	if err != nil {
		return SweepResult{}, err
	}

	res := SweepResult{Scanned: len(batches)}
	for i := range batches {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		b := &batches[i]
		lapsed := b.ExpireWindows(now)
		if !lapsed.Any() {
			continue
		}
		if err := s.batches.SaveWithLock(ctx, b); err != nil {
			res.Failed++
			s.logger.Warn("persisting expiry failed",
				zap.String("batch_code", b.BatchCode),
				zap.Error(err))
			continue
		}
		if lapsed.Storage {
			res.StorageExpired++
			s.notify(ctx, b, notification.Payload{
				Type:     notification.TypeStorageExpired,
				EntityID: b.Registration.RegistrationCode,
				Title:    "Storage window expired",
				Message:  "Storage for batch " + b.BatchCode + " expired on " + b.Registration.StorageExpiryDate.Format("2006-01-02"),
				Data:     map[string]any{"registrationId": b.Registration.RegistrationCode},
			}, notification.RoleBuyer)
		}
		if lapsed.Listing {
			res.ListingsExpired++
			s.notify(ctx, b, notification.Payload{
				Type:     notification.TypeListingExpired,
				EntityID: b.Listing.ListingCode,
				Title:    "Marketplace listing expired",
				Message:  "Listing " + b.Listing.ListingCode + " for batch " + b.BatchCode + " closed without an exporter",
				Data:     map[string]any{"listingId": b.Listing.ListingCode},
			}, notification.RoleBuyer)
		}
	}
	if res.StorageExpired+res.ListingsExpired > 0 {
		s.logger.Info("expiry sweep persisted lapsed windows",
			zap.Int("scanned", res.Scanned),
			zap.Int("storage_expired", res.StorageExpired),
			zap.Int("listings_expired", res.ListingsExpired),
			zap.Int("failed", res.Failed))
	}
	return res, nil
}

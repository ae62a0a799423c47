package traceability

import (
	"context"
	"time"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
)

// BatchQuery narrows batch listings
type BatchQuery struct {
	FarmerID   string
	BuyerID    string
	ExporterID string
	Stages     []Stage
	// Registered keeps batches holding a warehouse registration
	Registered bool
	// Listed keeps batches holding a marketplace listing
	Listed bool
	// ListingOpenAt keeps batches whose listing closes after this instant
	ListingOpenAt *time.Time
}

// BatchRepository persists batches together with their child records and
// stage history
type BatchRepository interface {
	FindByCode(ctx context.Context, batchCode string) (*Batch, error)
	FindByTransactionCode(ctx context.Context, transactionCode string) (*Batch, error)
	FindByRegistrationCode(ctx context.Context, registrationCode string) (*Batch, error)
	Find(ctx context.Context, q BatchQuery, filter shared.Filter) ([]Batch, int64, error)
	// FindWithLapsedWindows returns batches whose storage or listing window
	// has passed while the persisted status is still active
	FindWithLapsedWindows(ctx context.Context, now time.Time, limit int) ([]Batch, error)
	Save(ctx context.Context, b *Batch) error
	// SaveWithLock writes b only if the stored version still equals b.Version,
	// then bumps the version. Payments are insert-only.
	SaveWithLock(ctx context.Context, b *Batch) error
}

// LotLedger is the store behind first-come-first-serve lot acquisition
type LotLedger interface {
	// Claim atomically records tx unless the batch already has an accepted
	// transaction. It returns the transaction holding the batch and whether
	// that is tx.
	Claim(ctx context.Context, tx *LotTransaction) (winner *LotTransaction, won bool, err error)
	FindByBatchCode(ctx context.Context, batchCode string) (*LotTransaction, error)
	FindByTransactionCode(ctx context.Context, transactionCode string) (*LotTransaction, error)
	FindByBuyer(ctx context.Context, buyerID string, filter shared.Filter) ([]LotTransaction, int64, error)
}

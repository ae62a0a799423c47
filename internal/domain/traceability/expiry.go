package traceability

import "time"

// LapsedWindows reports which windows the expiry sweep just closed
type LapsedWindows struct {
	Storage bool
	Listing bool
}

// Any reports whether anything changed
func (l LapsedWindows) Any() bool { return l.Storage || l.Listing }

// ExpireWindows persists expired status on a registration or listing whose
// window has passed. It does not change the stage. Each window is closed once.
// Storage only lapses while the goods sit in the warehouse, and a listing only
// while it waits for an exporter.
func (b *Batch) ExpireWindows(now time.Time) LapsedWindows {
	var lapsed LapsedWindows
	if r := b.Registration; r != nil && b.InWarehouse() && r.Status == StorageStatusActive && r.StatusAt(now) == StorageStatusExpired {
		r.Status = StorageStatusExpired
		at := now
		r.ExpiryNotifiedAt = &at
		lapsed.Storage = true
	}
	if l := b.Listing; l != nil && b.Stage == StageMarketplaceListed && l.Status == ListingStatusActive && l.StatusAt(now) == ListingStatusExpired {
		l.Status = ListingStatusExpired
		at := now
		l.ExpiryNotifiedAt = &at
		lapsed.Listing = true
	}
	if lapsed.Any() {
		b.Touch(now)
	}
	return lapsed
}

// InWarehouse reports whether the batch is registered in storage and has not
// yet been sold on to an exporter
func (b *Batch) InWarehouse() bool {
	return b.Stage == StageWarehouseRegistered || b.Stage == StageMarketplaceListed
}

package traceability

import (
	"time"

	"github.com/google/uuid"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ListingWindow is how long a buyer's marketplace listing stays open to
// exporters. It is shorter than StorageWindow so listings close before storage.
const ListingWindow = 25 * 24 * time.Hour

// ListingStatus of a marketplace listing
type ListingStatus string

const (
	ListingStatusActive  ListingStatus = "active"
	ListingStatusExpired ListingStatus = "expired"
)

// MarketplaceListing offers stored produce to exporters
type MarketplaceListing struct {
	ID               uuid.UUID
	ListingCode      string
	RegistrationCode string
	BatchCode        string
	BuyerID          string
	CropType         string
	QualityGrade     string
	PricePerKg       decimal.Decimal
	Quantity         decimal.Decimal
	Currency         string
	ListedAt         time.Time
	ExpiresAt        time.Time
	Status           ListingStatus
	ExpiryNotifiedAt *time.Time
}

// ListingInput carries the buyer's pricing for an export listing
type ListingInput struct {
	PricePerKg decimal.Decimal
	Quantity   decimal.Decimal
	Currency   string
}

// StatusAt derives the listing status at now
func (l *MarketplaceListing) StatusAt(now time.Time) ListingStatus {
	if now.Before(l.ExpiresAt) {
		return ListingStatusActive
	}
	return ListingStatusExpired
}

// DaysRemaining is the ceiling of days left before the listing closes
func (l *MarketplaceListing) DaysRemaining(now time.Time) int {
	return max(0, shared.DaysUntil(now, l.ExpiresAt))
}

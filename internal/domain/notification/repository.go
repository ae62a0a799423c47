package notification

import (
	"context"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
)

// Query narrows the notification inbox
type Query struct {
	Role        Role
	RecipientID string
	BatchCode   string
}

// Repository persists notification records
type Repository interface {
	Save(ctx context.Context, n *Notification) error
	Find(ctx context.Context, q Query, filter shared.Filter) ([]Notification, int64, error)
}

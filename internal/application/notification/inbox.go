package notification

import (
	"context"
	"time"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/notification"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
)

// NotificationResponse is the inbox view of one notification
type NotificationResponse struct {
	ID          string         `json:"id"`
	Role        string         `json:"role"`
	RecipientID string         `json:"recipientId,omitempty"`
	Type        string         `json:"type"`
	EntityType  string         `json:"entityType,omitempty"`
	EntityID    string         `json:"entityId,omitempty"`
	BatchCode   string         `json:"batchCode,omitempty"`
	Title       string         `json:"title"`
	Message     string         `json:"message,omitempty"`
	Data        map[string]any `json:"data,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// ToNotificationResponse converts a notification to its inbox view
func ToNotificationResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:          n.ID.String(),
		Role:        string(n.Role),
		RecipientID: n.RecipientID,
		Type:        string(n.Type),
		EntityType:  n.EntityType,
		EntityID:    n.EntityID,
		BatchCode:   n.BatchCode,
		Title:       n.Title,
		Message:     n.Message,
		Data:        n.Data,
		CreatedAt:   n.CreatedAt,
	}
}

// InboxFilter selects notifications for the inbox
type InboxFilter struct {
	Role        string
	RecipientID string
	BatchCode   string
	Page        int
	PageSize    int
}

// InboxService reads persisted notifications
type InboxService struct {
	repo notification.Repository
}

func NewInboxService(repo notification.Repository) *InboxService {
	return &InboxService{repo: repo}
}

// List returns notifications newest first
func (s *InboxService) List(ctx context.Context, f InboxFilter) (shared.Paginated[NotificationResponse], error) {
	q := notification.Query{RecipientID: f.RecipientID, BatchCode: f.BatchCode}
	if f.Role != "" {
		role, ok := notification.ParseRole(f.Role)
		if !ok {
			return shared.Paginated[NotificationResponse]{}, shared.NewValidationError("unknown role %q", f.Role)
		}
		q.Role = role
	}

	filter := shared.DefaultFilter()
	filter.Page, filter.PageSize = f.Page, f.PageSize
	filter = filter.Normalize()

	items, total, err := s.repo.Find(ctx, q, filter)
	if err != nil {
		return shared.Paginated[NotificationResponse]{}, err
	}
	out := make([]NotificationResponse, len(items))
	for i := range items {
		out[i] = ToNotificationResponse(&items[i])
	}
	return shared.NewPaginated(out, total, filter.Page, filter.PageSize), nil
}

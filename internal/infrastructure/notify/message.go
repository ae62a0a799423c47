package notify

import (
	"encoding/json"
	"time"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/notification"
)

// Message is the wire form every external sink sends
type Message struct {
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

// NewMessage converts a notification record to its wire form
func NewMessage(n *notification.Notification) Message {
	return Message{
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

func encode(n *notification.Notification) ([]byte, error) {
	return json.Marshal(NewMessage(n))
}

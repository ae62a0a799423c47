package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/notification"
)

// NotificationModel is the persistence model for an inbox notification
type NotificationModel struct {
	ID          uuid.UUID         `gorm:"type:uuid;primary_key"`
	Role        notification.Role `gorm:"type:varchar(30);not null;index:idx_notifications_role_recipient,priority:1"`
	RecipientID string            `gorm:"type:varchar(100);index:idx_notifications_role_recipient,priority:2"`
	Type        notification.Type `gorm:"type:varchar(50);not null"`
	EntityType  string            `gorm:"type:varchar(50)"`
	EntityID    string            `gorm:"type:varchar(200)"`
	BatchCode   string            `gorm:"type:varchar(200);index"`
	Title       string            `gorm:"type:varchar(200)"`
	Message     string            `gorm:"type:text"`
	DataJSON    string            `gorm:"column:data;type:text"`
	CreatedAt   time.Time         `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the persistence model to a domain Notification
func (m *NotificationModel) ToDomain() *notification.Notification {
	n := &notification.Notification{
		ID:          m.ID,
		Role:        m.Role,
		RecipientID: m.RecipientID,
		Type:        m.Type,
		EntityType:  m.EntityType,
		EntityID:    m.EntityID,
		BatchCode:   m.BatchCode,
		Title:       m.Title,
		Message:     m.Message,
		CreatedAt:   m.CreatedAt,
	}
	if m.DataJSON != "" && m.DataJSON != "null" {
		var data map[string]any
		if err := json.Unmarshal([]byte(m.DataJSON), &data); err == nil {
			n.Data = data
		}
	}
	return n
}

// NotificationModelFromDomain creates a new persistence model from a domain Notification
func NotificationModelFromDomain(n *notification.Notification) *NotificationModel {
	m := &NotificationModel{
		ID:          n.ID,
		Role:        n.Role,
		RecipientID: n.RecipientID,
		Type:        n.Type,
		EntityType:  n.EntityType,
		EntityID:    n.EntityID,
		BatchCode:   n.BatchCode,
		Title:       n.Title,
		Message:     n.Message,
		CreatedAt:   n.CreatedAt,
	}
	if len(n.Data) > 0 {
		if raw, err := json.Marshal(n.Data); err == nil {
			m.DataJSON = string(raw)
		}
	}
	return m
}

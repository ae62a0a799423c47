package persistence

import (
	"context"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/notification"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormNotificationRepository implements notification.Repository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Save appends a notification to the inbox
func (r *GormNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Create(models.NotificationModelFromDomain(n)).Error
}

// Find lists inbox entries matching q, newest first by default
func (r *GormNotificationRepository) Find(ctx context.Context, q notification.Query, filter shared.Filter) ([]notification.Notification, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.NotificationModel{})
	if q.Role != "" {
		query = query.Where("role = ?", q.Role)
	}
	if q.RecipientID != "" {
		query = query.Where("recipient_id = ?", q.RecipientID)
	}
	if q.BatchCode != "" {
		query = query.Where("batch_code = ?", q.BatchCode)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.NotificationModel
	if err := applyPaging(query, filter, NotificationSortFields, "created_at").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	items := make([]notification.Notification, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items, total, nil
}

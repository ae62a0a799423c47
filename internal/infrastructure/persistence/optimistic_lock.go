package persistence

import (
	"time"

	"github.com/google/uuid"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
	"gorm.io/gorm"
)

// updateWithVersion writes cols to the row identified by id only if its stored
// version is still expected. It returns the new version. Must run inside tx.
func updateWithVersion(tx *gorm.DB, model any, id uuid.UUID, expected int, now time.Time, cols map[string]any) (int, error) {
	var current []int
	if err := tx.Model(model).
		Where("id = ?", id).
		Pluck("version", &current).Error; err != nil {
		return 0, err
	}
	if len(current) == 0 {
		return 0, shared.ErrNotFound
	}
	if current[0] != expected {
		return 0, shared.ErrConcurrencyConflict
	}

	next := expected + 1
	cols["version"] = next
	cols["updated_at"] = now

	result := tx.Model(model).
		Where("id = ? AND version = ?", id, expected).
		Updates(cols)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, shared.ErrConcurrencyConflict
	}
	return next, nil
}

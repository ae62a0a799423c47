package persistence

import (
	"strings"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CropScheduleSortFields contains allowed sort fields for crop schedules
var CropScheduleSortFields = map[string]bool{
	"created_at":            true,
	"updated_at":            true,
	"schedule_code":         true,
	"crop_type":             true,
	"planting_date":         true,
	"expected_harvest_date": true,
	"status":                true,
}

// CropListingSortFields contains allowed sort fields for farmer crop listings
var CropListingSortFields = map[string]bool{
	"created_at":   true,
	"listing_code": true,
	"crop_type":    true,
	"price_per_kg": true,
	"listed_at":    true,
	"status":       true,
}

// ComplianceSortFields contains allowed sort fields for compliance records
var ComplianceSortFields = map[string]bool{
	"created_at":  true,
	"received_at": true,
	"record_code": true,
	"status":      true,
	"farmer_id":   true,
}

// BatchSortFields contains allowed sort fields for batches
var BatchSortFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"batch_code":   true,
	"harvest_date": true,
	"stage":        true,
	"crop_type":    true,
}

// LotTransactionSortFields contains allowed sort fields for the lot ledger
var LotTransactionSortFields = map[string]bool{
	"accepted_at":      true,
	"transaction_code": true,
	"batch_code":       true,
}

// NotificationSortFields contains allowed sort fields for the inbox
var NotificationSortFields = map[string]bool{
	"created_at": true,
	"type":       true,
	"role":       true,
}

// applyPaging orders and pages q from a normalized filter
func applyPaging(q *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	filter = filter.Normalize()
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	return q.Order(field + " " + ValidateSortOrder(filter.OrderDir)).
		Offset(filter.Offset()).
		Limit(filter.PageSize)
}

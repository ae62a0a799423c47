package shared

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_IsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("load batch: %w", NewNotFoundError("batch", "BATCH-X"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConcurrencyConflict))
	assert.True(t, IsCode(err, CodeNotFound))
	assert.Equal(t, "batch BATCH-X not found", errors.Unwrap(err).Error())
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("%s is required", "farmerId")
	assert.Equal(t, CodeValidation, err.Code)
	assert.Equal(t, "farmerId is required", err.Message)
}

func TestFilterNormalize(t *testing.T) {
	f := Filter{Page: 0, PageSize: 1000, OrderDir: "sideways"}.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 200, f.PageSize)
	assert.Equal(t, "desc", f.OrderDir)
	assert.NotNil(t, f.Filters)
	assert.Equal(t, 0, f.Offset())

	f = Filter{Page: 3, PageSize: 10}.Normalize()
	assert.Equal(t, 20, f.Offset())
}

func TestNewPaginated(t *testing.T) {
	p := NewPaginated([]int{1, 2}, 21, 1, 10)
	assert.Equal(t, 3, p.TotalPages)
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 30, DaysUntil(now, now.AddDate(0, 0, 30)))
	assert.Equal(t, 1, DaysUntil(now, now.Add(time.Hour)))
	assert.Equal(t, 0, DaysUntil(now, now))
	assert.Equal(t, 0, DaysUntil(now, now.Add(-time.Hour)))
	assert.Equal(t, -2, DaysUntil(now, now.AddDate(0, 0, -2)))
}

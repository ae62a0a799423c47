package report

import (
	"bytes"
	"testing"
	"time"

	traceabilityapp "github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/application/traceability"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteTraceabilityWorkbook(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	rows := []traceabilityapp.TraceabilityReportRow{
		{
			BatchCode:        "BATCH-COCOA-1740819600000-FARMER-7",
			FarmerID:         "FARMER-7",
			PlotID:           "PLOT-3",
			CropType:         "Cocoa",
			QualityGrade:     "Grade A",
			ActualYield:      decimal.NewFromInt(480),
			HarvestDate:      now,
			ComplianceStatus: "EUDR_COMPLIANT",
			Stage:            "warehouse_registered",
			BuyerID:          "B1",
			StorageStatus:    "active",
			StorageDaysLeft:  29,
			UpdatedAt:        now,
		},
		{
			BatchCode:        "BATCH-COFFEE-1740819600001-FARMER-9",
			FarmerID:         "FARMER-9",
			CropType:         "Coffee",
			ActualYield:      decimal.NewFromInt(120),
			ComplianceStatus: "PENDING_REVIEW",
			Stage:            "harvested",
			UpdatedAt:        now,
		},
		{
			BatchCode:   "BATCH-COCOA-1740819600002-FARMER-7",
			CropType:    "Cocoa",
			ActualYield: decimal.NewFromInt(300),
			Stage:       "documents_released",
			TotalFees:   decimal.NewFromInt(185),
			FeesPaid:    true,
			ReleaseCode: "REL-1740819600002-ABC123",
			UpdatedAt:   now,
		},
	}

	data, err := WriteTraceabilityWorkbook(rows, now)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"Batches", "Summary"}, f.GetSheetList())

	batchRows, err := f.GetRows("Batches")
	require.NoError(t, err)
	require.Len(t, batchRows, 4)
	assert.Equal(t, BatchHeader, batchRows[0])
	assert.Equal(t, "BATCH-COCOA-1740819600000-FARMER-7", batchRows[1][0])
	assert.Equal(t, "2025-03-01", batchRows[1][6])
	assert.Equal(t, "29", batchRows[1][12])
	assert.Equal(t, "185", batchRows[3][15])
	assert.Equal(t, "yes", batchRows[3][16])

	total, err := f.GetCellValue("Summary", "B2")
	require.NoError(t, err)
	assert.Equal(t, "3", total)

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(summary), 7)
	assert.Equal(t, []string{"documents_released", "1"}, summary[4])
	assert.Equal(t, []string{"harvested", "1"}, summary[5])
	assert.Equal(t, []string{"warehouse_registered", "1"}, summary[6])
}

func TestWriteTraceabilityWorkbook_Empty(t *testing.T) {
	data, err := WriteTraceabilityWorkbook(nil, time.Now())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows("Batches")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

// Package report renders regulator spreadsheets
package report

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	traceabilityapp "github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/application/traceability"
	"github.com/xuri/excelize/v2"
)

// ContentTypeXLSX is the media type of the generated workbook
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	batchSheet   = "Batches"
	summarySheet = "Summary"
	dateLayout   = "2006-01-02"
)

// BatchHeader is the column order of the batch sheet
var BatchHeader = []string{
	"Batch Code",
	"Farmer",
	"Plot",
	"Crop",
	"Grade",
	"Yield (kg)",
	"Harvest Date",
	"EUDR Status",
	"Stage",
	"Buyer",
	"Exporter",
	"Storage",
	"Storage Days Left",
	"Listing",
	"Inspection",
	"Total Fees",
	"Fees Paid",
	"Release",
	"Withdrawn Reason",
	"Last Updated",
}

var batchColumnWidths = []float64{34, 14, 12, 12, 10, 12, 14, 18, 26, 12, 12, 10, 10, 10, 12, 12, 10, 24, 30, 20}

// WriteTraceabilityWorkbook renders the batch rows and a per-stage summary
func WriteTraceabilityWorkbook(rows []traceabilityapp.TraceabilityReportRow, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	idx, err := f.NewSheet(batchSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}
	f.SetActiveSheet(idx)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2EFDA"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeRow(f, batchSheet, 1, toAny(BatchHeader)); err != nil {
		return nil, err
	}
	last, _ := excelize.CoordinatesToCellName(len(BatchHeader), 1)
	if err := f.SetCellStyle(batchSheet, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}
	for i, w := range batchColumnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(batchSheet, col, col, w); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}
	if err := f.SetPanes(batchSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return nil, fmt.Errorf("failed to freeze header: %w", err)
	}

	counts := map[string]int{}
	for i, r := range rows {
		counts[r.Stage]++
		if err := writeRow(f, batchSheet, i+2, batchValues(r)); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := writeSummary(f, counts, len(rows), generatedAt, headerStyle); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func batchValues(r traceabilityapp.TraceabilityReportRow) []any {
	yield, _ := r.ActualYield.Float64()
	fees, _ := r.TotalFees.Float64()
	paid := "no"
	if r.FeesPaid {
		paid = "yes"
	}
	var storageDays any
	if r.StorageStatus != "" {
		storageDays = r.StorageDaysLeft
	}
	var totalFees any
	if !r.TotalFees.IsZero() {
		totalFees = fees
	}
	return []any{
		r.BatchCode,
		r.FarmerID,
		r.PlotID,
		r.CropType,
		r.QualityGrade,
		yield,
		formatDate(r.HarvestDate),
		r.ComplianceStatus,
		r.Stage,
		r.BuyerID,
		r.ExporterID,
		r.StorageStatus,
		storageDays,
		r.ListingStatus,
		r.InspectionResult,
		totalFees,
		paid,
		r.ReleaseCode,
		r.WithdrawnReason,
		r.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func writeSummary(f *excelize.File, counts map[string]int, total int, generatedAt time.Time, headerStyle int) error {
	if err := writeRow(f, summarySheet, 1, []any{"Generated At", generatedAt.UTC().Format(time.RFC3339)}); err != nil {
		return err
	}
	if err := writeRow(f, summarySheet, 2, []any{"Total Batches", total}); err != nil {
		return err
	}
	if err := writeRow(f, summarySheet, 4, []any{"Stage", "Batches"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A4", "B4", headerStyle); err != nil {
		return fmt.Errorf("failed to style summary header: %w", err)
	}
	stages := make([]string, 0, len(counts))
	for s := range counts {
		stages = append(stages, s)
	}
	sort.Strings(stages)
	for i, s := range stages {
		if err := writeRow(f, summarySheet, i+5, []any{s, counts[s]}); err != nil {
			return err
		}
	}
	return f.SetColWidth(summarySheet, "A", "A", 28)
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateLayout)
}

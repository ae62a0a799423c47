package traceability

import (
	"context"
	"time"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/traceability"
	"github.com/shopspring/decimal"
)

const reportPageSize = 200

// ReportQuery narrows the regulator traceability report
type ReportQuery struct {
	Stage    string `form:"stage"`
	FarmerID string `form:"farmerId"`
	BuyerID  string `form:"buyerId"`
}

// TraceabilityReportRow is one batch in the regulator report
type TraceabilityReportRow struct {
	BatchCode        string
	FarmerID         string
	PlotID           string
	CropType         string
	QualityGrade     string
	ActualYield      decimal.Decimal
	HarvestDate      time.Time
	ComplianceStatus string
	Stage            string
	BuyerID          string
	ExporterID       string
	StorageStatus    string
	StorageDaysLeft  int
	ListingStatus    string
	InspectionResult string
	TotalFees        decimal.Decimal
	FeesPaid         bool
	ReleaseCode      string
	WithdrawnReason  string
	UpdatedAt        time.Time
}

// TraceabilityReport collects every batch matching q, oldest first
func (s *RegistryService) TraceabilityReport(ctx context.Context, q ReportQuery) ([]TraceabilityReportRow, error) {
	query := traceability.BatchQuery{FarmerID: q.FarmerID, BuyerID: q.BuyerID}
	if q.Stage != "" {
		stage := traceability.Stage(q.Stage)
		if !stage.IsValid() {
			return nil, shared.NewValidationError("unknown stage %q", q.Stage)
		}
		query.Stages = []traceability.Stage{stage}
	}

	now := s.clock.Now()
	var rows []TraceabilityReportRow
	for page := 1; ; page++ {
		filter := shared.Filter{Page: page, PageSize: reportPageSize, OrderBy: "created_at", OrderDir: "asc"}.Normalize()
		items, total, err := s.batches.Find(ctx, query, filter)
		if err != nil {
			return nil, err
		}
		for i := range items {
			rows = append(rows, toReportRow(&items[i], now))
		}
		if len(items) == 0 || int64(len(rows)) >= total {
			return rows, nil
		}
	}
}

func toReportRow(b *traceability.Batch, now time.Time) TraceabilityReportRow {
	row := TraceabilityReportRow{
		BatchCode:        b.BatchCode,
		FarmerID:         b.FarmerID,
		PlotID:           b.PlotID,
		CropType:         b.CropType,
		QualityGrade:     b.QualityGrade,
		ActualYield:      b.ActualYield,
		HarvestDate:      b.HarvestDate,
		ComplianceStatus: string(b.ComplianceStatus),
		Stage:            string(b.Stage),
		BuyerID:          b.BuyerID,
		ExporterID:       b.ExporterID,
		WithdrawnReason:  b.WithdrawnReason,
		UpdatedAt:        b.UpdatedAt,
	}
	if r := b.Registration; r != nil {
		row.StorageStatus = string(r.StatusAt(now))
		row.StorageDaysLeft = r.DaysRemaining(now)
	}
	if l := b.Listing; l != nil {
		row.ListingStatus = string(l.StatusAt(now))
	}
	if in := b.Inspection; in != nil {
		row.InspectionResult = string(in.Result)
	}
	if f := b.Fees; f != nil {
		row.TotalFees = f.TotalFees
		row.FeesPaid = f.PaidAt != nil
	}
	if rel := b.Release; rel != nil {
		row.ReleaseCode = rel.ReleaseCode
	}
	return row
}

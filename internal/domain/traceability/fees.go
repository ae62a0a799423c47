package traceability

import (
	"time"

	"github.com/google/uuid"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// FeeComponents are the four regulatory fees. Amounts are inputs; no
// formula derives them.
type FeeComponents struct {
	ProcessingFee    decimal.Decimal
	ExportFee        decimal.Decimal
	InspectionFee    decimal.Decimal
	DocumentationFee decimal.Decimal
}

// Total sums the components
func (c FeeComponents) Total() decimal.Decimal {
	return c.ProcessingFee.Add(c.ExportFee).Add(c.InspectionFee).Add(c.DocumentationFee)
}

func (c FeeComponents) validate() error {
	for name, v := range map[string]decimal.Decimal{
		"processingFee":    c.ProcessingFee,
		"exportFee":        c.ExportFee,
		"inspectionFee":    c.InspectionFee,
		"documentationFee": c.DocumentationFee,
	} {
		if v.IsNegative() {
			return shared.NewValidationError("%s cannot be negative", name)
		}
	}
	return nil
}

// FeeAssessment is the fee intimation and its settlement
type FeeAssessment struct {
	ID               uuid.UUID
	AssessmentCode   string
	BatchCode        string
	ExporterID       string
	Components       FeeComponents
	TotalFees        decimal.Decimal
	Currency         string
	IntimatedAt      time.Time
	PaidAt           *time.Time
	PaymentReference string
}

package traceability

import (
	"time"

	"github.com/google/uuid"
)

// InspectionResult of a port inspection
type InspectionResult string

const (
	InspectionPassed InspectionResult = "PASSED"
	InspectionFailed InspectionResult = "FAILED"
)

// IsValid checks if the result is a known value
func (r InspectionResult) IsValid() bool {
	return r == InspectionPassed || r == InspectionFailed
}

// PortInspection is the pre-shipment inspection at the port of export
type PortInspection struct {
	ID             uuid.UUID
	InspectionCode string
	BatchCode      string
	InspectorID    string
	Port           string
	ScheduledFor   *time.Time
	AssignedAt     time.Time
	Result         InspectionResult
	Findings       string
	SubmittedAt    *time.Time
}

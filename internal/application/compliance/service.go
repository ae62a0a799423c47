package compliance

import (
	"context"
	"errors"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/compliance"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/notification"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
	"go.uber.org/zap"
)

// Service records land inspector submissions and DDGOTS reviews
type Service struct {
	repo       compliance.Repository
	dispatcher notification.Dispatcher
	clock      shared.Clock
	logger     *zap.Logger
}

// NewService creates the compliance service
func NewService(repo compliance.Repository, dispatcher notification.Dispatcher, clock shared.Clock, logger *zap.Logger) *Service {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, dispatcher: dispatcher, clock: clock, logger: logger}
}

// Submit appends a compliance snapshot. Once validated it is always stored.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, notification.Receipt, error) {
	rec, err := compliance.NewRecord(compliance.Submission{
		FarmerID:          req.FarmerID,
		PlotID:            req.PlotID,
		LandMappingID:     req.LandMappingID,
		GPSCoordinates:    req.GPSCoordinates,
		InspectorID:       req.InspectorID,
		ComplianceStatus:  req.EUDRData.ComplianceStatus,
		DeforestationRisk: req.EUDRData.DeforestationRisk,
		CutoffDate:        req.EUDRData.CutoffDate,
	}, s.clock.Now())
	if err != nil {
		return nil, nil, err
	}
	if err := s.repo.Save(ctx, rec); err != nil {
		return nil, nil, err
	}

	receipt := notification.NotifyAll(ctx, s.dispatcher, notification.Payload{
		Type:       notification.TypeComplianceReceived,
		EntityType: "ComplianceRecord",
		EntityID:   rec.RecordCode,
		Title:      "Compliance data received",
		Message:    "Land mapping and EUDR data received for farmer " + rec.FarmerID + ", plot " + rec.PlotID,
		Data: map[string]any{
			"farmerId":         rec.FarmerID,
			"plotId":           rec.PlotID,
			"complianceStatus": string(rec.ComplianceStatus),
		},
	}, notification.RoleRegulatorDDGOTS)

	return &SubmitResult{Stored: true, RecordID: rec.RecordCode, Record: ToRecordResponse(rec)}, receipt, nil
}

// Review applies a DDGOTS decision to a received record
func (s *Service) Review(ctx context.Context, recordID string, req ReviewRequest) (*RecordResponse, notification.Receipt, error) {
	rec, err := s.repo.FindByCode(ctx, recordID)
	if err != nil {
		return nil, nil, err
	}
	if err := rec.Review(compliance.Decision(req.Decision), req.ReviewedBy, req.Notes, s.clock.Now()); err != nil {
		return nil, nil, err
	}
	if err := s.repo.SaveWithLock(ctx, rec); err != nil {
		return nil, nil, err
	}

	receipt := notification.NotifyAll(ctx, s.dispatcher, notification.Payload{
		Type:        notification.TypeComplianceReviewed,
		EntityType:  "ComplianceRecord",
		EntityID:    rec.RecordCode,
		RecipientID: rec.InspectorID,
		Title:       "Compliance record reviewed",
		Message:     "DDGOTS decision on " + rec.RecordCode + ": " + string(rec.Decision),
		Data:        map[string]any{"decision": string(rec.Decision), "status": string(rec.Status)},
	}, notification.RoleLandInspector)

	resp := ToRecordResponse(rec)
	return &resp, receipt, nil
}

// Get returns one record by its record id
func (s *Service) Get(ctx context.Context, recordID string) (*RecordResponse, error) {
	rec, err := s.repo.FindByCode(ctx, recordID)
	if err != nil {
		return nil, err
	}
	resp := ToRecordResponse(rec)
	return &resp, nil
}

// List returns records by farmer, plot or review status
func (s *Service) List(ctx context.Context, f ListFilter) (shared.Paginated[RecordResponse], error) {
	filter := shared.DefaultFilter()
	filter.Page, filter.PageSize = f.Page, f.PageSize
	filter.OrderBy = "received_at"
	filter = filter.Normalize()

	items, total, err := s.repo.Find(ctx, compliance.Query{
		FarmerID: f.FarmerID,
		PlotID:   f.PlotID,
		Status:   compliance.RecordStatus(f.Status),
	}, filter)
	if err != nil {
		return shared.Paginated[RecordResponse]{}, err
	}
	out := make([]RecordResponse, len(items))
	for i := range items {
		out[i] = ToRecordResponse(&items[i])
	}
	return shared.NewPaginated(out, total, filter.Page, filter.PageSize), nil
}

// InheritedStatus is the EUDR status a batch harvested from the plot takes
// when the harvest request does not state one
func (s *Service) InheritedStatus(ctx context.Context, farmerID, plotID string) (compliance.EUDRStatus, error) {
	rec, err := s.repo.FindLatestForPlot(ctx, farmerID, plotID)
	if errors.Is(err, shared.ErrNotFound) {
		return compliance.EUDRPending, nil
	}
	if err != nil {
		return "", err
	}
	return rec.BatchStatus(), nil
}

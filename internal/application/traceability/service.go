package traceability

import (
	"context"
	"errors"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/compliance"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/farm"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/notification"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/traceability"
	"go.uber.org/zap"
)

// HarvestStore commits a harvested schedule and its minted batch together
type HarvestStore interface {
	CommitHarvest(ctx context.Context, s *farm.CropSchedule, b *traceability.Batch) error
}

// ComplianceResolver supplies the EUDR status a new batch inherits
type ComplianceResolver interface {
	InheritedStatus(ctx context.Context, farmerID, plotID string) (compliance.EUDRStatus, error)
}

// DocumentArchive stores released document manifests
type DocumentArchive interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
}

// LotRecorder observes lot races
type LotRecorder interface {
	RecordLotProposal(ctx context.Context, cropType string, won bool)
}

// FeeDefaults fill components a fee intimation leaves out
type FeeDefaults struct {
	Components traceability.FeeComponents
	Currency   string
}

// WorkflowDeps are the collaborators of the workflow service. Schedules,
// CropListings, Harvests and Compliance are only needed by Harvest and the
// lot acceptance side effects. Events, Archive and Lots are optional.
type WorkflowDeps struct {
	Batches      traceability.BatchRepository
	Ledger       traceability.LotLedger
	Schedules    farm.CropScheduleRepository
	CropListings farm.CropListingRepository
	Harvests     HarvestStore
	Compliance   ComplianceResolver
	Dispatcher   notification.Dispatcher
	Events       shared.EventPublisher
	Archive      DocumentArchive
	Lots         LotRecorder
	Fees         FeeDefaults
	Clock        shared.Clock
	Logger       *zap.Logger
}

// WorkflowService drives a batch from harvest to document release
type WorkflowService struct {
	batches      traceability.BatchRepository
	ledger       traceability.LotLedger
	schedules    farm.CropScheduleRepository
	cropListings farm.CropListingRepository
	harvests     HarvestStore
	compliance   ComplianceResolver
	dispatcher   notification.Dispatcher
	events       shared.EventPublisher
	archive      DocumentArchive
	lots         LotRecorder
	fees         FeeDefaults
	clock        shared.Clock
	logger       *zap.Logger
}

// NewWorkflowService creates the workflow service
func NewWorkflowService(d WorkflowDeps) *WorkflowService {
	if d.Clock == nil {
		d.Clock = shared.SystemClock{}
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &WorkflowService{
		batches:      d.Batches,
		ledger:       d.Ledger,
		schedules:    d.Schedules,
		cropListings: d.CropListings,
		harvests:     d.Harvests,
		compliance:   d.Compliance,
		dispatcher:   d.Dispatcher,
		events:       d.Events,
		archive:      d.Archive,
		lots:         d.Lots,
		fees:         d.Fees,
		clock:        d.Clock,
		logger:       d.Logger.Named("workflow"),
	}
}

// Trace returns the batch with every record and its stage history
func (s *WorkflowService) Trace(ctx context.Context, batchCode string) (*TraceResponse, error) {
	b, err := s.batches.FindByCode(ctx, batchCode)
	if err != nil {
		return nil, err
	}
	resp := ToTraceResponse(b, s.clock.Now())
	return &resp, nil
}

// commit writes b under its version guard and publishes the events the
// domain raised
func (s *WorkflowService) commit(ctx context.Context, b *traceability.Batch) error {
	if err := s.batches.SaveWithLock(ctx, b); err != nil {
		s.logFailure("batch commit failed", err, b)
		return err
	}
	s.publish(ctx, b)
	return nil
}

func (s *WorkflowService) publish(ctx context.Context, b *traceability.Batch) {
	events := b.GetDomainEvents()
	b.ClearDomainEvents()
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("publishing stage events failed",
			zap.String("batch_code", b.BatchCode),
			zap.Error(err))
	}
}

// logFailure records unexpected errors. Domain errors are the caller's
// problem and are not logged.
func (s *WorkflowService) logFailure(msg string, err error, b *traceability.Batch) {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return
	}
	s.logger.Error(msg,
		zap.String("batch_code", b.BatchCode),
		zap.String("transaction_code", b.TransactionCode),
		zap.String("stage", string(b.Stage)),
		zap.Error(err))
}

// notify addresses each role, narrowing to the batch's known party for the
// roles that have one
func (s *WorkflowService) notify(ctx context.Context, b *traceability.Batch, p notification.Payload, roles ...notification.Role) notification.Receipt {
	p.BatchCode = b.BatchCode
	if p.EntityType == "" {
		p.EntityType = traceability.AggregateTypeBatch
	}
	if p.EntityID == "" {
		p.EntityID = b.BatchCode
	}
	if p.Data == nil {
		p.Data = map[string]any{}
	}
	p.Data["batchCode"] = b.BatchCode
	p.Data["lifecycleStage"] = string(b.Stage)

	recipients := make([]notification.Recipient, len(roles))
	for i, role := range roles {
		recipients[i] = notification.Recipient{Role: role, ID: recipientFor(role, b)}
	}
	return notification.NotifyRecipients(ctx, s.dispatcher, p, recipients...)
}

func recipientFor(role notification.Role, b *traceability.Batch) string {
	switch role {
	case notification.RoleBuyer:
		return b.BuyerID
	case notification.RoleExporter:
		return b.ExporterID
	case notification.RoleWarehouse:
		if b.Registration != nil {
			return b.Registration.WarehouseID
		}
		if b.Delivery != nil {
			return b.Delivery.WarehouseID
		}
	case notification.RolePortInspector:
		if b.Inspection != nil {
			return b.Inspection.InspectorID
		}
	}
	return ""
}

package traceability

import (
	"context"
	"encoding/json"
	"time"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/notification"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/traceability"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AssignPortInspection schedules the port inspector
func (s *WorkflowService) AssignPortInspection(ctx context.Context, req PortInspectionRequest) (*StepResponse[*InspectionResponse], notification.Receipt, error) {
	b, err := s.batches.FindByCode(ctx, req.BatchCode)
	if err != nil {
		return nil, nil, err
	}
	in, err := b.AssignPortInspection(req.InspectorID, req.Port, req.ScheduledFor, actorOr(req.Actor, "regulator_ddgots"), s.clock.Now())
	if err != nil {
		return nil, nil, err
	}
	if err := s.commit(ctx, b); err != nil {
		return nil, nil, err
	}

	receipt := s.notify(ctx, b, notification.Payload{
		Type:     notification.TypePortInspectionAssigned,
		EntityID: in.InspectionCode,
		Title:    "Port inspection assigned",
		Message:  "Batch " + b.BatchCode + " to be inspected at " + in.Port,
		Data: map[string]any{
			"inspectionId": in.InspectionCode,
			"inspectorId":  in.InspectorID,
			"port":         in.Port,
		},
	}, notification.RolePortInspector, notification.RoleExporter)
	return newStep(b, toInspectionResponse(in)), receipt, nil
}

// SubmitInspectionReport records PASSED or FAILED. A failed batch can only
// be withdrawn afterwards.
func (s *WorkflowService) SubmitInspectionReport(ctx context.Context, req InspectionReportRequest) (*StepResponse[*InspectionResponse], notification.Receipt, error) {
	b, err := s.batches.FindByCode(ctx, req.BatchCode)
	if err != nil {
		return nil, nil, err
	}
	actor := "port_inspector"
	if b.Inspection != nil {
		actor += ":" + b.Inspection.InspectorID
	}
	in, err := b.SubmitInspectionReport(traceability.InspectionResult(req.Result), req.Findings, actorOr(req.Actor, actor), s.clock.Now())
	if err != nil {
		return nil, nil, err
	}
	if err := s.commit(ctx, b); err != nil {
		return nil, nil, err
	}

	receipt := s.notify(ctx, b, notification.Payload{
		Type:     notification.TypeInspectionReported,
		EntityID: in.InspectionCode,
		Title:    "Inspection report submitted",
		Message:  "Port inspection of batch " + b.BatchCode + ": " + string(in.Result),
		Data:     map[string]any{"inspectionId": in.InspectionCode, "result": string(in.Result)},
	}, notification.RoleExporter, notification.RoleRegulatorDDGOTS)
	return newStep(b, toInspectionResponse(in)), receipt, nil
}

// IntimateFees assesses the four regulatory fees. Components the request
// omits take the configured defaults.
func (s *WorkflowService) IntimateFees(ctx context.Context, req FeeIntimationRequest) (*StepResponse[*FeeResponse], notification.Receipt, error) {
	b, err := s.batches.FindByCode(ctx, req.BatchCode)
	if err != nil {
		return nil, nil, err
	}
	components := traceability.FeeComponents{
		ProcessingFee:    orDefault(req.ProcessingFee, s.fees.Components.ProcessingFee),
		ExportFee:        orDefault(req.ExportFee, s.fees.Components.ExportFee),
		InspectionFee:    orDefault(req.InspectionFee, s.fees.Components.InspectionFee),
		DocumentationFee: orDefault(req.DocumentationFee, s.fees.Components.DocumentationFee),
	}
	currency := actorOr(req.Currency, s.fees.Currency)
	fees, err := b.IntimateFees(components, currency, actorOr(req.Actor, "regulator_ddgots"), s.clock.Now())
	if err != nil {
		return nil, nil, err
	}
	if err := s.commit(ctx, b); err != nil {
		return nil, nil, err
	}

	receipt := s.notify(ctx, b, notification.Payload{
		Type:     notification.TypeFeeIntimated,
		EntityID: fees.AssessmentCode,
		Title:    "Export fees intimated",
		Message:  "Fees of " + fees.TotalFees.String() + " " + fees.Currency + " due for batch " + b.BatchCode,
		Data: map[string]any{
			"assessmentId": fees.AssessmentCode,
			"totalFees":    fees.TotalFees.String(),
			"currency":     fees.Currency,
		},
	}, notification.RoleExporter, notification.RoleRegulatorDDGAF)
	return newStep(b, toFeeResponse(fees)), receipt, nil
}

func orDefault(v *decimal.Decimal, def decimal.Decimal) decimal.Decimal {
	if v != nil {
		return *v
	}
	return def
}

// PayFees settles the fee assessment
func (s *WorkflowService) PayFees(ctx context.Context, req FeePaymentRequest) (*StepResponse[*FeeResponse], notification.Receipt, error) {
	b, err := s.batches.FindByCode(ctx, req.BatchCode)
	if err != nil {
		return nil, nil, err
	}
	fees, err := b.PayFees(req.PaymentReference, req.Amount, actorOr(req.Actor, "exporter:"+b.ExporterID), s.clock.Now())
	if err != nil {
		return nil, nil, err
	}
	if err := s.commit(ctx, b); err != nil {
		return nil, nil, err
	}

	receipt := s.notify(ctx, b, notification.Payload{
		Type:     notification.TypeFeePaid,
		EntityID: fees.AssessmentCode,
		Title:    "Export fees paid",
		Message:  "Exporter " + b.ExporterID + " paid fees for batch " + b.BatchCode,
		Data: map[string]any{
			"assessmentId":     fees.AssessmentCode,
			"paymentReference": fees.PaymentReference,
			"totalFees":        fees.TotalFees.String(),
		},
	}, notification.RoleRegulatorDDGAF, notification.RoleRegulatorDDGOTS)
	return newStep(b, toFeeResponse(fees)), receipt, nil
}

// releaseManifest is the archived record of a document release
type releaseManifest struct {
	ReleaseID        string            `json:"releaseId"`
	BatchCode        string            `json:"batchCode"`
	FarmerID         string            `json:"farmerId"`
	BuyerID          string            `json:"buyerId"`
	ExporterID       string            `json:"exporterId"`
	CropType         string            `json:"cropType"`
	ComplianceStatus string            `json:"complianceStatus"`
	InspectionResult string            `json:"inspectionResult,omitempty"`
	Documents        map[string]string `json:"documents"`
	ReleasedBy       string            `json:"releasedBy"`
	ReleasedAt       time.Time         `json:"releasedAt"`
	StageTrail       []string          `json:"stageTrail"`
}

// ReleaseDocuments issues the export documents and archives their manifest.
// An archive failure leaves the release without an archive key, and a failed
// commit removes the manifest it already uploaded.
func (s *WorkflowService) ReleaseDocuments(ctx context.Context, req DocumentReleaseRequest) (*StepResponse[*ReleaseResponse], notification.Receipt, error) {
	b, err := s.batches.FindByCode(ctx, req.BatchCode)
	if err != nil {
		return nil, nil, err
	}
	rel, err := b.ReleaseDocuments(req.ReleasedBy, actorOr(req.Actor, req.ReleasedBy), s.clock.Now())
	if err != nil {
		return nil, nil, err
	}
	s.archiveRelease(ctx, b, rel)
	if err := s.commit(ctx, b); err != nil {
		s.discardRelease(ctx, b, rel)
		return nil, nil, err
	}

	receipt := s.notify(ctx, b, notification.Payload{
		Type:     notification.TypeDocumentsReleased,
		EntityID: rel.ReleaseCode,
		Title:    "Export documents released",
		Message:  "Export documents for batch " + b.BatchCode + " released",
		Data:     map[string]any{"releaseId": rel.ReleaseCode, "documents": rel.Documents},
	}, notification.RoleExporter, notification.RoleRegulatorDDGOTS, notification.RolePortInspector)
	return newStep(b, toReleaseResponse(rel)), receipt, nil
}

func (s *WorkflowService) archiveRelease(ctx context.Context, b *traceability.Batch, rel *traceability.DocumentRelease) {
	if s.archive == nil {
		return
	}
	trail := make([]string, len(b.History))
	for i, h := range b.History {
		trail[i] = string(h.To)
	}
	m := releaseManifest{
		ReleaseID:        rel.ReleaseCode,
		BatchCode:        b.BatchCode,
		FarmerID:         b.FarmerID,
		BuyerID:          b.BuyerID,
		ExporterID:       b.ExporterID,
		CropType:         b.CropType,
		ComplianceStatus: string(b.ComplianceStatus),
		Documents:        rel.Documents,
		ReleasedBy:       rel.ReleasedBy,
		ReleasedAt:       rel.ReleasedAt,
		StageTrail:       trail,
	}
	if b.Inspection != nil {
		m.InspectionResult = string(b.Inspection.Result)
	}
	data, err := json.Marshal(m)
	if err != nil {
		s.logger.Warn("encoding release manifest failed", zap.String("batch_code", b.BatchCode), zap.Error(err))
		return
	}
	key := "releases/" + b.BatchCode + "/" + rel.ReleaseCode + ".json"
	if err := s.archive.Upload(ctx, key, data, "application/json"); err != nil {
		s.logger.Warn("archiving release manifest failed",
			zap.String("batch_code", b.BatchCode),
			zap.String("key", key),
			zap.Error(err))
		return
	}
	rel.ArchiveKey = key
}

// discardRelease removes a manifest whose release never committed
func (s *WorkflowService) discardRelease(ctx context.Context, b *traceability.Batch, rel *traceability.DocumentRelease) {
	if s.archive == nil || rel.ArchiveKey == "" {
		return
	}
	if err := s.archive.Delete(ctx, rel.ArchiveKey); err != nil {
		s.logger.Warn("removing uncommitted release manifest failed",
			zap.String("batch_code", b.BatchCode),
			zap.String("key", rel.ArchiveKey),
			zap.Error(err))
	}
}

// Withdraw pulls a batch out of the chain from any post-harvest stage
// before release
func (s *WorkflowService) Withdraw(ctx context.Context, batchCode string, req WithdrawRequest) (*StepResponse[BatchResponse], notification.Receipt, error) {
	b, err := s.batches.FindByCode(ctx, batchCode)
	if err != nil {
		return nil, nil, err
	}
	from := b.Stage
	if err := b.Withdraw(req.Reason, actorOr(req.Actor, "regulator_ddgots"), s.clock.Now()); err != nil {
		return nil, nil, err
	}
	if err := s.commit(ctx, b); err != nil {
		return nil, nil, err
	}
	s.logger.Info("batch withdrawn",
		zap.String("batch_code", b.BatchCode),
		zap.String("from", string(from)),
		zap.String("reason", req.Reason))

	receipt := s.notify(ctx, b, notification.Payload{
		Type:    notification.TypeBatchWithdrawn,
		Title:   "Batch withdrawn",
		Message: "Batch " + b.BatchCode + " withdrawn at " + string(from) + ": " + req.Reason,
		Data:    map[string]any{"reason": req.Reason, "fromStage": string(from)},
	}, notification.RoleBuyer, notification.RoleExporter, notification.RoleRegulatorDDGOTS)
	return newStep(b, ToBatchResponse(b)), receipt, nil
}

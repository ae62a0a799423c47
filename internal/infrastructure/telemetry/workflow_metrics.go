package telemetry

import (
	"context"
	"fmt"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/notification"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// WorkflowMetrics counts batch lifecycle activity. It satisfies the stage
// recorder of the event handlers and the lot recorder of the workflow.
type WorkflowMetrics struct {
	transitions   metric.Int64Counter
	lotProposals  metric.Int64Counter
	notifications metric.Int64Counter
	sweeps        metric.Int64Counter
}

// NewWorkflowMetrics creates the instruments on meter
func NewWorkflowMetrics(meter metric.Meter) (*WorkflowMetrics, error) {
	transitions, err := meter.Int64Counter("agritrace.batch.stage_transitions",
		metric.WithDescription("Batch lifecycle transitions"),
		metric.WithUnit("{transition}"))
	if err != nil {
		return nil, fmt.Errorf("stage transitions counter: %w", err)
	}
	lots, err := meter.Int64Counter("agritrace.lot.proposals",
		metric.WithDescription("Lot proposals by outcome"),
		metric.WithUnit("{proposal}"))
	if err != nil {
		return nil, fmt.Errorf("lot proposals counter: %w", err)
	}
	notifications, err := meter.Int64Counter("agritrace.notifications.dispatched",
		metric.WithDescription("Notifications accepted per role"),
		metric.WithUnit("{notification}"))
	if err != nil {
		return nil, fmt.Errorf("notifications counter: %w", err)
	}
	sweeps, err := meter.Int64Counter("agritrace.expiry.lapsed_windows",
		metric.WithDescription("Storage and listing windows closed by the expiry sweep"),
		metric.WithUnit("{window}"))
	if err != nil {
		return nil, fmt.Errorf("expiry counter: %w", err)
	}
	return &WorkflowMetrics{
		transitions:   transitions,
		lotProposals:  lots,
		notifications: notifications,
		sweeps:        sweeps,
	}, nil
}

// RecordStageTransition counts one lifecycle move
func (m *WorkflowMetrics) RecordStageTransition(ctx context.Context, cropType, from, to string) {
	m.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("crop_type", cropType),
		attribute.String("from", from),
		attribute.String("to", to)))
}

// RecordLotProposal counts a won or sold-out proposal
func (m *WorkflowMetrics) RecordLotProposal(ctx context.Context, cropType string, won bool) {
	outcome := "sold_out"
	if won {
		outcome = "accepted"
	}
	m.lotProposals.Add(ctx, 1, metric.WithAttributes(
		attribute.String("crop_type", cropType),
		attribute.String("outcome", outcome)))
}

// Name identifies the metrics sink
func (m *WorkflowMetrics) Name() string { return "metrics" }

// Deliver counts one accepted notification per role, so the metrics can be
// plugged in as a dispatcher sink
func (m *WorkflowMetrics) Deliver(ctx context.Context, n *notification.Notification) error {
	m.notifications.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", string(n.Type)),
		attribute.String("role", string(n.Role))))
	return nil
}

// RecordLapsedWindows counts windows the sweep marked expired
func (m *WorkflowMetrics) RecordLapsedWindows(ctx context.Context, storage, listings int) {
	if storage > 0 {
		m.sweeps.Add(ctx, int64(storage), metric.WithAttributes(attribute.String("window", "storage")))
	}
	if listings > 0 {
		m.sweeps.Add(ctx, int64(listings), metric.WithAttributes(attribute.String("window", "listing")))
	}
}

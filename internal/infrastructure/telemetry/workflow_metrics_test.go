package telemetry

import (
	"context"
	"testing"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Sum[int64] {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Sum[int64]{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				out[m.Name] = sum
			}
		}
	}
	return out
}

func valueWhere(sum metricdata.Sum[int64], key, value string) int64 {
	var total int64
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(attribute.Key(key)); ok && v.AsString() == value {
			total += dp.Value
		}
	}
	return total
}

func TestWorkflowMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewWorkflowMetrics(provider.Meter(InstrumentationName))
	require.NoError(t, err)
	ctx := context.Background()

	m.RecordStageTransition(ctx, "Cocoa", "harvested", "lot_accepted")
	m.RecordStageTransition(ctx, "Cocoa", "lot_accepted", "payment_confirmed")
	m.RecordLotProposal(ctx, "Cocoa", true)
	m.RecordLotProposal(ctx, "Cocoa", false)
	m.RecordLotProposal(ctx, "Cocoa", false)
	m.RecordLapsedWindows(ctx, 2, 0)
	require.NoError(t, m.Deliver(ctx, &notification.Notification{Role: notification.RoleBuyer, Type: notification.TypeStorageExpired}))
	assert.Equal(t, "metrics", m.Name())

	sums := collect(t, reader)
	assert.Equal(t, int64(1), valueWhere(sums["agritrace.batch.stage_transitions"], "to", "lot_accepted"))
	assert.Equal(t, int64(1), valueWhere(sums["agritrace.lot.proposals"], "outcome", "accepted"))
	assert.Equal(t, int64(2), valueWhere(sums["agritrace.lot.proposals"], "outcome", "sold_out"))
	assert.Equal(t, int64(2), valueWhere(sums["agritrace.expiry.lapsed_windows"], "window", "storage"))
	assert.Equal(t, int64(0), valueWhere(sums["agritrace.expiry.lapsed_windows"], "window", "listing"))
	assert.Equal(t, int64(1), valueWhere(sums["agritrace.notifications.dispatched"], "role", string(notification.RoleBuyer)))
}

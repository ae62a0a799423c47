package event

import (
	"context"
	"fmt"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/traceability"
	"go.uber.org/zap"
)

// StageRecorder receives every batch lifecycle transition
type StageRecorder interface {
	RecordStageTransition(ctx context.Context, cropType, from, to string)
}

// StageTransitionHandler writes an audit log line per batch transition and
// forwards it to an optional recorder (metrics)
type StageTransitionHandler struct {
	logger   *zap.Logger
	recorder StageRecorder
}

// NewStageTransitionHandler creates the handler. recorder may be nil.
func NewStageTransitionHandler(logger *zap.Logger, recorder StageRecorder) *StageTransitionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StageTransitionHandler{logger: logger, recorder: recorder}
}

func (h *StageTransitionHandler) EventTypes() []string {
	return []string{traceability.EventTypeBatchStageChanged}
}

func (h *StageTransitionHandler) Handle(ctx context.Context, e shared.DomainEvent) error {
	ev, ok := e.(*traceability.StageChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T for %s", e, e.EventType())
	}

	h.logger.Info("batch stage changed",
		zap.String("batch_code", ev.BatchCode),
		zap.String("from", string(ev.From)),
		zap.String("to", string(ev.To)),
		zap.String("actor", ev.Actor),
		zap.Time("at", ev.OccurredAt()),
	)
	if h.recorder != nil {
		h.recorder.RecordStageTransition(ctx, ev.CropType, string(ev.From), string(ev.To))
	}
	return nil
}

var _ shared.EventHandler = (*StageTransitionHandler)(nil)

package traceability

import (
	"time"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
)

const (
	AggregateTypeBatch         = "Batch"
	EventTypeBatchStageChanged = "BatchStageChanged"
)

// StageChangedEvent is raised on every lifecycle transition
type StageChangedEvent struct {
	shared.BaseDomainEvent
	BatchCode string `json:"batch_code"`
	CropType  string `json:"crop_type"`
	From      Stage  `json:"from"`
	To        Stage  `json:"to"`
	Actor     string `json:"actor,omitempty"`
}

// NewStageChangedEvent creates the event for b moving from → to
func NewStageChangedEvent(b *Batch, from, to Stage, actor string, at time.Time) *StageChangedEvent {
	return &StageChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchStageChanged, AggregateTypeBatch, b.ID, at),
		BatchCode:       b.BatchCode,
		CropType:        b.CropType,
		From:            from,
		To:              to,
		Actor:           actor,
	}
}

package notify

import (
	"context"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/notification"
	"go.uber.org/zap"
)

// LogSink writes each notification as a structured log line
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger.Named("notify")}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Deliver(_ context.Context, n *notification.Notification) error {
	s.logger.Info("notification dispatched",
		zap.String("notification_id", n.ID.String()),
		zap.String("role", string(n.Role)),
		zap.String("recipient_id", n.RecipientID),
		zap.String("type", string(n.Type)),
		zap.String("batch_code", n.BatchCode),
		zap.String("title", n.Title),
	)
	return nil
}

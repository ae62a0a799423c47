package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/notification"
)

// WebhookSink POSTs the JSON message to a single endpoint. The role is sent
// in the X-Notification-Role header so one receiver can route by role.
type WebhookSink struct {
	client *resty.Client
	url    string
}

// NewWebhookSink creates the sink. retries should stay 0 unless the receiver
// deduplicates on the message id.
func NewWebhookSink(url string, timeout time.Duration, retries int) *WebhookSink {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetRetryWaitTime(500*time.Millisecond).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "agritrace360-notify")
	return &WebhookSink{client: client, url: url}
}

func (s *WebhookSink) Name() string { return "webhook" }

func (s *WebhookSink) Deliver(ctx context.Context, n *notification.Notification) error {
	body, err := encode(n)
	if err != nil {
		return err
	}
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("X-Notification-Role", string(n.Role)).
		SetHeader("X-Notification-Id", n.ID.String()).
		SetBody(body).
		Post(s.url)
	if err != nil {
		return fmt.Errorf("webhook post: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook post: status %d", resp.StatusCode())
	}
	return nil
}

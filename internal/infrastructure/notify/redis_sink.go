package notify

import (
	"context"
	"fmt"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/notification"
	"github.com/redis/go-redis/v9"
)

// RedisSink publishes to <channel>:<role> on Redis pub/sub
type RedisSink struct {
	client  redis.UniversalClient
	channel string
}

func NewRedisSink(client redis.UniversalClient, channel string) *RedisSink {
	return &RedisSink{client: client, channel: channel}
}

func (s *RedisSink) Name() string { return "redis" }

// Channel returns the pub/sub channel for role
func (s *RedisSink) Channel(role notification.Role) string {
	return s.channel + ":" + string(role)
}

func (s *RedisSink) Deliver(ctx context.Context, n *notification.Notification) error {
	body, err := encode(n)
	if err != nil {
		return err
	}
	if err := s.client.Publish(ctx, s.Channel(n.Role), body).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

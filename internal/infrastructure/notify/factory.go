package notify

import (
	"errors"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/notification"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrRedisUnavailable is returned when the redis sink is configured without a client
var ErrRedisUnavailable = errors.New("redis sink requires redis.enabled")

// BuildSinks creates the sinks named in cfg.Sinks. The returned cleanup
// releases broker connections.
func BuildSinks(cfg config.NotificationConfig, rdb redis.UniversalClient, logger *zap.Logger) ([]notification.Sink, func(), error) {
	var sinks []notification.Sink
	var closers []func()
	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}

	for _, name := range cfg.Sinks {
		switch name {
		case "log":
			sinks = append(sinks, NewLogSink(logger))
		case "webhook":
			sinks = append(sinks, NewWebhookSink(cfg.WebhookURL, cfg.WebhookTimeout, cfg.WebhookRetries))
		case "redis":
			if rdb == nil {
				cleanup()
				return nil, nil, ErrRedisUnavailable
			}
			sinks = append(sinks, NewRedisSink(rdb, cfg.RedisChannel))
		case "mqtt":
			sink, closeFn, err := NewMQTTSink(MQTTOptions{
				Broker:   cfg.MQTTBroker,
				ClientID: cfg.MQTTClientID,
				Topic:    cfg.MQTTTopic,
				QoS:      cfg.MQTTQoS,
			})
			if err != nil {
				cleanup()
				return nil, nil, err
			}
			sinks = append(sinks, sink)
			closers = append(closers, closeFn)
		}
		logger.Info("notification sink enabled", zap.String("sink", name))
	}
	return sinks, cleanup, nil
}

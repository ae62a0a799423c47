package notify

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/notification"
)

// publisher is the part of mqtt.Client the sink uses
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTSink publishes to <topic>/<role>, so field devices subscribe per role
type MQTTSink struct {
	client  publisher
	topic   string
	qos     byte
	timeout time.Duration
}

// MQTTOptions configures the broker connection
type MQTTOptions struct {
	Broker   string
	ClientID string
	Topic    string
	QoS      int
	Timeout  time.Duration
}

// NewMQTTSink connects to the broker. The returned func disconnects.
func NewMQTTSink(o MQTTOptions) (*MQTTSink, func(), error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(o.Broker)
	opts.SetClientID(o.ClientID)
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	opts.SetConnectTimeout(5 * time.Second)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, nil, fmt.Errorf("failed to connect to MQTT broker %s: %w", o.Broker, token.Error())
	}
	return newMQTTSink(client, o), func() { client.Disconnect(250) }, nil
}

func newMQTTSink(client publisher, o MQTTOptions) *MQTTSink {
	if o.Timeout <= 0 {
		o.Timeout = 5 * time.Second
	}
	return &MQTTSink{client: client, topic: o.Topic, qos: byte(o.QoS), timeout: o.Timeout}
}

func (s *MQTTSink) Name() string { return "mqtt" }

// Topic returns the topic for role
func (s *MQTTSink) Topic(role notification.Role) string {
	return s.topic + "/" + string(role)
}

func (s *MQTTSink) Deliver(_ context.Context, n *notification.Notification) error {
	body, err := encode(n)
	if err != nil {
		return err
	}
	topic := s.Topic(n.Role)
	token := s.client.Publish(topic, s.qos, false, body)
	if !token.WaitTimeout(s.timeout) {
		return fmt.Errorf("publish to %s timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", topic, err)
	}
	return nil
}

package mq

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// AcceptedReadingEvent is published after a reading row is persisted.
type AcceptedReadingEvent struct {
	DeviceEUI  string  `json:"device_eui"`
	Brand      string  `json:"brand"`
	Table      string  `json:"table"`
	SensorName string  `json:"sensor_name"`
	ReceivedAt *string `json:"received_at"`
}

// Publisher announces accepted readings on a service topic. A Publisher
// with an empty topic is disabled and publishes nothing.
type Publisher struct {
	client *Client
	topic  string
	qos    byte
	logger *zap.Logger
}

// NewPublisher creates a new event publisher
func NewPublisher(client *Client, topic string, qos byte, logger *zap.Logger) *Publisher {
	return &Publisher{
		client: client,
		topic:  topic,
		qos:    qos,
		logger: logger,
	}
}

// Enabled reports whether an events topic is configured.
func (p *Publisher) Enabled() bool {
	return p.topic != ""
}

// PublishAcceptedReading publishes an accepted-reading event.
func (p *Publisher) PublishAcceptedReading(ctx context.Context, event AcceptedReadingEvent) error {
	if !p.Enabled() {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.client.Publish(p.topic, p.qos, body); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("published accepted reading event",
		zap.String("topic", p.topic),
		zap.String("device_eui", event.DeviceEUI),
		zap.String("table", event.Table),
	)

	return nil
}

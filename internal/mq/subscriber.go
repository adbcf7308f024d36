package mq

import (
	"context"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

// MessageHandler is a function that processes a message
type MessageHandler func(ctx context.Context, body []byte) error

// Subscriber consumes uplink messages from the broker and feeds them to the
// message processor one at a time, in arrival order. The handler runs to
// completion before the next delivery is dispatched.
type Subscriber struct {
	client           *Client
	topic            string
	qos              byte
	logger           *zap.Logger
	messageProcessor MessageHandler
}

// SubscriberConfig holds subscriber configuration
type SubscriberConfig struct {
	Client           *Client
	Topic            string
	QoS              byte
	Logger           *zap.Logger
	MessageProcessor MessageHandler
}

// NewSubscriber creates a new uplink subscriber
func NewSubscriber(cfg SubscriberConfig) *Subscriber {
	return &Subscriber{
		client:           cfg.Client,
		topic:            cfg.Topic,
		qos:              cfg.QoS,
		logger:           cfg.Logger,
		messageProcessor: cfg.MessageProcessor,
	}
}

// Start registers the uplink subscription. Registration goes through the
// client's connect hook so the subscription survives broker reconnects.
func (s *Subscriber) Start(ctx context.Context) error {
	s.client.HandleConnect(func() {
		err := s.client.Subscribe(s.topic, s.qos, func(_ paho.Client, msg paho.Message) {
			s.processMessage(ctx, msg)
		})
		if err != nil {
			s.logger.Error("failed to subscribe to uplink topic",
				zap.String("topic", s.topic),
				zap.Error(err),
			)
			return
		}
		s.logger.Info("subscribed to uplink topic",
			zap.String("topic", s.topic),
			zap.Uint8("qos", s.qos),
		)
	})
	return nil
}

// processMessage contains each message's outcome: a failed message is
// logged and dropped, it never halts the subscription or touches sibling
// messages.
func (s *Subscriber) processMessage(ctx context.Context, msg paho.Message) {
	if ctx.Err() != nil {
		return
	}

	s.logger.Debug("received uplink message",
		zap.String("topic", msg.Topic()),
		zap.Int("body_size", len(msg.Payload())),
	)

	if err := s.messageProcessor(ctx, msg.Payload()); err != nil {
		s.logger.Error("failed to process uplink message",
			zap.Error(err),
			zap.String("topic", msg.Topic()),
		)
	}
}

// Close removes the uplink subscription.
func (s *Subscriber) Close() error {
	return s.client.Unsubscribe(s.topic)
}

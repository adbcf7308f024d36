package mq

import (
	"context"
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Client wraps the MQTT connection. Subscriptions registered through
// HandleConnect are re-established after every reconnect.
type Client struct {
	cli    paho.Client
	logger *zap.Logger

	mu        sync.Mutex
	connected bool
	onConnect []func()
}

// ClientConfig holds MQTT connection settings
type ClientConfig struct {
	BrokerURL string
	Username  string
	Password  string
	ClientID  string
}

// NewClient creates a new MQTT client and registers connect/disconnect with
// the application lifecycle.
func NewClient(lc fx.Lifecycle, logger *zap.Logger, cfg ClientConfig) (*Client, error) {
	c := &Client{logger: logger}

	opts := paho.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(cfg.ClientID + "-" + uuid.NewString()[:8]).
		SetAutoReconnect(true).
		SetOrderMatters(true).
		SetConnectTimeout(10 * time.Second)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		logger.Error("mqtt connection lost", zap.Error(err))
	})
	opts.SetOnConnectHandler(func(_ paho.Client) {
		logger.Info("mqtt connection established", zap.String("broker", cfg.BrokerURL))
		c.mu.Lock()
		c.connected = true
		handlers := make([]func(), len(c.onConnect))
		copy(handlers, c.onConnect)
		c.mu.Unlock()
		for _, h := range handlers {
			h()
		}
	})

	c.cli = paho.NewClient(opts)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("attempting to connect to MQTT broker...")
			token := c.cli.Connect()
			if !token.WaitTimeout(10 * time.Second) {
				return fmt.Errorf("timed out connecting to MQTT broker %s", cfg.BrokerURL)
			}
			if err := token.Error(); err != nil {
				logger.Error("mqtt connection failed", zap.Error(err))
				return fmt.Errorf("cannot connect to MQTT broker %s: %w", cfg.BrokerURL, err)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			c.cli.Disconnect(250)
			logger.Info("mqtt connection closed")
			return nil
		},
	})

	return c, nil
}

// HandleConnect registers f to run on every (re)connect. If the client is
// already connected, f runs immediately as well.
func (c *Client) HandleConnect(f func()) {
	c.mu.Lock()
	c.onConnect = append(c.onConnect, f)
	runNow := c.connected
	c.mu.Unlock()
	if runNow {
		f()
	}
}

// Subscribe subscribes to a topic filter with the given handler.
func (c *Client) Subscribe(topic string, qos byte, handler paho.MessageHandler) error {
	token := c.cli.Subscribe(topic, qos, handler)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", topic, token.Error())
	}
	return nil
}

// Unsubscribe removes a topic subscription.
func (c *Client) Unsubscribe(topic string) error {
	token := c.cli.Unsubscribe(topic)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to unsubscribe from %s: %w", topic, token.Error())
	}
	return nil
}

// Publish publishes a payload to a topic.
func (c *Client) Publish(topic string, qos byte, payload []byte) error {
	token := c.cli.Publish(topic, qos, false, payload)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, token.Error())
	}
	return nil
}

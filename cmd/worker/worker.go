package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/effingham-iot/lorawan-ingest-worker/internal/config"
	"github.com/effingham-iot/lorawan-ingest-worker/internal/db"
	"github.com/effingham-iot/lorawan-ingest-worker/internal/mq"
	"github.com/effingham-iot/lorawan-ingest-worker/internal/repository"
	"github.com/effingham-iot/lorawan-ingest-worker/internal/service"
)

func startWorker(
	lc fx.Lifecycle,
	client *mq.Client,
	cfg *config.Config,
	logger *zap.Logger,
	processor *service.ProcessorService,
) (*mq.Subscriber, error) {
	// Context for the subscriber, cancelled on shutdown
	ctx, cancel := context.WithCancel(context.Background())

	subscriber := mq.NewSubscriber(mq.SubscriberConfig{
		Client:           client,
		Topic:            cfg.MQTT.UplinkTopic,
		QoS:              byte(cfg.MQTT.QoS),
		Logger:           logger,
		MessageProcessor: processor.ProcessMessage,
	})

	lc.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			logger.Info("starting uplink subscriber",
				zap.String("topic", cfg.MQTT.UplinkTopic),
				zap.Int("qos", cfg.MQTT.QoS))
			return subscriber.Start(ctx)
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			if err := subscriber.Close(); err != nil {
				logger.Error("failed to close subscriber", zap.Error(err))
				return err
			}
			logger.Info("worker stopped gracefully")
			return nil
		},
	})

	return subscriber, nil
}

// ProvideRepository creates a new repository instance
func ProvideRepository(pool *db.Pool) *repository.Repository {
	return repository.NewRepository(pool)
}

// ProvidePublisher creates a new accepted-reading event publisher
func ProvidePublisher(client *mq.Client, cfg *config.Config, logger *zap.Logger) *mq.Publisher {
	return mq.NewPublisher(client, cfg.MQTT.EventsTopic, byte(cfg.MQTT.QoS), logger)
}

// ProvideProcessorService creates a new processor service instance
func ProvideProcessorService(
	repo *repository.Repository,
	publisher *mq.Publisher,
	cfg *config.Config,
	logger *zap.Logger,
) (*service.ProcessorService, error) {
	loc, err := time.LoadLocation(cfg.Ingest.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid INGEST_TIMEZONE %q: %w", cfg.Ingest.Timezone, err)
	}
	return service.NewProcessorService(repo, publisher, loc, logger), nil
}

// ProvideDBPool creates a new database pool instance
func ProvideDBPool(lc fx.Lifecycle, logger *zap.Logger, cfg *config.Config) (*db.Pool, error) {
	return db.NewPool(lc, logger, cfg.Database.URL)
}

// ProvideMQTTClient creates a new MQTT client instance
func ProvideMQTTClient(lc fx.Lifecycle, logger *zap.Logger, cfg *config.Config) (*mq.Client, error) {
	return mq.NewClient(lc, logger, mq.ClientConfig{
		BrokerURL: cfg.MQTT.BrokerURL,
		Username:  cfg.MQTT.Username,
		Password:  cfg.MQTT.Password,
		ClientID:  cfg.MQTT.ClientID,
	})
}

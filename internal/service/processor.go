package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/effingham-iot/lorawan-ingest-worker/internal/db"
	"github.com/effingham-iot/lorawan-ingest-worker/internal/logging"
	"github.com/effingham-iot/lorawan-ingest-worker/internal/mq"
	"github.com/effingham-iot/lorawan-ingest-worker/internal/routing"
	"github.com/effingham-iot/lorawan-ingest-worker/internal/uplink"
	"github.com/effingham-iot/lorawan-ingest-worker/tools/timeparser"
)

// Store is the persistence surface the processor depends on. The concrete
// implementation is internal/repository; tests substitute a double.
type Store interface {
	EnsureBrand(ctx context.Context, brandName string) error
	EnsureDevice(ctx context.Context, deviceEUI, brandName string) (*db.Device, error)
	InsertSoilReading(ctx context.Context, reading *db.SoilSensorReading) error
	InsertClimateReading(ctx context.Context, reading *db.ClimateReading) error
}

// EventPublisher announces accepted readings after they are persisted.
type EventPublisher interface {
	Enabled() bool
	PublishAcceptedReading(ctx context.Context, event mq.AcceptedReadingEvent) error
}

// ProcessorService runs the per-message ingestion pipeline:
// decode → resolve identity → route → normalize timestamp → write.
type ProcessorService struct {
	store     Store
	publisher EventPublisher
	loc       *time.Location
	logger    *zap.Logger
}

// NewProcessorService creates a new processor service
func NewProcessorService(store Store, publisher EventPublisher, loc *time.Location, logger *zap.Logger) *ProcessorService {
	return &ProcessorService{
		store:     store,
		publisher: publisher,
		loc:       loc,
		logger:    logger,
	}
}

// ProcessMessage processes one uplink message end to end. Every failure is
// contained at the message boundary: skips (decode failure, incomplete
// identity, routing miss) return nil after a diagnostic, and a returned
// error means a store failure the caller logs and moves past. Nothing here
// halts the ingestion stream.
func (s *ProcessorService) ProcessMessage(ctx context.Context, body []byte) error {
	env, err := uplink.Decode(body)
	if err != nil {
		// No identity to persist for an undecodable message, so no
		// brand/device upsert happens either.
		s.logger.Warn("discarding uplink",
			zap.String("reason", FailureDecode.String()),
			zap.Error(err),
		)
		return nil
	}

	msgLogger := logging.WithDevice(s.logger, env.DeviceEUI, env.BrandID)
	msgLogger.Info("processing uplink")

	if err := s.store.EnsureBrand(ctx, env.BrandID); err != nil {
		msgLogger.Error("failed to upsert brand",
			zap.String("reason", FailureStore.String()),
			zap.Error(err),
		)
		return fmt.Errorf("brand upsert: %w", err)
	}

	device, err := s.store.EnsureDevice(ctx, env.DeviceEUI, env.BrandID)
	if err != nil {
		msgLogger.Error("failed to upsert device",
			zap.String("reason", FailureStore.String()),
			zap.Error(err),
		)
		return fmt.Errorf("device upsert: %w", err)
	}

	// A device without an operator-assigned sensor name is valid but not
	// yet provisioned for readings.
	if device.SensorName == nil {
		msgLogger.Info("discarding uplink",
			zap.String("reason", FailureIdentityIncomplete.String()),
		)
		return nil
	}

	decision := routing.Route(env.BrandID, env.FPort, env.DecodedPayload)
	if decision.Target == routing.TargetNone {
		msgLogger.Info("discarding uplink",
			zap.String("reason", FailureRoutingMiss.String()),
		)
		return nil
	}

	receivedAt := timeparser.NormalizeLocal(env.ReceivedAtRaw, s.loc)
	if env.ReceivedAtRaw != "" && receivedAt == nil {
		// Degrades to NULL on the row, never fatal.
		msgLogger.Warn("unparsable uplink timestamp",
			zap.String("reason", FailureTimestamp.String()),
			zap.String("raw", env.ReceivedAtRaw),
		)
	}

	if err := s.writeReading(ctx, decision, *device.SensorName, receivedAt); err != nil {
		msgLogger.Error("failed to insert reading",
			zap.String("reason", FailureStore.String()),
			zap.String("table", decision.Target.String()),
			zap.Error(err),
		)
		return fmt.Errorf("reading insert: %w", err)
	}

	s.publishAccepted(ctx, env, decision.Target, *device.SensorName, receivedAt, msgLogger)

	msgLogger.Info("uplink stored", zap.String("table", decision.Target.String()))
	return nil
}

func (s *ProcessorService) writeReading(
	ctx context.Context,
	decision routing.Decision,
	sensorName string,
	receivedAt *string,
) error {
	switch decision.Target {
	case routing.TargetSoil:
		return s.store.InsertSoilReading(ctx, &db.SoilSensorReading{
			SensorName:         sensorName,
			AmbientTemperature: decision.Soil.AmbientTemperature,
			LightIntensity:     decision.Soil.LightIntensity,
			RelativeHumidity:   decision.Soil.RelativeHumidity,
			SoilTemperature:    decision.Soil.SoilTemperature,
			SoilMoisture:       decision.Soil.SoilMoisture,
			ReceivedAt:         receivedAt,
		})
	case routing.TargetClimate:
		return s.store.InsertClimateReading(ctx, &db.ClimateReading{
			SensorName:  sensorName,
			Temperature: decision.Climate.Temperature,
			Humidity:    decision.Climate.Humidity,
			Pressure:    decision.Climate.Pressure,
			CO2:         decision.Climate.CO2,
			ReceivedAt:  receivedAt,
		})
	default:
		return fmt.Errorf("no writable target %v", decision.Target)
	}
}

// publishAccepted emits the post-insert event. Publish failures are logged
// and never fail the message: the row is already persisted.
func (s *ProcessorService) publishAccepted(
	ctx context.Context,
	env *uplink.Envelope,
	target routing.Target,
	sensorName string,
	receivedAt *string,
	logger *zap.Logger,
) {
	if s.publisher == nil || !s.publisher.Enabled() {
		return
	}

	event := mq.AcceptedReadingEvent{
		DeviceEUI:  env.DeviceEUI,
		Brand:      env.BrandID,
		Table:      target.String(),
		SensorName: sensorName,
		ReceivedAt: receivedAt,
	}
	if err := s.publisher.PublishAcceptedReading(ctx, event); err != nil {
		logger.Error("failed to publish accepted reading event", zap.Error(err))
	}
}

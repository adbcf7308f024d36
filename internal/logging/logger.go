package logging

import (
	"go.uber.org/zap"
)

// NewLogger creates a new structured logger
func NewLogger(serviceName string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.InitialFields = map[string]interface{}{
		"service": serviceName,
	}

	logger, err := config.Build()
	if err != nil {
		return nil, err
	}

	return logger, nil
}

// WithDevice returns a logger carrying the device and brand identity fields
// attached to every per-message diagnostic.
func WithDevice(logger *zap.Logger, deviceEUI, brandID string) *zap.Logger {
	return logger.With(zap.String("device_eui", deviceEUI), zap.String("brand", brandID))
}

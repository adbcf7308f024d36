package main

import (
	"go.uber.org/zap"

	"github.com/effingham-iot/lorawan-ingest-worker/internal/config"
	"github.com/effingham-iot/lorawan-ingest-worker/internal/logging"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.NewLogger(cfg.ServiceName)
}

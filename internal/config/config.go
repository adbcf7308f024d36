package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	ServiceName string
	Database    DatabaseConfig
	MQTT        MQTTConfig
	Ingest      IngestConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL string
}

// MQTTConfig holds broker connection and subscription settings. The uplink
// topic is the network server's wildcard pattern matching every device's
// uplink stream.
type MQTTConfig struct {
	BrokerURL   string
	Username    string
	Password    string
	ClientID    string
	UplinkTopic string
	EventsTopic string
	QoS         int
}

// IngestConfig holds pipeline settings
type IngestConfig struct {
	Timezone string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		ServiceName: getEnv("SERVICE_NAME", "lorawan-ingest-worker"),
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		MQTT: MQTTConfig{
			BrokerURL:   getEnv("MQTT_BROKER_URL", ""),
			Username:    getEnv("MQTT_USERNAME", ""),
			Password:    getEnv("MQTT_PASSWORD", ""),
			ClientID:    getEnv("MQTT_CLIENT_ID", "lorawan-ingest-worker"),
			UplinkTopic: getEnv("MQTT_UPLINK_TOPIC", "v3/+/devices/+/up"),
			EventsTopic: getEnv("MQTT_EVENTS_TOPIC", ""),
			QoS:         getEnvAsInt("MQTT_QOS", 0),
		},
		Ingest: IngestConfig{
			Timezone: getEnv("INGEST_TIMEZONE", "America/New_York"),
		},
	}

	// Validate required fields
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required but not set in environment variables")
	}
	if cfg.MQTT.BrokerURL == "" {
		return nil, fmt.Errorf("MQTT_BROKER_URL is required but not set in environment variables")
	}
	if cfg.MQTT.QoS < 0 || cfg.MQTT.QoS > 2 {
		return nil, fmt.Errorf("MQTT_QOS must be 0, 1 or 2, got %d", cfg.MQTT.QoS)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

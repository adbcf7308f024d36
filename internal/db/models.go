package db

import (
	"time"

	"github.com/google/uuid"
)

// Brand represents a sensor vendor row. Created on first sighting, never
// updated or deleted by this pipeline.
type Brand struct {
	ID        uuid.UUID
	BrandName string
	CreatedAt time.Time
}

// Device represents a provisioned device row. sensor_name is assigned by an
// operator workflow, never by this pipeline; a device without one is valid
// but yields no readings.
type Device struct {
	ID         uuid.UUID
	DeviceEUI  string
	Brand      string
	SensorName *string
	CreatedAt  time.Time
}

// SoilSensorReading is one append-only soil reading row.
type SoilSensorReading struct {
	SensorName         string
	AmbientTemperature *float64
	LightIntensity     *float64
	RelativeHumidity   *float64
	SoilTemperature    *float64
	SoilMoisture       *float64
	ReceivedAt         *string
}

// ClimateReading is one append-only climate reading row.
type ClimateReading struct {
	SensorName  string
	Temperature *float64
	Humidity    *float64
	Pressure    *float64
	CO2         *float64
	ReceivedAt  *string
}

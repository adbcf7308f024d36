package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/effingham-iot/lorawan-ingest-worker/internal/db"
)

// Repository handles database operations. Table names are the quoted
// mixed-case identifiers the provisioning schema was created with.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EnsureBrand upserts a brand row keyed on brand_name. Re-processing the
// same brand any number of times leaves exactly one row.
func (r *Repository) EnsureBrand(ctx context.Context, brandName string) error {
	query := `
		INSERT INTO "Brands" (brand_name)
		VALUES ($1)
		ON CONFLICT (brand_name) DO NOTHING
	`

	if _, err := r.pool.Exec(ctx, query, brandName); err != nil {
		return fmt.Errorf("failed to upsert brand %q: %w", brandName, err)
	}
	return nil
}

// EnsureDevice upserts a device row keyed on device_eui and reads it back.
// The brand reference is overwritten if it changed for the same EUI;
// sensor_name is owned by the provisioning workflow and only read here.
func (r *Repository) EnsureDevice(ctx context.Context, deviceEUI, brandName string) (*db.Device, error) {
	query := `
		INSERT INTO "Devices" (device_eui, brand)
		VALUES ($1, $2)
		ON CONFLICT (device_eui) DO UPDATE SET brand = EXCLUDED.brand
		RETURNING id, device_eui, brand, sensor_name, created_at
	`

	var device db.Device
	err := r.pool.QueryRow(ctx, query, deviceEUI, brandName).Scan(
		&device.ID,
		&device.DeviceEUI,
		&device.Brand,
		&device.SensorName,
		&device.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert device %q: %w", deviceEUI, err)
	}

	return &device, nil
}

// InsertSoilReading appends one soil sensor reading row. No upsert
// semantics: duplicate broker deliveries produce duplicate rows.
func (r *Repository) InsertSoilReading(ctx context.Context, reading *db.SoilSensorReading) error {
	query := `
		INSERT INTO "SoilSensorReadings" (
			sensor_name, ambient_temperature, light_intensity,
			relative_humidity, soil_temperature, soil_moisture, received_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		reading.SensorName,
		reading.AmbientTemperature,
		reading.LightIntensity,
		reading.RelativeHumidity,
		reading.SoilTemperature,
		reading.SoilMoisture,
		reading.ReceivedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert soil reading: %w", err)
	}
	return nil
}

// InsertClimateReading appends one climate reading row.
func (r *Repository) InsertClimateReading(ctx context.Context, reading *db.ClimateReading) error {
	query := `
		INSERT INTO "ClimateReadings" (
			sensor_name, temperature, humidity, pressure, co2, received_at
		)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		reading.SensorName,
		reading.Temperature,
		reading.Humidity,
		reading.Pressure,
		reading.CO2,
		reading.ReceivedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert climate reading: %w", err)
	}
	return nil
}

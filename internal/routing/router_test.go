package routing_test

import (
	"testing"

	"github.com/effingham-iot/lorawan-ingest-worker/internal/routing"
)

func intPtr(v int) *int { return &v }

func TestRoute_TektelicPort10(t *testing.T) {
	payload := map[string]interface{}{
		"ambient_temperature":    22.1,
		"light_intensity":        850.0,
		"relative_humidity":      55.0,
		"Input3_voltage_to_temp": 18.7,
		"watermark1_tension":     12.0,
	}

	decision := routing.Route("tektelic", intPtr(10), payload)

	if decision.Target != routing.TargetSoil {
		t.Fatalf("Expected soil target, got %v", decision.Target)
	}
	if decision.Soil.AmbientTemperature == nil || *decision.Soil.AmbientTemperature != 22.1 {
		t.Errorf("Expected ambient_temperature 22.1, got %v", decision.Soil.AmbientTemperature)
	}
	if decision.Soil.SoilTemperature == nil || *decision.Soil.SoilTemperature != 18.7 {
		t.Errorf("Expected soil_temperature 18.7, got %v", decision.Soil.SoilTemperature)
	}
	if decision.Soil.SoilMoisture == nil || *decision.Soil.SoilMoisture != 12.0 {
		t.Errorf("Expected soil_moisture 12.0, got %v", decision.Soil.SoilMoisture)
	}
}

func TestRoute_TektelicPort10_AbsentFieldsNil(t *testing.T) {
	payload := map[string]interface{}{
		"ambient_temperature": 22.1,
	}

	decision := routing.Route("tektelic", intPtr(10), payload)

	if decision.Target != routing.TargetSoil {
		t.Fatalf("Expected soil target, got %v", decision.Target)
	}
	if decision.Soil.LightIntensity != nil {
		t.Errorf("Expected nil light_intensity, got %v", *decision.Soil.LightIntensity)
	}
	if decision.Soil.RelativeHumidity != nil {
		t.Errorf("Expected nil relative_humidity, got %v", *decision.Soil.RelativeHumidity)
	}
	if decision.Soil.SoilTemperature != nil {
		t.Errorf("Expected nil soil_temperature, got %v", *decision.Soil.SoilTemperature)
	}
	if decision.Soil.SoilMoisture != nil {
		t.Errorf("Expected nil soil_moisture, got %v", *decision.Soil.SoilMoisture)
	}
}

func TestRoute_TektelicOtherPort(t *testing.T) {
	payload := map[string]interface{}{"ambient_temperature": 22.1}

	if decision := routing.Route("tektelic", intPtr(5), payload); decision.Target != routing.TargetNone {
		t.Errorf("Expected no target for tektelic port 5, got %v", decision.Target)
	}
	if decision := routing.Route("tektelic", nil, payload); decision.Target != routing.TargetNone {
		t.Errorf("Expected no target for tektelic without f_port, got %v", decision.Target)
	}
}

func TestRoute_ElsysAnyPort(t *testing.T) {
	payload := map[string]interface{}{
		"temperature": 21.5,
		"humidity":    40.0,
	}

	for _, fPort := range []*int{nil, intPtr(5), intPtr(10)} {
		decision := routing.Route("elsys", fPort, payload)
		if decision.Target != routing.TargetClimate {
			t.Fatalf("Expected climate target, got %v", decision.Target)
		}
		if decision.Climate.Temperature == nil || *decision.Climate.Temperature != 21.5 {
			t.Errorf("Expected temperature 21.5, got %v", decision.Climate.Temperature)
		}
		if decision.Climate.Humidity == nil || *decision.Climate.Humidity != 40.0 {
			t.Errorf("Expected humidity 40.0, got %v", decision.Climate.Humidity)
		}
		if decision.Climate.Pressure != nil {
			t.Errorf("Expected nil pressure, got %v", *decision.Climate.Pressure)
		}
		if decision.Climate.CO2 != nil {
			t.Errorf("Expected nil co2, got %v", *decision.Climate.CO2)
		}
	}
}

func TestRoute_UnknownBrand(t *testing.T) {
	payload := map[string]interface{}{"temperature": 21.5}

	decision := routing.Route("dragino", intPtr(10), payload)
	if decision.Target != routing.TargetNone {
		t.Errorf("Expected no target for unknown brand, got %v", decision.Target)
	}
	if decision.Soil != nil || decision.Climate != nil {
		t.Error("Expected no mapped record for unknown brand")
	}
}

func TestRoute_NonNumericFieldNil(t *testing.T) {
	payload := map[string]interface{}{
		"temperature": "21.5",
		"humidity":    40.0,
	}

	decision := routing.Route("elsys", nil, payload)
	if decision.Target != routing.TargetClimate {
		t.Fatalf("Expected climate target, got %v", decision.Target)
	}
	if decision.Climate.Temperature != nil {
		t.Errorf("Expected nil temperature for string value, got %v", *decision.Climate.Temperature)
	}
}

func TestTargetString(t *testing.T) {
	if routing.TargetSoil.String() != "SoilSensorReadings" {
		t.Errorf("Unexpected soil target name: %s", routing.TargetSoil.String())
	}
	if routing.TargetClimate.String() != "ClimateReadings" {
		t.Errorf("Unexpected climate target name: %s", routing.TargetClimate.String())
	}
}

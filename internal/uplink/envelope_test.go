package uplink_test

import (
	"testing"

	"github.com/effingham-iot/lorawan-ingest-worker/internal/uplink"
)

func TestDecode_FullEnvelope(t *testing.T) {
	body := []byte(`{
		"end_device_ids": {"device_id": "eui-1"},
		"received_at": "2024-01-01T12:00:01Z",
		"uplink_message": {
			"version_ids": {"brand_id": "elsys"},
			"f_port": 5,
			"decoded_payload": {"temperature": 21.5, "humidity": 40},
			"received_at": "2024-01-01T12:00:00Z"
		}
	}`)

	env, err := uplink.Decode(body)
	if err != nil {
		t.Fatalf("Failed to decode envelope: %v", err)
	}

	if env.DeviceEUI != "eui-1" {
		t.Errorf("Expected device EUI 'eui-1', got '%s'", env.DeviceEUI)
	}
	if env.BrandID != "elsys" {
		t.Errorf("Expected brand 'elsys', got '%s'", env.BrandID)
	}
	if env.FPort == nil || *env.FPort != 5 {
		t.Errorf("Expected f_port 5, got %v", env.FPort)
	}
	if env.DecodedPayload["temperature"] != 21.5 {
		t.Errorf("Expected temperature 21.5, got %v", env.DecodedPayload["temperature"])
	}
	// The uplink body's own received_at wins over the outer envelope's.
	if env.ReceivedAtRaw != "2024-01-01T12:00:00Z" {
		t.Errorf("Expected inner received_at, got '%s'", env.ReceivedAtRaw)
	}
}

func TestDecode_ReceivedAtOuterFallback(t *testing.T) {
	body := []byte(`{
		"end_device_ids": {"device_id": "eui-1"},
		"received_at": "2024-01-01T12:00:01Z",
		"uplink_message": {
			"version_ids": {"brand_id": "elsys"},
			"decoded_payload": {"temperature": 20}
		}
	}`)

	env, err := uplink.Decode(body)
	if err != nil {
		t.Fatalf("Failed to decode envelope: %v", err)
	}
	if env.ReceivedAtRaw != "2024-01-01T12:00:01Z" {
		t.Errorf("Expected outer received_at, got '%s'", env.ReceivedAtRaw)
	}
	if env.FPort != nil {
		t.Errorf("Expected nil f_port, got %v", *env.FPort)
	}
}

func TestDecode_ReceivedAtRxMetadataFallback(t *testing.T) {
	body := []byte(`{
		"end_device_ids": {"device_id": "eui-1"},
		"uplink_message": {
			"version_ids": {"brand_id": "elsys"},
			"decoded_payload": {"temperature": 20},
			"rx_metadata": [
				{"gateway_ids": {"gateway_id": "gw-0"}},
				{"time": "2024-01-01T12:00:02Z"},
				{"received_at": "2024-01-01T12:00:03Z"}
			]
		}
	}`)

	env, err := uplink.Decode(body)
	if err != nil {
		t.Fatalf("Failed to decode envelope: %v", err)
	}
	// First rx_metadata entry exposing received_at or time wins; the
	// entry without either is stepped over.
	if env.ReceivedAtRaw != "2024-01-01T12:00:02Z" {
		t.Errorf("Expected rx_metadata time, got '%s'", env.ReceivedAtRaw)
	}
}

func TestDecode_ReceivedAtAbsent(t *testing.T) {
	body := []byte(`{
		"end_device_ids": {"device_id": "eui-1"},
		"uplink_message": {
			"version_ids": {"brand_id": "elsys"},
			"decoded_payload": {"temperature": 20}
		}
	}`)

	env, err := uplink.Decode(body)
	if err != nil {
		t.Fatalf("Failed to decode envelope: %v", err)
	}
	if env.ReceivedAtRaw != "" {
		t.Errorf("Expected empty received_at, got '%s'", env.ReceivedAtRaw)
	}
}

func TestDecode_MissingDeviceID(t *testing.T) {
	body := []byte(`{
		"uplink_message": {
			"version_ids": {"brand_id": "elsys"},
			"decoded_payload": {"temperature": 20}
		}
	}`)

	if _, err := uplink.Decode(body); err == nil {
		t.Error("Expected error for missing device_id")
	}
}

func TestDecode_MissingBrandID(t *testing.T) {
	body := []byte(`{
		"end_device_ids": {"device_id": "eui-1"},
		"uplink_message": {
			"decoded_payload": {"temperature": 20}
		}
	}`)

	if _, err := uplink.Decode(body); err == nil {
		t.Error("Expected error for missing brand_id")
	}
}

func TestDecode_MissingDecodedPayload(t *testing.T) {
	body := []byte(`{
		"end_device_ids": {"device_id": "eui-1"},
		"uplink_message": {
			"version_ids": {"brand_id": "elsys"}
		}
	}`)

	if _, err := uplink.Decode(body); err == nil {
		t.Error("Expected error for missing decoded_payload")
	}
}

func TestDecode_MalformedJSON(t *testing.T) {
	if _, err := uplink.Decode([]byte(`{not json`)); err == nil {
		t.Error("Expected error for malformed JSON")
	}
}

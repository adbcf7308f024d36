package uplink

import (
	"encoding/json"
	"fmt"
)

// Envelope is the normalized view of one uplink message. It is transient:
// one envelope per delivery, discarded once routed.
type Envelope struct {
	DeviceEUI      string
	BrandID        string
	FPort          *int
	DecodedPayload map[string]interface{}
	ReceivedAtRaw  string
}

// ttnUplink mirrors the subset of The Things Stack v3 uplink JSON the
// pipeline consumes.
type ttnUplink struct {
	EndDeviceIDs struct {
		DeviceID string `json:"device_id"`
	} `json:"end_device_ids"`
	ReceivedAt    string `json:"received_at"`
	UplinkMessage struct {
		VersionIDs struct {
			BrandID string `json:"brand_id"`
		} `json:"version_ids"`
		FPort          *int                   `json:"f_port"`
		DecodedPayload map[string]interface{} `json:"decoded_payload"`
		ReceivedAt     string                 `json:"received_at"`
		RxMetadata     []struct {
			ReceivedAt string `json:"received_at"`
			Time       string `json:"time"`
		} `json:"rx_metadata"`
	} `json:"uplink_message"`
}

// Decode parses raw uplink message bytes into an Envelope. A malformed body
// or a missing required field is a decode failure the caller treats as
// "skip this message"; nothing about such a message is persisted.
func Decode(body []byte) (*Envelope, error) {
	var msg ttnUplink
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("malformed uplink JSON: %w", err)
	}

	if msg.EndDeviceIDs.DeviceID == "" {
		return nil, fmt.Errorf("uplink missing end_device_ids.device_id")
	}
	if msg.UplinkMessage.VersionIDs.BrandID == "" {
		return nil, fmt.Errorf("uplink missing uplink_message.version_ids.brand_id")
	}
	if len(msg.UplinkMessage.DecodedPayload) == 0 {
		return nil, fmt.Errorf("uplink missing decoded_payload")
	}

	return &Envelope{
		DeviceEUI:      msg.EndDeviceIDs.DeviceID,
		BrandID:        msg.UplinkMessage.VersionIDs.BrandID,
		FPort:          msg.UplinkMessage.FPort,
		DecodedPayload: msg.UplinkMessage.DecodedPayload,
		ReceivedAtRaw:  receivedAtRaw(&msg),
	}, nil
}

// receivedAtRaw picks the received-at source: the uplink body's own field,
// then the outer envelope's, then the first rx_metadata entry carrying a
// received_at or time value.
func receivedAtRaw(msg *ttnUplink) string {
	if msg.UplinkMessage.ReceivedAt != "" {
		return msg.UplinkMessage.ReceivedAt
	}
	if msg.ReceivedAt != "" {
		return msg.ReceivedAt
	}
	for _, rx := range msg.UplinkMessage.RxMetadata {
		if rx.ReceivedAt != "" {
			return rx.ReceivedAt
		}
		if rx.Time != "" {
			return rx.Time
		}
	}
	return ""
}

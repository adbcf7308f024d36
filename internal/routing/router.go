package routing

// Target names the table a routed uplink lands in.
type Target int

const (
	// TargetNone means no brand/port rule matched; the message is logged
	// and dropped without persistence.
	TargetNone Target = iota
	TargetSoil
	TargetClimate
)

func (t Target) String() string {
	switch t {
	case TargetSoil:
		return "SoilSensorReadings"
	case TargetClimate:
		return "ClimateReadings"
	default:
		return "none"
	}
}

// SoilRecord holds the mapped soil-sensor fields. A field absent from the
// decoded payload stays nil and is stored as NULL, never zero.
type SoilRecord struct {
	AmbientTemperature *float64
	LightIntensity     *float64
	RelativeHumidity   *float64
	SoilTemperature    *float64
	SoilMoisture       *float64
}

// ClimateRecord holds the mapped climate fields.
type ClimateRecord struct {
	Temperature *float64
	Humidity    *float64
	Pressure    *float64
	CO2         *float64
}

// Decision is the outcome of routing one envelope: a target table plus the
// mapped record for that table.
type Decision struct {
	Target  Target
	Soil    *SoilRecord
	Climate *ClimateRecord
}

type rule struct {
	match func(brandID string, fPort *int) bool
	build func(payload map[string]interface{}) Decision
}

// rules is evaluated top to bottom, first match wins. The tektelic port-10
// rule must stay ahead of any future catch-all tektelic rule.
var rules = []rule{
	{
		match: func(brandID string, fPort *int) bool {
			return brandID == "tektelic" && fPort != nil && *fPort == 10
		},
		build: func(payload map[string]interface{}) Decision {
			return Decision{
				Target: TargetSoil,
				Soil: &SoilRecord{
					AmbientTemperature: numField(payload, "ambient_temperature"),
					LightIntensity:     numField(payload, "light_intensity"),
					RelativeHumidity:   numField(payload, "relative_humidity"),
					SoilTemperature:    numField(payload, "Input3_voltage_to_temp"),
					SoilMoisture:       numField(payload, "watermark1_tension"),
				},
			}
		},
	},
	{
		match: func(brandID string, fPort *int) bool {
			return brandID == "elsys"
		},
		build: func(payload map[string]interface{}) Decision {
			return Decision{
				Target: TargetClimate,
				Climate: &ClimateRecord{
					Temperature: numField(payload, "temperature"),
					Humidity:    numField(payload, "humidity"),
					Pressure:    numField(payload, "pressure"),
					CO2:         numField(payload, "co2"),
				},
			}
		},
	},
}

// Route dispatches a decoded payload to the per-brand field mapping.
func Route(brandID string, fPort *int, payload map[string]interface{}) Decision {
	for _, r := range rules {
		if r.match(brandID, fPort) {
			return r.build(payload)
		}
	}
	return Decision{Target: TargetNone}
}

// numField extracts a numeric payload field, nil when absent or non-numeric.
func numField(payload map[string]interface{}, key string) *float64 {
	raw, ok := payload[key]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	default:
		return nil
	}
}

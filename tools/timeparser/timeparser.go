package timeparser

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTimezone is the civil time zone readings are reported in.
const DefaultTimezone = "America/New_York"

// LocalFormat is the wall-clock layout stored on reading rows.
const LocalFormat = "2006-01-02 15:04:05"

const fractionalLayout = "2006-01-02T15:04:05.000000Z07:00"

// ParseUplinkTimestamp attempts to parse an uplink received-at timestamp.
// Network servers emit RFC3339 with fractional seconds of arbitrary
// precision; the fraction is normalized to exactly 6 digits before parsing.
// Inputs without an explicit offset are treated as UTC.
func ParseUplinkTimestamp(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	if normalized, ok := normalizeFraction(dateStr); ok {
		if t, err := time.Parse(fractionalLayout, normalized); err == nil {
			return t, nil
		}
	}

	// Bare Z suffix with no fraction, or any ISO-8601 string with an
	// explicit offset.
	candidates := []string{dateStr, strings.Replace(dateStr, "Z", "+00:00", 1)}
	var lastErr error
	for _, candidate := range candidates {
		t, err := time.Parse(time.RFC3339, candidate)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}

	return time.Time{}, fmt.Errorf("failed to parse timestamp '%s': %w", dateStr, lastErr)
}

// normalizeFraction pads or truncates the fractional-second part to exactly
// 6 digits so a single fixed-precision layout can parse it. Returns false
// when the input carries no fraction.
func normalizeFraction(dateStr string) (string, bool) {
	dot := strings.IndexByte(dateStr, '.')
	if dot < 0 {
		return "", false
	}

	rest := dateStr[dot+1:]
	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	if end == 0 {
		return "", false
	}

	fraction := rest[:end]
	if len(fraction) > 6 {
		fraction = fraction[:6]
	} else {
		fraction = fraction + strings.Repeat("0", 6-len(fraction))
	}

	return dateStr[:dot+1] + fraction + rest[end:], true
}

// NormalizeLocal converts a raw uplink timestamp into the fixed local
// wall-clock representation stored on reading rows. Unparsable or empty
// input yields nil, never an error: the reading is stored with a NULL
// received_at rather than a substitute value.
func NormalizeLocal(dateStr string, loc *time.Location) *string {
	t, err := ParseUplinkTimestamp(dateStr)
	if err != nil {
		return nil
	}
	formatted := t.In(loc).Format(LocalFormat)
	return &formatted
}

// Package location encodes and decodes purchase annotations: the persisted
// ingredient-to-coordinate map and the "lat, lon" text form shown to users.
package location

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/pkordes/mealmate/internal/domain"
)

// Entry is one ingredient annotation. Encode takes entries rather than a map so
// the caller controls key order.
type Entry struct {
	Name string
	At   domain.LatLng
}

// wireLatLng mirrors the stored object shape. Pointer fields distinguish a
// missing coordinate from a zero one.
type wireLatLng struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Decode parses the stored location map.
//
// Blank input and a JSON null decode to an empty map. Any syntax error, or any
// entry without numeric latitude and longitude, discards the whole map: the
// result is an empty map and an error wrapping domain.ErrMalformedLocationMap.
// The returned map is never nil.
func Decode(raw string) (map[string]domain.LatLng, error) {
	out := map[string]domain.LatLng{}
	if strings.TrimSpace(raw) == "" {
		return out, nil
	}

	var wire map[string]*wireLatLng
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return map[string]domain.LatLng{}, fmt.Errorf("%w: %v", domain.ErrMalformedLocationMap, err)
	}

	for name, v := range wire {
		if v == nil || v.Latitude == nil || v.Longitude == nil {
			return map[string]domain.LatLng{}, fmt.Errorf("%w: entry %q lacks latitude or longitude", domain.ErrMalformedLocationMap, name)
		}
		out[name] = domain.LatLng{Latitude: *v.Latitude, Longitude: *v.Longitude}
	}
	return out, nil
}

// Encode writes entries as a JSON object in the given order. No entries
// encode as the empty string, which is how an empty map is stored.
// Non-finite coordinates cannot be represented in JSON and return an error.
func Encode(entries []Entry) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Name)
		if err != nil {
			return "", fmt.Errorf("location.Encode: key %q: %w", e.Name, err)
		}
		val, err := json.Marshal(e.At)
		if err != nil {
			return "", fmt.Errorf("location.Encode: %q: %w", e.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.String(), nil
}

// FormatText renders a coordinate as "<lat>, <lon>" for display and clipboard use.
func FormatText(at domain.LatLng) string {
	return formatFloat(at.Latitude) + ", " + formatFloat(at.Longitude)
}

// ParseText parses the "<lat>, <lon>" form. It fails with
// domain.ErrInvalidCoordinateFormat unless the text has exactly two
// comma-separated numeric halves.
func ParseText(text string) (domain.LatLng, error) {
	parts := strings.Split(text, ",")
	if len(parts) != 2 {
		return domain.LatLng{}, fmt.Errorf("%w: %q", domain.ErrInvalidCoordinateFormat, text)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return domain.LatLng{}, fmt.Errorf("%w: latitude in %q", domain.ErrInvalidCoordinateFormat, text)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return domain.LatLng{}, fmt.Errorf("%w: longitude in %q", domain.ErrInvalidCoordinateFormat, text)
	}
	return domain.LatLng{Latitude: lat, Longitude: lon}, nil
}

// FromTextFields rebuilds a location map from per-ingredient "lat, lon" text.
// Entries that fail to parse are skipped and reported through skipped, sorted.
func FromTextFields(fields map[string]string) (out map[string]domain.LatLng, skipped []string) {
	out = make(map[string]domain.LatLng, len(fields))
	for name, text := range fields {
		at, err := ParseText(text)
		if err != nil {
			skipped = append(skipped, name)
			continue
		}
		out[name] = at
	}
	slices.Sort(skipped)
	return out, skipped
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

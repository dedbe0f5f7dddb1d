package events

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var alertJSON = []byte(`{"type":"alert"}`)

// Event is the snapshot of a reading that crossed its sensor's threshold.
// It is passed around by value and never mutated after creation.
type Event struct {
	ID        uuid.UUID       `json:"id"`
	SensorID  string          `json:"sensor_id"`
	Type      Type            `json:"sensor_type"`
	Value     float64         `json:"value"`
	Threshold float64         `json:"threshold"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
	Meta      gjson.Result    `json:"meta,omitempty"`
}

// New creates an event for a triggering reading, stamped with a fresh
// time-ordered id and the current time.
func New(sensorID string, typ Type, value, threshold float64) Event {
	return Event{
		ID:        uuid.Must(uuid.NewV7()),
		SensorID:  sensorID,
		Type:      typ,
		Value:     value,
		Threshold: threshold,
		Timestamp: strfmt.DateTime(time.Now().UTC()),
	}
}

// WithMeta returns a copy of the event carrying raw JSON metadata.
func (e Event) WithMeta(raw string) Event {
	e.Meta = gjson.Parse(raw)
	return e
}

// LastReading returns the reading that triggered the event.
func (e Event) LastReading() float64 {
	return e.Value
}

func (e Event) String() string {
	return fmt.Sprintf("%s sensor %s: %s (threshold %s)",
		e.Type, e.SensorID, FormatValue(e.Value), FormatValue(e.Threshold))
}

// FormatValue renders a reading with the shortest representation that round trips.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// MarshalJSON implements custom JSON marshaling for Event
func (e Event) MarshalJSON() ([]byte, error) {
	if math.IsNaN(e.Value) || math.IsInf(e.Value, 0) {
		return nil, fmt.Errorf("value is not a finite number: %v", e.Value)
	}
	if math.IsNaN(e.Threshold) || math.IsInf(e.Threshold, 0) {
		return nil, fmt.Errorf("threshold is not a finite number: %v", e.Threshold)
	}

	result := alertJSON

	var err error
	result, err = sjson.SetBytes(result, "id", e.ID.String())
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "sensor_id", e.SensorID)
	if err != nil {
		return nil, err
	}

	typ, err := e.Type.MarshalText()
	if err != nil {
		return nil, err
	}
	result, err = sjson.SetBytes(result, "sensor_type", string(typ))
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "value", e.Value)
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "threshold", e.Threshold)
	if err != nil {
		return nil, err
	}

	if !e.Timestamp.IsZero() {
		result, err = sjson.SetBytes(result, "timestamp", e.Timestamp.String())
		if err != nil {
			return nil, err
		}
	}

	if e.Meta.Exists() {
		result, err = sjson.SetRawBytes(result, "meta", []byte(e.Meta.Raw))
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// UnmarshalJSON implements custom JSON unmarshaling for Event
func (e *Event) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid json: %s", data)
	}

	msgType := gjson.GetBytes(data, "type")
	if !msgType.Exists() || msgType.String() != "alert" {
		return fmt.Errorf("missing or invalid type, expected 'alert'")
	}

	id := gjson.GetBytes(data, "id")
	if !id.Exists() {
		return fmt.Errorf("missing required field 'id'")
	}
	if err := e.ID.UnmarshalText([]byte(id.String())); err != nil {
		return fmt.Errorf("invalid id: %w", err)
	}

	sensorID := gjson.GetBytes(data, "sensor_id")
	if !sensorID.Exists() {
		return fmt.Errorf("missing required field 'sensor_id'")
	}
	e.SensorID = sensorID.String()

	sensorType := gjson.GetBytes(data, "sensor_type")
	if !sensorType.Exists() {
		return fmt.Errorf("missing required field 'sensor_type'")
	}
	if err := e.Type.UnmarshalText([]byte(sensorType.String())); err != nil {
		return fmt.Errorf("invalid sensor_type: %w", err)
	}

	value := gjson.GetBytes(data, "value")
	if !value.Exists() {
		return fmt.Errorf("missing required field 'value'")
	}
	if value.Type != gjson.Number {
		return fmt.Errorf("invalid value: %s", value.Raw)
	}
	e.Value = value.Float()

	if threshold := gjson.GetBytes(data, "threshold"); threshold.Exists() {
		if threshold.Type != gjson.Number {
			return fmt.Errorf("invalid threshold: %s", threshold.Raw)
		}
		e.Threshold = threshold.Float()
	}

	if timestamp := gjson.GetBytes(data, "timestamp"); timestamp.Exists() {
		if err := e.Timestamp.UnmarshalText([]byte(timestamp.String())); err != nil {
			return fmt.Errorf("invalid timestamp: %w", err)
		}
	}

	if meta := gjson.GetBytes(data, "meta"); meta.Exists() {
		e.Meta = meta
	}

	return nil
}

package events

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidType is returned when a sensor type name is not recognised.
var ErrInvalidType = errors.New("invalid sensor type")

// Type tags the kind of sensor that produced a reading.
// The zero value is Unknown.
type Type uint8

const (
	Unknown Type = iota
	Temperature
	Pressure
	Humidity
)

var typeNames = [...]string{
	Unknown:     "unknown",
	Temperature: "temperature",
	Pressure:    "pressure",
	Humidity:    "humidity",
}

// Types returns every known sensor type, Unknown first.
func Types() []Type {
	return []Type{Unknown, Temperature, Pressure, Humidity}
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// ParseType maps a case-insensitive type name to its Type.
func ParseType(name string) (Type, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, tn := range typeNames {
		if tn == n {
			return Type(i), nil
		}
	}
	return Unknown, fmt.Errorf("%w: %q", ErrInvalidType, name)
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	if int(t) >= len(typeNames) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidType, uint8(t))
	}
	return []byte(typeNames[t]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

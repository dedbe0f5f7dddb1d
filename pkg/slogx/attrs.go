// Package slogx holds the slog attribute helpers shared by every tripwire package,
// so the same keys show up in logs no matter which component wrote them.
package slogx

import (
	"fmt"
	"log/slog"
)

const (
	// KeyLoggerName is the key for the component that emitted a record.
	KeyLoggerName = "logger"
	KeyError      = "error"
	KeySensorID   = "sensor_id"
	KeyEventID    = "event_id"
	KeySubscriber = "subscription"
)

// Error returns an attribute holding the error message under the "error" key.
// A nil error is rendered as "<nil>" rather than panicking.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "<nil>")
	}
	return slog.String(KeyError, err.Error())
}

// Stringer logs the string form of value.
func Stringer(key string, value fmt.Stringer) slog.Attr {
	return slog.String(key, value.String())
}

// LoggerName tags a record with the emitting component.
func LoggerName(name string) slog.Attr {
	return slog.String(KeyLoggerName, name)
}

func SensorID(id string) slog.Attr {
	return slog.String(KeySensorID, id)
}

func EventID(id fmt.Stringer) slog.Attr {
	return Stringer(KeyEventID, id)
}

func Subscription(id string) slog.Attr {
	return slog.String(KeySubscriber, id)
}

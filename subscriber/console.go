package subscriber

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/casualjim/tripwire/broker"
	"github.com/casualjim/tripwire/events"
	"github.com/fatih/color"
)

type severity struct {
	label string
	color *color.Color
}

func severityOf(typ events.Type) severity {
	switch typ {
	case events.Temperature:
		return severity{"ALERT!", color.New(color.FgRed, color.Bold)}
	case events.Pressure:
		return severity{"WARNING!", color.New(color.FgYellow, color.Bold)}
	case events.Humidity:
		return severity{"NOTICE!", color.New(color.FgCyan, color.Bold)}
	default:
		return severity{"UNKNOWN!", color.New(color.FgMagenta, color.Bold)}
	}
}

func describe(ev events.Event) string {
	v := events.FormatValue(ev.LastReading())
	switch ev.Type {
	case events.Temperature:
		return fmt.Sprintf("Temperature sensor %s reported high temperature: %s°C", ev.SensorID, v)
	case events.Pressure:
		return fmt.Sprintf("Pressure sensor %s reported low pressure: %s PSI", ev.SensorID, v)
	case events.Humidity:
		return fmt.Sprintf("Humidity sensor %s reported high humidity: %s%%", ev.SensorID, v)
	default:
		return fmt.Sprintf("Sensor %s of unknown type reported value: %s", ev.SensorID, v)
	}
}

// FormatAlert renders an event as a single uncoloured console line.
func FormatAlert(ev events.Event) string {
	return severityOf(ev.Type).label + " " + describe(ev)
}

// Console prints one line per event to w. When colored is true the severity
// label is coloured regardless of whether w is a terminal.
func Console(w io.Writer, colored bool) broker.Subscriber[events.Event] {
	var mu sync.Mutex
	return func(_ context.Context, ev events.Event) error {
		sev := severityOf(ev.Type)
		label := sev.label
		if colored {
			sev.color.EnableColor()
			label = sev.color.Sprint(sev.label)
		}

		mu.Lock()
		defer mu.Unlock()
		_, err := fmt.Fprintln(w, label+" "+describe(ev))
		return err
	}
}

package subscriber

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/casualjim/tripwire/broker"
	"github.com/casualjim/tripwire/events"
	"github.com/k0kubun/pp/v3"
)

type dumpView struct {
	ID        string
	SensorID  string
	Type      string
	Value     float64
	Threshold float64
	Timestamp string
	Meta      any
}

// Dump pretty prints every event, meant for debugging wiring.
func Dump(w io.Writer) broker.Subscriber[events.Event] {
	printer := pp.New()
	printer.SetColoringEnabled(false)

	var mu sync.Mutex
	return func(_ context.Context, ev events.Event) error {
		view := dumpView{
			ID:        ev.ID.String(),
			SensorID:  ev.SensorID,
			Type:      ev.Type.String(),
			Value:     ev.Value,
			Threshold: ev.Threshold,
		}
		if !ev.Timestamp.IsZero() {
			view.Timestamp = time.Time(ev.Timestamp).Format(time.RFC3339Nano)
		}
		if ev.Meta.Exists() {
			view.Meta = ev.Meta.Value()
		}

		mu.Lock()
		defer mu.Unlock()
		_, err := printer.Fprintln(w, view)
		return err
	}
}

package subscriber

import (
	"context"
	"log/slog"

	"github.com/casualjim/tripwire/broker"
	"github.com/casualjim/tripwire/events"
	"github.com/casualjim/tripwire/pkg/slogx"
)

// Logging writes every event as a structured log record at warn level.
// A nil logger uses slog.Default.
func Logging(logger *slog.Logger) broker.Subscriber[events.Event] {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slogx.LoggerName("alerts"))

	return func(ctx context.Context, ev events.Event) error {
		attrs := []slog.Attr{
			slogx.EventID(ev.ID),
			slogx.SensorID(ev.SensorID),
			slogx.Stringer("sensor_type", ev.Type),
			slog.Float64("value", ev.Value),
			slog.Float64("threshold", ev.Threshold),
		}
		if ev.Meta.Exists() {
			attrs = append(attrs, slog.String("meta", ev.Meta.Raw))
		}
		logger.LogAttrs(ctx, slog.LevelWarn, "sensor alert", attrs...)
		return nil
	}
}

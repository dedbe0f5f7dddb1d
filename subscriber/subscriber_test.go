package subscriber

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/casualjim/tripwire/events"
	"github.com/go-openapi/strfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestFormatAlert(t *testing.T) {
	tests := []struct {
		name string
		ev   events.Event
		want string
	}{
		{
			name: "temperature",
			ev:   events.New("temp1", events.Temperature, 32.5, 30),
			want: "ALERT! Temperature sensor temp1 reported high temperature: 32.5°C",
		},
		{
			name: "pressure",
			ev:   events.New("pressure1", events.Pressure, 12, 15),
			want: "WARNING! Pressure sensor pressure1 reported low pressure: 12 PSI",
		},
		{
			name: "humidity",
			ev:   events.New("humidity1", events.Humidity, 85, 80),
			want: "NOTICE! Humidity sensor humidity1 reported high humidity: 85%",
		},
		{
			name: "unknown",
			ev:   events.New("unknown1", events.Unknown, 99.9, 0),
			want: "UNKNOWN! Sensor unknown1 of unknown type reported value: 99.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAlert(tt.ev))

			var buf bytes.Buffer
			require.NoError(t, Console(&buf, false)(context.Background(), tt.ev))
			assert.Equal(t, tt.want+"\n", buf.String())
		})
	}
}

func TestConsoleColored(t *testing.T) {
	var buf bytes.Buffer
	ev := events.New("temp1", events.Temperature, 32.5, 30)
	require.NoError(t, Console(&buf, true)(context.Background(), ev))

	out := buf.String()
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "ALERT!")
	assert.Contains(t, out, "reported high temperature: 32.5°C")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestConsoleWriteError(t *testing.T) {
	err := Console(failingWriter{}, false)(context.Background(), events.New("t", events.Temperature, 1, 0))
	require.Error(t, err)
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	ev := events.New("humidity1", events.Humidity, 85, 80).WithMeta(`{"room":"lab"}`)

	require.NoError(t, Logging(logger)(context.Background(), ev))

	rec := gjson.Parse(buf.String())
	assert.Equal(t, "WARN", rec.Get("level").String())
	assert.Equal(t, "sensor alert", rec.Get("msg").String())
	assert.Equal(t, "alerts", rec.Get("logger").String())
	assert.Equal(t, "humidity1", rec.Get("sensor_id").String())
	assert.Equal(t, "humidity", rec.Get("sensor_type").String())
	assert.Equal(t, ev.ID.String(), rec.Get("event_id").String())
	assert.Equal(t, 85.0, rec.Get("value").Float())
	assert.Equal(t, `{"room":"lab"}`, rec.Get("meta").String())
}

func TestJSONLines(t *testing.T) {
	var buf bytes.Buffer
	sub := JSONLines(&buf)
	first := events.New("temp1", events.Temperature, 32.5, 30)
	second := events.New("pressure1", events.Pressure, 12, 15)
	require.NoError(t, sub(context.Background(), first))
	require.NoError(t, sub(context.Background(), second))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var decoded events.Event
	require.NoError(t, decoded.UnmarshalJSON([]byte(lines[0])))
	assert.Equal(t, first.ID, decoded.ID)
	assert.Equal(t, 32.5, decoded.Value)
	assert.Equal(t, "pressure1", gjson.Get(lines[1], "sensor_id").String())
}

func TestJSONLinesMarshalError(t *testing.T) {
	var buf bytes.Buffer
	ev := events.New("temp1", events.Temperature, 32.5, 30)
	ev.Value = math.NaN()
	require.Error(t, JSONLines(&buf)(context.Background(), ev))
	assert.Zero(t, buf.Len())
}

func TestDump(t *testing.T) {
	var buf bytes.Buffer
	ev := events.New("temp1", events.Temperature, 32.5, 30).WithMeta(`{"site":"lab"}`)
	ev.Timestamp = strfmt.DateTime(time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, Dump(&buf)(context.Background(), ev))

	out := buf.String()
	assert.Contains(t, out, "temp1")
	assert.Contains(t, out, "temperature")
	assert.Contains(t, out, "32.5")
	assert.Contains(t, out, "2024-07-01T10:00:00Z")
	assert.Contains(t, out, "lab")
	assert.NotContains(t, out, "\x1b[")
}

func TestCollector(t *testing.T) {
	var c Collector
	ctx := context.Background()
	require.NoError(t, c.Handle(ctx, events.New("t1", events.Temperature, 31, 30)))
	require.NoError(t, c.Handle(ctx, events.New("t2", events.Temperature, 35, 30)))
	require.NoError(t, c.Handle(ctx, events.New("p1", events.Pressure, 1, 15)))

	assert.Equal(t, 3, c.Len())
	got := c.Events()
	require.Len(t, got, 3)
	assert.Equal(t, "t1", got[0].SensorID)
	assert.Equal(t, map[events.Type]int{events.Temperature: 2, events.Pressure: 1}, c.CountByType())
}

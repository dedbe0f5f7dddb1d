package tripwire

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/casualjim/tripwire/broker"
	"github.com/casualjim/tripwire/events"
	"github.com/casualjim/tripwire/fleet"
	"github.com/casualjim/tripwire/sensor"
	"github.com/casualjim/tripwire/subscriber"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDemoScenario(t *testing.T) {
	ctx := context.Background()
	p := New(broker.WithLogger(quietLogger()))

	require.NoError(t, p.Add(sensor.NewTemperature("temp1", 30)))
	require.NoError(t, p.Add(sensor.NewPressure("pressure1", 15)))
	require.NoError(t, p.Add(sensor.NewHumidity("humidity1", 80)))
	require.NoError(t, p.Add(sensor.NewUnknown("unknown1", 0)))

	var out bytes.Buffer
	var collected subscriber.Collector
	_, err := p.Subscribe(subscriber.Console(&out, false))
	require.NoError(t, err)
	_, err = p.Subscribe(collected.Handle)
	require.NoError(t, err)

	require.NoError(t, p.Start(ctx))
	require.NoError(t, p.Evaluate(ctx, "temp1", 32.5))
	require.NoError(t, p.Evaluate(ctx, "pressure1", 12))
	require.NoError(t, p.Evaluate(ctx, "humidity1", 85))
	require.NoError(t, p.Evaluate(ctx, "unknown1", 99.9))
	require.NoError(t, p.Stop(ctx))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, []string{
		"ALERT! Temperature sensor temp1 reported high temperature: 32.5°C",
		"WARNING! Pressure sensor pressure1 reported low pressure: 12 PSI",
		"NOTICE! Humidity sensor humidity1 reported high humidity: 85%",
	}, lines)
	assert.Equal(t, 3, collected.Len())

	st := p.Stats()
	assert.Equal(t, broker.Stopped, st.State)
	assert.EqualValues(t, 3, st.Published)
	assert.EqualValues(t, 3, st.Dispatched)
	assert.EqualValues(t, 6, st.Delivered)
	assert.Zero(t, st.Pending)
}

func TestSensorsAddedAfterStartAreBound(t *testing.T) {
	ctx := context.Background()
	p := New(broker.WithLogger(quietLogger()))
	var collected subscriber.Collector
	_, err := p.Subscribe(collected.Handle)
	require.NoError(t, err)
	require.NoError(t, p.Start(ctx))

	s, err := p.AddSpec(fleet.Spec{ID: "h2", Type: events.Humidity, Threshold: 50})
	require.NoError(t, err)
	require.NoError(t, p.Evaluate(ctx, "h2", 60))
	require.NoError(t, p.Stop(ctx))

	require.Equal(t, 1, collected.Len())
	assert.Equal(t, s.ID(), collected.Events()[0].SensorID)
}

func TestEvaluateErrors(t *testing.T) {
	ctx := context.Background()
	p := New(broker.WithLogger(quietLogger()))
	require.NoError(t, p.Add(sensor.NewTemperature("temp1", 30)))
	require.ErrorIs(t, p.Add(sensor.NewTemperature("temp1", 40)), fleet.ErrDuplicateSensor)

	require.ErrorIs(t, p.Evaluate(ctx, "nope", 1), fleet.ErrUnknownSensor)

	require.NoError(t, p.Start(ctx))
	require.NoError(t, p.Stop(ctx))

	err := p.Evaluate(ctx, "temp1", 50)
	require.ErrorIs(t, err, broker.ErrStopped)
	s, ok := p.Fleet().Get("temp1")
	require.True(t, ok)
	assert.Equal(t, 50.0, s.LastReading())
}

func TestStopBoundedBySubscriber(t *testing.T) {
	ctx := context.Background()
	p := New(broker.WithLogger(quietLogger()), broker.WithStopTimeout(50*time.Millisecond))
	require.NoError(t, p.Add(sensor.NewTemperature("temp1", 30)))

	release := make(chan struct{})
	_, err := p.Subscribe(func(context.Context, events.Event) error {
		<-release
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, p.Start(ctx))
	require.NoError(t, p.Evaluate(ctx, "temp1", 31))
	require.NoError(t, p.Evaluate(ctx, "temp1", 32))

	require.ErrorIs(t, p.Stop(ctx), broker.ErrStopTimeout)
	assert.Equal(t, broker.Stopping, p.Broker().State())

	close(release)
	require.NoError(t, p.Stop(ctx))
	assert.Equal(t, broker.Stopped, p.Broker().State())
}

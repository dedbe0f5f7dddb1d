package sensor

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/casualjim/tripwire/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (r *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingPublisher) received() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.Event(nil), r.events...)
}

func TestThresholds(t *testing.T) {
	tests := []struct {
		name    string
		sensor  *Sensor
		value   float64
		trigger bool
	}{
		{"temperature above", NewTemperature("temp1", 30), 32.5, true},
		{"temperature below", NewTemperature("temp1", 30), 28, false},
		{"temperature equal", NewTemperature("temp1", 30), 30, false},
		{"pressure below", NewPressure("pressure1", 15), 12, true},
		{"pressure above", NewPressure("pressure1", 15), 20, false},
		{"pressure equal", NewPressure("pressure1", 15), 15, false},
		{"humidity above", NewHumidity("humidity1", 80), 85, true},
		{"humidity below", NewHumidity("humidity1", 80), 50, false},
		{"unknown high", NewUnknown("unknown1", 0), 99.9, false},
		{"unknown low", NewUnknown("unknown1", 0), -99.9, false},
		{"unregistered type", New(events.Type(200), "odd", 0), 1000, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &recordingPublisher{}
			tt.sensor.BindPublisher(pub)

			require.NoError(t, tt.sensor.Evaluate(context.Background(), tt.value))
			assert.Equal(t, tt.value, tt.sensor.LastReading())

			got := pub.received()
			if !tt.trigger {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, tt.sensor.ID(), got[0].SensorID)
			assert.Equal(t, tt.sensor.Type(), got[0].Type)
			assert.Equal(t, tt.value, got[0].Value)
			assert.Equal(t, tt.sensor.Threshold(), got[0].Threshold)
		})
	}
}

func TestTriggers(t *testing.T) {
	assert.True(t, Triggers(events.Temperature, 31, 30))
	assert.True(t, Triggers(events.Pressure, 14, 15))
	assert.True(t, Triggers(events.Humidity, 81, 80))
	assert.False(t, Triggers(events.Unknown, 1e9, -1e9))
}

func TestUnboundSensor(t *testing.T) {
	s := NewTemperature("temp1", 30)
	assert.Zero(t, s.LastReading())
	assert.False(t, s.Observed())

	require.NoError(t, s.Evaluate(context.Background(), 45))
	assert.Equal(t, 45.0, s.LastReading())
	assert.True(t, s.Observed())
}

func TestUnbind(t *testing.T) {
	pub := &recordingPublisher{}
	s := NewHumidity("h1", 80)
	s.BindPublisher(pub)
	require.NoError(t, s.Evaluate(context.Background(), 90))
	s.BindPublisher(nil)
	require.NoError(t, s.Evaluate(context.Background(), 95))

	assert.Len(t, pub.received(), 1)
	assert.Equal(t, 95.0, s.LastReading())
}

func TestEventIsSnapshot(t *testing.T) {
	pub := &recordingPublisher{}
	s := NewTemperature("temp1", 30)
	s.BindPublisher(pub)

	ctx := context.Background()
	require.NoError(t, s.Evaluate(ctx, 32.5))
	require.NoError(t, s.Evaluate(ctx, 40))
	require.NoError(t, s.Evaluate(ctx, 10))

	got := pub.received()
	require.Len(t, got, 2)
	assert.Equal(t, 32.5, got[0].LastReading())
	assert.Equal(t, 40.0, got[1].LastReading())
	assert.NotEqual(t, got[0].ID, got[1].ID)
	assert.Equal(t, 10.0, s.LastReading())
}

func TestPublishError(t *testing.T) {
	boom := errors.New("broker gone")
	s := NewPressure("p1", 15)
	s.BindPublisher(PublisherFunc(func(context.Context, events.Event) error { return boom }))

	err := s.Evaluate(context.Background(), 1)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "sensor p1")
	assert.Equal(t, 1.0, s.LastReading())
}

func TestConcurrentEvaluate(t *testing.T) {
	pub := &recordingPublisher{}
	s := NewTemperature("temp1", 0)
	s.BindPublisher(pub)

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(v float64) {
			defer wg.Done()
			assert.NoError(t, s.Evaluate(context.Background(), v))
			_ = s.LastReading()
		}(float64(i))
	}
	wg.Wait()

	assert.Len(t, pub.received(), 50)
}

func TestString(t *testing.T) {
	assert.Equal(t, "pressure(p1, threshold=15.5)", NewPressure("p1", 15.5).String())
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "value > threshold", Describe(events.Temperature))
	assert.Equal(t, "value < threshold", Describe(events.Pressure))
	assert.Equal(t, "never", Describe(events.Unknown))
	assert.Equal(t, "never", Describe(events.Type(99)))
}

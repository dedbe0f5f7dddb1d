package sensor

import (
	"context"
	"fmt"
	"sync"

	"github.com/casualjim/tripwire/events"
)

// Publisher receives the events raised by a sensor.
type Publisher interface {
	Publish(context.Context, events.Event) error
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(context.Context, events.Event) error

func (f PublisherFunc) Publish(ctx context.Context, ev events.Event) error {
	return f(ctx, ev)
}

// Sensor is a single measurement source.
type Sensor struct {
	id        string
	typ       events.Type
	threshold float64

	mu        sync.Mutex
	last      float64
	observed  bool
	publisher Publisher
}

// New creates a sensor of the given type.
func New(typ events.Type, id string, threshold float64) *Sensor {
	return &Sensor{
		id:        id,
		typ:       typ,
		threshold: threshold,
	}
}

func NewTemperature(id string, threshold float64) *Sensor {
	return New(events.Temperature, id, threshold)
}

func NewPressure(id string, threshold float64) *Sensor {
	return New(events.Pressure, id, threshold)
}

func NewHumidity(id string, threshold float64) *Sensor {
	return New(events.Humidity, id, threshold)
}

// NewUnknown creates a sensor that can be evaluated but never raises an alert.
func NewUnknown(id string, threshold float64) *Sensor {
	return New(events.Unknown, id, threshold)
}

// ID returns the sensor's identifier.
func (s *Sensor) ID() string {
	return s.id
}

// Type returns the sensor's type tag.
func (s *Sensor) Type() events.Type {
	return s.typ
}

// Threshold returns the threshold fixed at construction.
func (s *Sensor) Threshold() float64 {
	return s.threshold
}

// LastReading returns the most recently evaluated value, or 0 before the first evaluation.
func (s *Sensor) LastReading() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Observed reports whether the sensor has been evaluated at least once.
func (s *Sensor) Observed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.observed
}

// BindPublisher replaces the publisher that receives this sensor's events.
// Passing nil unbinds the sensor.
func (s *Sensor) BindPublisher(p Publisher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publisher = p
}

// Evaluate records value as the last reading and, when the threshold policy
// holds and a publisher is bound, publishes a snapshot event. An unbound
// sensor still records the reading and returns nil.
func (s *Sensor) Evaluate(ctx context.Context, value float64) error {
	s.mu.Lock()
	s.last = value
	s.observed = true
	pub := s.publisher
	s.mu.Unlock()

	if pub == nil || !Triggers(s.typ, value, s.threshold) {
		return nil
	}

	ev := events.New(s.id, s.typ, value, s.threshold)
	if err := pub.Publish(ctx, ev); err != nil {
		return fmt.Errorf("sensor %s: publish: %w", s.id, err)
	}
	return nil
}

func (s *Sensor) String() string {
	return fmt.Sprintf("%s(%s, threshold=%s)", s.typ, s.id, events.FormatValue(s.threshold))
}

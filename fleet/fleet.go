// Package fleet keeps the set of sensors of a deployment and wires them to a
// publisher. Sensor ids are unique within a fleet; the broker itself does not
// care about ids.
package fleet

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/alphadose/haxmap"
	"github.com/casualjim/tripwire/events"
	"github.com/casualjim/tripwire/sensor"
)

var (
	ErrDuplicateSensor = errors.New("duplicate sensor id")
	ErrUnknownSensor   = errors.New("unknown sensor")
	ErrInvalidSensor   = errors.New("invalid sensor")
)

// Spec describes a sensor to build.
type Spec struct {
	ID        string
	Type      events.Type
	Threshold float64
}

// Fleet is a concurrent registry of sensors keyed by id.
type Fleet struct {
	sensors *haxmap.Map[string, *sensor.Sensor]

	mu        sync.Mutex
	publisher sensor.Publisher
}

func New() *Fleet {
	return &Fleet{
		sensors: haxmap.New[string, *sensor.Sensor](),
	}
}

// Add registers a sensor. If the fleet is bound, the sensor is bound to the
// same publisher.
func (f *Fleet) Add(s *sensor.Sensor) error {
	if s == nil || strings.TrimSpace(s.ID()) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidSensor)
	}
	if _, loaded := f.sensors.GetOrSet(s.ID(), s); loaded {
		return fmt.Errorf("%w: %s", ErrDuplicateSensor, s.ID())
	}

	f.mu.Lock()
	p := f.publisher
	f.mu.Unlock()
	if p != nil {
		s.BindPublisher(p)
	}
	return nil
}

// AddSpec builds a sensor from spec and registers it.
func (f *Fleet) AddSpec(spec Spec) (*sensor.Sensor, error) {
	s := sensor.New(spec.Type, spec.ID, spec.Threshold)
	if err := f.Add(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Remove unregisters a sensor and unbinds it.
func (f *Fleet) Remove(id string) bool {
	s, ok := f.sensors.Get(id)
	if !ok {
		return false
	}
	f.sensors.Del(id)
	s.BindPublisher(nil)
	return true
}

func (f *Fleet) Get(id string) (*sensor.Sensor, bool) {
	return f.sensors.Get(id)
}

func (f *Fleet) Len() int {
	return int(f.sensors.Len())
}

// Sensors returns the registered sensors sorted by id.
func (f *Fleet) Sensors() []*sensor.Sensor {
	out := make([]*sensor.Sensor, 0, f.sensors.Len())
	f.sensors.ForEach(func(_ string, s *sensor.Sensor) bool {
		out = append(out, s)
		return true
	})
	slices.SortFunc(out, func(a, b *sensor.Sensor) int {
		return strings.Compare(a.ID(), b.ID())
	})
	return out
}

// Bind points every current and future sensor at p.
func (f *Fleet) Bind(p sensor.Publisher) {
	f.mu.Lock()
	f.publisher = p
	f.mu.Unlock()

	f.sensors.ForEach(func(_ string, s *sensor.Sensor) bool {
		s.BindPublisher(p)
		return true
	})
}

// Evaluate feeds a reading to the sensor with the given id.
func (f *Fleet) Evaluate(ctx context.Context, id string, value float64) error {
	s, ok := f.sensors.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSensor, id)
	}
	return s.Evaluate(ctx, value)
}

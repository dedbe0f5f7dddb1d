package tripwire

import (
	"context"

	"github.com/casualjim/tripwire/broker"
	"github.com/casualjim/tripwire/events"
	"github.com/casualjim/tripwire/fleet"
	"github.com/casualjim/tripwire/sensor"
)

// Pipeline is a broker of alert events together with the fleet of sensors
// publishing to it.
type Pipeline struct {
	broker *broker.Broker[events.Event]
	fleet  *fleet.Fleet
}

// New creates an idle pipeline. The options configure the underlying broker.
func New(options ...broker.Option) *Pipeline {
	p := &Pipeline{
		broker: broker.New[events.Event](options...),
		fleet:  fleet.New(),
	}
	p.fleet.Bind(p.broker)
	return p
}

func (p *Pipeline) Broker() *broker.Broker[events.Event] {
	return p.broker
}

func (p *Pipeline) Fleet() *fleet.Fleet {
	return p.fleet
}

// Add registers a sensor and binds it to the broker.
func (p *Pipeline) Add(s *sensor.Sensor) error {
	return p.fleet.Add(s)
}

// AddSpec builds a sensor from spec and registers it.
func (p *Pipeline) AddSpec(spec fleet.Spec) (*sensor.Sensor, error) {
	return p.fleet.AddSpec(spec)
}

func (p *Pipeline) Subscribe(fn broker.Subscriber[events.Event]) (broker.Subscription, error) {
	return p.broker.Subscribe(fn)
}

// Evaluate feeds a reading to the sensor with the given id.
func (p *Pipeline) Evaluate(ctx context.Context, sensorID string, value float64) error {
	return p.fleet.Evaluate(ctx, sensorID, value)
}

func (p *Pipeline) Start(ctx context.Context) error {
	return p.broker.Start(ctx)
}

// Stop drains pending events and stops the broker. See broker.Broker.Stop.
func (p *Pipeline) Stop(ctx context.Context) error {
	return p.broker.Stop(ctx)
}

func (p *Pipeline) Stats() broker.Stats {
	return p.broker.Stats()
}

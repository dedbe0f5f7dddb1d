/*
Package tripwire wires threshold-watching sensors to alert subscribers through an
in-process broker.

A sensor records every reading it is given and, when the reading crosses its
threshold, publishes an immutable alert event. The broker queues events in a
FIFO and a single background goroutine hands each one to every subscriber in
registration order. Publishing never runs subscriber code, so a slow or
failing subscriber cannot block a sensor.

# Basic Usage

	p := tripwire.New(broker.WithStopTimeout(2 * time.Second))

	_ = p.Add(sensor.NewTemperature("temp1", 30))
	_ = p.Add(sensor.NewPressure("pressure1", 15))

	_, _ = p.Subscribe(subscriber.Console(os.Stdout, true))

	if err := p.Start(ctx); err != nil {
		// Handle error
	}

	_ = p.Evaluate(ctx, "temp1", 32.5)     // alert
	_ = p.Evaluate(ctx, "pressure1", 20)   // no alert

	if err := p.Stop(ctx); err != nil {
		// events may still be pending
	}

Stop drains the queue before returning, so every event published before it was
called reaches the subscribers.

# Packages

  - events: the alert event and sensor types
  - sensor: measurement sources and their threshold policies
  - broker: the generic queue, dispatch loop and lifecycle
  - fleet: the set of sensors of a deployment, keyed by id
  - subscriber: ready made subscribers (console, log, JSON lines, dump)
  - feed: scripted and file based reading input
*/
package tripwire

// Package sensor implements measurement sources: values with an identity, a
// type tag and a fixed threshold that raise an alert event when a reading
// crosses that threshold.
//
// Threshold policies are a closed table keyed by events.Type rather than an
// interface per sensor kind. Adding a kind means adding an events.Type constant
// and a Policy entry here.
//
// A Sensor does not know about the broker. It is handed a Publisher during
// wiring, and every triggering reading is copied into an immutable
// events.Event before it is published.
//
// Example usage:
//
//	temp := sensor.NewTemperature("temp1", 30)
//	temp.BindPublisher(sensor.PublisherFunc(func(ctx context.Context, ev events.Event) error {
//	    return b.Publish(ctx, ev)
//	}))
//	if err := temp.Evaluate(ctx, 32.5); err != nil {
//	    return err
//	}
package sensor

// Package events defines the alert record that flows from a sensor, through
// the broker, to every subscriber.
//
// An Event is an immutable snapshot of a triggering reading: it copies the
// sensor id, the sensor type, the reading and the threshold at the moment the
// threshold policy fired. Subscribers never look at the live sensor, so a
// sensor that is evaluated again before the event is dispatched cannot change
// what the subscriber sees.
//
// Event hierarchy:
//   - Type: the sensor type tag (temperature, pressure, humidity, unknown)
//   - Event: the alert snapshot, with a compact JSON codec
//
// JSON form:
//
//	{
//	  "type": "alert",
//	  "id": "0190f6a4-...",
//	  "sensor_id": "temp1",
//	  "sensor_type": "temperature",
//	  "value": 32.5,
//	  "threshold": 30,
//	  "timestamp": "2024-07-01T10:00:00.000Z",
//	  "meta": {"site": "lab"}
//	}
//
// Example usage:
//
//	ev := events.New("temp1", events.Temperature, 32.5, 30)
//	b, err := ev.MarshalJSON()
//	if err != nil {
//	    return err
//	}
//
//	var decoded events.Event
//	if err := decoded.UnmarshalJSON(b); err != nil {
//	    return err
//	}
package events

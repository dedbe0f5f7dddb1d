package subscriber

import (
	"context"
	"sync"

	"github.com/casualjim/tripwire/events"
)

// Collector records every event it receives. The zero value is ready to use.
type Collector struct {
	mu     sync.Mutex
	events []events.Event
}

// Handle is a broker.Subscriber.
func (c *Collector) Handle(_ context.Context, ev events.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
	return nil
}

// Events returns a copy of everything received so far, in delivery order.
func (c *Collector) Events() []events.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]events.Event(nil), c.events...)
}

func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

// CountByType tallies received events per sensor type.
func (c *Collector) CountByType() map[events.Type]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[events.Type]int)
	for _, ev := range c.events {
		out[ev.Type]++
	}
	return out
}

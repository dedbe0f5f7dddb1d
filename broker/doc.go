// Package broker implements an in-process publish/subscribe broker with a
// single background dispatch loop.
//
// Design decisions:
//   - Single consumer: exactly one goroutine drains the queue, so subscribers
//     never run concurrently and each event is fully fanned out before the
//     next one is dequeued
//   - Unbounded FIFO: Publish never blocks beyond lock contention; a backlog
//     warning can be configured because a slow subscriber lets the queue grow
//   - One lock: the queue, the subscriber registry and the lifecycle state
//     share a mutex and a condition variable, and the lock is never held while
//     subscriber code runs
//   - Drain on stop: Stop waits until every queued event has been dispatched,
//     bounded by a context deadline or the configured stop timeout
//   - Isolation: a subscriber that returns an error or panics is reported and
//     skipped; the loop carries on with the next subscriber and the next event
//
// Lifecycle:
//
//	Idle --Start--> Running --Stop--> Stopping --drained--> Stopped
//
// Events published while Idle are queued and delivered once the broker
// starts. Publish and Subscribe are rejected with ErrStopped once Stop has
// been called, and a stopped broker cannot be restarted.
//
// Ordering: events are delivered in the order their Publish calls acquired
// the lock. Within one event subscribers run in registration order. A
// subscriber registered while a batch is being drained may or may not see the
// rest of that batch; there is no ordering guarantee across Subscribe and
// Publish beyond FIFO within the queue.
//
// Delivery is at-most-once per subscriber per event. Nothing is retried.
//
// Example usage:
//
//	b := broker.New[events.Event](broker.WithStopTimeout(2 * time.Second))
//	sub, err := b.Subscribe(func(ctx context.Context, ev events.Event) error {
//	    fmt.Println(ev)
//	    return nil
//	})
//	if err != nil {
//	    return err
//	}
//	defer sub.Unsubscribe()
//
//	if err := b.Start(ctx); err != nil {
//	    return err
//	}
//	defer b.Stop(context.Background())
//
//	if err := b.Publish(ctx, ev); err != nil {
//	    return err
//	}
package broker

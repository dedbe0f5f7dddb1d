package broker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/casualjim/tripwire/pkg/slogx"
	"github.com/google/uuid"
)

// Broker fans events out to its subscribers from a single background goroutine.
// All methods are safe for concurrent use.
type Broker[E any] struct {
	cfg Config
	log *slog.Logger

	mu            sync.Mutex
	cond          *sync.Cond
	state         State
	queue         fifo[E]
	subs          registry[E]
	backlogWarned bool
	done          chan struct{}

	published  atomic.Uint64
	dispatched atomic.Uint64
	delivered  atomic.Uint64
	failed     atomic.Uint64
}

// New creates an idle broker. It panics when an option is invalid.
func New[E any](options ...Option) *Broker[E] {
	cfg, err := newConfig(options)
	if err != nil {
		panic(err)
	}

	b := &Broker[E]{
		cfg:  cfg,
		log:  cfg.logger.With(slogx.LoggerName("broker")),
		subs: newRegistry[E](),
		done: make(chan struct{}),
	}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Publish appends an event to the queue and wakes the dispatch loop. It never
// runs subscriber code. Events published before Start are held until the
// broker starts; after Stop has been called Publish returns ErrStopped.
func (b *Broker[E]) Publish(ctx context.Context, event E) error {
	b.mu.Lock()
	if b.state >= Stopping {
		b.mu.Unlock()
		return ErrStopped
	}
	b.queue.push(event)
	b.published.Add(1)
	pending := b.queue.len()
	warn := b.cfg.backlogWarning > 0 && pending >= b.cfg.backlogWarning && !b.backlogWarned
	if warn {
		b.backlogWarned = true
	}
	b.cond.Signal()
	b.mu.Unlock()

	if warn {
		b.log.WarnContext(ctx, "event backlog reached warning threshold",
			slog.Int("pending", pending),
			slog.Int("threshold", b.cfg.backlogWarning),
		)
	}
	return nil
}

// Subscribe registers fn to receive every event dispatched from now on.
// Subscribers registered before Start see every event.
func (b *Broker[E]) Subscribe(fn Subscriber[E]) (Subscription, error) {
	if fn == nil {
		return nil, ErrSubscriberRequired
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state >= Stopping {
		return nil, ErrStopped
	}

	id := uuid.Must(uuid.NewV7()).String()
	b.subs.add(id, fn)
	return &subscription[E]{id: id, broker: b}, nil
}

func (b *Broker[E]) unsubscribe(id string) {
	b.mu.Lock()
	removed := b.subs.remove(id)
	b.mu.Unlock()

	if removed {
		b.log.Debug("subscriber removed", slogx.Subscription(id))
	}
}

// Start launches the dispatch loop. Values carried by ctx are visible to
// subscribers; cancelling ctx does not stop the loop, Stop does.
func (b *Broker[E]) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Running:
		return ErrAlreadyStarted
	case Stopping, Stopped:
		return ErrStopped
	}

	b.state = Running
	go b.loop(context.WithoutCancel(ctx))
	b.log.DebugContext(ctx, "broker started", slog.Int("pending", b.queue.len()))
	return nil
}

// Stop asks the dispatch loop to finish and waits until every queued event
// has been dispatched. The wait is bounded by ctx, or by the configured stop
// timeout when ctx carries no deadline; on expiry Stop returns an error
// wrapping ErrStopTimeout and the broker stays in the Stopping state.
//
// Stop is idempotent: calling it on a stopped broker returns nil, and
// concurrent callers all wait for the same drain. Stopping a broker that was
// never started returns ErrNotStarted.
func (b *Broker[E]) Stop(ctx context.Context) error {
	b.mu.Lock()
	switch b.state {
	case Idle:
		b.mu.Unlock()
		return ErrNotStarted
	case Running:
		b.state = Stopping
		b.cond.Broadcast()
		b.log.DebugContext(ctx, "broker stopping", slog.Int("pending", b.queue.len()))
	}
	b.mu.Unlock()

	if _, ok := ctx.Deadline(); !ok && b.cfg.stopTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.cfg.stopTimeout)
		defer cancel()
	}

	select {
	case <-b.done:
		return nil
	case <-ctx.Done():
		pending := b.Stats().Pending
		b.log.ErrorContext(ctx, "broker did not terminate",
			slog.Int("pending", pending),
			slogx.Error(ctx.Err()),
		)
		return fmt.Errorf("%w (%d events pending): %w", ErrStopTimeout, pending, ctx.Err())
	}
}

// Done is closed once the dispatch loop has drained the queue and exited.
func (b *Broker[E]) Done() <-chan struct{} {
	return b.done
}

// State returns the current lifecycle state.
func (b *Broker[E]) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Broker[E]) Stats() Stats {
	b.mu.Lock()
	st := Stats{
		State:       b.state,
		Pending:     b.queue.len(),
		Subscribers: b.subs.len(),
	}
	b.mu.Unlock()

	st.Published = b.published.Load()
	st.Dispatched = b.dispatched.Load()
	st.Delivered = b.delivered.Load()
	st.Failed = b.failed.Load()
	return st
}

func (b *Broker[E]) loop(ctx context.Context) {
	defer close(b.done)

	b.mu.Lock()
	for {
		for b.queue.len() == 0 && b.state == Running {
			b.cond.Wait()
		}

		event, ok := b.queue.pop()
		if !ok {
			b.state = Stopped
			b.mu.Unlock()
			b.log.DebugContext(ctx, "broker stopped", slog.Uint64("dispatched", b.dispatched.Load()))
			return
		}
		if b.backlogWarned && b.queue.len() < b.cfg.backlogWarning {
			b.backlogWarned = false
		}
		subs := b.subs.current()
		b.mu.Unlock()

		b.dispatch(ctx, event, subs)

		b.mu.Lock()
	}
}

func (b *Broker[E]) dispatch(ctx context.Context, event E, subs []entry[E]) {
	for _, sub := range subs {
		if err := b.invoke(ctx, sub, event); err != nil {
			b.failed.Add(1)
			serr := &SubscriberError{Subscription: sub.id, Err: err}
			b.log.ErrorContext(ctx, "subscriber failed", slogx.Subscription(sub.id), slogx.Error(err))
			b.reportError(ctx, serr)
			continue
		}
		b.delivered.Add(1)
	}
	b.dispatched.Add(1)
}

func (b *Broker[E]) invoke(ctx context.Context, sub entry[E], event E) (err error) {
	timeout := b.cfg.subscriberTimeout
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrSubscriberPanic, r)
		}
		if elapsed := time.Since(start); timeout > 0 && elapsed > timeout {
			b.log.WarnContext(ctx, "slow subscriber",
				slogx.Subscription(sub.id),
				slog.Duration("elapsed", elapsed),
				slog.Duration("timeout", timeout),
			)
		}
	}()

	return sub.fn(ctx, event)
}

func (b *Broker[E]) reportError(ctx context.Context, serr *SubscriberError) {
	if b.cfg.onError == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			b.log.ErrorContext(ctx, "error handler panicked", slogx.Subscription(serr.Subscription), slog.Any("panic", r))
		}
	}()
	b.cfg.onError(ctx, serr)
}

type subscription[E any] struct {
	id     string
	broker *Broker[E]
	once   sync.Once
}

func (s *subscription[E]) ID() string {
	return s.id
}

// Unsubscribe removes the subscriber. An event already being dispatched may
// still reach it.
func (s *subscription[E]) Unsubscribe() {
	s.once.Do(func() {
		s.broker.unsubscribe(s.id)
	})
}

package broker

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrAlreadyStarted     = errors.New("broker already started")
	ErrNotStarted         = errors.New("broker not started")
	ErrStopped            = errors.New("broker stopped")
	ErrStopTimeout        = errors.New("broker did not terminate")
	ErrSubscriberRequired = errors.New("subscriber is required")
	ErrSubscriberPanic    = errors.New("subscriber panicked")
)

// Subscriber handles one event. It is invoked from the dispatch goroutine;
// a returned error is reported and does not affect other subscribers.
type Subscriber[E any] func(ctx context.Context, event E) error

// Subscription is the handle returned by Subscribe.
type Subscription interface {
	ID() string
	Unsubscribe()
}

// ErrorHandler is called from the dispatch goroutine for every failed subscriber call.
type ErrorHandler func(context.Context, *SubscriberError)

// SubscriberError describes a failed subscriber invocation.
type SubscriberError struct {
	Subscription string
	Err          error
}

func (e *SubscriberError) Error() string {
	return fmt.Sprintf("subscription %s: %v", e.Subscription, e.Err)
}

func (e *SubscriberError) Unwrap() error {
	return e.Err
}

// State is the lifecycle state of a broker.
type State uint8

const (
	Idle State = iota
	Running
	Stopping
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Stats is a point-in-time view of broker counters.
type Stats struct {
	State       State
	Pending     int
	Subscribers int
	Published   uint64
	Dispatched  uint64
	Delivered   uint64
	Failed      uint64
}

package broker

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/fogfish/opts"
)

const defaultStopTimeout = 5 * time.Second

// Config holds the tunables of a broker. It is populated through Options.
type Config struct {
	stopTimeout       time.Duration
	subscriberTimeout time.Duration
	backlogWarning    int
	logger            *slog.Logger
	onError           ErrorHandler
}

type Option = opts.Option[Config]

var (
	// WithStopTimeout bounds how long Stop waits for the queue to drain when
	// the context passed to Stop has no deadline. Zero waits indefinitely.
	WithStopTimeout = opts.ForName[Config, time.Duration]("stopTimeout")

	// WithSubscriberTimeout gives every subscriber call a context with this
	// deadline and logs calls that overrun it. Subscribers must honour the
	// context for the bound to take effect.
	WithSubscriberTimeout = opts.ForName[Config, time.Duration]("subscriberTimeout")

	// WithBacklogWarning logs a warning when the number of pending events reaches n.
	WithBacklogWarning = opts.ForName[Config, int]("backlogWarning")

	WithLogger = opts.ForName[Config, *slog.Logger]("logger")

	// WithErrorHandler registers a callback for subscriber failures, in
	// addition to the error log line.
	WithErrorHandler = opts.ForName[Config, ErrorHandler]("onError")
)

func newConfig(options []Option) (Config, error) {
	cfg := Config{
		stopTimeout: defaultStopTimeout,
	}
	if err := opts.Apply(&cfg, options); err != nil {
		return cfg, err
	}
	if cfg.stopTimeout < 0 {
		return cfg, fmt.Errorf("stop timeout must not be negative: %s", cfg.stopTimeout)
	}
	if cfg.subscriberTimeout < 0 {
		return cfg, fmt.Errorf("subscriber timeout must not be negative: %s", cfg.subscriberTimeout)
	}
	if cfg.backlogWarning < 0 {
		return cfg, fmt.Errorf("backlog warning must not be negative: %d", cfg.backlogWarning)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return cfg, nil
}

package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/casualjim/tripwire/broker"
	"github.com/casualjim/tripwire/events"
	"github.com/casualjim/tripwire/internal/config"
	"github.com/casualjim/tripwire/subscriber"
)

func alertSubscriber(cfg config.OutputConfig, w io.Writer, logger *slog.Logger) (broker.Subscriber[events.Event], error) {
	switch cfg.Format {
	case "console":
		return subscriber.Console(w, cfg.Color), nil
	case "log":
		return subscriber.Logging(logger), nil
	case "json":
		return subscriber.JSONLines(w), nil
	case "dump":
		return subscriber.Dump(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", cfg.Format)
	}
}

func printSummary(w io.Writer, c *subscriber.Collector, st broker.Stats) {
	counts := c.CountByType()
	fmt.Fprintf(w, "\n%d alerts received, %d published, %d pending\n", c.Len(), st.Published, st.Pending)
	for _, typ := range events.Types() {
		if n := counts[typ]; n > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", typ, n)
		}
	}
	if st.Failed > 0 {
		fmt.Fprintf(w, "  %d subscriber failures\n", st.Failed)
	}
}

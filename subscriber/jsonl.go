package subscriber

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/casualjim/tripwire/broker"
	"github.com/casualjim/tripwire/events"
	json "github.com/goccy/go-json"
)

// JSONLines writes each event as one JSON document followed by a newline.
func JSONLines(w io.Writer) broker.Subscriber[events.Event] {
	var mu sync.Mutex
	return func(_ context.Context, ev events.Event) error {
		b, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("failed to marshal event %s: %w", ev.ID, err)
		}
		b = append(b, '\n')

		mu.Lock()
		defer mu.Unlock()
		_, err = w.Write(b)
		return err
	}
}

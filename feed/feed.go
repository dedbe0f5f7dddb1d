// Package feed drives readings into sensors: a scripted replay for demos and
// tests, and a tail of a plain text file for live input.
//
// The line format is "<sensor-id> <value>", one reading per line. Blank lines
// and lines starting with '#' are ignored.
package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/casualjim/tripwire/pkg/slogx"
)

var ErrMalformedReading = errors.New("malformed reading")

// Target receives readings. fleet.Fleet and tripwire.Pipeline both satisfy it.
type Target interface {
	Evaluate(ctx context.Context, sensorID string, value float64) error
}

// Reading is a single measurement addressed to a sensor id.
type Reading struct {
	SensorID string  `json:"sensor" mapstructure:"sensor"`
	Value    float64 `json:"value" mapstructure:"value"`
}

func (r Reading) String() string {
	return r.SensorID + " " + strconv.FormatFloat(r.Value, 'f', -1, 64)
}

// ParseLine parses one line of feed input. ok is false for blank lines and
// comments.
func ParseLine(line string) (r Reading, ok bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Reading{}, false, nil
	}

	fields := strings.Fields(line)
	if len(fields) != 2 {
		return Reading{}, false, fmt.Errorf("%w: expected \"<sensor> <value>\", got %q", ErrMalformedReading, line)
	}
	v, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return Reading{}, false, fmt.Errorf("%w: %q: %w", ErrMalformedReading, line, err)
	}
	return Reading{SensorID: fields[0], Value: v}, true, nil
}

// Replay evaluates readings in order, pausing interval between them. Failed
// readings are logged and skipped. It returns early with ctx's error when ctx
// is cancelled.
func Replay(ctx context.Context, target Target, readings []Reading, interval time.Duration) error {
	log := logger()
	for i, r := range readings {
		if i > 0 && interval > 0 {
			t := time.NewTimer(interval)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		evaluate(ctx, log, target, r)
	}
	return nil
}

func evaluate(ctx context.Context, log *slog.Logger, target Target, r Reading) {
	if err := target.Evaluate(ctx, r.SensorID, r.Value); err != nil {
		log.WarnContext(ctx, "reading rejected",
			slogx.SensorID(r.SensorID),
			slog.Float64("value", r.Value),
			slogx.Error(err),
		)
	}
}

func logger() *slog.Logger {
	return slog.Default().With(slogx.LoggerName("feed"))
}

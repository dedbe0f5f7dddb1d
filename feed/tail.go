package feed

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/casualjim/tripwire/pkg/slogx"
	"github.com/fsnotify/fsnotify"
)

// Tail evaluates every reading already in the file at path, then follows the
// file and evaluates lines as they are appended. Malformed lines and rejected
// readings are logged and skipped. Tail blocks until ctx is done and then
// returns nil; a partial trailing line is held back until its newline arrives.
func Tail(ctx context.Context, path string, target Target) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open feed: %w", err)
	}
	defer f.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// watch before the first read so appends racing with it are not missed
	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	log := logger().With(slog.String("path", path))
	t := &tailer{
		r:      bufio.NewReader(f),
		target: target,
		log:    log,
	}
	if err := t.drain(ctx); err != nil {
		return err
	}
	log.DebugContext(ctx, "following feed")

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				log.WarnContext(ctx, "feed file went away, no longer following")
				<-ctx.Done()
				return nil
			}
			if ev.Has(fsnotify.Write) {
				if err := t.drain(ctx); err != nil {
					return err
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.ErrorContext(ctx, "watcher error", slogx.Error(err))
		}
	}
}

type tailer struct {
	r       *bufio.Reader
	partial strings.Builder
	target  Target
	log     *slog.Logger
}

// drain consumes every complete line currently readable.
func (t *tailer) drain(ctx context.Context) error {
	for {
		chunk, err := t.r.ReadString('\n')
		t.partial.WriteString(chunk)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read feed: %w", err)
		}

		line := t.partial.String()
		t.partial.Reset()

		r, ok, perr := ParseLine(line)
		if perr != nil {
			t.log.WarnContext(ctx, "skipping malformed line", slogx.Error(perr))
			continue
		}
		if ok {
			evaluate(ctx, t.log, t.target, r)
		}
	}
}

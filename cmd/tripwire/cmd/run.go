package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/casualjim/tripwire"
	"github.com/casualjim/tripwire/broker"
	"github.com/casualjim/tripwire/feed"
	"github.com/casualjim/tripwire/internal/config"
	"github.com/casualjim/tripwire/pkg/slogx"
	"github.com/casualjim/tripwire/subscriber"
	"github.com/spf13/cobra"
)

type runOptions struct {
	*rootOptions
	feedFile string
	output   string
	summary  bool
	noColor  bool
}

func newRunCmd(ro *rootOptions) *cobra.Command {
	o := &runOptions{rootOptions: ro}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate readings and report alerts",
		Long: `Run registers the configured sensors, replays the scripted readings and,
when a feed file is set, follows it until interrupted.

Example:
  tripwire run                          # demo fleet and readings
  tripwire run --feed readings.txt      # follow a file of "<sensor> <value>" lines
  tripwire run --output json --summary`,
		RunE: o.run,
	}

	cmd.Flags().StringVar(&o.feedFile, "feed", "", "file to follow for readings (overrides feed.file)")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "alert output: console, log, json or dump (overrides output.format)")
	cmd.Flags().BoolVar(&o.summary, "summary", false, "print alert counts on exit")
	cmd.Flags().BoolVar(&o.noColor, "no-color", false, "disable coloured console output")
	return cmd
}

func (o *runOptions) run(cmd *cobra.Command, _ []string) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}
	if o.feedFile != "" {
		cfg.Feed.File = o.feedFile
	}
	if o.output != "" {
		cfg.Output.Format = o.output
	}
	if o.summary {
		cfg.Output.Summary = true
	}
	if o.noColor {
		cfg.Output.Color = false
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := newLogger(cfg.Logging, cmd.ErrOrStderr())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runPipeline(ctx, cfg, cmd, logger)
}

func runPipeline(ctx context.Context, cfg *config.Config, cmd *cobra.Command, logger *slog.Logger) error {
	options := append(cfg.Broker.Options(), broker.WithLogger(logger))
	p := tripwire.New(options...)

	specs, err := cfg.Specs()
	if err != nil {
		return err
	}
	for _, spec := range specs {
		if _, err := p.AddSpec(spec); err != nil {
			return fmt.Errorf("failed to register sensor: %w", err)
		}
	}

	alerts, err := alertSubscriber(cfg.Output, cmd.OutOrStdout(), logger)
	if err != nil {
		return err
	}
	if _, err := p.Subscribe(alerts); err != nil {
		return err
	}
	var collected subscriber.Collector
	if cfg.Output.Summary {
		if _, err := p.Subscribe(collected.Handle); err != nil {
			return err
		}
	}

	if err := p.Start(ctx); err != nil {
		return fmt.Errorf("failed to start pipeline: %w", err)
	}
	logger.InfoContext(ctx, "pipeline started",
		slog.Int("sensors", p.Fleet().Len()),
		slog.String("output", cfg.Output.Format),
	)

	feedErr := feedReadings(ctx, cfg.Feed, p)

	// the signal context may already be cancelled; draining is bounded by the stop timeout
	stopErr := p.Stop(context.WithoutCancel(ctx))
	if stopErr != nil {
		logger.ErrorContext(ctx, "pipeline did not drain", slogx.Error(stopErr))
	} else {
		logger.InfoContext(ctx, "pipeline stopped")
	}

	if cfg.Output.Summary {
		printSummary(cmd.OutOrStdout(), &collected, p.Stats())
	}
	return errors.Join(feedErr, stopErr)
}

func feedReadings(ctx context.Context, cfg config.FeedConfig, target feed.Target) error {
	if err := feed.Replay(ctx, target, cfg.Readings, cfg.Interval); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	if cfg.File == "" {
		return nil
	}
	return feed.Tail(ctx, cfg.File, target)
}

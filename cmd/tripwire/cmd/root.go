// Package cmd contains the CLI commands for tripwire.
package cmd

import (
	"fmt"

	"github.com/casualjim/tripwire/internal/config"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// SetVersionInfo sets version information from the main package.
func SetVersionInfo(v, bt, gc string) {
	version = v
	buildTime = bt
	gitCommit = gc
}

type rootOptions struct {
	cfgFile string
	verbose bool
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	ro := &rootOptions{}

	root := &cobra.Command{
		Use:   "tripwire",
		Short: "Threshold alerts for sensor readings",
		Long: `tripwire feeds sensor readings through threshold policies and reports
every reading that crosses its threshold.

Readings come from the scripted feed in the configuration and, optionally,
from a file that is followed as lines are appended to it.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&ro.cfgFile, "config", "", "config file (default: ./tripwire.yaml or ~/.tripwire/tripwire.yaml)")
	root.PersistentFlags().BoolVarP(&ro.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newRunCmd(ro),
		newSensorsCmd(ro),
		newSchemaCmd(),
		newVersionCmd(),
	)
	return root
}

func (ro *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(ro.cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if ro.verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "tripwire %s\n", version)
			fmt.Fprintf(out, "  Build time: %s\n", buildTime)
			fmt.Fprintf(out, "  Git commit: %s\n", gitCommit)
		},
	}
}

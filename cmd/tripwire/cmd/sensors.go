package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/casualjim/tripwire/events"
	"github.com/casualjim/tripwire/fleet"
	"github.com/casualjim/tripwire/sensor"
	"github.com/spf13/cobra"
)

func newSensorsCmd(ro *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sensors",
		Short: "List the configured sensors",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ro.loadConfig()
			if err != nil {
				return err
			}
			specs, err := cfg.Specs()
			if err != nil {
				return err
			}

			f := fleet.New()
			for _, spec := range specs {
				if _, err := f.AddSpec(spec); err != nil {
					return err
				}
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTYPE\tTHRESHOLD\tALERTS WHEN")
			for _, s := range f.Sensors() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID(), s.Type(), events.FormatValue(s.Threshold()), sensor.Describe(s.Type()))
			}
			return tw.Flush()
		},
	}
}

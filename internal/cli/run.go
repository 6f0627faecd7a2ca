package cli

import (
	"github.com/spf13/cobra"

	"NewsPulse/internal/app"
)

func newRunCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline once and update the summary table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := app.New(cmd.Context(), opts.cfg, opts.logger)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.Run(cmd.Context())
			opts.out.runReport(report)
			return err
		},
	}
}

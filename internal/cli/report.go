package cli

import (
	"github.com/spf13/cobra"

	"NewsPulse/internal/app"
)

func newReportCommand(opts *options) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the trailing window of the summary table",
		Long: `report shows the same view as the dashboard: the last N days ending at the
latest stored date (N is clamped to 3..30) and the summed sentiment counts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view, err := app.Report(cmd.Context(), opts.cfg, days)
			if err != nil {
				return err
			}
			return opts.out.summaryTable(view)
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "trailing window in days (3..30)")
	return cmd
}

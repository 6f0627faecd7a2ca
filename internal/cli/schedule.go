package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"NewsPulse/internal/app"
)

func newScheduleCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Run the pipeline now and then on every scheduler interval",
		Long: `schedule keeps running until interrupted (SIGINT or SIGTERM). A failed run is
logged and the next interval still fires.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, opts.cfg, opts.logger)
			if err != nil {
				return err
			}
			defer a.Close()

			return a.Schedule(ctx)
		},
	}
}

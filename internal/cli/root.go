// Package cli contains the newspulse commands.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"NewsPulse/internal/config"
	"NewsPulse/internal/logging"
)

// options holds the persistent flags and what they resolve to.
type options struct {
	configPath string
	envFile    string
	logLevel   string
	noColor    bool

	cfg    config.Config
	logger *slog.Logger
	out    *printer
	stderr io.Writer
}

// NewRootCommand builds the command tree writing to stdout and stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	opts := &options{stderr: stderr}

	root := &cobra.Command{
		Use:   "newspulse",
		Short: "News sentiment summary pipeline",
		Long: `newspulse fetches news articles for a topic, scores their sentiment and keeps
a per-day summary table that the dashboard reads.

Example usage:
  newspulse run                 # one fetch, score, aggregate, merge cycle
  newspulse schedule            # run now and then on the configured interval
  newspulse report --days 14    # print the trailing window from the summary table`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.init(stdout)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "YAML config file (default $NEWSPULSE_CONFIG)")
	flags.StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before the environment is read")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable coloured output")

	root.AddCommand(
		newRunCommand(opts),
		newScheduleCommand(opts),
		newReportCommand(opts),
	)
	return root
}

func (o *options) init(stdout io.Writer) error {
	if err := config.LoadEnvFile(o.envFile); err != nil {
		return err
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}

	o.cfg = cfg
	o.logger = logging.New(o.stderr, cfg.Logging.Level, cfg.Logging.Format)
	o.out = newPrinter(stdout, !o.noColor)

	o.logger.Debug("configuration loaded",
		"query", cfg.Search.Query,
		"window_days", cfg.Search.WindowDays,
		"store", cfg.Store.Path,
		"scorer", cfg.Scorer.Kind,
	)
	return nil
}

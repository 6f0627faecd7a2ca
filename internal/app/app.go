package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"NewsPulse/internal/config"
	"NewsPulse/internal/domain"
	"NewsPulse/internal/infrastructure/metrics"
	"NewsPulse/internal/infrastructure/ml"
	"NewsPulse/internal/infrastructure/newsapi"
	"NewsPulse/internal/infrastructure/scheduler"
	"NewsPulse/internal/infrastructure/storage"
	"NewsPulse/internal/infrastructure/telegram"
	"NewsPulse/internal/logging"
	"NewsPulse/internal/ports"
	"NewsPulse/internal/sentiment"
	"NewsPulse/internal/summary"
	"NewsPulse/internal/usecase"
)

const shutdownTimeout = 30 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
	db       *sql.DB
}

// New validates cfg and builds the pipeline with every configured adapter.
// An unreachable mirror database is logged and skipped; it never blocks a run.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if baseLogger == nil {
		baseLogger = logging.New(nil, cfg.Logging.Level, cfg.Logging.Format)
	}

	recorder := metrics.NewRecorder(cfg.Metrics.Textfile)

	fetcher := newsapi.NewFetcher(
		&http.Client{Timeout: cfg.Search.Timeout},
		newsapi.Options{
			Endpoint:          cfg.Search.Endpoint,
			APIKey:            cfg.Search.APIKey,
			SearchIn:          cfg.Search.SearchIn,
			Language:          cfg.Search.Language,
			SortBy:            cfg.Search.SortBy,
			PageSize:          cfg.Search.PageSize,
			MaxPages:          cfg.Search.MaxPages,
			RequestsPerSecond: cfg.Search.RequestsPerSecond,
			Concurrency:       cfg.Search.Concurrency,
			MaxRetries:        cfg.Search.MaxRetries,
		},
		baseLogger.With("component", "fetcher"),
	)
	fetcher.SetObserver(recorder)

	scorer, err := newScorerRegistry(cfg.Scorer).Resolve(cfg.Scorer.Kind)
	if err != nil {
		return nil, fmt.Errorf("resolve scorer: %w", err)
	}

	a := &Application{cfg: cfg, logger: baseLogger}

	var mirror ports.SummaryMirror
	if cfg.Database.DSN != "" {
		mirror = a.openMirror(ctx)
	}

	var notifier ports.Notifier
	if tg := cfg.Notifications.Telegram; tg.Enabled() {
		notifier = telegram.NewNotifier(tg.APIURL, tg.BotToken, tg.ChatID)
	}

	store := storage.NewCSVStore(cfg.Store.Path)
	baseLogger.Debug("adapters ready",
		"store", store.Path(),
		"scorer", cfg.Scorer.Kind,
		"mirror", mirror != nil,
		"notifier", notifier != nil,
	)

	a.pipeline, err = usecase.NewPipeline(usecase.PipelineDeps{
		Source:     fetcher,
		Scorer:     scorer,
		Store:      store,
		Mirror:     mirror,
		Notifier:   notifier,
		Metrics:    recorder,
		Logger:     baseLogger.With("component", "pipeline"),
		Query:      cfg.Search.Query,
		WindowDays: cfg.Search.WindowDays,
	})
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	return a, nil
}

func newScorerRegistry(cfg config.ScorerConfig) *sentiment.Registry {
	registry := sentiment.NewRegistry()
	registry.Register("remote", func() (ports.SentimentScorer, error) {
		if cfg.InferenceURL == "" {
			return nil, &domain.ConfigurationError{Field: "scorer.inferenceUrl", Reason: "required for the remote scorer"}
		}
		return ml.NewClient(cfg.InferenceURL, cfg.APIKey, cfg.Timeout), nil
	})
	return registry
}

func (a *Application) openMirror(ctx context.Context) ports.SummaryMirror {
	logger := a.logger.With("component", "mirror")

	db, err := storage.OpenPostgres(ctx, a.cfg.Database.DSN)
	if err != nil {
		logger.Warn("postgres mirror disabled", "error", err)
		return nil
	}

	mirror := storage.NewPostgresMirror(db, a.cfg.Database.Table)
	if err := mirror.EnsureSchema(ctx); err != nil {
		logger.Warn("postgres mirror disabled", "error", err)
		_ = db.Close()
		return nil
	}

	a.db = db
	return mirror
}

// Run performs a single pipeline execution.
func (a *Application) Run(ctx context.Context) (domain.RunReport, error) {
	return a.pipeline.Run(ctx)
}

// Schedule runs the pipeline on the configured interval until ctx is cancelled.
func (a *Application) Schedule(ctx context.Context) error {
	driver := scheduler.NewIntervalScheduler(a.cfg.Scheduler.Interval, a.cfg.Scheduler.Location())
	jobs := usecase.NewScheduler(driver, a.pipeline, a.logger.With("component", "scheduler"))

	if err := jobs.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("scheduler started", "interval", a.cfg.Scheduler.Interval, "timezone", a.cfg.Scheduler.Location().String())

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := jobs.Stop(stopCtx); err != nil {
		return fmt.Errorf("stop scheduler: %w", err)
	}
	a.logger.Info("scheduler stopped")
	return nil
}

// Close releases the mirror connection pool.
func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// ReportView is the trailing-window view the dashboard renders.
type ReportView struct {
	Days   int
	Rows   []domain.DailySummaryRow
	Totals domain.DailySummaryRow
}

// Report reads the summary table and returns the trailing window of days.
// It needs only the store settings, so no API credentials are required.
func Report(ctx context.Context, cfg config.Config, days int) (ReportView, error) {
	if cfg.Store.Path == "" {
		return ReportView{}, &domain.ConfigurationError{Field: "store.path", Reason: "must not be empty"}
	}

	rows, err := storage.NewCSVStore(cfg.Store.Path).Load(ctx)
	if err != nil {
		return ReportView{}, fmt.Errorf("load summary: %w", err)
	}

	window := summary.Window(rows, days)
	return ReportView{
		Days:   summary.ClampWindow(days),
		Rows:   window,
		Totals: summary.Totals(window),
	}, nil
}

// IsConfigurationError reports whether err stems from invalid settings.
func IsConfigurationError(err error) bool {
	var cfgErr *domain.ConfigurationError
	return errors.As(err, &cfgErr)
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"NewsPulse/internal/domain"
	"NewsPulse/internal/logging"
	"NewsPulse/internal/ports"
	"NewsPulse/internal/sentiment"
	"NewsPulse/internal/summary"
)

// Warning kinds reported to metrics.
const (
	WarningMirror  = "mirror"
	WarningNotify  = "notify"
	WarningMetrics = "metrics"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
// Mirror, Notifier, Metrics, Logger, Clock and OnTransition are optional.
type PipelineDeps struct {
	Source   ports.ArticleSource
	Scorer   ports.SentimentScorer
	Store    ports.SummaryStore
	Mirror   ports.SummaryMirror
	Notifier ports.Notifier
	Metrics  ports.RunMetrics
	Logger   *slog.Logger
	Clock    func() time.Time

	Query      string
	WindowDays int

	OnTransition func(from, to domain.RunState)
}

// Pipeline implements the fetch, score, aggregate and merge workflow.
type Pipeline struct {
	source   ports.ArticleSource
	scorer   ports.SentimentScorer
	store    ports.SummaryStore
	mirror   ports.SummaryMirror
	notifier ports.Notifier
	metrics  ports.RunMetrics
	logger   *slog.Logger
	clock    func() time.Time

	query      string
	windowDays int

	onTransition func(from, to domain.RunState)
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) (*Pipeline, error) {
	switch {
	case deps.Source == nil:
		return nil, &domain.ConfigurationError{Field: "pipeline.source", Reason: "article source is required"}
	case deps.Scorer == nil:
		return nil, &domain.ConfigurationError{Field: "pipeline.scorer", Reason: "sentiment scorer is required"}
	case deps.Store == nil:
		return nil, &domain.ConfigurationError{Field: "pipeline.store", Reason: "summary store is required"}
	case deps.Query == "":
		return nil, &domain.ConfigurationError{Field: "search.query", Reason: "must not be empty"}
	case deps.WindowDays < 1:
		return nil, &domain.ConfigurationError{Field: "search.windowDays", Reason: "must be at least 1"}
	}

	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Pipeline{
		source:       deps.Source,
		scorer:       deps.Scorer,
		store:        deps.Store,
		mirror:       deps.Mirror,
		notifier:     deps.Notifier,
		metrics:      deps.Metrics,
		logger:       logger,
		clock:        clock,
		query:        deps.Query,
		windowDays:   deps.WindowDays,
		onTransition: deps.OnTransition,
	}, nil
}

// run carries the state of one execution.
type run struct {
	report domain.RunReport
	logger *slog.Logger
}

// Run executes the pipeline once. The store is written only after a successful
// merge; on failure it is left untouched and the returned error names the stage.
func (p *Pipeline) Run(ctx context.Context) (domain.RunReport, error) {
	r := &run{
		report: domain.RunReport{
			RunID:      uuid.NewString(),
			Query:      p.query,
			WindowDays: p.windowDays,
			StartedAt:  p.clock(),
			State:      domain.StateIdle,
		},
	}
	r.logger = p.logger.With("run_id", r.report.RunID)
	r.logger.Info("run started", "query", p.query, "window_days", p.windowDays)

	p.transition(r, domain.StateFetching)
	articles, err := p.source.Fetch(ctx, p.query, p.windowDays)
	if err != nil {
		return p.fail(ctx, r, fmt.Errorf("fetch articles: %w", err))
	}
	r.report.Articles = len(articles)

	p.transition(r, domain.StateScoring)
	scored, err := sentiment.Annotate(ctx, p.scorer, articles)
	if err != nil {
		return p.fail(ctx, r, fmt.Errorf("score articles: %w", err))
	}

	p.transition(r, domain.StateAggregating)
	incoming, err := summary.Aggregate(scored)
	if err != nil {
		return p.fail(ctx, r, fmt.Errorf("aggregate: %w", err))
	}
	r.report.IncomingDays = incoming

	p.transition(r, domain.StateMerging)
	existing, err := p.store.Load(ctx)
	if err != nil {
		return p.fail(ctx, r, fmt.Errorf("load summary: %w", err))
	}
	merged := summary.Merge(existing, incoming)
	if err := ctx.Err(); err != nil {
		return p.fail(ctx, r, err)
	}
	if err := p.store.Save(ctx, merged); err != nil {
		return p.fail(ctx, r, fmt.Errorf("save summary: %w", err))
	}
	r.report.StoredDays = len(merged)

	p.transition(r, domain.StatePersisted)
	r.report.FinishedAt = p.clock()

	if p.mirror != nil {
		if err := p.mirror.Upsert(ctx, merged); err != nil {
			p.warn(r, WarningMirror, err)
		}
	}
	if p.notifier != nil {
		if err := p.notifier.PublishReport(ctx, r.report); err != nil {
			p.warn(r, WarningNotify, err)
		}
	}

	r.logger.Info("run persisted",
		"articles", r.report.Articles,
		"incoming_days", len(incoming),
		"stored_days", r.report.StoredDays,
		"duration", r.report.Duration(),
		"warnings", len(r.report.Warnings),
	)
	p.record(r)
	return r.report, nil
}

func (p *Pipeline) fail(ctx context.Context, r *run, err error) (domain.RunReport, error) {
	stage := r.report.State
	err = fmt.Errorf("%s: %w", stage, err)

	r.report.FailedStage = stage
	r.report.Err = err
	p.transition(r, domain.StateFailed)
	r.report.FinishedAt = p.clock()

	attrs := []any{"stage", stage, "error", err}
	var fetchErr *domain.FetchFailure
	if errors.As(err, &fetchErr) {
		attrs = append(attrs, "day", fetchErr.Day, "status", fetchErr.Status)
	}
	r.logger.Error("run failed", attrs...)

	if p.notifier != nil && ctx.Err() == nil {
		if nErr := p.notifier.PublishReport(ctx, r.report); nErr != nil {
			p.warn(r, WarningNotify, nErr)
		}
	}

	p.record(r)
	return r.report, err
}

func (p *Pipeline) transition(r *run, to domain.RunState) {
	from := r.report.State
	if from.Terminal() {
		r.logger.Warn("ignoring transition out of terminal state", "from", from, "to", to)
		return
	}
	r.report.State = to
	r.logger.Debug("state transition", "from", from, "to", to)
	if p.onTransition != nil {
		p.onTransition(from, to)
	}
}

func (p *Pipeline) warn(r *run, kind string, err error) {
	r.report.Warnings = append(r.report.Warnings, fmt.Sprintf("%s: %v", kind, err))
	r.logger.Warn("post-run step failed", "kind", kind, "error", err)
	if p.metrics != nil {
		p.metrics.ObserveWarning(kind)
	}
}

func (p *Pipeline) record(r *run) {
	if p.metrics == nil {
		return
	}
	p.metrics.ObserveRun(r.report)
	if err := p.metrics.Flush(); err != nil {
		r.logger.Warn("flush metrics", "error", err)
	}
}

// Package metrics provides Prometheus metrics for pipeline runs.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"NewsPulse/internal/domain"
	"NewsPulse/internal/ports"
)

const namespace = "newspulse"

// Recorder owns a private registry. With a textfile path, Flush writes it in the
// node_exporter textfile format; otherwise Flush is a no-op.
type Recorder struct {
	registry *prometheus.Registry
	textfile string

	runsTotal     *prometheus.CounterVec
	runDuration   prometheus.Histogram
	articles      prometheus.Gauge
	incomingDays  prometheus.Gauge
	storedDays    prometheus.Gauge
	lastSuccess   prometheus.Gauge
	warningsTotal *prometheus.CounterVec
	pagesTotal    *prometheus.CounterVec
	pageDuration  prometheus.Histogram
}

var _ ports.RunMetrics = (*Recorder)(nil)

// NewRecorder registers all collectors on a fresh registry.
func NewRecorder(textfile string) *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		textfile: textfile,

		runsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Pipeline runs by terminal state and failed stage",
			},
			[]string{"state", "stage"},
		),
		runDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Wall time of pipeline runs",
				Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
			},
		),
		articles: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_run_articles",
				Help:      "Articles fetched by the last run",
			},
		),
		incomingDays: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_run_incoming_days",
				Help:      "Summary rows produced by the last run",
			},
		),
		storedDays: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "stored_days",
				Help:      "Rows in the summary table after the last successful run",
			},
		),
		lastSuccess: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_success_timestamp_seconds",
				Help:      "Unix time of the last persisted run",
			},
		),
		warningsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "warnings_total",
				Help:      "Non-fatal post-persist failures",
			},
			[]string{"kind"},
		),
		pagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "search_requests_total",
				Help:      "Search API page requests by HTTP status (0 means no response)",
			},
			[]string{"status"},
		),
		pageDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_request_duration_seconds",
				Help:      "Latency of search API page requests",
				Buckets:   prometheus.ExponentialBuckets(0.1, 2, 8),
			},
		),
	}
}

// ObserveRun records the outcome of a finished run.
func (r *Recorder) ObserveRun(report domain.RunReport) {
	r.runsTotal.WithLabelValues(string(report.State), string(report.FailedStage)).Inc()
	r.runDuration.Observe(report.Duration().Seconds())
	r.articles.Set(float64(report.Articles))
	r.incomingDays.Set(float64(len(report.IncomingDays)))

	if report.State == domain.StatePersisted {
		r.storedDays.Set(float64(report.StoredDays))
		r.lastSuccess.Set(float64(report.FinishedAt.Unix()))
	}
}

// ObserveWarning counts a non-fatal failure of the given kind.
func (r *Recorder) ObserveWarning(kind string) {
	r.warningsTotal.WithLabelValues(kind).Inc()
}

// ObservePage records one search API request.
func (r *Recorder) ObservePage(status int, elapsed time.Duration) {
	r.pagesTotal.WithLabelValues(strconv.Itoa(status)).Inc()
	r.pageDuration.Observe(elapsed.Seconds())
}

// Flush writes the registry to the textfile, if configured.
func (r *Recorder) Flush() error {
	if r.textfile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(r.textfile, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

package ports

import (
	"context"
	"time"

	"NewsPulse/internal/domain"
)

// ArticleSource pulls articles for every day window of a rolling period.
type ArticleSource interface {
	Fetch(ctx context.Context, query string, windowDays int) ([]domain.RawArticle, error)
}

// SentimentScorer maps text to a polarity in [-1, 1].
type SentimentScorer interface {
	Score(ctx context.Context, text string) (float64, error)
}

// SummaryStore is the durable date-keyed summary table read by the dashboard.
type SummaryStore interface {
	Load(ctx context.Context) ([]domain.DailySummaryRow, error)
	Save(ctx context.Context, rows []domain.DailySummaryRow) error
}

// SummaryMirror receives a copy of freshly persisted rows (e.g. a SQL table).
type SummaryMirror interface {
	Upsert(ctx context.Context, rows []domain.DailySummaryRow) error
}

// Notifier publishes run outcomes to an operator channel.
type Notifier interface {
	PublishReport(ctx context.Context, report domain.RunReport) error
}

// RunMetrics records pipeline outcomes.
type RunMetrics interface {
	ObserveRun(report domain.RunReport)
	ObserveWarning(kind string)
	Flush() error
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}

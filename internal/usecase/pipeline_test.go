package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsPulse/internal/domain"
	"NewsPulse/internal/infrastructure/newsapi"
	"NewsPulse/internal/infrastructure/storage"
)

type fakeSource struct {
	articles []domain.RawArticle
	err      error
	calls    int
}

func (f *fakeSource) Fetch(context.Context, string, int) ([]domain.RawArticle, error) {
	f.calls++
	return f.articles, f.err
}

// keywordScorer maps fixed words to polarities; anything else is neutral.
type keywordScorer struct{}

func (keywordScorer) Score(_ context.Context, text string) (float64, error) {
	switch text {
	case "pos":
		return 0.6, nil
	case "neg":
		return -0.6, nil
	}
	return 0, nil
}

type fakeMirror struct {
	rows []domain.DailySummaryRow
	err  error
}

func (m *fakeMirror) Upsert(_ context.Context, rows []domain.DailySummaryRow) error {
	m.rows = rows
	return m.err
}

type fakeNotifier struct {
	reports []domain.RunReport
	err     error
}

func (n *fakeNotifier) PublishReport(_ context.Context, report domain.RunReport) error {
	n.reports = append(n.reports, report)
	return n.err
}

type fakeMetrics struct {
	mu       sync.Mutex
	runs     []domain.RunReport
	warnings []string
	flushes  int
}

func (m *fakeMetrics) ObserveRun(report domain.RunReport) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, report)
}

func (m *fakeMetrics) ObserveWarning(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warnings = append(m.warnings, kind)
}

func (m *fakeMetrics) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushes++
	return nil
}

func day(d int) time.Time {
	return time.Date(2024, time.May, d, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

// articlesFor builds articles on day d that score as pos, neg and neu.
func articlesFor(d, pos, neg, neu int) []domain.RawArticle {
	var out []domain.RawArticle
	add := func(n int, text string) {
		for i := 0; i < n; i++ {
			out = append(out, domain.RawArticle{
				ID:          fmt.Sprintf("%d-%s-%d", d, text, i),
				Title:       text,
				Description: strPtr(text),
				PublishedAt: day(d).Add(time.Duration(i+1) * time.Hour),
			})
		}
	}
	add(pos, "pos")
	add(neg, "neg")
	add(neu, "neu")
	return out
}

func summaryRow(d, total, pos, neg, neu int) domain.DailySummaryRow {
	return domain.DailySummaryRow{Date: day(d), ArticleCount: total, PositiveCount: pos, NegativeCount: neg, NeutralCount: neu}
}

func newTestPipeline(t *testing.T, deps PipelineDeps) *Pipeline {
	t.Helper()
	if deps.Scorer == nil {
		deps.Scorer = keywordScorer{}
	}
	if deps.Query == "" {
		deps.Query = "Sweden"
	}
	if deps.WindowDays == 0 {
		deps.WindowDays = 5
	}
	p, err := NewPipeline(deps)
	require.NoError(t, err)
	return p
}

func TestScenarioAEmptyStore(t *testing.T) {
	t.Parallel()

	store := storage.NewCSVStore(filepath.Join(t.TempDir(), "news_summary.csv"))
	p := newTestPipeline(t, PipelineDeps{
		Source: &fakeSource{articles: articlesFor(1, 6, 1, 3)},
		Store:  store,
	})

	report, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StatePersisted, report.State)
	assert.Equal(t, 10, report.Articles)
	assert.Equal(t, 1, report.StoredDays)
	assert.NotEmpty(t, report.RunID)

	rows, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.DailySummaryRow{summaryRow(1, 10, 6, 1, 3)}, rows)
}

func TestScenarioBAppendsNewDay(t *testing.T) {
	t.Parallel()

	store := storage.NewCSVStore(filepath.Join(t.TempDir(), "news_summary.csv"))
	require.NoError(t, store.Save(context.Background(), []domain.DailySummaryRow{summaryRow(1, 10, 6, 1, 3)}))

	p := newTestPipeline(t, PipelineDeps{
		Source: &fakeSource{articles: articlesFor(2, 2, 2, 1)},
		Store:  store,
	})

	_, err := p.Run(context.Background())
	require.NoError(t, err)

	rows, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.DailySummaryRow{
		summaryRow(1, 10, 6, 1, 3),
		summaryRow(2, 5, 2, 2, 1),
	}, rows)
}

func TestScenarioCRefetchReplacesDay(t *testing.T) {
	t.Parallel()

	store := storage.NewCSVStore(filepath.Join(t.TempDir(), "news_summary.csv"))
	require.NoError(t, store.Save(context.Background(), []domain.DailySummaryRow{summaryRow(1, 10, 6, 1, 3)}))

	p := newTestPipeline(t, PipelineDeps{
		Source: &fakeSource{articles: articlesFor(1, 7, 2, 3)},
		Store:  store,
	})

	for i := 0; i < 2; i++ {
		_, err := p.Run(context.Background())
		require.NoError(t, err)
	}

	rows, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.DailySummaryRow{summaryRow(1, 12, 7, 2, 3)}, rows)
}

func TestScenarioDFailedDayLeavesStoreUntouched(t *testing.T) {
	t.Parallel()

	windows := newsapi.Windows(time.Now(), 7)
	failingDay := windows[2].Label()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		from := r.URL.Query().Get("from")
		if from == failingDay {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"status":"error","code":"apiKeyInvalid","message":"bad key"}`))
			return
		}
		if r.URL.Query().Get("page") != "1" {
			_, _ = w.Write([]byte(`{"status":"ok","totalResults":1,"articles":[]}`))
			return
		}
		_, _ = fmt.Fprintf(w, `{"status":"ok","totalResults":1,"articles":[{"source":{"id":null,"name":"Wire"},"title":"t","description":"good news","url":"https://example.com/%s","publishedAt":"%sT12:00:00Z"}]}`, from, from)
	}))
	t.Cleanup(srv.Close)

	fetcher := newsapi.NewFetcher(srv.Client(), newsapi.Options{
		Endpoint:          srv.URL + "/v2/everything",
		APIKey:            "secret",
		PageSize:          100,
		MaxPages:          3,
		RequestsPerSecond: 1000,
		Concurrency:       1,
	}, nil)

	path := filepath.Join(t.TempDir(), "news_summary.csv")
	store := storage.NewCSVStore(path)
	require.NoError(t, store.Save(context.Background(), []domain.DailySummaryRow{summaryRow(1, 10, 6, 1, 3)}))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	notifier := &fakeNotifier{}
	metrics := &fakeMetrics{}
	p := newTestPipeline(t, PipelineDeps{
		Source:     fetcher,
		Store:      store,
		Notifier:   notifier,
		Metrics:    metrics,
		WindowDays: 7,
	})

	report, err := p.Run(context.Background())
	require.Error(t, err)

	var failure *domain.FetchFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, failingDay, failure.Day)
	assert.Equal(t, http.StatusUnauthorized, failure.Status)
	assert.NotContains(t, err.Error(), "secret")

	assert.Equal(t, domain.StateFailed, report.State)
	assert.Equal(t, domain.StateFetching, report.FailedStage)
	assert.Zero(t, report.StoredDays)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	require.Len(t, notifier.reports, 1)
	assert.Equal(t, domain.StateFailed, notifier.reports[0].State)
	require.Len(t, metrics.runs, 1)
	assert.Equal(t, domain.StateFailed, metrics.runs[0].State)
}

func TestScenarioEMissingDescriptionIsNeutral(t *testing.T) {
	t.Parallel()

	store := storage.NewCSVStore(filepath.Join(t.TempDir(), "news_summary.csv"))
	articles := append(articlesFor(3, 1, 0, 0), domain.RawArticle{
		ID:          "no-description",
		Title:       "Headline only",
		PublishedAt: day(3).Add(20 * time.Hour),
	})

	p := newTestPipeline(t, PipelineDeps{
		Source: &fakeSource{articles: articles},
		Store:  store,
	})

	report, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.DailySummaryRow{summaryRow(3, 2, 1, 0, 1)}, report.IncomingDays)
}

func TestRunTransitions(t *testing.T) {
	t.Parallel()

	var got []domain.RunState
	p := newTestPipeline(t, PipelineDeps{
		Source: &fakeSource{articles: articlesFor(1, 1, 0, 0)},
		Store:  storage.NewCSVStore(filepath.Join(t.TempDir(), "news_summary.csv")),
		OnTransition: func(_, to domain.RunState) {
			got = append(got, to)
		},
	})

	_, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.RunState{
		domain.StateFetching,
		domain.StateScoring,
		domain.StateAggregating,
		domain.StateMerging,
		domain.StatePersisted,
	}, got)
}

type failingStore struct {
	loadErr error
	saveErr error
	saves   int
}

func (s *failingStore) Load(context.Context) ([]domain.DailySummaryRow, error) {
	return nil, s.loadErr
}

func (s *failingStore) Save(context.Context, []domain.DailySummaryRow) error {
	s.saves++
	return s.saveErr
}

type erroringScorer struct{}

func (erroringScorer) Score(context.Context, string) (float64, error) {
	return 0, errors.New("model unavailable")
}

func TestRunFailsAtEachStage(t *testing.T) {
	t.Parallel()

	t.Run("scoring", func(t *testing.T) {
		t.Parallel()

		store := &failingStore{}
		p := newTestPipeline(t, PipelineDeps{
			Source: &fakeSource{articles: articlesFor(1, 1, 0, 0)},
			Scorer: erroringScorer{},
			Store:  store,
		})

		report, err := p.Run(context.Background())
		require.ErrorContains(t, err, "scoring: score articles")
		assert.Equal(t, domain.StateScoring, report.FailedStage)
		assert.Zero(t, store.saves)
	})

	t.Run("load", func(t *testing.T) {
		t.Parallel()

		store := &failingStore{loadErr: &domain.PersistenceError{Op: "read", Path: "x.csv", Err: errors.New("bad header")}}
		p := newTestPipeline(t, PipelineDeps{
			Source: &fakeSource{articles: articlesFor(1, 1, 0, 0)},
			Store:  store,
		})

		report, err := p.Run(context.Background())
		var persistErr *domain.PersistenceError
		require.ErrorAs(t, err, &persistErr)
		assert.Equal(t, domain.StateMerging, report.FailedStage)
		assert.Zero(t, store.saves)
	})

	t.Run("save", func(t *testing.T) {
		t.Parallel()

		store := &failingStore{saveErr: errors.New("disk full")}
		mirror := &fakeMirror{}
		p := newTestPipeline(t, PipelineDeps{
			Source: &fakeSource{articles: articlesFor(1, 1, 0, 0)},
			Store:  store,
			Mirror: mirror,
		})

		report, err := p.Run(context.Background())
		require.ErrorContains(t, err, "merging: save summary: disk full")
		assert.Equal(t, domain.StateFailed, report.State)
		assert.Equal(t, 1, store.saves)
		assert.Nil(t, mirror.rows, "mirror must only see persisted rows")
	})
}

func TestPostPersistFailuresAreWarnings(t *testing.T) {
	t.Parallel()

	mirror := &fakeMirror{err: errors.New("connection refused")}
	notifier := &fakeNotifier{err: errors.New("telegram error: 502 Bad Gateway")}
	metrics := &fakeMetrics{}

	p := newTestPipeline(t, PipelineDeps{
		Source:   &fakeSource{articles: articlesFor(1, 6, 1, 3)},
		Store:    storage.NewCSVStore(filepath.Join(t.TempDir(), "news_summary.csv")),
		Mirror:   mirror,
		Notifier: notifier,
		Metrics:  metrics,
	})

	report, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StatePersisted, report.State)
	assert.Equal(t, []domain.DailySummaryRow{summaryRow(1, 10, 6, 1, 3)}, mirror.rows)
	assert.Equal(t, []string{
		"mirror: connection refused",
		"notify: telegram error: 502 Bad Gateway",
	}, report.Warnings)
	assert.Equal(t, []string{WarningMirror, WarningNotify}, metrics.warnings)
	assert.Equal(t, 1, metrics.flushes)
}

func TestNewPipelineRequiresCollaborators(t *testing.T) {
	t.Parallel()

	store := storage.NewCSVStore("unused.csv")
	cases := map[string]PipelineDeps{
		"source": {Scorer: keywordScorer{}, Store: store, Query: "q", WindowDays: 1},
		"scorer": {Source: &fakeSource{}, Store: store, Query: "q", WindowDays: 1},
		"store":  {Source: &fakeSource{}, Scorer: keywordScorer{}, Query: "q", WindowDays: 1},
		"query":  {Source: &fakeSource{}, Scorer: keywordScorer{}, Store: store, WindowDays: 1},
		"window": {Source: &fakeSource{}, Scorer: keywordScorer{}, Store: store, Query: "q"},
	}

	for name, deps := range cases {
		_, err := NewPipeline(deps)
		var cfgErr *domain.ConfigurationError
		assert.ErrorAs(t, err, &cfgErr, name)
	}
}

func TestTransitionIgnoredAfterTerminalState(t *testing.T) {
	t.Parallel()

	var hooked int
	p := newTestPipeline(t, PipelineDeps{
		Source:       &fakeSource{},
		Store:        &failingStore{},
		OnTransition: func(_, _ domain.RunState) { hooked++ },
	})

	for _, terminal := range []domain.RunState{domain.StatePersisted, domain.StateFailed} {
		r := &run{report: domain.RunReport{State: terminal}, logger: p.logger}
		p.transition(r, domain.StateFetching)
		assert.Equal(t, terminal, r.report.State)
	}
	assert.Zero(t, hooked)
}

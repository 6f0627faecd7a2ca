// Package newsapi retrieves articles from a NewsAPI-compatible /v2/everything endpoint.
package newsapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"NewsPulse/internal/domain"
	"NewsPulse/internal/logging"
	"NewsPulse/internal/ports"
)

// MaxPageSize is the largest page the API serves.
const MaxPageSize = 100

// Options configures query parameters, pacing and retries.
type Options struct {
	Endpoint          string
	APIKey            string
	SearchIn          string
	Language          string
	SortBy            string
	PageSize          int
	MaxPages          int
	RequestsPerSecond float64
	Concurrency       int
	MaxRetries        int
}

// PageObserver is notified after every page request; status is 0 when no response arrived.
type PageObserver interface {
	ObservePage(status int, elapsed time.Duration)
}

// Fetcher walks day windows and pages through the search results of each one.
type Fetcher struct {
	client   *http.Client
	opts     Options
	limiter  *rate.Limiter
	logger   *slog.Logger
	observer PageObserver

	now            func() time.Time
	initialBackoff time.Duration
}

var _ ports.ArticleSource = (*Fetcher)(nil)

// NewFetcher wires an HTTP client; a nil client gets a 20s timeout.
func NewFetcher(client *http.Client, opts Options, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	if opts.PageSize <= 0 || opts.PageSize > MaxPageSize {
		opts.PageSize = MaxPageSize
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = 1
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.SortBy == "" {
		opts.SortBy = "popularity"
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &Fetcher{
		client:         client,
		opts:           opts,
		limiter:        rate.NewLimiter(limit, 1),
		logger:         logger,
		now:            time.Now,
		initialBackoff: 500 * time.Millisecond,
	}
}

// SetObserver attaches request instrumentation.
func (f *Fetcher) SetObserver(o PageObserver) {
	f.observer = o
}

// Fetch returns the articles of every day window, concatenated in window order.
// The first failing window aborts the whole fetch; nothing partial is returned.
func (f *Fetcher) Fetch(ctx context.Context, query string, windowDays int) ([]domain.RawArticle, error) {
	if windowDays < 1 {
		return nil, &domain.ConfigurationError{Field: "search.windowDays", Reason: "must be at least 1"}
	}

	windows := Windows(f.now(), windowDays)
	results := make([][]domain.RawArticle, len(windows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.opts.Concurrency)

	for i, w := range windows {
		g.Go(func() error {
			articles, err := f.fetchWindow(gctx, query, w)
			if err != nil {
				return err
			}
			results[i] = articles
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var total int
	for _, r := range results {
		total += len(r)
	}
	articles := make([]domain.RawArticle, 0, total)
	for _, r := range results {
		articles = append(articles, r...)
	}

	f.logger.Debug("fetch complete", "windows", len(windows), "articles", len(articles))
	return articles, nil
}

func (f *Fetcher) fetchWindow(ctx context.Context, query string, w Window) ([]domain.RawArticle, error) {
	var collected []domain.RawArticle

	for page := 1; page <= f.opts.MaxPages; page++ {
		resp, err := f.fetchPage(ctx, query, w, page)
		if err != nil {
			return nil, err
		}
		if len(resp.Articles) == 0 {
			break
		}

		articles, err := toRawArticles(w, resp.Articles)
		if err != nil {
			return nil, err
		}
		collected = append(collected, articles...)

		f.logger.Debug("page fetched", "day", w.Label(), "page", page, "articles", len(articles), "total_results", resp.TotalResults)

		if resp.TotalResults > 0 && len(collected) >= resp.TotalResults {
			break
		}
	}

	return collected, nil
}

func (f *Fetcher) fetchPage(ctx context.Context, query string, w Window, page int) (resultPage, error) {
	pageURL, err := buildPageURL(f.opts, query, w, page)
	if err != nil {
		return resultPage{}, &domain.FetchFailure{Day: w.Label(), Detail: "build request url", Err: err}
	}

	operation := func() (resultPage, error) {
		if err := f.limiter.Wait(ctx); err != nil {
			return resultPage{}, backoff.Permanent(transportFailure(w, err))
		}
		return f.doPage(ctx, pageURL, w)
	}

	resp, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(f.newBackOff()),
		backoff.WithMaxTries(uint(f.opts.MaxRetries+1)),
		backoff.WithNotify(func(err error, next time.Duration) {
			f.logger.Warn("page request failed, retrying", "day", w.Label(), "page", page, "retry_in", next, "error", err)
		}),
	)
	if err != nil {
		var failure *domain.FetchFailure
		if !errors.As(err, &failure) {
			err = transportFailure(w, err)
		}
		return resultPage{}, err
	}
	return resp, nil
}

func (f *Fetcher) doPage(ctx context.Context, pageURL string, w Window) (resultPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return resultPage{}, backoff.Permanent(transportFailure(w, err))
	}
	req.Header.Set("User-Agent", "NewsPulse/1.0")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		f.observe(0, time.Since(start))
		failure := transportFailure(w, err)
		if ctx.Err() != nil {
			return resultPage{}, backoff.Permanent(failure)
		}
		return resultPage{}, failure
	}
	defer resp.Body.Close()
	f.observe(resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		failure := &domain.FetchFailure{Day: w.Label(), Status: resp.StatusCode, Detail: errorDetail(resp.Body)}
		if retryableStatus(resp.StatusCode) {
			return resultPage{}, failure
		}
		return resultPage{}, backoff.Permanent(failure)
	}

	decoded, err := decodeSearchResponse(resp.Body, w)
	if err != nil {
		return resultPage{}, backoff.Permanent(err)
	}
	return decoded, nil
}

func (f *Fetcher) newBackOff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = f.initialBackoff
	bo.MaxInterval = 30 * time.Second
	bo.Multiplier = 2
	return bo
}

func (f *Fetcher) observe(status int, elapsed time.Duration) {
	if f.observer != nil {
		f.observer.ObservePage(status, elapsed)
	}
}

func retryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// transportFailure builds a FetchFailure without leaking the request URL (it carries the API key).
func transportFailure(w Window, err error) *domain.FetchFailure {
	detail := err.Error()
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		detail = urlErr.Err.Error()
	}
	return &domain.FetchFailure{Day: w.Label(), Detail: detail, Err: err}
}

func buildPageURL(opts Options, query string, w Window, page int) (string, error) {
	parsed, err := url.Parse(opts.Endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid search endpoint %s: %w", opts.Endpoint, err)
	}

	q := parsed.Query()
	q.Set("q", query)
	if opts.SearchIn != "" {
		q.Set("searchIn", opts.SearchIn)
	}
	if opts.Language != "" {
		q.Set("language", opts.Language)
	}
	// from and to are inclusive calendar days upstream, so both name the window's day.
	q.Set("from", w.Label())
	q.Set("to", w.Label())
	q.Set("sortBy", opts.SortBy)
	q.Set("pageSize", strconv.Itoa(opts.PageSize))
	q.Set("page", strconv.Itoa(page))
	q.Set("apiKey", opts.APIKey)
	parsed.RawQuery = q.Encode()
	return parsed.String(), nil
}

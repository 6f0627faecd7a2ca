package domain

import "fmt"

// ConfigurationError reports a missing or invalid setting detected at startup.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Field, e.Reason)
}

// FetchFailure reports a failed page request for a day window.
// Status is zero when no HTTP response was received (transport error or timeout).
type FetchFailure struct {
	Day    string
	Status int
	Detail string
	Err    error
}

func (e *FetchFailure) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("fetch day %s: %s", e.Day, e.Detail)
	}
	return fmt.Sprintf("fetch day %s: status %d: %s", e.Day, e.Status, e.Detail)
}

func (e *FetchFailure) Unwrap() error {
	return e.Err
}

// MalformedResponse reports a payload that is missing expected fields.
// It is a FetchFailure for its day: errors.As matches both types.
type MalformedResponse struct {
	Day    string
	Detail string
	Err    error
}

func (e *MalformedResponse) Error() string {
	return fmt.Sprintf("malformed response for day %s: %s", e.Day, e.Detail)
}

func (e *MalformedResponse) Unwrap() error {
	return &FetchFailure{Day: e.Day, Detail: "malformed response: " + e.Detail, Err: e.Err}
}

// AggregationInvariantViolation reports a summary row whose counts are inconsistent.
type AggregationInvariantViolation struct {
	Row    DailySummaryRow
	Reason string
}

func (e *AggregationInvariantViolation) Error() string {
	return fmt.Sprintf("summary row %s: %s (articles=%d positive=%d negative=%d neutral=%d)",
		e.Row.DateKey(), e.Reason, e.Row.ArticleCount, e.Row.PositiveCount, e.Row.NegativeCount, e.Row.NeutralCount)
}

// PersistenceError reports an unreadable or unwritable summary store.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("summary store %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

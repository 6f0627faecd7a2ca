package domain

import "time"

// DateLayout is the calendar-day format used by the summary table.
const DateLayout = "2006-01-02"

// DailySummaryRow is the persisted per-day aggregate. Date is the primary key.
type DailySummaryRow struct {
	Date          time.Time
	ArticleCount  int
	PositiveCount int
	NegativeCount int
	NeutralCount  int
}

// Day truncates t to its UTC calendar day.
func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DateKey renders the row date as YYYY-MM-DD.
func (r DailySummaryRow) DateKey() string {
	return r.Date.UTC().Format(DateLayout)
}

// Validate checks that the counts are non-negative and that categories add up to the total.
func (r DailySummaryRow) Validate() error {
	if r.ArticleCount < 0 || r.PositiveCount < 0 || r.NegativeCount < 0 || r.NeutralCount < 0 {
		return &AggregationInvariantViolation{Row: r, Reason: "negative count"}
	}
	if r.PositiveCount+r.NegativeCount+r.NeutralCount != r.ArticleCount {
		return &AggregationInvariantViolation{Row: r, Reason: "category counts do not sum to article_count"}
	}
	return nil
}

package summary

import "NewsPulse/internal/domain"

// Dashboard window bounds, in days.
const (
	MinWindowDays = 3
	MaxWindowDays = 30
)

// Window returns the rows within the trailing window of days, anchored at the
// latest date present (not at today). Rows must be sorted ascending.
func Window(rows []domain.DailySummaryRow, days int) []domain.DailySummaryRow {
	if len(rows) == 0 {
		return nil
	}

	days = ClampWindow(days)
	latest := rows[len(rows)-1].Date
	start := latest.AddDate(0, 0, -(days - 1))

	out := make([]domain.DailySummaryRow, 0, days)
	for _, row := range rows {
		if !row.Date.Before(start) {
			out = append(out, row)
		}
	}
	return out
}

// ClampWindow bounds a requested window to the supported range.
func ClampWindow(days int) int {
	switch {
	case days < MinWindowDays:
		return MinWindowDays
	case days > MaxWindowDays:
		return MaxWindowDays
	default:
		return days
	}
}

// Totals sums the counts of rows into a single row whose Date is the latest date.
func Totals(rows []domain.DailySummaryRow) domain.DailySummaryRow {
	var total domain.DailySummaryRow
	for _, row := range rows {
		total.ArticleCount += row.ArticleCount
		total.PositiveCount += row.PositiveCount
		total.NegativeCount += row.NegativeCount
		total.NeutralCount += row.NeutralCount
		if row.Date.After(total.Date) {
			total.Date = row.Date
		}
	}
	return total
}

package summary

import (
	"time"

	"NewsPulse/internal/domain"
)

// Merge unions existing and incoming rows keyed by date. An incoming row
// replaces the existing row for the same day, so re-fetching a day overwrites
// it instead of duplicating it. The result is date-unique and ascending; the
// inputs are not modified. Merging the same incoming rows twice is a no-op.
func Merge(existing, incoming []domain.DailySummaryRow) []domain.DailySummaryRow {
	byDay := make(map[time.Time]domain.DailySummaryRow, len(existing)+len(incoming))

	for _, row := range existing {
		row.Date = domain.Day(row.Date)
		byDay[row.Date] = row
	}
	for _, row := range incoming {
		row.Date = domain.Day(row.Date)
		byDay[row.Date] = row
	}

	merged := make([]domain.DailySummaryRow, 0, len(byDay))
	for _, row := range byDay {
		merged = append(merged, row)
	}

	sortByDate(merged)
	return merged
}

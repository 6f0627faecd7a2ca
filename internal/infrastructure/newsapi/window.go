package newsapi

import (
	"time"

	"NewsPulse/internal/domain"
)

// Window is a single calendar-day range [From, To) in UTC. Requests name only
// the day itself; To is the exclusive bound used locally.
type Window struct {
	From time.Time
	To   time.Time
}

// Label is the day the window covers, as YYYY-MM-DD.
func (w Window) Label() string {
	return w.From.Format(domain.DateLayout)
}

// Windows splits the rolling period into windowDays single-day windows
// [today-i-2, today-i-1). The window ending today is skipped because the API
// indexes same-day articles incompletely. Most recent window first.
func Windows(now time.Time, windowDays int) []Window {
	today := domain.Day(now)
	windows := make([]Window, 0, windowDays)
	for i := 0; i < windowDays; i++ {
		from := today.AddDate(0, 0, -i-2)
		windows = append(windows, Window{From: from, To: from.AddDate(0, 0, 1)})
	}
	return windows
}
